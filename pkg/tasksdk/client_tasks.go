package tasksdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListTasks fetches one page of the caller's tasks.
func (c *Client) ListTasks(ctx context.Context, params ListTasksParams) (TaskPage, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}

	path := "/tasks"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out TaskPage
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return out, err
	}
	err = decodeJSON(resp, &out, http.StatusOK)
	return out, err
}

// CreateTask creates a task owned by the caller.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (Task, error) {
	var out Task
	resp, err := c.do(ctx, http.MethodPost, "/tasks", req)
	if err != nil {
		return out, err
	}
	err = decodeJSON(resp, &out, http.StatusCreated)
	return out, err
}

// GetTask fetches one task by ID.
func (c *Client) GetTask(ctx context.Context, id int64) (Task, error) {
	var out Task
	resp, err := c.do(ctx, http.MethodGet, taskPath(id), nil)
	if err != nil {
		return out, err
	}
	err = decodeJSON(resp, &out, http.StatusOK)
	return out, err
}

// UpdateTask applies a partial update. Fields left nil keep their value.
func (c *Client) UpdateTask(ctx context.Context, id int64, req UpdateTaskRequest) (Task, error) {
	var out Task
	resp, err := c.do(ctx, http.MethodPatch, taskPath(id), req)
	if err != nil {
		return out, err
	}
	err = decodeJSON(resp, &out, http.StatusOK)
	return out, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, taskPath(id), nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusNoContent)
}

// ToggleTask flips a task between PENDING and COMPLETED.
func (c *Client) ToggleTask(ctx context.Context, id int64) (Task, error) {
	var out Task
	resp, err := c.do(ctx, http.MethodPost, taskPath(id)+"/toggle", nil)
	if err != nil {
		return out, err
	}
	err = decodeJSON(resp, &out, http.StatusOK)
	return out, err
}

func taskPath(id int64) string {
	return fmt.Sprintf("/tasks/%d", id)
}
