package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/taskrail/taskrail/internal/domain"
	"github.com/taskrail/taskrail/internal/service"
	"github.com/taskrail/taskrail/pkg/httpx"
	"github.com/taskrail/taskrail/pkg/slogx"
	"github.com/taskrail/taskrail/pkg/tasksdk"
)

type TasksHandler struct {
	TaskService *service.TaskService
}

// HandleList returns one page of the caller's tasks, optionally filtered by
// status and a case-insensitive title search.
func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		tasksdk.NewAPIError(http.StatusUnauthorized, httpx.MsgInvalidAccessToken).WriteError(w)
		return
	}

	query := r.URL.Query()
	params := service.ListParams{
		Status: domain.TaskStatus(query.Get("status")),
		Search: query.Get("search"),
	}
	params.Page, _ = strconv.Atoi(query.Get("page"))
	params.PageSize, _ = strconv.Atoi(query.Get("pageSize"))

	page, err := h.TaskService.List(ctx, userID, params)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			tasksdk.ErrInvalidTaskStatus.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("list tasks failed", "err", err)
		tasksdk.ErrServerError.WriteError(w)
		return
	}

	items := make([]tasksdk.Task, 0, len(page.Items))
	for _, task := range page.Items {
		items = append(items, toWireTask(task))
	}
	httpx.WriteJSON(w, http.StatusOK, tasksdk.TaskPage{
		Items:    items,
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
	})
}

// HandleCreate creates a task owned by the caller. New tasks always start
// PENDING.
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		tasksdk.NewAPIError(http.StatusUnauthorized, httpx.MsgInvalidAccessToken).WriteError(w)
		return
	}

	var req tasksdk.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		tasksdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	task, err := h.TaskService.Create(ctx, userID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			tasksdk.ErrTitleRequired.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("create task failed", "err", err)
		tasksdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toWireTask(task))
}

// HandleGet fetches one task. Tasks belonging to other users are reported as
// not found, never as forbidden.
func (h *TasksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		tasksdk.NewAPIError(http.StatusUnauthorized, httpx.MsgInvalidAccessToken).WriteError(w)
		return
	}

	id, ok := taskIDFromPath(r)
	if !ok {
		tasksdk.ErrTaskNotFound.WriteError(w)
		return
	}

	task, err := h.TaskService.Get(ctx, userID, id)
	if err != nil {
		h.writeTaskError(ctx, w, "get task", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toWireTask(task))
}

// HandleUpdate applies a partial update. Absent fields keep their value.
func (h *TasksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		tasksdk.NewAPIError(http.StatusUnauthorized, httpx.MsgInvalidAccessToken).WriteError(w)
		return
	}

	id, ok := taskIDFromPath(r)
	if !ok {
		tasksdk.ErrTaskNotFound.WriteError(w)
		return
	}

	var req tasksdk.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		tasksdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	params := service.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		params.Status = &status
	}

	task, err := h.TaskService.Update(ctx, userID, id, params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired):
			tasksdk.ErrTitleRequired.WriteError(w)
		case errors.Is(err, service.ErrInvalidStatus):
			tasksdk.ErrInvalidTaskStatus.WriteError(w)
		default:
			h.writeTaskError(ctx, w, "update task", err)
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toWireTask(task))
}

// HandleDelete removes a task.
func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		tasksdk.NewAPIError(http.StatusUnauthorized, httpx.MsgInvalidAccessToken).WriteError(w)
		return
	}

	id, ok := taskIDFromPath(r)
	if !ok {
		tasksdk.ErrTaskNotFound.WriteError(w)
		return
	}

	if err := h.TaskService.Delete(ctx, userID, id); err != nil {
		h.writeTaskError(ctx, w, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToggle flips a task between PENDING and COMPLETED.
func (h *TasksHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		tasksdk.NewAPIError(http.StatusUnauthorized, httpx.MsgInvalidAccessToken).WriteError(w)
		return
	}

	id, ok := taskIDFromPath(r)
	if !ok {
		tasksdk.ErrTaskNotFound.WriteError(w)
		return
	}

	task, err := h.TaskService.Toggle(ctx, userID, id)
	if err != nil {
		h.writeTaskError(ctx, w, "toggle task", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toWireTask(task))
}

func (h *TasksHandler) writeTaskError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrTaskNotFound) {
		tasksdk.ErrTaskNotFound.WriteError(w)
		return
	}
	slogx.FromContext(ctx).Error(op+" failed", "err", err)
	tasksdk.ErrServerError.WriteError(w)
}

// taskIDFromPath parses the {id} wildcard. Non-numeric IDs map to not found
// rather than bad request, matching the lookup they would fail anyway.
func taskIDFromPath(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func toWireTask(task domain.Task) tasksdk.Task {
	return tasksdk.Task{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
