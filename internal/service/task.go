package service

import (
	"context"
	"errors"

	"github.com/taskrail/taskrail/internal/domain"
	"github.com/taskrail/taskrail/internal/store"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	ErrTaskNotFound  = errors.New("task_not_found")
	ErrTitleRequired = errors.New("title_required")
	ErrInvalidStatus = errors.New("invalid_status")
)

// TaskService owns the per-user task CRUD. Every operation is scoped to the
// authenticated user's ID; a task belonging to someone else is
// indistinguishable from a missing one.
type TaskService struct {
	Store store.Store
}

// ListParams narrows and pages a task listing.
type ListParams struct {
	Page     int
	PageSize int
	Status   domain.TaskStatus
	Search   string
}

// TaskPage is one page of results plus the total matching count.
type TaskPage struct {
	Items    []domain.Task
	Page     int
	PageSize int
	Total    int64
}

// UpdateParams carries a partial task update. Nil fields keep their current
// value.
type UpdateParams struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
}

func (s *TaskService) List(ctx context.Context, userID int64, p ListParams) (TaskPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.Status != "" && !p.Status.Valid() {
		return TaskPage{}, ErrInvalidStatus
	}

	filter := domain.TaskFilter{Status: p.Status, Search: p.Search}
	offset := (p.Page - 1) * p.PageSize

	items, err := s.Store.Tasks().ListTasks(ctx, userID, filter, offset, p.PageSize)
	if err != nil {
		return TaskPage{}, err
	}
	total, err := s.Store.Tasks().CountTasks(ctx, userID, filter)
	if err != nil {
		return TaskPage{}, err
	}

	return TaskPage{
		Items:    items,
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    total,
	}, nil
}

func (s *TaskService) Create(ctx context.Context, userID int64, title string, description *string) (domain.Task, error) {
	if title == "" {
		return domain.Task{}, ErrTitleRequired
	}

	return s.Store.Tasks().CreateTask(ctx, domain.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      domain.TaskPending,
	})
}

func (s *TaskService) Get(ctx context.Context, userID, id int64) (domain.Task, error) {
	t, err := s.Store.Tasks().GetTask(ctx, userID, id)
	if err != nil {
		return domain.Task{}, mapTaskNotFound(err)
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id int64, p UpdateParams) (domain.Task, error) {
	if p.Title != nil && *p.Title == "" {
		return domain.Task{}, ErrTitleRequired
	}
	if p.Status != nil && !p.Status.Valid() {
		return domain.Task{}, ErrInvalidStatus
	}

	existing, err := s.Store.Tasks().GetTask(ctx, userID, id)
	if err != nil {
		return domain.Task{}, mapTaskNotFound(err)
	}

	if p.Title != nil {
		existing.Title = *p.Title
	}
	if p.Description != nil {
		existing.Description = p.Description
	}
	if p.Status != nil {
		existing.Status = *p.Status
	}

	updated, err := s.Store.Tasks().UpdateTask(ctx, existing)
	if err != nil {
		return domain.Task{}, mapTaskNotFound(err)
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.Store.Tasks().DeleteTask(ctx, userID, id); err != nil {
		return mapTaskNotFound(err)
	}
	return nil
}

// Toggle flips a task between PENDING and COMPLETED.
func (s *TaskService) Toggle(ctx context.Context, userID, id int64) (domain.Task, error) {
	existing, err := s.Store.Tasks().GetTask(ctx, userID, id)
	if err != nil {
		return domain.Task{}, mapTaskNotFound(err)
	}

	existing.Status = existing.Status.Toggled()

	updated, err := s.Store.Tasks().UpdateTask(ctx, existing)
	if err != nil {
		return domain.Task{}, mapTaskNotFound(err)
	}
	return updated, nil
}

func mapTaskNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
