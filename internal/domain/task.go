package domain

import "time"

// TaskStatus is the two-state lifecycle of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskCompleted TaskStatus = "COMPLETED"
)

// Toggled returns the opposite status.
func (s TaskStatus) Toggled() TaskStatus {
	if s == TaskCompleted {
		return TaskPending
	}
	return TaskCompleted
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s == TaskPending || s == TaskCompleted
}

type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows task listings. Zero values mean "no constraint".
type TaskFilter struct {
	Status TaskStatus
	Search string // case-insensitive substring match on title
}
