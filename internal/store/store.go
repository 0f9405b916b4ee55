package store

import (
	"context"
	"errors"

	"github.com/taskrail/taskrail/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Tasks() Tasks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByEmail is used during login and duplicate checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user and returns it with the assigned id.
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, email, passwordHash string) (domain.User, error)
}

type Tasks interface {
	// CreateTask inserts a task and returns it with the assigned id and timestamps.
	CreateTask(ctx context.Context, t domain.Task) (domain.Task, error)

	// GetTask returns a task by id, scoped to its owner.
	GetTask(ctx context.Context, userID, id int64) (domain.Task, error)

	// ListTasks returns a page of the user's tasks ordered by creation date
	// (newest first).
	ListTasks(ctx context.Context, userID int64, f domain.TaskFilter, offset, limit int) ([]domain.Task, error)

	// CountTasks returns the total number of tasks matching the filter.
	CountTasks(ctx context.Context, userID int64, f domain.TaskFilter) (int64, error)

	// UpdateTask persists title/description/status changes and bumps updated_at.
	UpdateTask(ctx context.Context, t domain.Task) (domain.Task, error)

	// DeleteTask removes a task, scoped to its owner.
	DeleteTask(ctx context.Context, userID, id int64) error
}
