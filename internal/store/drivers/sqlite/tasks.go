package sqlite

import (
	"context"

	"github.com/taskrail/taskrail/internal/domain"
	"github.com/taskrail/taskrail/internal/store"
)

type tasksRepo struct {
	db dbtx
}

const taskColumns = `id, user_id, title, description, status, created_at, updated_at`

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	ts := now()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (user_id, title, description, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+taskColumns,
		t.UserID, t.Title, mapOptionalString(t.Description), string(t.Status), ts, ts)

	created, err := scanTask(row)
	if err != nil {
		return domain.Task{}, err
	}
	return created, nil
}

func (r *tasksRepo) GetTask(ctx context.Context, userID, id int64) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)

	t, err := scanTask(row)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return t, nil
}

// filterClause builds the WHERE tail and args shared by ListTasks and
// CountTasks. The search match is a case-insensitive substring check on the
// title; instr avoids LIKE-escaping concerns.
func filterClause(userID int64, f domain.TaskFilter) (string, []any) {
	clause := ` WHERE user_id = ?`
	args := []any{userID}

	if f.Status != "" {
		clause += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.Search != "" {
		clause += ` AND instr(lower(title), lower(?)) > 0`
		args = append(args, f.Search)
	}
	return clause, args
}

func (r *tasksRepo) ListTasks(
	ctx context.Context,
	userID int64,
	f domain.TaskFilter,
	offset, limit int,
) ([]domain.Task, error) {
	clause, args := filterClause(userID, f)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks`+clause+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *tasksRepo) CountTasks(ctx context.Context, userID int64, f domain.TaskFilter) (int64, error) {
	clause, args := filterClause(userID, f)

	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks`+clause, args...).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *tasksRepo) UpdateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, status = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?
		 RETURNING `+taskColumns,
		t.Title, mapOptionalString(t.Description), string(t.Status), now(), t.ID, t.UserID)

	updated, err := scanTask(row)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return updated, nil
}

func (r *tasksRepo) DeleteTask(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

var _ store.Tasks = (*tasksRepo)(nil)
