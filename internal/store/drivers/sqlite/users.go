package sqlite

import (
	"context"

	"github.com/taskrail/taskrail/internal/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, password_hash, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, email, passwordHash string) (domain.User, error) {
	ts := now()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 RETURNING `+userColumns,
		email, passwordHash, ts, ts)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, mapConstraint(err)
	}
	return u, nil
}
