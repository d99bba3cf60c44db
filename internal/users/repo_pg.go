package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, hashed_password, role, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		user.HashedPassword,
		user.Role,
		user.IsActive,
	)
	if err != nil && strings.Contains(err.Error(), "users_email_key") {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, email, full_name, hashed_password, role, is_active, created_at, updated_at
FROM users
WHERE email = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, full_name, hashed_password, role, is_active, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	var updatedAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.HashedPassword,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)
