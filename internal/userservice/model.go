package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrDuplicateExternalID = errors.New("duplicate external id")
	ErrNotFound            = errors.New("user not found")
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

// UniqueViolationError is a helper to check if the error is a unique
// constraint violation on the named constraint.
func UniqueViolationError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (external_id, email, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	args := []any{
		u.ExternalID,
		u.Email,
		u.Role,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case UniqueViolationError(err, "users_external_id_key"):
			return ErrDuplicateExternalID
		default:
			return err
		}
	}
	return nil
}

func (m *DBModel) getByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, external_id, email, role, created_at, updated_at
		FROM users
		WHERE id = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.ExternalID, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) getByExternalID(ctx context.Context, externalID string) (*User, error) {
	query := `
		SELECT id, external_id, email, role, created_at, updated_at
		FROM users
		WHERE external_id = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, externalID).Scan(&u.ID, &u.ExternalID, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}
