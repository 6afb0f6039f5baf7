package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// UserRepository handles database operations for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert creates or refreshes a user keyed by their OIDC subject and
// returns the stored row. Profile fields are overwritten on every login
// so the local copy tracks the provider.
func (r *UserRepository) Upsert(ctx context.Context, user *User) (*User, error) {
	existing, err := r.GetBySubject(ctx, user.Subject)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		query := `INSERT INTO users (subject, name, email, picture, is_admin)
		          VALUES (:subject, :name, :email, :picture, :is_admin)`
		res, err := r.db.NamedExecContext(ctx, query, user)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get user insert id: %w", err)
		}
		user.ID = id
		return user, nil
	}

	user.ID = existing.ID
	user.IsAdmin = user.IsAdmin || existing.IsAdmin
	query := `UPDATE users SET name = :name, email = :email, picture = :picture, is_admin = :is_admin
	          WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// GetBySubject finds a user by OIDC subject. Returns nil when absent.
func (r *UserRepository) GetBySubject(ctx context.Context, subject string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE subject = ?`, subject)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by subject: %w", err)
	}
	return &user, nil
}

// GetByID finds a user by ID. Returns nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}
