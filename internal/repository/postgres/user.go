package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doctorsportal/booking-api/internal/model"
	"github.com/doctorsportal/booking-api/internal/repository"
)

// Upsert inserts or updates the user keyed by email. The role is only
// written on first insert; elevation goes through UpdateRole.
func (r *userRepository) Upsert(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
		    password_hash = CASE WHEN EXCLUDED.password_hash <> '' THEN EXCLUDED.password_hash ELSE users.password_hash END,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, role, created_at
	`
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = model.RolePatient
	}
	now := time.Now()
	user.UpdatedAt = now

	row := r.db.QueryRowxContext(ctx, query,
		user.ID, user.Email, user.Name, user.Role, user.PasswordHash, now, now,
	)
	if err := row.Scan(&user.ID, &user.Role, &user.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert user: %w", mapError(err))
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, name, role, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT id, email, name, role, password_hash, created_at, updated_at
		FROM users
		ORDER BY email ASC
	`
	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", mapError(err))
	}
	return users, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, email string, role model.Role) error {
	query := `
		UPDATE users
		SET role = $1, updated_at = $2
		WHERE email = $3
	`
	result, err := r.db.ExecContext(ctx, query, role, time.Now(), email)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", mapError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
