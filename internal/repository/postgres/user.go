package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/watchnotify/notifier-api/internal/model"
	"github.com/watchnotify/notifier-api/internal/repository"
	apperrors "github.com/watchnotify/notifier-api/pkg/errors"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (err error) {
	defer r.track("users.create", &err)

	query := `
		INSERT INTO users (
			id, first_name, last_name, email, phone, is_active,
			email_enabled, sms_enabled, push_enabled, preferences,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.IsActive,
		user.EmailEnabled,
		user.SMSEnabled,
		user.PushEnabled,
		pq.Array(user.Preferences),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (user *model.User, err error) {
	defer r.track("users.get", &err)

	query := `SELECT * FROM users WHERE id = $1`

	var u model.User
	if err = r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user *model.User, err error) {
	defer r.track("users.get_by_email", &err)

	query := `SELECT * FROM users WHERE email = $1`

	var u model.User
	if err = r.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (exists bool, err error) {
	defer r.track("users.exists_by_email", &err)

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	if err = r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check user email: %w", err)
	}

	return exists, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) (err error) {
	defer r.track("users.update", &err)

	query := `
		UPDATE users SET
			first_name = $1,
			last_name = $2,
			email = $3,
			phone = $4,
			is_active = $5,
			email_enabled = $6,
			sms_enabled = $7,
			push_enabled = $8,
			preferences = $9,
			updated_at = $10
		WHERE id = $11
	`

	result, err := r.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.IsActive,
		user.EmailEnabled,
		user.SMSEnabled,
		user.PushEnabled,
		pq.Array(user.Preferences),
		time.Now(),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("user", nil)
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer r.track("users.delete", &err)

	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("user", nil)
	}

	return nil
}

func (r *userRepository) List(ctx context.Context) (users []*model.User, err error) {
	defer r.track("users.list", &err)

	query := `SELECT * FROM users ORDER BY created_at DESC`

	if err = r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *userRepository) ListActive(ctx context.Context) (users []*model.User, err error) {
	defer r.track("users.list_active", &err)

	query := `SELECT * FROM users WHERE is_active = true ORDER BY created_at DESC`

	if err = r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	return users, nil
}

func (r *userRepository) ListActiveWithPreferences(ctx context.Context, tags []string) (users []*model.User, err error) {
	defer r.track("users.list_by_preferences", &err)

	query := `
		SELECT * FROM users
		WHERE is_active = true AND preferences && $1
		ORDER BY created_at DESC
	`

	if err = r.db.SelectContext(ctx, &users, query, pq.Array(tags)); err != nil {
		return nil, fmt.Errorf("failed to list users by preferences: %w", err)
	}

	return users, nil
}

func (r *userRepository) ListActiveWithPreferencesAndEmail(ctx context.Context, tags []string) (users []*model.User, err error) {
	defer r.track("users.list_by_preferences_email", &err)

	query := `
		SELECT * FROM users
		WHERE is_active = true AND email_enabled = true AND preferences && $1
		ORDER BY created_at DESC
	`

	if err = r.db.SelectContext(ctx, &users, query, pq.Array(tags)); err != nil {
		return nil, fmt.Errorf("failed to list users by preferences: %w", err)
	}

	return users, nil
}
