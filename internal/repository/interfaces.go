package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/watchnotify/notifier-api/internal/model"
)

// All repository interfaces in one file
type (
	// ReleaseRepository handles watch release storage
	ReleaseRepository interface {
		Create(ctx context.Context, release *model.Release) error
		Get(ctx context.Context, id uuid.UUID) (*model.Release, error)
		Update(ctx context.Context, release *model.Release) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Release, error)
		ListUnnotified(ctx context.Context) ([]*model.Release, error)
		ListUpcoming(ctx context.Context, onOrAfter time.Time) ([]*model.Release, error)
		ListLimitedEdition(ctx context.Context) ([]*model.Release, error)
		ListByBrand(ctx context.Context, brand string) ([]*model.Release, error)
		ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Release, error)
		MarkNotified(ctx context.Context, id uuid.UUID, notifiedAt time.Time) error
	}

	// UserRepository handles subscriber storage
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		ExistsByEmail(ctx context.Context, email string) (bool, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.User, error)
		ListActive(ctx context.Context) ([]*model.User, error)
		ListActiveWithPreferences(ctx context.Context, tags []string) ([]*model.User, error)
		ListActiveWithPreferencesAndEmail(ctx context.Context, tags []string) ([]*model.User, error)
	}

	// NotificationRepository is the append-only attempt log
	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
		ListByStatus(ctx context.Context, status model.NotificationStatus) ([]*model.Notification, error)
		ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Notification, error)
		ListByRelease(ctx context.Context, releaseID uuid.UUID) ([]*model.Notification, error)
		CountSentByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	}
)
