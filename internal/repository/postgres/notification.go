package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/watchnotify/notifier-api/internal/model"
	"github.com/watchnotify/notifier-api/internal/repository"
)

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

// Create appends one attempt row. Rows are never updated afterwards.
func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) (err error) {
	defer r.track("notifications.create", &err)

	query := `
		INSERT INTO notifications (
			id, user_id, release_id, channel, status, subject, message,
			recipient, sent_at, error_message, retry_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.ReleaseID,
		notification.Channel,
		notification.Status,
		notification.Subject,
		notification.Message,
		notification.Recipient,
		notification.SentAt,
		notification.ErrorMessage,
		notification.RetryCount,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) (notifications []*model.Notification, err error) {
	defer r.track("notifications.list_by_user", &err)

	query := `SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`

	if err = r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list notifications by user: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) ListByStatus(ctx context.Context, status model.NotificationStatus) (notifications []*model.Notification, err error) {
	defer r.track("notifications.list_by_status", &err)

	query := `SELECT * FROM notifications WHERE status = $1 ORDER BY created_at DESC`

	if err = r.db.SelectContext(ctx, &notifications, query, status); err != nil {
		return nil, fmt.Errorf("failed to list notifications by status: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) ListByDateRange(ctx context.Context, start, end time.Time) (notifications []*model.Notification, err error) {
	defer r.track("notifications.list_by_date_range", &err)

	query := `
		SELECT * FROM notifications
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC
	`

	if err = r.db.SelectContext(ctx, &notifications, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list notifications by date range: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) ListByRelease(ctx context.Context, releaseID uuid.UUID) (notifications []*model.Notification, err error) {
	defer r.track("notifications.list_by_release", &err)

	query := `SELECT * FROM notifications WHERE release_id = $1 ORDER BY created_at DESC`

	if err = r.db.SelectContext(ctx, &notifications, query, releaseID); err != nil {
		return nil, fmt.Errorf("failed to list notifications by release: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) CountSentByUser(ctx context.Context, userID uuid.UUID) (count int64, err error) {
	defer r.track("notifications.count_sent_by_user", &err)

	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND status = $2`

	if err = r.db.GetContext(ctx, &count, query, userID, model.NotificationStatusSent); err != nil {
		return 0, fmt.Errorf("failed to count sent notifications: %w", err)
	}

	return count, nil
}
