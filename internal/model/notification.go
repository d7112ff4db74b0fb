package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "PENDING"
	NotificationStatusSent      NotificationStatus = "SENT"
	NotificationStatusFailed    NotificationStatus = "FAILED"
	NotificationStatusCancelled NotificationStatus = "CANCELLED"
)

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "EMAIL"
	ChannelSMS   NotificationChannel = "SMS"
	ChannelPush  NotificationChannel = "PUSH"
)

// Notification is one recorded outcome of trying to deliver one channel's
// message to one user for one dispatch pass. Rows are append-only: a
// re-dispatch creates new rows rather than mutating old ones.
type Notification struct {
	ID           uuid.UUID           `json:"id" db:"id"`
	UserID       uuid.UUID           `json:"user_id" db:"user_id"`
	ReleaseID    uuid.UUID           `json:"release_id" db:"release_id"`
	Channel      NotificationChannel `json:"channel" db:"channel"`
	Status       NotificationStatus  `json:"status" db:"status"`
	Subject      string              `json:"subject" db:"subject"`
	Message      string              `json:"message" db:"message"`
	Recipient    string              `json:"recipient" db:"recipient"`
	SentAt       *time.Time          `json:"sent_at,omitempty" db:"sent_at"`
	ErrorMessage *string             `json:"error_message,omitempty" db:"error_message"`
	RetryCount   int                 `json:"retry_count" db:"retry_count"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
}

// DispatchRequest describes one dispatch pass for a single release.
// It is never persisted; the scheduler or the HTTP surface builds one
// and the dispatch engine consumes it once.
type DispatchRequest struct {
	ReleaseID     uuid.UUID `json:"release_id" binding:"required"`
	Categories    []string  `json:"categories"`
	Brands        []string  `json:"brands"`
	SendEmail     bool      `json:"send_email"`
	SendSMS       bool      `json:"send_sms"`
	SendPush      bool      `json:"send_push"`
	CustomMessage string    `json:"custom_message"`
}

// DispatchOutcome summarises one completed dispatch pass. Dispatch always
// returns a summary rather than raising on partial failure.
type DispatchOutcome struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}
