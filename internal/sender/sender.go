// Package sender provides the per-channel delivery capability consumed by
// the dispatch engine. Each implementation delivers one rendered message to
// one resolved recipient and reports success or failure; it never records
// anything itself.
package sender

import (
	"context"

	"github.com/watchnotify/notifier-api/internal/model"
)

// Message carries a resolved recipient plus rendered content for one
// channel attempt.
type Message struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body"`
}

// Sender delivers a message over a single channel.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Senders is the capability set injected into the dispatch engine,
// one variant per channel.
type Senders struct {
	Email Sender
	SMS   Sender
	Push  Sender
}

// For returns the sender for the given channel, or nil if the channel
// is unknown.
func (s Senders) For(channel model.NotificationChannel) Sender {
	switch channel {
	case model.ChannelEmail:
		return s.Email
	case model.ChannelSMS:
		return s.SMS
	case model.ChannelPush:
		return s.Push
	default:
		return nil
	}
}
