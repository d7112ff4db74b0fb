package messaging

import (
	"context"
)

// Broker publishes messages for downstream delivery workers. Consuming
// happens in the provider services, not here.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// Message is the envelope published to downstream delivery workers.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
