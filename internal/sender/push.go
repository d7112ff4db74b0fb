package sender

import (
	"context"

	"github.com/watchnotify/notifier-api/pkg/messaging"

	apperrors "github.com/watchnotify/notifier-api/pkg/errors"
)

const pushTopic = "push.dispatch"

type pushSender struct {
	broker messaging.Broker
}

// NewPushSender returns a Sender that publishes push notifications to the
// broker for the push delivery worker.
func NewPushSender(broker messaging.Broker) Sender {
	return &pushSender{broker: broker}
}

func (s *pushSender) Send(ctx context.Context, msg *Message) error {
	envelope := messaging.Message{
		Type:    "push_notification",
		Payload: msg,
	}

	if err := s.broker.Publish(ctx, pushTopic, envelope); err != nil {
		return apperrors.ChannelDelivery("push", err)
	}

	return nil
}
