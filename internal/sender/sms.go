package sender

import (
	"context"

	"github.com/watchnotify/notifier-api/pkg/messaging"

	apperrors "github.com/watchnotify/notifier-api/pkg/errors"
)

const smsTopic = "sms.dispatch"

type smsSender struct {
	broker messaging.Broker
}

// NewSMSSender returns a Sender that hands SMS messages to the delivery
// worker via the message broker. The downstream provider integration
// consumes the topic.
func NewSMSSender(broker messaging.Broker) Sender {
	return &smsSender{broker: broker}
}

func (s *smsSender) Send(ctx context.Context, msg *Message) error {
	envelope := messaging.Message{
		Type:    "sms_notification",
		Payload: msg,
	}

	if err := s.broker.Publish(ctx, smsTopic, envelope); err != nil {
		return apperrors.ChannelDelivery("sms", err)
	}

	return nil
}
