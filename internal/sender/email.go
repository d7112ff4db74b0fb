package sender

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/watchnotify/notifier-api/internal/config"
	apperrors "github.com/watchnotify/notifier-api/pkg/errors"
)

type emailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailSender returns a Sender that delivers over SMTP.
func NewEmailSender(cfg config.SMTPConfig) Sender {
	return &emailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *emailSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return apperrors.ChannelDelivery("email", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.Recipient)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return apperrors.ChannelDelivery("email", err)
	}

	return nil
}
