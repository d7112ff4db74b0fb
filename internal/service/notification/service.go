package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/watchnotify/notifier-api/internal/model"
	"github.com/watchnotify/notifier-api/internal/repository"
	"github.com/watchnotify/notifier-api/internal/sender"
	apperrors "github.com/watchnotify/notifier-api/pkg/errors"
	"github.com/watchnotify/notifier-api/pkg/logger"
	"github.com/watchnotify/notifier-api/pkg/metrics"
)

const (
	defaultMaxConcurrentSends = 8
	defaultAttemptTimeout     = 10 * time.Second

	genericSubject = "New Watch Release"
)

type Service interface {
	Dispatch(ctx context.Context, req *model.DispatchRequest) (*model.DispatchOutcome, error)
	ListUserNotifications(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
	ListByStatus(ctx context.Context, status model.NotificationStatus) ([]*model.Notification, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Notification, error)
	CountSentForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Config bounds the dispatch worker pool and individual channel sends.
type Config struct {
	MaxConcurrentSends int
	AttemptTimeout     time.Duration
}

type service struct {
	notifications repository.NotificationRepository
	releases      repository.ReleaseRepository
	selector      *Selector
	senders       sender.Senders
	logger        *logger.Logger
	metrics       *metrics.Metrics
	cfg           Config
}

func NewService(
	notifications repository.NotificationRepository,
	releases repository.ReleaseRepository,
	selector *Selector,
	senders sender.Senders,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	cfg Config,
) Service {
	if cfg.MaxConcurrentSends <= 0 {
		cfg.MaxConcurrentSends = defaultMaxConcurrentSends
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}

	return &service{
		notifications: notifications,
		releases:      releases,
		selector:      selector,
		senders:       senders,
		logger:        logger,
		metrics:       metrics,
		cfg:           cfg,
	}
}

// attempt is one (user, channel) unit of work within a dispatch pass.
type attempt struct {
	user      *model.User
	channel   model.NotificationChannel
	recipient string
	subject   string
	body      string
}

// Dispatch runs one end-to-end pass for a single release: resolve the
// release, select targets, fan out per-(user,channel) sends through a
// bounded worker pool, record every outcome, and mark the release
// notified exactly once after all attempts have been issued. The
// notified flag means "a dispatch pass ran", not "every recipient
// received it"; even a pass with zero eligible recipients sets it.
func (s *service) Dispatch(ctx context.Context, req *model.DispatchRequest) (*model.DispatchOutcome, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// The release lookup is the only failure that aborts the whole
	// dispatch; nothing is recorded in that case.
	release, err := s.releases.Get(ctx, req.ReleaseID)
	if err != nil {
		return nil, err
	}

	targets, err := s.selector.SelectTargets(ctx, req)
	if err != nil {
		return nil, err
	}

	outcome := &model.DispatchOutcome{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.MaxConcurrentSends)

	for _, user := range targets {
		attempts := s.planAttempts(user, release, req)
		if len(attempts) == 0 {
			outcome.Skipped++
			s.metrics.UsersSkipped.Inc()
			continue
		}

		for _, a := range attempts {
			wg.Add(1)
			sem <- struct{}{}
			go func(a attempt) {
				defer wg.Done()
				defer func() { <-sem }()

				sent := s.attemptSend(ctx, release, a)

				mu.Lock()
				if sent {
					outcome.Sent++
				} else {
					outcome.Failed++
				}
				mu.Unlock()
			}(a)
		}
	}

	wg.Wait()

	// Terminal state update happens only after all attempts for this
	// pass have been joined, and unconditionally regardless of failures.
	if err := s.releases.MarkNotified(ctx, release.ID, time.Now()); err != nil {
		return outcome, fmt.Errorf("failed to mark release notified: %w", err)
	}

	s.metrics.DispatchRuns.Inc()
	s.logger.Info("dispatch completed",
		"release_id", release.ID.String(),
		"watch_name", release.WatchName,
		"targets", len(targets),
		"sent", outcome.Sent,
		"failed", outcome.Failed,
		"skipped", outcome.Skipped,
	)

	return outcome, nil
}

// planAttempts resolves which channels apply for one user. A user with
// SMS enabled but no phone number is silently ineligible for SMS.
func (s *service) planAttempts(user *model.User, release *model.Release, req *model.DispatchRequest) []attempt {
	var attempts []attempt

	if req.SendEmail && user.EmailEnabled {
		attempts = append(attempts, attempt{
			user:      user,
			channel:   model.ChannelEmail,
			recipient: user.Email,
			subject:   emailSubject(release),
			body:      emailBody(user, release, req.CustomMessage),
		})
	}

	if req.SendSMS && user.SMSEnabled && user.Phone != nil && *user.Phone != "" {
		attempts = append(attempts, attempt{
			user:      user,
			channel:   model.ChannelSMS,
			recipient: *user.Phone,
			subject:   genericSubject,
			body:      smsBody(release, req.CustomMessage),
		})
	}

	if req.SendPush && user.PushEnabled {
		attempts = append(attempts, attempt{
			user:      user,
			channel:   model.ChannelPush,
			recipient: user.Email,
			subject:   genericSubject,
			body:      pushBody(release),
		})
	}

	return attempts
}

// attemptSend performs one channel send and appends exactly one attempt
// row with status SENT or FAILED. Failures are recorded, never
// propagated, so one user's channel failure cannot abort the pass.
func (s *service) attemptSend(ctx context.Context, release *model.Release, a attempt) bool {
	timer := prometheus.NewTimer(s.metrics.AttemptDuration.WithLabelValues(string(a.channel)))
	err := s.sendWithTimeout(ctx, a)
	timer.ObserveDuration()

	row := &model.Notification{
		ID:        uuid.New(),
		UserID:    a.user.ID,
		ReleaseID: release.ID,
		Channel:   a.channel,
		Subject:   a.subject,
		Message:   a.body,
		Recipient: a.recipient,
		CreatedAt: time.Now(),
	}

	if err != nil {
		msg := err.Error()
		row.Status = model.NotificationStatusFailed
		row.ErrorMessage = &msg
		s.metrics.AttemptsFailed.WithLabelValues(string(a.channel)).Inc()
		s.logger.Error(err, "channel send failed",
			"channel", string(a.channel),
			"user_id", a.user.ID.String(),
			"release_id", release.ID.String(),
		)
	} else {
		now := time.Now()
		row.Status = model.NotificationStatusSent
		row.SentAt = &now
		s.metrics.AttemptsSent.WithLabelValues(string(a.channel)).Inc()
	}

	if createErr := s.notifications.Create(ctx, row); createErr != nil {
		s.logger.Error(createErr, "failed to record notification attempt",
			"channel", string(a.channel),
			"user_id", a.user.ID.String(),
		)
	}

	return err == nil
}

// sendWithTimeout bounds a single channel call so a hung transport cannot
// stall the rest of the dispatch. Expiry counts as a failed attempt.
func (s *service) sendWithTimeout(ctx context.Context, a attempt) error {
	snd := s.senders.For(a.channel)
	if snd == nil {
		return apperrors.ChannelDelivery(strings.ToLower(string(a.channel)), fmt.Errorf("no sender configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- snd.Send(ctx, &sender.Message{
			Recipient: a.recipient,
			Subject:   a.subject,
			Body:      a.body,
		})
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return apperrors.ChannelDelivery(strings.ToLower(string(a.channel)), ctx.Err())
	}
}

func validateRequest(req *model.DispatchRequest) error {
	if req == nil {
		return apperrors.Validation("dispatch request is required", nil)
	}
	if req.ReleaseID == uuid.Nil {
		return apperrors.Validation("release id is required", nil)
	}
	return nil
}

func (s *service) ListUserNotifications(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

func (s *service) ListByStatus(ctx context.Context, status model.NotificationStatus) ([]*model.Notification, error) {
	return s.notifications.ListByStatus(ctx, status)
}

func (s *service) ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Notification, error) {
	return s.notifications.ListByDateRange(ctx, start, end)
}

func (s *service) CountSentForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifications.CountSentByUser(ctx, userID)
}
