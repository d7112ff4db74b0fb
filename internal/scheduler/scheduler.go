// Package scheduler runs the periodic release scans that discover
// releases needing notification and trigger dispatch passes for them.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/watchnotify/notifier-api/internal/model"
	"github.com/watchnotify/notifier-api/internal/repository"
	"github.com/watchnotify/notifier-api/internal/service/notification"
	"github.com/watchnotify/notifier-api/pkg/logger"
	"github.com/watchnotify/notifier-api/pkg/metrics"
)

const (
	scanNewRelease     = "new_release"
	scanUpcoming       = "upcoming"
	scanLimitedEdition = "limited_edition"

	newReleaseMessage = "A new watch release is now available!"
	upcomingMessage   = "Don't miss out! This watch will be released soon."
)

// Config holds the cadence of the three scan jobs.
type Config struct {
	NewReleaseInterval     time.Duration
	UpcomingInterval       time.Duration
	LimitedEditionInterval time.Duration
}

// Scheduler runs three independent periodic scan jobs. The jobs share no
// state and take no locks; they may overlap in time and may process the
// same release within the same window.
type Scheduler struct {
	releases   repository.ReleaseRepository
	dispatcher notification.Service
	logger     *logger.Logger
	metrics    *metrics.Metrics
	cfg        Config
}

func New(
	releases repository.ReleaseRepository,
	dispatcher notification.Service,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	cfg Config,
) *Scheduler {
	if cfg.NewReleaseInterval <= 0 {
		cfg.NewReleaseInterval = 30 * time.Minute
	}
	if cfg.UpcomingInterval <= 0 {
		cfg.UpcomingInterval = time.Hour
	}
	if cfg.LimitedEditionInterval <= 0 {
		cfg.LimitedEditionInterval = 15 * time.Minute
	}

	return &Scheduler{
		releases:   releases,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// Start launches the three scan loops and returns immediately. Each loop
// runs once right away and then on its fixed interval until ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.runLoop(ctx, scanNewRelease, s.cfg.NewReleaseInterval, s.ScanNewReleases)
	go s.runLoop(ctx, scanUpcoming, s.cfg.UpcomingInterval, s.ScanUpcomingReleases)
	go s.runLoop(ctx, scanLimitedEdition, s.cfg.LimitedEditionInterval, s.ScanLimitedEditions)
}

func (s *Scheduler) runLoop(ctx context.Context, name string, interval time.Duration, scan func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		// A scan's top-level failure is logged and swallowed; it never
		// halts subsequent scheduled runs.
		if err := scan(ctx); err != nil {
			s.metrics.ScanFailures.WithLabelValues(name).Inc()
			s.logger.Error(err, "scan failed", "scan", name)
		} else {
			s.metrics.ScanRuns.WithLabelValues(name).Inc()
		}

		select {
		case <-ctx.Done():
			s.logger.Info("scan loop stopped", "scan", name)
			return
		case <-ticker.C:
		}
	}
}

// ScanNewReleases dispatches email+push for every release that has not
// been notified yet.
func (s *Scheduler) ScanNewReleases(ctx context.Context) error {
	releases, err := s.releases.ListUnnotified(ctx)
	if err != nil {
		return fmt.Errorf("failed to list unnotified releases: %w", err)
	}

	if len(releases) == 0 {
		s.logger.Debug("no unnotified releases found")
		return nil
	}

	s.logger.Info("found unnotified releases", "count", len(releases))

	for _, release := range releases {
		req := &model.DispatchRequest{
			ReleaseID:     release.ID,
			SendEmail:     true,
			SendSMS:       false,
			SendPush:      true,
			CustomMessage: newReleaseMessage,
		}

		if _, err := s.dispatcher.Dispatch(ctx, req); err != nil {
			s.logger.Error(err, "failed to dispatch new release",
				"release_id", release.ID.String(),
				"watch_name", release.WatchName,
			)
			continue
		}
	}

	return nil
}

// ScanUpcomingReleases dispatches reminders for releases whose release
// date is still ahead, soonest first. The notified flag is deliberately
// not checked here: the reminder is a distinct pass and re-marks
// releases the new-release scan already processed.
func (s *Scheduler) ScanUpcomingReleases(ctx context.Context) error {
	releases, err := s.releases.ListUpcoming(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to list upcoming releases: %w", err)
	}

	if len(releases) == 0 {
		s.logger.Debug("no upcoming releases found")
		return nil
	}

	s.logger.Info("found upcoming releases", "count", len(releases))

	for _, release := range releases {
		req := &model.DispatchRequest{
			ReleaseID:     release.ID,
			SendEmail:     true,
			SendSMS:       false,
			SendPush:      true,
			CustomMessage: upcomingMessage,
		}

		if _, err := s.dispatcher.Dispatch(ctx, req); err != nil {
			s.logger.Error(err, "failed to dispatch upcoming reminder",
				"release_id", release.ID.String(),
				"watch_name", release.WatchName,
			)
			continue
		}
	}

	return nil
}

// ScanLimitedEditions dispatches on all three channels for limited
// edition releases that have not been notified yet.
func (s *Scheduler) ScanLimitedEditions(ctx context.Context) error {
	releases, err := s.releases.ListLimitedEdition(ctx)
	if err != nil {
		return fmt.Errorf("failed to list limited edition releases: %w", err)
	}

	if len(releases) == 0 {
		s.logger.Debug("no limited edition releases found")
		return nil
	}

	for _, release := range releases {
		if release.IsNotified {
			continue
		}

		quantity := 0
		if release.LimitedQuantity != nil {
			quantity = *release.LimitedQuantity
		}

		req := &model.DispatchRequest{
			ReleaseID:     release.ID,
			SendEmail:     true,
			SendSMS:       true,
			SendPush:      true,
			CustomMessage: fmt.Sprintf("Limited edition alert! Only %d pieces available.", quantity),
		}

		if _, err := s.dispatcher.Dispatch(ctx, req); err != nil {
			s.logger.Error(err, "failed to dispatch limited edition alert",
				"release_id", release.ID.String(),
				"watch_name", release.WatchName,
			)
			continue
		}
	}

	return nil
}
