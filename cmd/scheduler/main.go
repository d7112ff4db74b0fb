package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/watchnotify/notifier-api/internal/config"
	"github.com/watchnotify/notifier-api/internal/repository/postgres"
	"github.com/watchnotify/notifier-api/internal/scheduler"
	"github.com/watchnotify/notifier-api/internal/sender"
	notificationService "github.com/watchnotify/notifier-api/internal/service/notification"
	"github.com/watchnotify/notifier-api/pkg/logger"
	"github.com/watchnotify/notifier-api/pkg/messaging/redis"
	"github.com/watchnotify/notifier-api/pkg/metrics"
)

// workerConfig is the env-only configuration for the standalone scheduler
// worker. It deliberately avoids the config file so the worker can run in
// environments where only env vars are provisioned.
type workerConfig struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBName     string `envconfig:"DB_NAME" default:"watchnotify"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`

	SMTPHost     string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"releases@watchnotify.io"`

	NewReleaseInterval     time.Duration `envconfig:"NEW_RELEASE_INTERVAL" default:"30m"`
	UpcomingInterval       time.Duration `envconfig:"UPCOMING_INTERVAL" default:"60m"`
	LimitedEditionInterval time.Duration `envconfig:"LIMITED_EDITION_INTERVAL" default:"15m"`

	MaxConcurrentSends int           `envconfig:"MAX_CONCURRENT_SENDS" default:"8"`
	AttemptTimeout     time.Duration `envconfig:"ATTEMPT_TIMEOUT" default:"10s"`

	MetricsPort int `envconfig:"METRICS_PORT" default:"9090"`
}

func main() {
	var cfg workerConfig
	if err := envconfig.Process("scheduler", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.New("watchnotify_scheduler")

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.RedisURL})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	base := postgres.NewBaseRepository(db, appMetrics)
	releaseRepo := postgres.NewReleaseRepository(base)
	userRepo := postgres.NewUserRepository(base)
	notificationRepo := postgres.NewNotificationRepository(base)

	senders := sender.Senders{
		Email: sender.NewEmailSender(config.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}),
		SMS:  sender.NewSMSSender(broker),
		Push: sender.NewPushSender(broker),
	}

	selector := notificationService.NewSelector(userRepo)
	dispatcher := notificationService.NewService(
		notificationRepo,
		releaseRepo,
		selector,
		senders,
		appLogger,
		appMetrics,
		notificationService.Config{
			MaxConcurrentSends: cfg.MaxConcurrentSends,
			AttemptTimeout:     cfg.AttemptTimeout,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scans := scheduler.New(releaseRepo, dispatcher, appLogger, appMetrics, scheduler.Config{
		NewReleaseInterval:     cfg.NewReleaseInterval,
		UpcomingInterval:       cfg.UpcomingInterval,
		LimitedEditionInterval: cfg.LimitedEditionInterval,
	})
	scans.Start(ctx)

	// Expose scheduler metrics
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	appLogger.Info("scheduler worker started",
		"new_release_interval", cfg.NewReleaseInterval.String(),
		"upcoming_interval", cfg.UpcomingInterval.String(),
		"limited_edition_interval", cfg.LimitedEditionInterval.String(),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down scheduler worker...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("metrics server forced to shutdown")
	}

	log.Info().Msg("scheduler worker exited properly")
}
