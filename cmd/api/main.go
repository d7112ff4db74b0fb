package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/watchnotify/notifier-api/internal/config"
	healthHandler "github.com/watchnotify/notifier-api/internal/handler/health"
	notificationHandler "github.com/watchnotify/notifier-api/internal/handler/notification"
	releaseHandler "github.com/watchnotify/notifier-api/internal/handler/release"
	userHandler "github.com/watchnotify/notifier-api/internal/handler/user"
	"github.com/watchnotify/notifier-api/internal/middleware"
	"github.com/watchnotify/notifier-api/internal/repository/postgres"
	"github.com/watchnotify/notifier-api/internal/router"
	"github.com/watchnotify/notifier-api/internal/scheduler"
	"github.com/watchnotify/notifier-api/internal/sender"
	notificationService "github.com/watchnotify/notifier-api/internal/service/notification"
	releaseService "github.com/watchnotify/notifier-api/internal/service/release"
	userService "github.com/watchnotify/notifier-api/internal/service/user"
	"github.com/watchnotify/notifier-api/pkg/auth"
	"github.com/watchnotify/notifier-api/pkg/logger"
	"github.com/watchnotify/notifier-api/pkg/messaging/redis"
	"github.com/watchnotify/notifier-api/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.New("watchnotify")

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	base := postgres.NewBaseRepository(db, appMetrics)
	releaseRepo := postgres.NewReleaseRepository(base)
	userRepo := postgres.NewUserRepository(base)
	notificationRepo := postgres.NewNotificationRepository(base)

	// Initialize Redis message broker for the SMS and push transports
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	// Initialize channel senders
	senders := sender.Senders{
		Email: sender.NewEmailSender(cfg.SMTP),
		SMS:   sender.NewSMSSender(broker),
		Push:  sender.NewPushSender(broker),
	}

	// Initialize services
	releaseSvc := releaseService.NewService(releaseRepo)
	userSvc := userService.NewService(userRepo)
	selector := notificationService.NewSelector(userRepo)
	notificationSvc := notificationService.NewService(
		notificationRepo,
		releaseRepo,
		selector,
		senders,
		appLogger,
		appMetrics,
		notificationService.Config{
			MaxConcurrentSends: cfg.Dispatch.MaxConcurrentSends,
			AttemptTimeout:     cfg.Dispatch.AttemptTimeout,
		},
	)

	// Initialize middleware
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	// Initialize handlers
	releaseH := releaseHandler.NewHandler(releaseSvc)
	userH := userHandler.NewHandler(userSvc)
	notificationH := notificationHandler.NewHandler(notificationSvc)
	healthH := healthHandler.NewHandler(db)

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		releaseH,
		userH,
		notificationH,
		healthH,
		router.Config{
			RateLimit:      rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:      cfg.RateLimit.Burst,
			CORSConfig:     middleware.DefaultCORSConfig(),
			RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
	)
	r.Setup()

	// Start the release scan scheduler alongside the API
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scans := scheduler.New(releaseRepo, notificationSvc, appLogger, appMetrics, scheduler.Config{
		NewReleaseInterval:     cfg.Scheduler.NewReleaseInterval,
		UpcomingInterval:       cfg.Scheduler.UpcomingInterval,
		LimitedEditionInterval: cfg.Scheduler.LimitedEditionInterval,
	})
	scans.Start(ctx)

	// Create server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
