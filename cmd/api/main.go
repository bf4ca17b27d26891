package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homni_backend/internal/companies"
	"homni_backend/internal/email"
	"homni_backend/internal/events"
	apphttp "homni_backend/internal/http"
	"homni_backend/internal/http/router"
	"homni_backend/internal/leads"
	"homni_backend/internal/notification"
	"homni_backend/internal/scheduler"
	"homni_backend/internal/storage"
	"homni_backend/platform/config"
	"homni_backend/platform/db"
	"homni_backend/platform/logger"
	"homni_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	followUpScheduler, closeScheduler := initFollowUpScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender := initSender(cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(pool, eventBus, val, log)
	companiesModule := companies.NewModule(pool, val, log)

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, log)
	notificationModule.SetLeadReader(leadsModule.Repository())
	notificationModule.SetCompanyReader(companiesModule.Service())
	notificationModule.RegisterHandlers(eventBus)

	if followUpScheduler != nil {
		leadsModule.SetFollowUpScheduler(followUpScheduler, cfg.GetFollowUpDelay())
	}

	// Storage service for lead attachment uploads (MinIO)
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		bucket := cfg.GetMinioBucketLeadAttachments()
		if err := withRetry(ctx, log, "ensure lead attachments bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		leadsModule.SetStorage(storageSvc, bucket)
		log.Info("storage service initialized", "leadAttachmentsBucket", bucket)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; lead attachments disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			companiesModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initSender(cfg *config.Config, log *logger.Logger) email.Sender {
	if !cfg.IsEmailEnabled() {
		log.Warn("email delivery disabled; using no-op sender")
		return email.NoopSender{}
	}
	return email.NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

func initFollowUpScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; lead follow-up reminders disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
