package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/alert"
	"github.com/saturnino-fabrica-de-software/facefind/internal/api"
	"github.com/saturnino-fabrica-de-software/facefind/internal/audit"
	"github.com/saturnino-fabrica-de-software/facefind/internal/auth"
	"github.com/saturnino-fabrica-de-software/facefind/internal/backend"
	"github.com/saturnino-fabrica-de-software/facefind/internal/config"
	"github.com/saturnino-fabrica-de-software/facefind/internal/database"
	"github.com/saturnino-fabrica-de-software/facefind/internal/detection"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefind/internal/ratelimit"
	"github.com/saturnino-fabrica-de-software/facefind/internal/recognition"
	"github.com/saturnino-fabrica-de-software/facefind/internal/repository"
	"github.com/saturnino-fabrica-de-software/facefind/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	imagePath := flag.String("image", "", "Register a \"demo\" camera serving this still image")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting FaceFind gateway",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("detector", cfg.Detector),
		slog.Bool("persistence", cfg.PersistenceEnabled()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auditLogger := audit.NewSlogLogger(logger)

	detector, err := detection.New(ctx, cfg, auditLogger)
	if err != nil {
		return fmt.Errorf("failed to create detector: %w", err)
	}

	client := backend.New(backend.Config{
		BaseURL: cfg.BackendURL,
		Token:   cfg.BackendToken,
		Timeout: cfg.HTTPTimeout,
	})

	hub := ws.NewHub(logger.With("component", "ws"))
	go hub.Run(ctx)

	// Alerts: backend + websocket, plus the signed webhook when configured
	notifiers := []alert.Notifier{
		alert.NewBackendNotifier(client.Alerts, logger),
		hub,
	}
	if cfg.AlertWebhookURL != "" {
		notifiers = append(notifiers, alert.NewWebhookNotifier(alert.WebhookConfig{
			URL:        cfg.AlertWebhookURL,
			Secret:     cfg.AlertWebhookSecret,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: 3,
		}, logger))
	}
	engine := alert.NewEngine(alert.Config{
		MinSimilarity: cfg.AlertMinSimilarity,
		Cooldown:      cfg.AlertCooldown,
	})
	worker := alert.NewWorker(engine, alert.NewMultiNotifier(logger, notifiers...), logger.With("component", "alerts"), 0)
	go worker.Run(ctx)

	opts := []recognition.ManagerOption{
		recognition.WithManagerLogger(logger),
		recognition.WithManagerAudit(auditLogger),
		recognition.WithSink(hub.HandleEvent),
		recognition.WithSink(worker.HandleEvent),
	}

	if cfg.DetectionRateLimit > 0 {
		limiter := ratelimit.PerMinute(cfg.DetectionRateLimit)
		go limiter.Run(ctx, time.Minute)
		opts = append(opts, recognition.WithSharedLimiter(limiter))
	}

	deps := &api.Dependencies{
		Backend: client,
		Issuer:  auth.NewIssuer(cfg.SessionSecret, cfg.SessionTTL),
		Hub:     hub,
	}

	if cfg.PersistenceEnabled() {
		poolCfg := database.DefaultPoolConfig(cfg.DatabaseURL)
		if err := database.MigrateUp(poolCfg, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		pool, err := database.NewPgxPool(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		defer pool.Close()

		sightings := repository.NewSightingRepository(pool)
		opts = append(opts, recognition.WithSightingRecorder(sightings))
		deps.Sightings = sightings
		deps.DB = pool

		if cfg.SightingRetention > 0 {
			retention := repository.NewRetentionWorker(sightings, logger.With("component", "retention"), cfg.SightingRetention, time.Hour)
			go retention.Start(ctx)
		}
	}

	manager := recognition.NewManager(detector, recognition.Config{
		Interval:    cfg.RecognitionInterval,
		JPEGQuality: cfg.JPEGQuality,
		LimiterKey:  "detector",
	}, opts...)
	deps.Manager = manager

	display := domain.Size{Width: cfg.OverlayWidth, Height: cfg.OverlayHeight}
	deps.CameraSyncer = cameraSync{manager: manager, display: display}

	if n, err := registerCameras(ctx, client.Cameras, manager, display); err != nil {
		// The gateway still serves; cameras can be retried with a restart
		logger.Warn("failed to load cameras from backend", slog.Any("error", err))
	} else {
		logger.Info("cameras registered", slog.Int("count", n))
	}

	if *imagePath != "" {
		if err := registerDemo(manager, *imagePath, display); err != nil {
			return err
		}
		logger.Info("demo camera registered", slog.String("camera_id", demoCameraID), slog.String("image", *imagePath))
	}

	if cfg.APIRateLimit > 0 {
		deps.APILimiter = ratelimit.PerMinute(cfg.APIRateLimit)
		go deps.APILimiter.Run(ctx, time.Minute)
	}

	// Setup router
	router := api.NewRouter(logger, deps)
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		manager.StopAll()
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	manager.StopAll()
	if err := router.Shutdown(10 * time.Second); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")
	return nil
}
