// Package main is the entry point for the quote service.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteguard/internal/adapters/clients"
	"github.com/jsamuelsen/quoteguard/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quoteguard/internal/adapters/events"
	"github.com/jsamuelsen/quoteguard/internal/adapters/http"
	"github.com/jsamuelsen/quoteguard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quoteguard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quoteguard/internal/adapters/storage"
	"github.com/jsamuelsen/quoteguard/internal/app"
	"github.com/jsamuelsen/quoteguard/internal/platform/config"
	"github.com/jsamuelsen/quoteguard/internal/platform/logging"
	"github.com/jsamuelsen/quoteguard/internal/platform/telemetry"
	"github.com/jsamuelsen/quoteguard/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

// healthCheckTimeout bounds each readiness probe check.
const healthCheckTimeout = 2 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Open the quote database
	db, err := storage.Open(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	defer func() {
		if closeErr := storage.Close(db); closeErr != nil {
			logger.Error("database close error", slog.Any("error", closeErr))
		}
	}()

	store := storage.NewQuoteStore(db)

	healthRegistry := ports.NewHealthRegistry(healthCheckTimeout)
	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering database health check: %w", err)
	}

	// 6. Client directory: local table, or the CRM behind the anti-corruption layer
	directory, err := newClientDirectory(cfg, db, healthRegistry, logger)
	if err != nil {
		return err
	}

	// 7. Event publisher
	publisher, closePublisher, err := newPublisher(ctx, &cfg.Redis, healthRegistry)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closePublisher.Close(); closeErr != nil {
			logger.Error("publisher close error", slog.Any("error", closeErr))
		}
	}()

	// 8. Application layer
	tolerance, err := decimal.NewFromString(cfg.Quote.PricingTolerance)
	if err != nil {
		return fmt.Errorf("parsing quote.pricing_tolerance: %w", err)
	}

	metrics := telemetry.NewQuoteMetrics(prometheus.DefaultRegisterer)

	controller := app.NewController(app.ControllerConfig{
		Store:     store,
		Validator: app.NewValidator(directory, tolerance),
		TxTimeout: cfg.Database.TxTimeout,
		Hooks:     metrics,
	})

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Controller:     controller,
		Tracker:        app.NewTracker(logger, metrics),
		Publisher:      publisher,
		PublishTimeout: cfg.Redis.PublishTimeout,
		Logger:         logger,
	})

	// 9. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	quoteHandler := handlers.NewQuoteHandler(quoteService)

	// 10. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 11. Setup router with all middleware and routes
	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App, &cfg.Auth, healthHandler, quoteHandler)
	http.SetupRouter(server.Engine(), routerCfg)

	// 12. Start server (non-blocking)
	serverErr := server.Start()

	// 13. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// newClientDirectory reads clients from the local table unless a CRM is
// configured, in which case lookups go through the resilient HTTP client.
func newClientDirectory(
	cfg *config.Config,
	db *gorm.DB,
	registry ports.HealthRegistry,
	logger *slog.Logger,
) (ports.ClientDirectory, error) {
	if !cfg.CRM.Enabled {
		return storage.NewClientDirectory(db), nil
	}

	client, err := clients.New(&clients.Config{
		BaseURL:     cfg.CRM.BaseURL,
		ServiceName: cfg.CRM.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		RequestID:   middleware.RequestIDFromContext,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating CRM client: %w", err)
	}

	crm := acl.NewCRMDirectory(client, cfg.CRM.Name)
	if err := registry.Register(crm); err != nil {
		return nil, fmt.Errorf("registering CRM health check: %w", err)
	}

	return crm, nil
}

// newPublisher returns the Redis publisher when enabled, otherwise a no-op.
// The returned closer is always safe to call.
func newPublisher(
	ctx context.Context,
	cfg *config.RedisConfig,
	registry ports.HealthRegistry,
) (ports.EventPublisher, io.Closer, error) {
	if !cfg.Enabled {
		return ports.NopPublisher{}, io.NopCloser(nil), nil
	}

	pub, err := events.NewRedisPublisher(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}

	if err := registry.RegisterOptional(pub); err != nil {
		_ = pub.Close()
		return nil, nil, fmt.Errorf("registering redis health check: %w", err)
	}

	return pub, pub, nil
}

// waitForShutdown blocks until a shutdown signal is received or the server fails,
// then drains in-flight requests. Deferred closers in run release the database
// and Redis pools only after the server has stopped.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
