package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/transit-api/internal/config"
	"github.com/phrazzld/transit-api/internal/platform/backend"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/platform/metrics"
	"github.com/phrazzld/transit-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownTimeout bounds both HTTP draining and backend disconnects.
const shutdownTimeout = 10 * time.Second

// application holds the shared application dependencies and owns their cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger

	registry *prometheus.Registry
	stores   *backend.Stores

	stationService service.StationService
	cardService    service.CardService
}

// newApplication sets up logging and metrics, opens the configured backend and
// builds the use cases on top of it.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("backend", cfg.Storage.Backend))

	return newApplicationWithLogger(ctx, cfg, log)
}

// newApplicationWithLogger is newApplication without touching the process-wide logger.
func newApplicationWithLogger(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	stores, err := backend.Open(ctx, cfg.Storage, backend.Options{
		Logger:  log,
		Metrics: metrics.New(registry),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	app := &application{
		config:   cfg,
		logger:   log,
		registry: registry,
		stores:   stores,
	}

	app.stationService, err = service.NewStationService(stores.Stations, log)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create station service: %w", err)
	}

	app.cardService, err = service.NewCardService(stores.Cards, log)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	log.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled or the server fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the storage connection.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if app.stores != nil {
		if err := app.stores.Close(ctx); err != nil {
			app.logger.Error("error closing storage", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}

// runMigrations opens the backend with schema setup forced on, then closes it.
// The memory backend has no schema and returns immediately.
func runMigrations(ctx context.Context, cfg *config.Config) error {
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	storage := cfg.Storage
	storage.MigrateOnStart = true

	stores, err := backend.Open(ctx, storage, backend.Options{Logger: log})
	if err != nil {
		return fmt.Errorf("failed to prepare storage: %w", err)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stores.Close(closeCtx); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}

	log.Info("storage schema is up to date", slog.String("backend", stores.Kind.String()))
	return nil
}
