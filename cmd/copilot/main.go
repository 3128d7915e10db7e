package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"copilot-ops/internal/config"
	"copilot-ops/internal/levels"
	"copilot-ops/internal/metrics"
	"copilot-ops/internal/service/copilot"
	"copilot-ops/internal/service/export"
	"copilot-ops/internal/storage/sqlstore"
	"copilot-ops/internal/validation"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env, cfg.Log, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}

	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	storage, err := sqlstore.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer storage.Close()

	app, err := newApp(ctx, cfg, log, storage)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, app),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("driver", cfg.Storage.Driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// app holds the services the routes are built from.
type app struct {
	copilot *copilot.Service
	export  *export.ExportService
	levels  *levels.Provider
	metrics *metrics.Metrics
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, storage *sqlstore.Storage) (*app, error) {
	provider := levels.NewProvider(log, storage, cfg.Levels.CacheSize, cfg.Levels.CacheTTL)

	if cfg.Levels.SeedFile != "" {
		seed, err := levels.LoadSeed(ctx, cfg.Levels.SeedFile)
		if err != nil {
			return nil, err
		}
		if err := provider.Seed(ctx, seed); err != nil {
			return nil, err
		}
		log.Info("levels seeded", slog.Int("count", len(seed)), slog.String("source", cfg.Levels.SeedFile))
	}

	validator, err := validation.New(cfg.Validation.Locale)
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	return &app{
		copilot: copilot.New(log, storage, provider, validator,
			copilot.WithMetrics(m),
			copilot.WithLocale(cfg.Validation.Locale),
		),
		export:  export.NewExportService(storage),
		levels:  provider,
		metrics: m,
	}, nil
}
