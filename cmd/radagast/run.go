package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	library "github.com/eugener/radagast/internal"
	"github.com/eugener/radagast/internal/breaker"
	"github.com/eugener/radagast/internal/config"
	"github.com/eugener/radagast/internal/origin"
	"github.com/eugener/radagast/internal/proxy"
	"github.com/eugener/radagast/internal/server"
	"github.com/eugener/radagast/internal/storage/sqlite"
	"github.com/eugener/radagast/internal/telemetry"
	"github.com/eugener/radagast/internal/worker"
)

func run(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	slog.Info("starting radagast", "version", version, "addr", cfg.Server.Addr)

	// Telemetry
	var (
		metrics  *telemetry.Metrics
		registry *prometheus.Registry
	)
	if cfg.Telemetry.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		metrics = telemetry.NewMetrics(registry)
	}

	ctx := context.Background()
	if cfg.Telemetry.Tracing.Enabled {
		shutdown, err := telemetry.SetupTracing(ctx, cfg.Telemetry.Tracing.Endpoint, cfg.Telemetry.Tracing.SampleRate)
		if err != nil {
			return err
		}
		defer shutdown(context.Background())
	}

	// Open database
	store, err := sqlite.New(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	// Bootstrap catalog from config
	if err := config.Bootstrap(ctx, cfg, store); err != nil {
		return err
	}

	// Wire the library chain: origin -> breaker -> cache.
	var lib library.Library = origin.New(store, slog.Default(),
		origin.WithCost(cfg.Origin.CostPerCall),
		origin.WithMetrics(metrics),
	)

	if cfg.Breaker.Enabled {
		lib = breaker.Wrap(lib, breaker.Config{
			ErrorThreshold: cfg.Breaker.ErrorThreshold,
			MinSamples:     cfg.Breaker.MinSamples,
			WindowSeconds:  cfg.Breaker.WindowSeconds,
			OpenTimeout:    cfg.Breaker.OpenTimeout,
		}, slog.Default())
	}

	var cached *proxy.CachedLibrary
	if cfg.Cache.IsEnabled() {
		cached, err = proxy.New(lib, proxy.Options{
			Policy:     proxy.Policy(cfg.Cache.Policy),
			MaxEntries: cfg.Cache.MaxEntries,
			TTL:        cfg.Cache.TTL,
			Metrics:    metrics,
			Logger:     slog.Default(),
		})
		if err != nil {
			return err
		}
		lib = cached
	}

	// Create HTTP server
	handler := server.New(server.Deps{
		Library:    lib,
		Cache:      cached,
		Store:      store,
		ReadyCheck: store.Ping,
		Metrics:    metrics,
		Registry:   registry,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	var workers []worker.Worker
	if cfg.Warmer.Enabled && cached != nil {
		workers = append(workers, worker.NewCacheWarmer(cached, cfg.Warmer.Interval, slog.Default()))
		workers = append(workers, worker.NewStatsReporter(cached, cfg.Warmer.Interval, slog.Default()))
	}

	workersDone := make(chan error, 1)
	if len(workers) > 0 {
		go func() {
			workersDone <- worker.NewRunner(workers...).Run(workerCtx)
		}()
	} else {
		close(workersDone)
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Info("radagast ready", "addr", cfg.Server.Addr)

	// Wait for signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig)
	case err := <-errCh:
		return err
	}

	// Shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	stopWorkers()
	<-workersDone

	slog.Info("radagast stopped")
	return nil
}
