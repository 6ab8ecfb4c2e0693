package worker

import (
	"context"
	"log/slog"
	"time"

	library "github.com/eugener/radagast/internal"
)

// CacheWarmer periodically lists the catalog through the cached library so
// the listing slot is populated before the first client asks for it.
type CacheWarmer struct {
	lib      library.Library
	interval time.Duration
	log      *slog.Logger
}

// NewCacheWarmer creates a CacheWarmer with the given refresh interval.
func NewCacheWarmer(lib library.Library, interval time.Duration, log *slog.Logger) *CacheWarmer {
	if log == nil {
		log = slog.Default()
	}
	return &CacheWarmer{lib: lib, interval: interval, log: log}
}

// Name returns the worker identifier.
func (w *CacheWarmer) Name() string { return "cache_warmer" }

// Run performs an initial warm-up, then re-warms on every tick until ctx is
// cancelled. Warm-up failures are logged and retried on the next tick.
func (w *CacheWarmer) Run(ctx context.Context) error {
	w.warm(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.warm(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *CacheWarmer) warm(ctx context.Context) {
	list, err := w.lib.List(ctx)
	if err != nil {
		w.log.LogAttrs(ctx, slog.LevelError, "cache warm-up failed",
			slog.String("error", err.Error()),
		)
		return
	}
	w.log.LogAttrs(ctx, slog.LevelDebug, "cache warmed",
		slog.Int("videos", len(list)),
	)
}
