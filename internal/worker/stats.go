package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/eugener/radagast/internal/proxy"
)

// StatsReporter periodically logs cached-library counters, giving operators
// a hit-rate signal without scraping /metrics.
type StatsReporter struct {
	cache    *proxy.CachedLibrary
	interval time.Duration
	log      *slog.Logger
}

// NewStatsReporter creates a StatsReporter with the given report interval.
func NewStatsReporter(cache *proxy.CachedLibrary, interval time.Duration, log *slog.Logger) *StatsReporter {
	if log == nil {
		log = slog.Default()
	}
	return &StatsReporter{cache: cache, interval: interval, log: log}
}

// Name returns the worker identifier.
func (w *StatsReporter) Name() string { return "stats_reporter" }

// Run logs cache stats on every tick until ctx is cancelled.
func (w *StatsReporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s := w.cache.Stats()
			w.log.LogAttrs(ctx, slog.LevelInfo, "cache stats",
				slog.Uint64("list_hits", s.ListHits),
				slog.Uint64("list_misses", s.ListMisses),
				slog.Uint64("info_hits", s.InfoHits),
				slog.Uint64("info_misses", s.InfoMisses),
				slog.Uint64("content_hits", s.ContentHits),
				slog.Uint64("content_misses", s.ContentMisses),
				slog.Uint64("refreshes", s.Refreshes),
				slog.Bool("bypassing", s.Bypassing),
			)
		case <-ctx.Done():
			return nil
		}
	}
}
