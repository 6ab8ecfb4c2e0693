// Package origin implements the real video library backed by persistent
// storage. Every call does the full amount of work; callers wanting anything
// cheaper put the cached library in front of it.
package origin

import (
	"context"
	"log/slog"
	"time"

	library "github.com/eugener/radagast/internal"
	"github.com/eugener/radagast/internal/storage"
	"github.com/eugener/radagast/internal/telemetry"
)

// Service is the origin library. It satisfies library.Library.
type Service struct {
	store   storage.VideoStore
	cost    time.Duration // simulated per-call processing cost
	log     *slog.Logger
	metrics *telemetry.Metrics // nil = no metrics
}

// Option configures a Service.
type Option func(*Service)

// WithCost sets a simulated per-call processing delay, standing in for the
// transcode/fetch work a real origin would perform.
func WithCost(d time.Duration) Option {
	return func(s *Service) { s.cost = d }
}

// WithMetrics wires origin call metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates an origin Service on top of the given store.
func New(store storage.VideoStore, log *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, log: log}
	if s.log == nil {
		s.log = slog.Default()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns summaries for the whole catalog.
func (s *Service) List(ctx context.Context) ([]library.VideoSummary, error) {
	done := s.begin(ctx, "list", "")
	list, err := s.store.ListVideos(ctx)
	done(err)
	return list, err
}

// Info returns metadata for a single video.
func (s *Service) Info(ctx context.Context, id string) (*library.VideoInfo, error) {
	done := s.begin(ctx, "info", id)
	v, err := s.store.GetVideo(ctx, id)
	if err != nil {
		done(err)
		return nil, err
	}
	done(nil)
	return v.Info(), nil
}

// Content returns the encoded payload of a single video.
func (s *Service) Content(ctx context.Context, id string) ([]byte, error) {
	done := s.begin(ctx, "content", id)
	content, err := s.store.GetVideoContent(ctx, id)
	done(err)
	return content, err
}

// begin emits the call trace, burns the simulated cost, and returns a
// completion func recording duration and outcome.
func (s *Service) begin(ctx context.Context, op, id string) func(error) {
	start := time.Now()
	s.log.LogAttrs(ctx, slog.LevelDebug, "origin call",
		slog.String("op", op),
		slog.String("id", id),
	)
	s.simulateCost(ctx)
	return func(err error) {
		if s.metrics == nil {
			return
		}
		s.metrics.OriginCalls.WithLabelValues(op).Inc()
		s.metrics.OriginDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.OriginErrors.WithLabelValues(op).Inc()
		}
	}
}

// simulateCost sleeps for the configured per-call cost, honoring cancellation.
func (s *Service) simulateCost(ctx context.Context) {
	if s.cost <= 0 {
		return
	}
	t := time.NewTimer(s.cost)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
