package breaker

import (
	"context"
	"errors"
	"log/slog"

	library "github.com/eugener/radagast/internal"
)

// ErrOpen is returned when the breaker rejects a call without consulting the
// wrapped library.
var ErrOpen = errors.New("origin circuit open")

// Library wraps a library.Library with a circuit breaker. It performs no
// caching and no error translation beyond the ErrOpen short-circuit.
type Library struct {
	next    library.Library
	breaker *Breaker
	log     *slog.Logger
}

// Wrap decorates the given library with a breaker.
func Wrap(next library.Library, cfg Config, log *slog.Logger) *Library {
	if log == nil {
		log = slog.Default()
	}
	return &Library{next: next, breaker: NewBreaker(cfg), log: log}
}

// State returns the current breaker state.
func (l *Library) State() State { return l.breaker.State() }

// List forwards to the wrapped library when the breaker admits the call.
func (l *Library) List(ctx context.Context) ([]library.VideoSummary, error) {
	if !l.allow(ctx, "list") {
		return nil, ErrOpen
	}
	list, err := l.next.List(ctx)
	l.breaker.Record(classify(err))
	return list, err
}

// Info forwards to the wrapped library when the breaker admits the call.
func (l *Library) Info(ctx context.Context, id string) (*library.VideoInfo, error) {
	if !l.allow(ctx, "info") {
		return nil, ErrOpen
	}
	info, err := l.next.Info(ctx, id)
	l.breaker.Record(classify(err))
	return info, err
}

// Content forwards to the wrapped library when the breaker admits the call.
func (l *Library) Content(ctx context.Context, id string) ([]byte, error) {
	if !l.allow(ctx, "content") {
		return nil, ErrOpen
	}
	content, err := l.next.Content(ctx, id)
	l.breaker.Record(classify(err))
	return content, err
}

func (l *Library) allow(ctx context.Context, op string) bool {
	if l.breaker.Allow() {
		return true
	}
	l.log.LogAttrs(ctx, slog.LevelWarn, "origin call short-circuited",
		slog.String("op", op),
	)
	return false
}

// classify returns the error weight for breaker tracking. Not-found is the
// caller's fault and must never trip the breaker; timeouts weigh heaviest.
func classify(err error) float64 {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, library.ErrNotFound), errors.Is(err, library.ErrBadRequest):
		return 0
	case errors.Is(err, context.DeadlineExceeded):
		return 1.5
	default:
		return 1.0
	}
}
