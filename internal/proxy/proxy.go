// Package proxy implements the cached video library. It satisfies the same
// library.Library contract as the origin it wraps: hits are served from
// memory, misses consult the delegate and store the result on success.
package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maypok86/otter/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	library "github.com/eugener/radagast/internal"
	"github.com/eugener/radagast/internal/telemetry"
)

// Policy controls what ForceRefresh does to cached state.
type Policy string

const (
	// PolicyOneShot drops all cached entries once; the next call per key
	// consults the delegate and caching resumes immediately.
	PolicyOneShot Policy = "one_shot"
	// PolicySticky raises a bypass flag that stays up until ResumeCaching:
	// every lookup consults the delegate, stored entries are retained and
	// overwritten as fresh results arrive.
	PolicySticky Policy = "sticky"
)

// Options configures a CachedLibrary.
type Options struct {
	Policy     Policy             // defaults to PolicyOneShot
	MaxEntries int                // per keyed cache, defaults to 10_000
	TTL        time.Duration      // per-entry expiry for keyed caches, 0 = never
	Metrics    *telemetry.Metrics // nil = no metrics
	Logger     *slog.Logger       // nil = slog.Default()
}

// CachedLibrary fronts a delegate library with three independent caches:
// an unkeyed slot for the catalog listing and two otter caches keyed by
// video id for metadata and content.
type CachedLibrary struct {
	delegate library.Library
	policy   Policy

	mu       sync.Mutex // guards list and haveList
	list     []library.VideoSummary
	haveList bool

	info    *otter.Cache[string, *library.VideoInfo]
	content *otter.Cache[string, []byte]

	bypass atomic.Bool       // when set, every lookup is treated as a miss
	flight singleflight.Group

	listHits, listMisses       atomic.Uint64
	infoHits, infoMisses       atomic.Uint64
	contentHits, contentMisses atomic.Uint64
	refreshes                  atomic.Uint64

	log     *slog.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
}

// Stats is a point-in-time snapshot of cache behavior.
type Stats struct {
	ListHits      uint64 `json:"list_hits"`
	ListMisses    uint64 `json:"list_misses"`
	InfoHits      uint64 `json:"info_hits"`
	InfoMisses    uint64 `json:"info_misses"`
	ContentHits   uint64 `json:"content_hits"`
	ContentMisses uint64 `json:"content_misses"`
	Refreshes     uint64 `json:"refreshes"`
	Bypassing     bool   `json:"bypassing"`
}

// New creates a CachedLibrary around the given delegate.
func New(delegate library.Library, opts Options) (*CachedLibrary, error) {
	if opts.Policy == "" {
		opts.Policy = PolicyOneShot
	}
	if opts.Policy != PolicyOneShot && opts.Policy != PolicySticky {
		return nil, fmt.Errorf("unknown refresh policy %q", opts.Policy)
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = 10_000
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	infoOpts := &otter.Options[string, *library.VideoInfo]{MaximumSize: opts.MaxEntries}
	contentOpts := &otter.Options[string, []byte]{MaximumSize: opts.MaxEntries}
	if opts.TTL > 0 {
		infoOpts.ExpiryCalculator = otter.ExpiryWriting[string, *library.VideoInfo](opts.TTL)
		contentOpts.ExpiryCalculator = otter.ExpiryWriting[string, []byte](opts.TTL)
	}
	info, err := otter.New(infoOpts)
	if err != nil {
		return nil, fmt.Errorf("create info cache: %w", err)
	}
	content, err := otter.New(contentOpts)
	if err != nil {
		return nil, fmt.Errorf("create content cache: %w", err)
	}

	return &CachedLibrary{
		delegate: delegate,
		policy:   opts.Policy,
		info:     info,
		content:  content,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		tracer:   otel.Tracer("radagast/proxy"),
	}, nil
}

// List serves the catalog listing from the unkeyed slot when possible.
func (c *CachedLibrary) List(ctx context.Context) ([]library.VideoSummary, error) {
	if !c.bypass.Load() {
		c.mu.Lock()
		if c.haveList {
			list := c.list
			c.mu.Unlock()
			c.hit(ctx, "list", &c.listHits, "")
			return list, nil
		}
		c.mu.Unlock()
	}

	c.miss(ctx, "list", &c.listMisses, "")
	v, err, _ := c.flight.Do("list", func() (any, error) {
		ctx, span := c.tracer.Start(ctx, "library.List")
		defer span.End()
		list, err := c.delegate.List(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.list = list
		c.haveList = true
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]library.VideoSummary), nil
}

// Info serves video metadata from the keyed info cache when possible.
func (c *CachedLibrary) Info(ctx context.Context, id string) (*library.VideoInfo, error) {
	if !c.bypass.Load() {
		if info, ok := c.info.GetIfPresent(id); ok {
			c.hit(ctx, "info", &c.infoHits, id)
			return info, nil
		}
	}

	c.miss(ctx, "info", &c.infoMisses, id)
	v, err, _ := c.flight.Do("info:"+id, func() (any, error) {
		ctx, span := c.tracer.Start(ctx, "library.Info")
		defer span.End()
		info, err := c.delegate.Info(ctx, id)
		if err != nil {
			// Failed lookups never create entries.
			return nil, err
		}
		c.info.Set(id, info)
		return info, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*library.VideoInfo), nil
}

// Content serves video payloads from the keyed content cache when possible.
func (c *CachedLibrary) Content(ctx context.Context, id string) ([]byte, error) {
	if !c.bypass.Load() {
		if content, ok := c.content.GetIfPresent(id); ok {
			c.hit(ctx, "content", &c.contentHits, id)
			return content, nil
		}
	}

	c.miss(ctx, "content", &c.contentMisses, id)
	v, err, _ := c.flight.Do("content:"+id, func() (any, error) {
		ctx, span := c.tracer.Start(ctx, "library.Content")
		defer span.End()
		content, err := c.delegate.Content(ctx, id)
		if err != nil {
			return nil, err
		}
		c.content.Set(id, content)
		return content, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// ForceRefresh invalidates cached state according to the configured policy.
// It is deliberately not part of library.Library, so consumers holding the
// interface cannot trigger it.
func (c *CachedLibrary) ForceRefresh() {
	c.refreshes.Add(1)
	if c.metrics != nil {
		c.metrics.CacheRefreshes.Inc()
	}
	c.log.LogAttrs(context.Background(), slog.LevelInfo, "cache refresh forced",
		slog.String("policy", string(c.policy)),
	)
	if c.policy == PolicySticky {
		c.bypass.Store(true)
		return
	}
	c.purge()
}

// ResumeCaching drops the sticky bypass flag. No-op under one_shot.
func (c *CachedLibrary) ResumeCaching() {
	c.bypass.Store(false)
}

// Bypassing reports whether lookups are currently forced to miss.
func (c *CachedLibrary) Bypassing() bool { return c.bypass.Load() }

// HasContent reports whether a content lookup for id would currently be
// served from cache. Advisory only: the answer can change before a
// subsequent Content call.
func (c *CachedLibrary) HasContent(id string) bool {
	if c.bypass.Load() {
		return false
	}
	_, ok := c.content.GetIfPresent(id)
	return ok
}

// Stats returns a snapshot of cache counters.
func (c *CachedLibrary) Stats() Stats {
	return Stats{
		ListHits:      c.listHits.Load(),
		ListMisses:    c.listMisses.Load(),
		InfoHits:      c.infoHits.Load(),
		InfoMisses:    c.infoMisses.Load(),
		ContentHits:   c.contentHits.Load(),
		ContentMisses: c.contentMisses.Load(),
		Refreshes:     c.refreshes.Load(),
		Bypassing:     c.bypass.Load(),
	}
}

func (c *CachedLibrary) purge() {
	c.mu.Lock()
	c.list = nil
	c.haveList = false
	c.mu.Unlock()
	c.info.InvalidateAll()
	c.content.InvalidateAll()
}

func (c *CachedLibrary) hit(ctx context.Context, cache string, counter *atomic.Uint64, id string) {
	counter.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHits.WithLabelValues(cache).Inc()
	}
	c.log.LogAttrs(ctx, slog.LevelDebug, "cache hit",
		slog.String("cache", cache),
		slog.String("id", id),
	)
}

func (c *CachedLibrary) miss(ctx context.Context, cache string, counter *atomic.Uint64, id string) {
	counter.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMisses.WithLabelValues(cache).Inc()
	}
	c.log.LogAttrs(ctx, slog.LevelDebug, "cache miss",
		slog.String("cache", cache),
		slog.String("id", id),
	)
}
