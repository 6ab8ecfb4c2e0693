// Package server implements the HTTP transport layer for the Radagast gateway.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	library "github.com/eugener/radagast/internal"
	"github.com/eugener/radagast/internal/proxy"
	"github.com/eugener/radagast/internal/storage"
	"github.com/eugener/radagast/internal/telemetry"
)

// ReadyChecker reports whether the system is ready to serve traffic.
type ReadyChecker func(ctx context.Context) error

// Deps holds all dependencies for the HTTP server.
type Deps struct {
	Library    library.Library      // read path, usually the cached library
	Cache      *proxy.CachedLibrary // nil = cache admin endpoints report 404
	Store      storage.Store        // nil = catalog admin endpoints report 404
	ReadyCheck ReadyChecker         // nil = always ready (for tests)
	Metrics    *telemetry.Metrics   // nil = no request metrics
	Registry   *prometheus.Registry // nil = no /metrics endpoint
}

// New creates an http.Handler with all routes and middleware wired.
func New(deps Deps) http.Handler {
	s := &server{deps: deps}

	r := chi.NewRouter()

	// Global middleware
	r.Use(s.recovery)
	r.Use(s.requestID)
	r.Use(s.logging)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	// System endpoints
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Catalog read API
	r.Route("/v1/videos", func(r chi.Router) {
		r.Get("/", s.handleListVideos)
		r.Get("/{id}", s.handleVideoInfo)
		r.Get("/{id}/content", s.handleVideoContent)
	})

	// Administrative API
	r.Route("/admin", func(r chi.Router) {
		r.Post("/cache/refresh", s.handleCacheRefresh)
		r.Post("/cache/resume", s.handleCacheResume)
		r.Get("/cache/stats", s.handleCacheStats)
		r.Post("/videos", s.handleCreateVideo)
		r.Put("/videos/{id}", s.handleUpdateVideo)
		r.Delete("/videos/{id}", s.handleDeleteVideo)
	})

	return r
}

type server struct {
	deps Deps
}
