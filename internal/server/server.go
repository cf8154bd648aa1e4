// Package server implements the HTTP transport layer for the gateway: a
// single wildcard dispatcher that parses, routes, forwards, and observes
// every inbound request, plus a small set of ambient operational endpoints.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.opentelemetry.io/otel/trace"

	"github.com/eugener/gandalf/internal/router"
	"github.com/eugener/gandalf/internal/telemetry"
	"github.com/eugener/gandalf/internal/tracker"
)

// ReadyChecker reports whether the system is ready to serve traffic.
type ReadyChecker func(ctx context.Context) error

// Deps holds all dependencies for the HTTP server.
type Deps struct {
	Router         *router.Router
	Client         *http.Client
	Sink           tracker.Sink
	Metrics        *telemetry.Metrics // nil = no Prometheus metrics
	MetricsHandler http.Handler       // nil = no /metrics endpoint
	Tracer         trace.Tracer       // nil = no distributed tracing
	ReadyCheck     ReadyChecker       // nil = always ready (for tests)
}

// New creates an http.Handler with all routes and middleware wired.
func New(deps Deps) http.Handler {
	s := &server{deps: deps}

	r := chi.NewRouter()

	r.Use(s.securityHeaders)
	r.Use(s.recovery)
	r.Use(s.requestID)
	r.Use(s.logging)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}
	if deps.Tracer != nil {
		r.Use(tracingMiddleware(deps.Tracer))
	}

	r.Get("/health", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Get("/providers", s.handleListProviders)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.HandleFunc("/{provider}/*", s.handleGateway)

	return r
}

type server struct {
	deps Deps
}
