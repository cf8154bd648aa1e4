package server

import (
	"log/slog"
	"net/http"
	"time"

	gateway "github.com/eugener/gandalf/internal"
	"github.com/eugener/gandalf/internal/forwarder"
	"github.com/eugener/gandalf/internal/observer"
	"github.com/eugener/gandalf/internal/respparser"
	"github.com/eugener/gandalf/internal/routepath"
	"github.com/eugener/gandalf/internal/tracker"
)

// handleGateway implements the Gateway Middleware: parse the inbound path,
// dispatch it to a provider strategy, forward the request verbatim, and tee
// the response through the usage observer. This is the single entry point
// for every provider request; there is no per-provider handler.
func (s *server) handleGateway(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parsed := routepath.Parse(r.URL.Path, r.URL.RawQuery)
	ctx = gateway.ContextWithParsedPath(ctx, parsed)

	decision := s.deps.Router.Dispatch(parsed)
	ctx = gateway.ContextWithRouteDecision(ctx, decision)
	r = r.WithContext(ctx)

	if !decision.OK {
		if s.deps.Metrics != nil {
			s.deps.Metrics.RouteFailures.WithLabelValues(parsed.Provider()).Inc()
		}
		writePlainText(w, http.StatusNotFound, decision.Error)
		return
	}

	forwardStart := time.Now()
	resp, err := forwarder.Forward(ctx, s.deps.Client, r, decision)
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "forward failed",
			slog.String("provider", decision.Provider),
			slog.String("request_id", gateway.RequestIDFromContext(ctx)),
			slog.String("error", err.Error()),
		)
		writePlainText(w, http.StatusBadGateway, "Bad Gateway")
		return
	}
	defer resp.Body.Close()

	if s.deps.Metrics != nil {
		s.deps.Metrics.RequestDuration.WithLabelValues(decision.Provider).Observe(time.Since(forwardStart).Seconds())
	}

	forwarder.CopyResponseHeaders(w, resp)
	w.WriteHeader(resp.StatusCode)

	family := respparser.FamilyNone
	if f, ok := tracker.ShouldTrack(r, parsed); ok {
		family = f
	}

	requestID := gateway.RequestIDFromContext(ctx)
	emit := func(ev gateway.UsageEvent) {
		if s.deps.Metrics != nil {
			s.deps.Metrics.UsageEventsTotal.WithLabelValues(ev.Provider, ev.Model).Inc()
		}
		if s.deps.Sink != nil {
			s.deps.Sink.Consume(ev)
		}
	}

	if err := observer.Stream(ctx, w, resp, family, requestID, decision.Provider, s.deps.Metrics, emit, slog.Default()); err != nil {
		slog.LogAttrs(ctx, slog.LevelDebug, "response stream ended early",
			slog.String("provider", decision.Provider),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
	}
}
