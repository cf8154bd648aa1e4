package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg)

	if m.RequestsTotal == nil {
		t.Error("RequestsTotal is nil")
	}
	if m.RequestDuration == nil {
		t.Error("RequestDuration is nil")
	}
	if m.ActiveRequests == nil {
		t.Error("ActiveRequests is nil")
	}
	if m.RouteCacheHits == nil {
		t.Error("RouteCacheHits is nil")
	}
	if m.RouteCacheMisses == nil {
		t.Error("RouteCacheMisses is nil")
	}
	if m.RouteFailures == nil {
		t.Error("RouteFailures is nil")
	}
	if m.BytesTeed == nil {
		t.Error("BytesTeed is nil")
	}
	if m.SSEFramesParsed == nil {
		t.Error("SSEFramesParsed is nil")
	}
	if m.UsageEventsTotal == nil {
		t.Error("UsageEventsTotal is nil")
	}
	if m.ParserErrorsTotal == nil {
		t.Error("ParserErrorsTotal is nil")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected at least one metric family")
	}
}

func TestNewMetricsIncrement(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg)

	m.RequestsTotal.WithLabelValues("anthropic", "200").Inc()
	m.RouteCacheHits.Inc()
	m.RouteCacheMisses.Inc()
	m.ActiveRequests.Set(5)
	m.RequestDuration.WithLabelValues("anthropic").Observe(0.123)
	m.UsageEventsTotal.WithLabelValues("anthropic", "claude-3-5-sonnet-20241022").Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather after increment: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	want := []string{
		"gateway_requests_total",
		"gateway_route_cache_hits_total",
		"gateway_route_cache_misses_total",
		"gateway_active_requests",
		"gateway_forward_duration_seconds",
		"gateway_usage_events_total",
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("missing metric %q in gathered families", name)
		}
	}
}

// SetupTracing is not unit-tested because it requires a gRPC connection
// to an OTLP collector, which is integration-test territory.
