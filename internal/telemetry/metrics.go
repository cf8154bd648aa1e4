// Package telemetry provides observability primitives for the gateway.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the gateway.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	ActiveRequests    prometheus.Gauge
	RouteCacheHits    prometheus.Counter
	RouteCacheMisses  prometheus.Counter
	RouteFailures     *prometheus.CounterVec
	BytesTeed         *prometheus.CounterVec
	SSEFramesParsed   *prometheus.CounterVec
	UsageEventsTotal  *prometheus.CounterVec
	ParserErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "requests_total",
			Help:      "Total number of forwarded requests.",
		}, []string{"provider", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:                       "gateway",
			Name:                            "forward_duration_seconds",
			Help:                            "Upstream forward latency in seconds, from dispatch to first response byte.",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 0,
		}, []string{"provider"}),

		ActiveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gateway",
			Name:      "active_requests",
			Help:      "Number of currently active forwarded requests.",
		}),

		RouteCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "route_cache_hits_total",
			Help:      "Total routing-decision cache hits.",
		}),

		RouteCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "route_cache_misses_total",
			Help:      "Total routing-decision cache misses.",
		}),

		RouteFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "route_failures_total",
			Help:      "Total requests that failed provider routing.",
		}, []string{"provider"}),

		BytesTeed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "bytes_teed_total",
			Help:      "Total response bytes copied to the usage observer.",
		}, []string{"provider"}),

		SSEFramesParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "sse_frames_parsed_total",
			Help:      "Total server-sent-event data frames parsed.",
		}, []string{"provider"}),

		UsageEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "usage_events_total",
			Help:      "Total usage events emitted by response parsers.",
		}, []string{"provider", "model"}),

		ParserErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "parser_errors_total",
			Help:      "Total response parse failures (decompressor setup, stream scan, or body read errors).",
		}, []string{"provider"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ActiveRequests,
		m.RouteCacheHits,
		m.RouteCacheMisses,
		m.RouteFailures,
		m.BytesTeed,
		m.SSEFramesParsed,
		m.UsageEventsTotal,
		m.ParserErrorsTotal,
	)

	return m
}
