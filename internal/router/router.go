// Package router implements the Provider Router: a frozen, case-insensitive
// registry mapping provider name to strategy, with an optional routing-
// decision cache for the pure strategy-dispatch computation.
package router

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/maypok86/otter/v2"

	gateway "github.com/eugener/gandalf/internal"
	"github.com/eugener/gandalf/internal/telemetry"
)

// Router dispatches a ParsedPath to the strategy registered for its provider
// segment. It is built once at startup and frozen before serving traffic;
// Dispatch takes no locks.
type Router struct {
	strategies map[string]gateway.ProviderStrategy
	names      []string // sorted, for "Available: ..." messages
	cache      *otter.Cache[string, gateway.RouteDecision]
	metrics    *telemetry.Metrics
}

// SetMetrics attaches a metrics sink for cache hit/miss counters. Optional;
// a nil Router metrics field (the zero value) simply skips recording.
func (r *Router) SetMetrics(m *telemetry.Metrics) {
	r.metrics = m
}

// CacheOptions configures the optional routing-decision cache. A zero value
// disables caching.
type CacheOptions struct {
	Enabled bool
	MaxSize int
	TTL     time.Duration
}

// New builds a Router from the given strategies. It returns an error if two
// strategies share the same (case-insensitive) name -- duplicate
// registration is an initialization error, never a runtime fallback.
func New(strategies []gateway.ProviderStrategy, cacheOpts CacheOptions) (*Router, error) {
	m := make(map[string]gateway.ProviderStrategy, len(strategies))
	for _, s := range strategies {
		key := strings.ToLower(s.Name())
		if _, exists := m[key]; exists {
			return nil, fmt.Errorf("router: duplicate strategy registration for provider %q", key)
		}
		m[key] = s
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	r := &Router{strategies: m, names: names}

	if cacheOpts.Enabled {
		maxSize := cacheOpts.MaxSize
		if maxSize <= 0 {
			maxSize = 4096
		}
		ttl := cacheOpts.TTL
		if ttl <= 0 {
			ttl = 10 * time.Second
		}
		r.cache = otter.Must(&otter.Options[string, gateway.RouteDecision]{
			MaximumSize:      maxSize,
			ExpiryCalculator: otter.ExpiryWriting[string, gateway.RouteDecision](ttl),
		})
	}

	return r, nil
}

// Dispatch looks up the lower-cased provider segment and routes the parsed
// path through its strategy. An unregistered provider yields a Failure
// listing every registered name. A strategy's own failure is propagated
// unchanged. Dispatch is a pure function of p, so a cache hit is always
// equal to what a fresh Route call would return -- this never caches
// anything fetched from an upstream origin.
func (r *Router) Dispatch(p gateway.ParsedPath) gateway.RouteDecision {
	provider := strings.ToLower(p.Provider())
	if provider == "" {
		return gateway.Failure("Unknown provider: (empty). Available: " + strings.Join(r.names, ", "))
	}

	cacheKey := provider + "\x00" + strings.Join(p.Rest(), "/") + "\x00" + p.Query
	if r.cache != nil {
		if cached, ok := r.cache.GetIfPresent(cacheKey); ok {
			if r.metrics != nil {
				r.metrics.RouteCacheHits.Inc()
			}
			return cached
		}
		if r.metrics != nil {
			r.metrics.RouteCacheMisses.Inc()
		}
	}

	strat, ok := r.strategies[provider]
	if !ok {
		return gateway.Failure(fmt.Sprintf("Unknown provider: %s. Available: %s", p.Provider(), strings.Join(r.names, ", ")))
	}

	decision := strat.Route(p)

	if r.cache != nil {
		r.cache.Set(cacheKey, decision)
	}
	return decision
}

// Names returns the sorted list of every registered provider name.
func (r *Router) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
