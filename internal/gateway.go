// Package gateway defines the domain types shared across the proxy pipeline.
// This package has no project imports -- it is the dependency root.
package gateway

import (
	"context"
	"strings"
	"time"
)

// --- ParsedPath ---

// ParsedPath is the result of splitting an inbound request path into
// non-empty segments, preserving order. It is read-only after construction.
type ParsedPath struct {
	Original string
	Segments []string
	Query    string
}

// Provider returns the first path segment, or "" if there are no segments.
func (p ParsedPath) Provider() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[0]
}

// Rest returns the segments after the provider name. Never nil.
func (p ParsedPath) Rest() []string {
	if len(p.Segments) <= 1 {
		return []string{}
	}
	return p.Segments[1:]
}

// --- RouteDecision ---

// RouteDecision is the outcome of dispatching a ParsedPath to a provider
// strategy: either a Success describing the target origin, or a Failure
// carrying a human-readable error.
type RouteDecision struct {
	OK             bool
	Provider       string
	Scheme         string // defaults to "https" when empty
	Host           string
	TargetSegments []string
	Query          string
	ExtraHeaders   map[string]string // names are canonical; lookups are case-insensitive
	Metadata       map[string]string
	Error          string
}

// Failure builds a failed RouteDecision with the given message.
func Failure(errMsg string) RouteDecision {
	return RouteDecision{OK: false, Error: errMsg}
}

// EffectiveScheme returns the decision's scheme, defaulting to "https".
func (d RouteDecision) EffectiveScheme() string {
	if d.Scheme == "" {
		return "https"
	}
	return d.Scheme
}

// TargetURI renders scheme://host/joined-segments[?query] per §3's invariant.
func (d RouteDecision) TargetURI() string {
	uri := d.EffectiveScheme() + "://" + d.Host + "/" + strings.Join(d.TargetSegments, "/")
	if d.Query != "" {
		uri += "?" + strings.TrimPrefix(d.Query, "?")
	}
	return uri
}

// --- Usage telemetry ---

// TokenMetrics is the token-count tuple extracted from an upstream response.
type TokenMetrics struct {
	Input  int32
	Output int32
	Cached int32
	Total  int32
}

// Micros is a fixed-point currency amount in millionths of a currency unit
// (six decimal places), matching the pricing table's per-million-token rates.
type Micros int64

// Float64 returns the amount as a float64 currency value.
func (m Micros) Float64() float64 { return float64(m) / 1e6 }

// CostBreakdown is the per-bucket monetary cost of a token usage tuple,
// computed only for Anthropic. All fields are six-decimal fixed-point.
type CostBreakdown struct {
	InputCost         Micros
	OutputCost        Micros
	CacheCreationCost Micros
	CacheReadCost     Micros
	TotalCost         Micros
}

// PricingEntry is a static per-model rate table row (rates per million tokens).
type PricingEntry struct {
	Model                string
	InputPerMillion      float64
	OutputPerMillion     float64
	CacheWritePerMillion float64
	CacheReadPerMillion  float64
}

// UsageEvent is emitted at most once per observed request.
type UsageEvent struct {
	RequestID string
	Provider  string
	Model     string
	Streaming bool
	Timestamp time.Time
	Tokens    TokenMetrics
	Cost      *CostBreakdown
}

// --- Provider strategy ---

// ProviderStrategy is a pure function from a parsed path to a route decision.
// Implementations never modify request bodies or inject authorization.
type ProviderStrategy interface {
	// Name returns the lowercase provider identifier this strategy handles.
	Name() string
	// Route derives the target origin for the given parsed path.
	Route(p ParsedPath) RouteDecision
}

// --- Context ---

type contextKey int

const ctxKeyMeta contextKey = 0

// requestMeta bundles per-request context values into a single allocation,
// matching the pattern of storing mutually-exclusive per-request fields
// together instead of chaining multiple context.WithValue calls.
type requestMeta struct {
	RequestID string
	Path      *ParsedPath
	Decision  *RouteDecision
}

func metaFromContext(ctx context.Context) *requestMeta {
	m, _ := ctx.Value(ctxKeyMeta).(*requestMeta)
	return m
}

// ContextWithRequestID returns a context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if m := metaFromContext(ctx); m != nil {
		m.RequestID = id
		return ctx
	}
	return context.WithValue(ctx, ctxKeyMeta, &requestMeta{RequestID: id})
}

// RequestIDFromContext extracts the request ID from context, or "".
func RequestIDFromContext(ctx context.Context) string {
	if m := metaFromContext(ctx); m != nil {
		return m.RequestID
	}
	return ""
}

// ContextWithParsedPath attaches the parsed path to the context.
func ContextWithParsedPath(ctx context.Context, p ParsedPath) context.Context {
	if m := metaFromContext(ctx); m != nil {
		m.Path = &p
		return ctx
	}
	return context.WithValue(ctx, ctxKeyMeta, &requestMeta{Path: &p})
}

// ParsedPathFromContext extracts the parsed path from context, if present.
func ParsedPathFromContext(ctx context.Context) (ParsedPath, bool) {
	if m := metaFromContext(ctx); m != nil && m.Path != nil {
		return *m.Path, true
	}
	return ParsedPath{}, false
}

// ContextWithRouteDecision attaches the route decision to the context.
func ContextWithRouteDecision(ctx context.Context, d RouteDecision) context.Context {
	if m := metaFromContext(ctx); m != nil {
		m.Decision = &d
		return ctx
	}
	return context.WithValue(ctx, ctxKeyMeta, &requestMeta{Decision: &d})
}

// RouteDecisionFromContext extracts the route decision from context, if present.
func RouteDecisionFromContext(ctx context.Context) (RouteDecision, bool) {
	if m := metaFromContext(ctx); m != nil && m.Decision != nil {
		return *m.Decision, true
	}
	return RouteDecision{}, false
}
