package strategy

import gateway "github.com/eugener/gandalf/internal"

// Override wraps another ProviderStrategy and substitutes its host (and,
// for Prefixed-shaped strategies, its leading prefix segment) without
// changing the strategy's name or routing shape. It exists so operators can
// point a built-in provider at a private mirror or pin a region via
// configuration instead of code.
type Override struct {
	inner  gateway.ProviderStrategy
	host   string
	prefix string
}

// NewOverride wraps inner, replacing its host with host (if non-empty) and
// its first target segment with prefix (if non-empty) on every successful
// route. Prefix substitution only makes sense for strategies whose Route
// prepends a fixed segment (Prefixed); applying it to a Transparent
// strategy would silently corrupt the path, so callers should only set
// prefix when wrapping a Prefixed strategy.
func NewOverride(inner gateway.ProviderStrategy, host, prefix string) Override {
	return Override{inner: inner, host: host, prefix: prefix}
}

func (o Override) Name() string { return o.inner.Name() }

func (o Override) Route(p gateway.ParsedPath) gateway.RouteDecision {
	d := o.inner.Route(p)
	if !d.OK {
		return d
	}
	if o.host != "" {
		d.Host = o.host
	}
	if o.prefix != "" && len(d.TargetSegments) > 0 {
		segs := make([]string, len(d.TargetSegments))
		copy(segs, d.TargetSegments)
		segs[0] = o.prefix
		d.TargetSegments = segs
	}
	return d
}
