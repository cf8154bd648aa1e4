package strategy

import gateway "github.com/eugener/gandalf/internal"

// Transparent is the most common strategy shape: the target host is a
// well-known constant and the remaining path segments pass through verbatim.
type Transparent struct {
	name    string
	host    string
	headers map[string]string
}

// NewTransparent returns a Transparent strategy for name routing to host.
// Optional static headers (e.g. a provider-specific version header) are
// merged into every successful decision.
func NewTransparent(name, host string, headers map[string]string) Transparent {
	return Transparent{name: name, host: host, headers: headers}
}

func (t Transparent) Name() string { return t.name }

func (t Transparent) Route(p gateway.ParsedPath) gateway.RouteDecision {
	return Success(t.name, "", t.host, p.Rest(), p.Query, t.headers, nil)
}

// Prefixed prepends a fixed segment ahead of the remaining path, e.g.
// OpenRouter prepends "api", Fireworks prepends "inference".
type Prefixed struct {
	name    string
	host    string
	prefix  string
	headers map[string]string
}

// NewPrefixed returns a Prefixed strategy for name routing to host, with
// prefix prepended to every request's remaining segments.
func NewPrefixed(name, host, prefix string, headers map[string]string) Prefixed {
	return Prefixed{name: name, host: host, prefix: prefix, headers: headers}
}

func (pf Prefixed) Name() string { return pf.name }

func (pf Prefixed) Route(p gateway.ParsedPath) gateway.RouteDecision {
	rest := p.Rest()
	segs := make([]string, 0, len(rest)+1)
	segs = append(segs, pf.prefix)
	segs = append(segs, rest...)
	return Success(pf.name, "", pf.host, segs, p.Query, pf.headers, nil)
}
