// Package strategy implements the Result Builder and the three provider
// strategy shapes (Transparent, Prefixed, Templated) described in the
// gateway's provider routing design.
package strategy

import gateway "github.com/eugener/gandalf/internal"

// Success builds a successful RouteDecision. metadata["Provider"] is always
// set to name; any caller-supplied metadata is merged on top, so a caller key
// that collides with "Provider" wins (last merge wins). extraHeaders and
// metadata are normalized to non-nil maps.
func Success(name, scheme, host string, targetSegments []string, query string, extraHeaders, metadata map[string]string) gateway.RouteDecision {
	hdrs := make(map[string]string, len(extraHeaders))
	for k, v := range extraHeaders {
		hdrs[k] = v
	}

	meta := map[string]string{"Provider": name}
	for k, v := range metadata {
		meta[k] = v
	}

	return gateway.RouteDecision{
		OK:             true,
		Provider:       name,
		Scheme:         scheme,
		Host:           host,
		TargetSegments: targetSegments,
		Query:          query,
		ExtraHeaders:   hdrs,
		Metadata:       meta,
	}
}

// Failure builds a failed RouteDecision with the given message.
func Failure(errMsg string) gateway.RouteDecision {
	return gateway.Failure(errMsg)
}
