package forwarder

import (
	"context"
	"net/http"

	gateway "github.com/eugener/gandalf/internal"
)

// blockedHeaders are proxy/edge headers stripped from the outgoing request
// regardless of case. Client-asserted IP/forwarding metadata must never
// reach the upstream provider under the gateway's own identity.
var blockedHeaders = map[string]struct{}{
	"X-Forwarded-For":    {},
	"X-Forwarded-Host":   {},
	"X-Forwarded-Proto":  {},
	"X-Real-Ip":          {},
	"Cf-Connecting-Ip":   {},
	"Cf-Connecting-Ipv6": {},
	"Cf-Pseudo-Ipv4":     {},
	"True-Client-Ip":     {},
	"Cf-Ray":             {},
	"Cf-Ipcountry":       {},
}

// isBlocked reports whether a header name (any case) is on the sanitization
// list. http.CanonicalHeaderKey normalizes case so the lookup is exact.
func isBlocked(name string) bool {
	_, ok := blockedHeaders[http.CanonicalHeaderKey(name)]
	return ok
}

// BuildRequest transforms an inbound request into the outgoing request
// described by decision: it copies headers minus the sanitization list,
// sets Host, merges in the strategy's extra headers (without overriding an
// existing header), and replaces the request URI. The client's body,
// method, and authentication headers pass through untouched -- the
// forwarder never injects or rewrites authorization.
func BuildRequest(ctx context.Context, r *http.Request, decision gateway.RouteDecision) (*http.Request, error) {
	targetURI := decision.TargetURI()

	outReq, err := http.NewRequestWithContext(ctx, r.Method, targetURI, r.Body)
	if err != nil {
		return nil, err
	}

	for name, values := range r.Header {
		if isBlocked(name) {
			continue
		}
		for _, v := range values {
			outReq.Header.Add(name, v)
		}
	}

	outReq.Host = decision.Host

	for name, value := range decision.ExtraHeaders {
		if outReq.Header.Get(name) == "" {
			outReq.Header.Set(name, value)
		}
	}

	outReq.ContentLength = r.ContentLength
	return outReq, nil
}

// Forward builds the outgoing request from decision and executes it via
// client. The caller owns resp.Body and must close it.
func Forward(ctx context.Context, client *http.Client, r *http.Request, decision gateway.RouteDecision) (*http.Response, error) {
	outReq, err := BuildRequest(ctx, r, decision)
	if err != nil {
		return nil, err
	}
	return client.Do(outReq)
}

// CopyResponseHeaders copies resp's headers to w, minus hop-by-hop headers,
// which are connection-specific and never meaningful to repeat to the client.
func CopyResponseHeaders(w http.ResponseWriter, resp *http.Response) {
	dst := w.Header()
	for name, values := range resp.Header {
		if _, hop := hopByHopHeaders[http.CanonicalHeaderKey(name)]; hop {
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}

var hopByHopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}
