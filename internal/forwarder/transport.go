// Package forwarder implements the Forwarder Transformer: header
// sanitization, URI rewrite, and transparent byte-for-byte HTTP forwarding
// to the origin selected by a RouteDecision.
package forwarder

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rs/dnscache"
)

// connectTimeout bounds the TCP+TLS handshake to the upstream origin.
const connectTimeout = 5 * time.Second

// idleTimeout bounds how long a pooled upstream connection may sit idle.
const idleTimeout = 300 * time.Second

// NewTransport returns a connection-pooled *http.Transport tuned for
// fanning out to many distinct provider hostnames. When resolver is
// non-nil, DNS lookups are served from its cache, amortizing the lookup
// cost across the registry's ~25 upstream hosts. DisableCompression is
// always true so Accept-Encoding passes through to the origin verbatim
// instead of being rewritten and auto-decoded by the transport -- the
// gateway never performs automatic decompression of the downstream body.
func NewTransport(resolver *dnscache.Resolver) *http.Transport {
	dialer := &net.Dialer{Timeout: connectTimeout}

	t := &http.Transport{
		MaxIdleConnsPerHost: 100,
		MaxConnsPerHost:     200,
		IdleConnTimeout:     idleTimeout,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: connectTimeout,
		DisableCompression:  true,
	}

	if resolver != nil {
		t.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return dialer.DialContext(ctx, network, addr)
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil || len(ips) == 0 {
				return dialer.DialContext(ctx, network, addr)
			}
			return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0], port))
		}
	} else {
		t.DialContext = dialer.DialContext
	}

	return t
}

// NewClient wraps transport in an http.Client with no cookie jar and no
// automatic redirect following, per the forwarder's "transparent" contract:
// the caller sees exactly the upstream's first response, redirects included.
func NewClient(transport *http.Transport) *http.Client {
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
