package router

import (
	"strings"
	"testing"

	gateway "github.com/eugener/gandalf/internal"
	"github.com/eugener/gandalf/internal/routepath"
	"github.com/eugener/gandalf/internal/strategy"
)

func TestRouterTotality(t *testing.T) {
	t.Parallel()

	strategies := strategy.Defaults()
	r, err := New(strategies, CacheOptions{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, s := range strategies {
		// Four rest segments satisfy every templated strategy's minimum.
		p := routepath.Parse("/"+s.Name()+"/seg1/seg2/seg3/anything", "")
		d := r.Dispatch(p)
		if !d.OK {
			t.Fatalf("Dispatch(%q) failed: %s", s.Name(), d.Error)
		}
		if d.Provider != s.Name() {
			t.Fatalf("Dispatch(%q).Provider = %q, want %q", s.Name(), d.Provider, s.Name())
		}
	}
}

func TestRouterRejectionListsAllNames(t *testing.T) {
	t.Parallel()

	r, err := New(strategy.Defaults(), CacheOptions{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	d := r.Dispatch(routepath.Parse("/nope/anything", ""))
	if d.OK {
		t.Fatal("expected failure for unknown provider")
	}
	if !strings.HasPrefix(d.Error, "Unknown provider: nope.") {
		t.Fatalf("error = %q, want prefix %q", d.Error, "Unknown provider: nope.")
	}
	for _, name := range r.Names() {
		if !strings.Contains(d.Error, name) {
			t.Fatalf("error %q does not list registered name %q", d.Error, name)
		}
	}
}

func TestRouterDuplicateRegistrationFails(t *testing.T) {
	t.Parallel()

	dup := []gateway.ProviderStrategy{
		strategy.NewTransparent("openai", "api.openai.com", nil),
		strategy.NewTransparent("OpenAI", "api.openai.com", nil), // case-insensitive collision
	}
	if _, err := New(dup, CacheOptions{}); err == nil {
		t.Fatal("expected error for duplicate strategy registration")
	}
}

func TestTransparentStrategyPreservesRest(t *testing.T) {
	t.Parallel()

	r, err := New(strategy.Defaults(), CacheOptions{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	d := r.Dispatch(routepath.Parse("/openai/a/b/c", ""))
	want := []string{"a", "b", "c"}
	if len(d.TargetSegments) != len(want) {
		t.Fatalf("TargetSegments = %v, want %v", d.TargetSegments, want)
	}
	for i := range want {
		if d.TargetSegments[i] != want[i] {
			t.Fatalf("TargetSegments = %v, want %v", d.TargetSegments, want)
		}
	}
	if d.Host != "api.openai.com" {
		t.Fatalf("Host = %q, want api.openai.com", d.Host)
	}
}

func TestBedrockTemplatedRewrite(t *testing.T) {
	t.Parallel()

	r, err := New(strategy.Defaults(), CacheOptions{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	d := r.Dispatch(routepath.Parse("/aws-bedrock/bedrock-runtime/us-east-1/foo/bar", ""))
	if !d.OK {
		t.Fatalf("Dispatch failed: %s", d.Error)
	}
	if d.Host != "bedrock-runtime.us-east-1.amazonaws.com" {
		t.Fatalf("Host = %q", d.Host)
	}
	want := []string{"foo", "bar"}
	for i, s := range want {
		if d.TargetSegments[i] != s {
			t.Fatalf("TargetSegments = %v, want %v", d.TargetSegments, want)
		}
	}
}

func TestCacheCoherence(t *testing.T) {
	t.Parallel()

	uncached, err := New(strategy.Defaults(), CacheOptions{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	cached, err := New(strategy.Defaults(), CacheOptions{Enabled: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p := routepath.Parse("/azure-openai/myres/mydep/chat/completions", "api-version=2024-02-01")
	a := uncached.Dispatch(p)
	b1 := cached.Dispatch(p)
	b2 := cached.Dispatch(p) // second call should hit the cache
	if a.Host != b1.Host || a.Host != b2.Host {
		t.Fatalf("cache changed output: %q vs %q vs %q", a.Host, b1.Host, b2.Host)
	}
	if strings.Join(a.TargetSegments, "/") != strings.Join(b2.TargetSegments, "/") {
		t.Fatalf("cache changed segments: %v vs %v", a.TargetSegments, b2.TargetSegments)
	}
}
