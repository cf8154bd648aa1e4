package strategy

import (
	"testing"

	gateway "github.com/eugener/gandalf/internal"
)

func TestOverrideReplacesHost(t *testing.T) {
	t.Parallel()

	base := NewTransparent("openai", "api.openai.com", nil)
	ov := NewOverride(base, "mirror.internal.example", "")

	d := ov.Route(gateway.ParsedPath{Segments: []string{"openai", "v1", "models"}})
	if !d.OK || d.Host != "mirror.internal.example" {
		t.Fatalf("decision = %+v", d)
	}
	if ov.Name() != "openai" {
		t.Fatalf("Name() = %q", ov.Name())
	}
}

func TestOverrideReplacesPrefixOnPrefixedStrategy(t *testing.T) {
	t.Parallel()

	base := NewPrefixed("openrouter", "openrouter.ai", "api", nil)
	ov := NewOverride(base, "", "proxy")

	d := ov.Route(gateway.ParsedPath{Segments: []string{"openrouter", "v1", "chat", "completions"}})
	if !d.OK || d.TargetSegments[0] != "proxy" {
		t.Fatalf("decision = %+v", d)
	}
	if d.Host != "openrouter.ai" {
		t.Fatalf("host should be unchanged, got %q", d.Host)
	}
}

func TestOverridePreservesFailure(t *testing.T) {
	t.Parallel()

	base := NewBedrock("aws-bedrock")
	ov := NewOverride(base, "unused.example", "")

	d := ov.Route(gateway.ParsedPath{Segments: []string{"aws-bedrock", "runtime"}})
	if d.OK {
		t.Fatal("expected failure to pass through unchanged")
	}
}
