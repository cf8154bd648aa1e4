package tracker

import (
	"net/http"
	"testing"

	gateway "github.com/eugener/gandalf/internal"
	"github.com/eugener/gandalf/internal/respparser"
)

func req(method string) *http.Request {
	r, _ := http.NewRequest(method, "/", nil)
	return r
}

func TestShouldTrackOpenAIChatCompletions(t *testing.T) {
	t.Parallel()

	p := gateway.ParsedPath{Segments: []string{"openai", "v1", "chat", "completions"}}
	family, ok := ShouldTrack(req(http.MethodPost), p)
	if !ok || family != respparser.FamilyOpenAI {
		t.Fatalf("ShouldTrack = (%v, %v), want (FamilyOpenAI, true)", family, ok)
	}
}

func TestShouldTrackOpenAIOtherPathSkipped(t *testing.T) {
	t.Parallel()

	p := gateway.ParsedPath{Segments: []string{"openai", "v1", "models"}}
	_, ok := ShouldTrack(req(http.MethodPost), p)
	if ok {
		t.Fatal("unrelated OpenAI path should not be tracked")
	}
}

func TestShouldTrackAnthropicMessages(t *testing.T) {
	t.Parallel()

	p := gateway.ParsedPath{Segments: []string{"anthropic", "v1", "messages"}}
	family, ok := ShouldTrack(req(http.MethodPost), p)
	if !ok || family != respparser.FamilyAnthropic {
		t.Fatalf("ShouldTrack = (%v, %v), want (FamilyAnthropic, true)", family, ok)
	}
}

func TestShouldTrackRejectsNonPost(t *testing.T) {
	t.Parallel()

	p := gateway.ParsedPath{Segments: []string{"anthropic", "v1", "messages"}}
	if _, ok := ShouldTrack(req(http.MethodGet), p); ok {
		t.Fatal("GET requests should not be tracked")
	}
}

func TestShouldTrackUnregisteredProviderSkipped(t *testing.T) {
	t.Parallel()

	p := gateway.ParsedPath{Segments: []string{"unknown-provider", "v1", "messages"}}
	if _, ok := ShouldTrack(req(http.MethodPost), p); ok {
		t.Fatal("unregistered provider should not be tracked")
	}
}
