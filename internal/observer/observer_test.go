package observer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gateway "github.com/eugener/gandalf/internal"
	"github.com/eugener/gandalf/internal/respparser"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStreamTeesBytesExactly(t *testing.T) {
	t.Parallel()

	body := `{"model":"gpt-4","usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`
	resp := &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}

	rec := httptest.NewRecorder()
	var mu sync.Mutex
	var events []gateway.UsageEvent
	emit := func(ev gateway.UsageEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}

	if err := Stream(context.Background(), rec, resp, respparser.FamilyOpenAI, "req-1", "openai", nil, emit, discardLogger()); err != nil {
		t.Fatalf("Stream error: %v", err)
	}

	if rec.Body.String() != body {
		t.Fatalf("tee mismatch: got %q want %q", rec.Body.String(), body)
	}

	waitForEvents(t, &mu, &events, 1)
	if events[0].Tokens.Total != 3 {
		t.Fatalf("tokens = %+v", events[0].Tokens)
	}
}

// TestStreamSSEPartialFrameSplitAcrossWrites verifies that an SSE "data:"
// line arriving split across two upstream reads is still reassembled and
// parsed correctly, and that the bytes teed to the client remain byte-exact
// regardless of where the split fell.
func TestStreamSSEPartialFrameSplitAcrossWrites(t *testing.T) {
	t.Parallel()

	full := "data: " + `{"type":"message_start","message":{"model":"claude-3-5-sonnet-20241022","usage":{"input_tokens":10,"output_tokens":0}}}` + "\n\n" +
		"data: " + `{"type":"message_stop","usage":{"input_tokens":10,"output_tokens":5}}` + "\n\n" +
		"data: [DONE]\n\n"

	split := len(full) / 2
	resp := &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": []string{"text/event-stream"}},
		Body:       io.NopCloser(&splitReader{parts: []string{full[:split], full[split:]}}),
	}

	rec := httptest.NewRecorder()
	var mu sync.Mutex
	var events []gateway.UsageEvent
	emit := func(ev gateway.UsageEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}

	if err := Stream(context.Background(), rec, resp, respparser.FamilyAnthropic, "req-2", "anthropic", nil, emit, discardLogger()); err != nil {
		t.Fatalf("Stream error: %v", err)
	}

	if rec.Body.String() != full {
		t.Fatalf("tee mismatch across split reads")
	}

	waitForEvents(t, &mu, &events, 1)
	if events[0].Tokens.Input != 10 || events[0].Tokens.Output != 5 {
		t.Fatalf("events = %+v", events)
	}
}

func TestStreamUnsupportedEncodingDisablesParsingOnly(t *testing.T) {
	t.Parallel()

	body := "some br-compressed bytes that are not actually valid br"
	resp := &http.Response{
		StatusCode: 200,
		Header: http.Header{
			"Content-Type":     []string{"application/json"},
			"Content-Encoding": []string{"br"},
		},
		Body: io.NopCloser(strings.NewReader(body)),
	}

	rec := httptest.NewRecorder()
	emit := func(gateway.UsageEvent) { t.Fatal("parsing should be disabled for unsupported encoding") }

	if err := Stream(context.Background(), rec, resp, respparser.FamilyOpenAI, "req-3", "openai", nil, emit, discardLogger()); err != nil {
		t.Fatalf("Stream error: %v", err)
	}
	if rec.Body.String() != body {
		t.Fatalf("raw bytes must still be teed to the client even when parsing is disabled")
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := map[string]Classification{
		"text/event-stream; charset=utf-8": ClassificationStreaming,
		"application/x-ndjson":             ClassificationStreaming,
		"application/json":                 ClassificationNonStreaming,
		"":                                 ClassificationNonStreaming,
	}
	for ct, want := range cases {
		if got := Classify(ct); got != want {
			t.Errorf("Classify(%q) = %v, want %v", ct, got, want)
		}
	}
}

// splitReader returns successive parts on each Read call, simulating
// upstream bytes arriving in arbitrary chunks.
type splitReader struct {
	parts []string
	i     int
}

func (r *splitReader) Read(p []byte) (int, error) {
	if r.i >= len(r.parts) {
		return 0, io.EOF
	}
	n := copy(p, r.parts[r.i])
	r.i++
	return n, nil
}

func waitForEvents(t *testing.T, mu *sync.Mutex, events *[]gateway.UsageEvent, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(*events)
		mu.Unlock()
		if n >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", want, len(*events))
}
