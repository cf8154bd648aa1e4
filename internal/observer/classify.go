package observer

import "strings"

// Classification distinguishes streaming wire formats (parsed incrementally,
// frame by frame) from non-streaming ones (parsed once, after the body is
// fully teed).
type Classification int

const (
	ClassificationNonStreaming Classification = iota
	ClassificationStreaming
)

// streamingContentTypes are substrings checked against the response's
// Content-Type header. A match means the body arrives as a sequence of
// discrete frames rather than one JSON document.
var streamingContentTypes = []string{
	"text/event-stream",
	"application/x-ndjson",
	"application/stream+json",
}

// Classify inspects a Content-Type header value and reports whether the
// body should be parsed as a streaming wire format.
func Classify(contentType string) Classification {
	lower := strings.ToLower(contentType)
	for _, ct := range streamingContentTypes {
		if strings.Contains(lower, ct) {
			return ClassificationStreaming
		}
	}
	return ClassificationNonStreaming
}
