// Package routepath implements path parsing, building, and validation for
// the gateway's /{provider}/{rest...} URL scheme.
package routepath

import (
	"strconv"
	"strings"

	gateway "github.com/eugener/gandalf/internal"
)

// Parse splits a raw URL path into a ParsedPath. Empty segments (from
// repeated or trailing slashes) are discarded; order is preserved. Parsing
// never fails -- an empty or "/" path yields zero segments.
func Parse(rawPath, rawQuery string) gateway.ParsedPath {
	parts := strings.Split(rawPath, "/")
	segments := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return gateway.ParsedPath{
		Original: rawPath,
		Segments: segments,
		Query:    rawQuery,
	}
}

// Build reassembles a path from segments and an optional raw query string.
// No URL-encoding is applied; segments are joined verbatim.
func Build(segments []string, query string) string {
	path := "/" + strings.Join(segments, "/")
	if query != "" {
		path += "?" + strings.TrimPrefix(query, "?")
	}
	return path
}

// BuildTargetURI concatenates scheme, host, and the built path.
func BuildTargetURI(scheme, host string, segments []string, query string) string {
	return scheme + "://" + host + Build(segments, query)
}

// MinSegments reports whether segs has at least n elements; the message
// cites both counts on failure.
func MinSegments(segs []string, n int) (bool, string) {
	if len(segs) >= n {
		return true, ""
	}
	return false, requiresSegmentsMsg(len(segs), n)
}

func requiresSegmentsMsg(got, want int) string {
	return "requires at least " + strconv.Itoa(want) + " segments, got " + strconv.Itoa(got)
}

// NotEmpty reports whether s is non-empty after trimming whitespace.
func NotEmpty(s, fieldName string) (bool, string) {
	if strings.TrimSpace(s) != "" {
		return true, ""
	}
	return false, fieldName + " must not be empty"
}

// MatchesPattern currently only enforces non-emptiness; callers may extend
// with a more specific patternDescription for error reporting.
func MatchesPattern(seg, patternDescription string) (bool, string) {
	if seg != "" {
		return true, ""
	}
	return false, "segment does not match " + patternDescription
}
