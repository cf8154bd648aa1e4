package observer

import (
	"bufio"
	"io"
	"strings"
)

const maxLineSize = 64 * 1024 // 64KB per SSE line

// newLineScanner returns a bufio.Scanner configured for reading SSE lines.
// bufio.ScanLines (the default split function) already strips a trailing
// CR and returns a final non-terminated line at EOF, which is exactly the
// "terminal partial line is processed on stream close" behavior required
// of both response parsers.
func newLineScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 4096), maxLineSize)
	return s
}

// parseSSELine extracts the data payload from a "data: <payload>" line.
// Comments (leading ':'), blank lines, and other field lines (e.g. "event:")
// yield ok=false -- bytes between events that do not form a data line are
// discarded, per the framing rules shared by both parsers.
func parseSSELine(line string) (data string, ok bool) {
	if line == "" || line[0] == ':' {
		return "", false
	}
	key, value, found := strings.Cut(line, ":")
	if !found || key != "data" {
		return "", false
	}
	return strings.TrimPrefix(value, " "), true
}
