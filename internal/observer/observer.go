// Package observer implements the Streaming Usage Observer: a tee that
// writes upstream response bytes to the client unmodified while a second,
// asynchronous goroutine parses a copy of those bytes for token usage and
// cost telemetry. The observer is never on the critical path for downstream
// latency -- writes to the client always happen first, and handing bytes to
// the parser goroutine never blocks on parser speed.
package observer

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	gateway "github.com/eugener/gandalf/internal"
	"github.com/eugener/gandalf/internal/respparser"
	"github.com/eugener/gandalf/internal/telemetry"
)

// EmitFunc receives each UsageEvent extracted from an observed response.
// Implementations must not block the parser goroutine for long; trackers
// hand events off to an async sink.
type EmitFunc func(gateway.UsageEvent)

// isSupportedEncoding reports whether encoding names a transform the
// parser goroutine can undo. An unrecognized encoding (including "br", for
// which no pack dependency exists) disables parsing but never fails the
// request -- the caller still tees raw bytes to the client untouched.
func isSupportedEncoding(encoding string) bool {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity", "gzip", "deflate":
		return true
	default:
		return false
	}
}

// decompressor wraps r with the transform named by encoding. Callers must
// have already checked isSupportedEncoding.
func decompressor(encoding string, r io.Reader) (io.Reader, bool) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return r, true
	case "gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, false
		}
		return gz, true
	case "deflate":
		return flate.NewReader(r), true
	default:
		return nil, false
	}
}

// Stream tees resp.Body to w while asynchronously parsing a copy for usage
// telemetry. It always returns after the response body has been fully
// copied to w (or an error occurs writing to w) and the parser goroutine
// has finished consuming the teed copy. Parsing failures never affect the
// copy to the client. metrics may be nil, in which case no counters are
// recorded.
func Stream(ctx context.Context, w http.ResponseWriter, resp *http.Response, family respparser.Family, requestID, provider string, metrics *telemetry.Metrics, emit EmitFunc, logger *slog.Logger) error {
	classification := Classify(resp.Header.Get("Content-Type"))
	contentEncoding := resp.Header.Get("Content-Encoding")

	parseEnabled := family != respparser.FamilyNone
	if parseEnabled {
		if !isSupportedEncoding(contentEncoding) {
			parseEnabled = false
			logger.LogAttrs(ctx, slog.LevelDebug, "observer: unsupported content-encoding, parsing disabled",
				slog.String("request_id", requestID),
				slog.String("content_encoding", contentEncoding))
		}
	}

	var queue *byteQueue
	var parserDone sync.WaitGroup
	if parseEnabled {
		queue = newByteQueue()
		parserDone.Add(1)
		go func() {
			defer parserDone.Done()
			runParser(ctx, queue, contentEncoding, classification, family, requestID, provider, metrics, emit, logger)
		}()
	}

	flusher, canFlush := w.(http.Flusher)
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if _, err := w.Write(chunk); err != nil {
				if queue != nil {
					queue.Close()
					parserDone.Wait()
				}
				return err
			}
			if canFlush && classification == ClassificationStreaming {
				flusher.Flush()
			}
			if metrics != nil {
				metrics.BytesTeed.WithLabelValues(provider).Add(float64(n))
			}
			if queue != nil {
				cp := make([]byte, n)
				copy(cp, chunk)
				queue.Push(cp)
			}
		}
		if readErr != nil {
			if queue != nil {
				queue.Close()
				parserDone.Wait()
			}
			if readErr == io.EOF {
				return nil
			}
			return readErr
		}
	}
}

// runParser consumes the teed byte copy from queue, decompresses it if
// necessary, and feeds it to the appropriate response parser. It never
// blocks the producer in Stream: queue.Pop blocks only this goroutine.
func runParser(ctx context.Context, queue *byteQueue, contentEncoding string, classification Classification, family respparser.Family, requestID, provider string, metrics *telemetry.Metrics, emit EmitFunc, logger *slog.Logger) {
	qr := &queueReader{q: queue}
	r, ok := decompressor(contentEncoding, qr)
	if !ok {
		if metrics != nil {
			metrics.ParserErrorsTotal.WithLabelValues(provider).Inc()
		}
		logger.LogAttrs(ctx, slog.LevelWarn, "observer: failed to open decompressor",
			slog.String("request_id", requestID), slog.String("content_encoding", contentEncoding))
		return
	}

	if classification == ClassificationStreaming {
		parseStreamingBody(ctx, r, family, requestID, provider, metrics, emit, logger)
		return
	}
	parseNonStreamingBody(ctx, r, family, requestID, provider, metrics, emit, logger)
}

func parseStreamingBody(ctx context.Context, r io.Reader, family respparser.Family, requestID, provider string, metrics *telemetry.Metrics, emit EmitFunc, logger *slog.Logger) {
	sp := respparser.NewStreamingParser(family, requestID)
	scanner := newLineScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := parseSSELine(line)
		if !ok {
			continue
		}
		if data == "[DONE]" {
			continue
		}
		if metrics != nil {
			metrics.SSEFramesParsed.WithLabelValues(provider).Inc()
		}
		ev, ok := sp.Feed(data)
		if !ok {
			if !json.Valid([]byte(data)) {
				logger.LogAttrs(ctx, slog.LevelDebug, "observer: malformed SSE data frame skipped",
					slog.String("request_id", requestID))
			}
			continue
		}
		emit(ev)
	}
	if err := scanner.Err(); err != nil {
		if metrics != nil {
			metrics.ParserErrorsTotal.WithLabelValues(provider).Inc()
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "observer: streaming parse terminated early",
			slog.String("request_id", requestID), slog.String("error", err.Error()))
	}
}

func parseNonStreamingBody(ctx context.Context, r io.Reader, family respparser.Family, requestID, provider string, metrics *telemetry.Metrics, emit EmitFunc, logger *slog.Logger) {
	body, err := io.ReadAll(r)
	if err != nil {
		if metrics != nil {
			metrics.ParserErrorsTotal.WithLabelValues(provider).Inc()
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "observer: non-streaming body read failed",
			slog.String("request_id", requestID), slog.String("error", err.Error()))
		return
	}
	ev, ok := respparser.ParseNonStreaming(family, requestID, body)
	if !ok {
		return
	}
	emit(ev)
}
