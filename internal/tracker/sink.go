package tracker

import (
	"context"
	"log/slog"
	"time"

	gateway "github.com/eugener/gandalf/internal"
)

const (
	sinkChanSize   = 1000
	sinkBatchSize  = 100
	sinkFlushEvery = 5 * time.Second
	sinkDrainTime  = 10 * time.Second
)

// Sink consumes UsageEvents asynchronously. Consume never blocks the caller
// for long and must tolerate dropped events under sustained overload.
type Sink interface {
	Consume(gateway.UsageEvent)
}

// LogSink is the default Sink: it batches events and emits them as
// structured log records, grounded on the same buffer-and-flush shape
// used elsewhere in the gateway for background batching. Events are
// dropped (with a warning logged) if the channel is full, trading completeness for
// a guarantee that Consume never blocks the observer's parser goroutine.
type LogSink struct {
	ch     chan gateway.UsageEvent
	logger *slog.Logger
}

// NewLogSink creates a LogSink that logs through logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{
		ch:     make(chan gateway.UsageEvent, sinkChanSize),
		logger: logger,
	}
}

// Consume enqueues ev. Never blocks; drops ev and logs a warning if the
// channel is full.
func (s *LogSink) Consume(ev gateway.UsageEvent) {
	select {
	case s.ch <- ev:
	default:
		s.logger.LogAttrs(context.Background(), slog.LevelWarn, "usage event dropped, sink channel full",
			slog.String("request_id", ev.RequestID))
	}
}

// Run processes events until ctx is cancelled, then drains remaining events
// with a bounded timeout. Intended to be run in its own goroutine, typically
// under an errgroup alongside the HTTP server.
func (s *LogSink) Run(ctx context.Context) error {
	ticker := time.NewTicker(sinkFlushEvery)
	defer ticker.Stop()

	buf := make([]gateway.UsageEvent, 0, sinkBatchSize)

	for {
		select {
		case ev := <-s.ch:
			buf = append(buf, ev)
			if len(buf) >= sinkBatchSize {
				s.flush(buf)
				buf = buf[:0]
			}

		case <-ticker.C:
			if len(buf) > 0 {
				s.flush(buf)
				buf = buf[:0]
			}

		case <-ctx.Done():
			s.drain(buf)
			return nil
		}
	}
}

func (s *LogSink) drain(buf []gateway.UsageEvent) {
	deadline := time.NewTimer(sinkDrainTime)
	defer deadline.Stop()

	for {
		select {
		case ev := <-s.ch:
			buf = append(buf, ev)
			if len(buf) >= sinkBatchSize {
				s.flush(buf)
				buf = buf[:0]
			}
		case <-deadline.C:
			if len(buf) > 0 {
				s.flush(buf)
			}
			return
		default:
			if len(buf) > 0 {
				s.flush(buf)
			}
			return
		}
	}
}

func (s *LogSink) flush(buf []gateway.UsageEvent) {
	for _, ev := range buf {
		attrs := []slog.Attr{
			slog.String("request_id", ev.RequestID),
			slog.String("provider", ev.Provider),
			slog.String("model", ev.Model),
			slog.Bool("streaming", ev.Streaming),
			slog.Int("input_tokens", int(ev.Tokens.Input)),
			slog.Int("output_tokens", int(ev.Tokens.Output)),
			slog.Int("cached_tokens", int(ev.Tokens.Cached)),
			slog.Int("total_tokens", int(ev.Tokens.Total)),
		}
		if ev.Cost != nil {
			attrs = append(attrs, slog.Float64("total_cost", ev.Cost.TotalCost.Float64()))
		}
		s.logger.LogAttrs(context.Background(), slog.LevelInfo, "usage event", attrs...)
	}
}
