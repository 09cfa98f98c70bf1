package ringbuffer

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Hawk777/abeep/internal/metrics"
	"github.com/Hawk777/abeep/internal/sink"
)

// StreamBuffer holds synthesized samples until a full device period is ready
// and writes them to a sink. It is not safe for concurrent use; a playback
// session owns exactly one.
type StreamBuffer struct {
	sink   sink.Sink
	logger *zap.Logger

	buf  []int16
	used int

	written   int
	dropped   int
	underruns int
}

// New creates a buffer holding capacity frames, normally the sink's period
// size.
func New(s sink.Sink, capacity int, logger *zap.Logger) *StreamBuffer {
	if capacity < 1 {
		capacity = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamBuffer{
		sink:   s,
		logger: logger,
		buf:    make([]int16, capacity),
	}
}

// Append stores one sample, flushing first while the buffer is full.
func (b *StreamBuffer) Append(sample int16) error {
	for b.used == len(b.buf) {
		if err := b.Flush(); err != nil {
			return err
		}
	}
	b.buf[b.used] = sample
	b.used++
	return nil
}

// Flush writes the buffered samples to the sink until none remain. An
// underrun drops what was pending and recovers the sink; it is not an error.
func (b *StreamBuffer) Flush() error {
	metrics.FlushesTotal.Inc()
	for b.used > 0 {
		n, err := b.sink.Write(b.buf[:b.used])
		if errors.Is(err, sink.ErrUnderrun) {
			b.underruns++
			b.dropped += b.used
			metrics.UnderrunsTotal.Inc()
			metrics.FramesDroppedTotal.Add(float64(b.used))
			b.logger.Warn("buffer underrun, dropping pending frames", zap.Int("frames", b.used))
			b.used = 0
			if err := b.sink.Recover(); err != nil {
				return fmt.Errorf("recover from underrun: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("write %d frames: %w", b.used, err)
		}
		if n <= 0 {
			return fmt.Errorf("write %d frames: %w", b.used, io.ErrNoProgress)
		}
		if n > b.used {
			return fmt.Errorf("write %d frames: sink reported %d", b.used, n)
		}
		copy(b.buf, b.buf[n:b.used])
		b.used -= n
		b.written += n
		metrics.FramesWrittenTotal.Add(float64(n))
	}
	return nil
}

// Finish flushes what is left and blocks until the sink has played it.
func (b *StreamBuffer) Finish() error {
	if err := b.Flush(); err != nil {
		return err
	}
	if err := b.sink.Drain(); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	return nil
}

// Len returns the number of buffered frames.
func (b *StreamBuffer) Len() int { return b.used }

// Cap returns the buffer capacity in frames.
func (b *StreamBuffer) Cap() int { return len(b.buf) }

// Written returns the frames the sink has accepted.
func (b *StreamBuffer) Written() int { return b.written }

// Dropped returns the frames discarded because of underruns.
func (b *StreamBuffer) Dropped() int { return b.dropped }

// Underruns returns the number of underruns recovered from.
func (b *StreamBuffer) Underruns() int { return b.underruns }
