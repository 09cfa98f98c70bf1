package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Hawk777/abeep/internal/metrics"
	"github.com/Hawk777/abeep/internal/ringbuffer"
	"github.com/Hawk777/abeep/internal/sequencer"
	"github.com/Hawk777/abeep/internal/sink"
	"github.com/Hawk777/abeep/internal/synth"
	"github.com/Hawk777/abeep/internal/tone"
)

// Session owns everything one playback touches: the sink, the stream buffer
// and the oscillator state.
type Session struct {
	ID     string
	Format sink.Format
	Buffer *ringbuffer.StreamBuffer

	sink   sink.Sink
	seq    *sequencer.Sequencer
	logger *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// New creates a session on an opened sink. The session takes ownership of
// the sink and closes it in Close.
func New(id string, s sink.Sink, format sink.Format, variant synth.Variant, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session", id))

	sy, err := synth.New(variant, format.SampleRate)
	if err != nil {
		return nil, err
	}
	buf := ringbuffer.New(s, format.PeriodSize, logger)

	metrics.ActiveSessions.Inc()
	logger.Debug("session created",
		zap.String("variant", string(variant)),
		zap.Int("sampleRate", format.SampleRate),
		zap.Int("periodSize", format.PeriodSize),
	)
	return &Session{
		ID:     id,
		Format: format,
		Buffer: buf,
		sink:   s,
		seq:    sequencer.New(sy, buf, format.SampleRate, logger),
		logger: logger,
	}, nil
}

// Play renders seq to the sink and waits for it to be heard.
func (s *Session) Play(seq tone.Sequence) (sequencer.Stats, error) {
	stats, err := s.seq.Play(seq)
	if err != nil {
		return stats, fmt.Errorf("session %s: %w", s.ID, err)
	}
	s.logger.Info("playback complete",
		zap.Int("requests", len(seq)),
		zap.Int("toneFrames", stats.ToneFrames),
		zap.Int("silenceFrames", stats.SilenceFrames),
		zap.Int("underruns", s.Buffer.Underruns()),
	)
	return stats, nil
}

// Close releases the sink. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		metrics.ActiveSessions.Dec()
		s.closeErr = s.sink.Close()
		s.logger.Debug("session closed")
	})
	return s.closeErr
}
