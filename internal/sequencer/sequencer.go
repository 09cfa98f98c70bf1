// Package sequencer plays an ordered list of tone requests through a
// synthesizer into a buffered output.
package sequencer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Hawk777/abeep/internal/metrics"
	"github.com/Hawk777/abeep/internal/synth"
	"github.com/Hawk777/abeep/internal/tone"
)

// Output is where rendered samples go. Finish flushes and waits for playback
// to complete.
type Output interface {
	synth.Writer
	Finish() error
}

// RequestStats counts the frames rendered for one request.
type RequestStats struct {
	ToneFrames    int `json:"toneFrames"`
	SilenceFrames int `json:"silenceFrames"`
}

// Stats summarizes a playback.
type Stats struct {
	Requests      []RequestStats `json:"requests"`
	ToneFrames    int            `json:"toneFrames"`
	SilenceFrames int            `json:"silenceFrames"`
}

// Sequencer drives one synthesizer and output. It carries no state between
// calls to Play other than what the synthesizer keeps.
type Sequencer struct {
	synth      synth.Synth
	out        Output
	sampleRate int
	logger     *zap.Logger
}

func New(s synth.Synth, out Output, sampleRate int, logger *zap.Logger) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{synth: s, out: out, sampleRate: sampleRate, logger: logger}
}

// Play validates seq, renders every request in order and finishes the
// output. Nothing is rendered if validation fails.
func (q *Sequencer) Play(seq tone.Sequence) (Stats, error) {
	if err := tone.ValidateRate(q.sampleRate); err != nil {
		return Stats{}, err
	}
	if err := seq.Validate(); err != nil {
		return Stats{}, err
	}

	stats := Stats{Requests: make([]RequestStats, 0, len(seq))}
	for i, req := range seq {
		rs, err := q.play(req)
		stats.Requests = append(stats.Requests, rs)
		stats.ToneFrames += rs.ToneFrames
		stats.SilenceFrames += rs.SilenceFrames
		if err != nil {
			return stats, fmt.Errorf("request %d: %w", i, err)
		}
		metrics.TonesPlayedTotal.Inc()
		q.logger.Debug("request played",
			zap.Int("index", i),
			zap.Float64("frequency", req.Frequency),
			zap.Int("toneFrames", rs.ToneFrames),
			zap.Int("silenceFrames", rs.SilenceFrames),
		)
	}

	if err := q.out.Finish(); err != nil {
		return stats, err
	}
	return stats, nil
}

func (q *Sequencer) play(req tone.Request) (RequestStats, error) {
	var rs RequestStats
	toneFrames := tone.Frames(req.Length, q.sampleRate)
	delayFrames := tone.Frames(req.Delay, q.sampleRate)

	for rep := 1; rep <= req.Reps; rep++ {
		if err := q.synth.Tone(q.out, req.Frequency, toneFrames); err != nil {
			return rs, err
		}
		rs.ToneFrames += toneFrames
		metrics.FramesSynthesizedTotal.WithLabelValues("tone").Add(float64(toneFrames))

		if rep == req.Reps && !req.EndDelay {
			break
		}
		if err := q.synth.Silence(q.out, delayFrames); err != nil {
			return rs, err
		}
		rs.SilenceFrames += delayFrames
		metrics.FramesSynthesizedTotal.WithLabelValues("silence").Add(float64(delayFrames))
	}
	return rs, nil
}
