// Package player runs tone sequences for the daemon: on the configured
// device one session at a time, or rendered into memory.
package player

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hawk777/abeep/internal/analysis"
	"github.com/Hawk777/abeep/internal/config"
	"github.com/Hawk777/abeep/internal/metrics"
	"github.com/Hawk777/abeep/internal/sequencer"
	"github.com/Hawk777/abeep/internal/session"
	"github.com/Hawk777/abeep/internal/sink"
	"github.com/Hawk777/abeep/internal/synth"
	"github.com/Hawk777/abeep/internal/tone"
)

// ErrShuttingDown is returned for work submitted after Shutdown.
var ErrShuttingDown = errors.New("player is shutting down")

// OpenFunc opens a sink. sink.Open in production.
type OpenFunc func(sink.Options) (sink.Sink, sink.Format, error)

// Result describes a finished device playback.
type Result struct {
	ID        string
	Stats     sequencer.Stats
	Underruns int
}

// Analysis is the estimated pitch of one request's first tone.
type Analysis struct {
	Requested float64
	Estimated float64
	Frames    int
	Err       error
}

// Player serializes access to the audio device.
type Player struct {
	cfg    *config.Config
	logger *zap.Logger
	open   OpenFunc

	device   chan struct{}
	inflight sync.WaitGroup

	mu       sync.RWMutex
	sessions map[string]*session.Session
	closed   bool
}

// New creates a Player that opens the configured backend for each playback.
func New(cfg *config.Config, logger *zap.Logger) *Player {
	return newPlayer(cfg, logger, sink.Open)
}

// NewForTest creates a Player with an injected sink opener.
func NewForTest(cfg *config.Config, logger *zap.Logger, open OpenFunc) *Player {
	return newPlayer(cfg, logger, open)
}

func newPlayer(cfg *config.Config, logger *zap.Logger, open OpenFunc) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{
		cfg:      cfg,
		logger:   logger,
		open:     open,
		device:   make(chan struct{}, 1),
		sessions: make(map[string]*session.Session),
	}
}

func (p *Player) check(seq tone.Sequence) error {
	if p.cfg.MaxTones > 0 && len(seq) > p.cfg.MaxTones {
		return fmt.Errorf("%w: %d tones exceeds the limit of %d", tone.ErrInvalid, len(seq), p.cfg.MaxTones)
	}
	if err := seq.Validate(); err != nil {
		return err
	}
	if d := seq.Duration(); p.cfg.MaxDurationMs > 0 && d > p.cfg.MaxDurationMs {
		return fmt.Errorf("%w: %d ms of playback exceeds the limit of %d", tone.ErrInvalid, d, p.cfg.MaxDurationMs)
	}
	return nil
}

// checkRender also bounds what a render buffers in memory.
func (p *Player) checkRender(seq tone.Sequence, rate int) error {
	if err := tone.ValidateRate(rate); err != nil {
		return err
	}
	if err := p.check(seq); err != nil {
		return err
	}
	if n := seq.Frames(rate); p.cfg.MaxRenderFrames > 0 && n > p.cfg.MaxRenderFrames {
		return fmt.Errorf("%w: %d frames exceeds the render limit of %d", tone.ErrInvalid, n, p.cfg.MaxRenderFrames)
	}
	return nil
}

// begin registers in-flight work unless the player is shutting down.
func (p *Player) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrShuttingDown
	}
	p.inflight.Add(1)
	return nil
}

// Play waits for the device, then plays seq on it. The wait ends early if
// ctx is cancelled or the queue timeout passes; playback itself is not
// interruptible.
func (p *Player) Play(ctx context.Context, seq tone.Sequence) (Result, error) {
	if err := p.check(seq); err != nil {
		metrics.PlaybacksTotal.WithLabelValues("invalid").Inc()
		return Result{}, err
	}
	if err := p.begin(); err != nil {
		metrics.PlaybacksTotal.WithLabelValues("rejected").Inc()
		return Result{}, err
	}
	defer p.inflight.Done()

	if p.cfg.QueueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.QueueTimeout)
		defer cancel()
	}
	select {
	case p.device <- struct{}{}:
	case <-ctx.Done():
		metrics.PlaybacksTotal.WithLabelValues("cancelled").Inc()
		return Result{}, ctx.Err()
	}
	defer func() { <-p.device }()

	start := time.Now()
	res, err := p.play(seq)
	metrics.PlaybackDuration.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.PlaybacksTotal.WithLabelValues("error").Inc()
		return res, err
	}
	metrics.PlaybacksTotal.WithLabelValues("ok").Inc()
	return res, nil
}

func (p *Player) play(seq tone.Sequence) (Result, error) {
	id := uuid.New().String()
	logger := p.logger.With(zap.String("session", id))

	s, format, err := p.open(sink.Options{
		Backend: p.cfg.Backend,
		Device:  p.cfg.Device,
		Path:    p.cfg.OutputPath,
		Format:  sink.Format{SampleRate: p.cfg.SampleRate, PeriodSize: p.cfg.PeriodSize},
		Logger:  logger,
	})
	if err != nil {
		return Result{ID: id}, err
	}
	sess, err := session.New(id, s, format, synth.Variant(p.cfg.Variant), p.logger)
	if err != nil {
		s.Close()
		return Result{ID: id}, err
	}

	p.mu.Lock()
	p.sessions[id] = sess
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.sessions, id)
		p.mu.Unlock()
		if err := sess.Close(); err != nil {
			logger.Warn("close session", zap.Error(err))
		}
	}()

	stats, err := sess.Play(seq)
	res := Result{ID: id, Stats: stats, Underruns: sess.Buffer.Underruns()}
	if err != nil {
		logger.Error("playback failed", zap.Error(err))
		return res, err
	}
	return res, nil
}

// Render plays seq into memory at rate and returns the samples. The device
// is not touched.
func (p *Player) Render(seq tone.Sequence, rate int) ([]int16, sequencer.Stats, error) {
	if err := p.checkRender(seq, rate); err != nil {
		return nil, sequencer.Stats{}, err
	}
	if err := p.begin(); err != nil {
		return nil, sequencer.Stats{}, err
	}
	defer p.inflight.Done()

	m := sink.NewMemory()
	sess, err := session.New("render-"+uuid.New().String(), m,
		sink.Format{SampleRate: rate, PeriodSize: p.periodSize()},
		synth.Variant(p.cfg.Variant), p.logger)
	if err != nil {
		return nil, sequencer.Stats{}, err
	}
	defer sess.Close()

	stats, err := sess.Play(seq)
	if err != nil {
		return nil, stats, err
	}
	return m.Samples(), stats, nil
}

// Analyze renders seq and estimates the pitch of the first repetition of
// each request.
func (p *Player) Analyze(seq tone.Sequence, rate int) ([]Analysis, error) {
	samples, stats, err := p.Render(seq, rate)
	if err != nil {
		return nil, err
	}
	out := make([]Analysis, len(seq))
	offset := 0
	for i, req := range seq {
		n := tone.Frames(req.Length, rate)
		a := Analysis{Requested: req.Frequency, Frames: n}
		a.Estimated, a.Err = analysis.DominantFrequency(samples[offset:offset+n], rate)
		out[i] = a
		offset += stats.Requests[i].ToneFrames + stats.Requests[i].SilenceFrames
	}
	return out, nil
}

func (p *Player) periodSize() int {
	if p.cfg.PeriodSize > 0 {
		return p.cfg.PeriodSize
	}
	return sink.DefaultPeriodSize
}

// ActiveSessions returns the IDs of sessions currently holding the device.
func (p *Player) ActiveSessions() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.sessions))
	for id := range p.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Shutdown refuses new work and waits for in-flight playback to finish or
// ctx to expire.
func (p *Player) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.logger.Info("player shutdown complete")
		return nil
	case <-ctx.Done():
		p.logger.Warn("player shutdown timed out", zap.Strings("sessions", p.ActiveSessions()))
		return ctx.Err()
	}
}
