//go:build !headless

package sink

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"
)

// oto allows a single context per process.
var (
	otoMu   sync.Mutex
	otoCtx  *oto.Context
	otoRate int
)

func otoContext(rate, periodSize int) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()
	if otoCtx != nil {
		if rate != otoRate {
			return nil, fmt.Errorf("oto context already running at %d Hz", otoRate)
		}
		return otoCtx, nil
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(periodSize) * time.Second / time.Duration(rate),
	})
	if err != nil {
		return nil, err
	}
	<-ready
	otoCtx, otoRate = ctx, rate
	return ctx, nil
}

type otoSink struct {
	player  *oto.Player
	pipe    *pipe
	scratch []int16
	logger  *zap.Logger
	mu      sync.Mutex
}

func openOto(opts Options) (Sink, Format, error) {
	ctx, err := otoContext(opts.Format.SampleRate, opts.Format.PeriodSize)
	if err != nil {
		return nil, Format{}, err
	}
	s := &otoSink{
		pipe:   newPipe(2 * opts.Format.PeriodSize),
		logger: opts.Logger,
	}
	s.player = ctx.NewPlayer(s)
	return s, opts.Format, nil
}

// Read implements io.Reader for the oto player.
func (s *otoSink) Read(p []byte) (int, error) {
	frames := len(p) / 2
	if cap(s.scratch) < frames {
		s.scratch = make([]int16, frames)
	}
	buf := s.scratch[:frames]
	n, eof := s.pipe.read(buf)
	for i, v := range buf[:n] {
		p[2*i] = byte(v)
		p[2*i+1] = byte(uint16(v) >> 8)
	}
	if eof {
		return 2 * n, io.EOF
	}
	return 2 * n, nil
}

func (s *otoSink) Write(samples []int16) (int, error) {
	n, err := s.pipe.write(samples)
	if n > 0 {
		s.mu.Lock()
		if !s.player.IsPlaying() {
			s.player.Play()
		}
		s.mu.Unlock()
	}
	return n, err
}

func (s *otoSink) Recover() error {
	s.logger.Debug("oto underrun recovered")
	s.pipe.recover()
	return nil
}

func (s *otoSink) Drain() error {
	if err := s.pipe.beginDrain(); err != nil {
		return err
	}
	defer s.pipe.endDrain()
	for s.player.IsPlaying() {
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

func (s *otoSink) Close() error {
	s.pipe.close()
	return s.player.Close()
}
