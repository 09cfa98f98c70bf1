//go:build !headless

package sink

import (
	"errors"
	"sync"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

var (
	paOnce sync.Once
	paErr  error
)

func portaudioInit() error {
	paOnce.Do(func() { paErr = portaudio.Initialize() })
	return paErr
}

// portaudioSink uses a blocking PortAudio stream. out aliases buf and is
// resliced before each Write so a short final chunk can be played.
type portaudioSink struct {
	stream  *portaudio.Stream
	buf     []int16
	out     []int16
	started bool
	logger  *zap.Logger
}

func openPortAudio(opts Options) (Sink, Format, error) {
	if err := portaudioInit(); err != nil {
		return nil, Format{}, err
	}
	s := &portaudioSink{
		buf:    make([]int16, opts.Format.PeriodSize),
		logger: opts.Logger,
	}
	s.out = s.buf
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(opts.Format.SampleRate), opts.Format.PeriodSize, &s.out)
	if err != nil {
		return nil, Format{}, err
	}
	s.stream = stream
	return s, opts.Format, nil
}

func (s *portaudioSink) Write(samples []int16) (int, error) {
	if !s.started {
		if err := s.stream.Start(); err != nil {
			return 0, err
		}
		s.started = true
	}
	n := copy(s.buf, samples)
	s.out = s.buf[:n]
	if err := s.stream.Write(); err != nil {
		if errors.Is(err, portaudio.OutputUnderflowed) {
			return 0, ErrUnderrun
		}
		return 0, err
	}
	return n, nil
}

// Recover restarts the stream; PortAudio has no separate prepare step.
func (s *portaudioSink) Recover() error {
	s.logger.Debug("portaudio underrun recovered")
	if !s.started {
		return nil
	}
	if err := s.stream.Abort(); err != nil {
		return err
	}
	s.started = false
	return nil
}

func (s *portaudioSink) Drain() error {
	if !s.started {
		return nil
	}
	s.started = false
	return s.stream.Stop()
}

func (s *portaudioSink) Close() error {
	return s.stream.Close()
}
