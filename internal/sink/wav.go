package sink

import (
	"errors"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavSink writes a mono 16-bit WAV file. It never underruns.
type wavSink struct {
	f      *os.File
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	closed bool
}

func openWAV(opts Options) (Sink, Format, error) {
	if opts.Path == "" {
		return nil, Format{}, errors.New("wav sink needs an output path")
	}
	f, err := os.Create(opts.Path)
	if err != nil {
		return nil, Format{}, err
	}
	return NewWAV(f, opts.Format), opts.Format, nil
}

// NewWAV encodes onto f, which is closed with the sink.
func NewWAV(f *os.File, format Format) Sink {
	return &wavSink{
		f:   f,
		enc: wav.NewEncoder(f, format.SampleRate, 16, 1, 1),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: format.SampleRate},
			SourceBitDepth: 16,
		},
	}
}

func (s *wavSink) Write(samples []int16) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if cap(s.buf.Data) < len(samples) {
		s.buf.Data = make([]int, len(samples))
	}
	s.buf.Data = s.buf.Data[:len(samples)]
	for i, v := range samples {
		s.buf.Data[i] = int(v)
	}
	if err := s.enc.Write(s.buf); err != nil {
		return 0, err
	}
	return len(samples), nil
}

func (s *wavSink) Recover() error { return nil }

func (s *wavSink) Drain() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *wavSink) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	err := s.enc.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
