// Package sink opens PCM output devices for mono signed 16-bit audio.
package sink

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Hawk777/abeep/internal/tone"
)

var (
	// ErrUnderrun reports that the device ran dry. The data passed to the
	// failing Write was not played; call Recover before writing again.
	ErrUnderrun = errors.New("sink: buffer underrun")
	// ErrUnsupported is returned for a backend not compiled into this build.
	ErrUnsupported = errors.New("sink: backend not available in this build")
	// ErrClosed is returned by operations on a closed sink.
	ErrClosed = errors.New("sink: closed")
)

// Backend names accepted by Open.
const (
	BackendALSA      = "alsa"
	BackendPortAudio = "portaudio"
	BackendOto       = "oto"
	BackendPulse     = "pulse"
	BackendWAV       = "wav"
	BackendNull      = "null"
)

// DefaultPeriodSize is used when a backend does not dictate one.
const DefaultPeriodSize = 1024

// periodFor resolves a requested period size of 0. ALSA takes 0 to mean
// the largest period the device supports.
func periodFor(backend string, period int) int {
	if period > 0 || backend == BackendALSA {
		return period
	}
	return DefaultPeriodSize
}

// Format is the negotiated stream format. Samples are always mono S16LE.
type Format struct {
	SampleRate int
	PeriodSize int
}

// Sink is a PCM output. Write returns the number of frames accepted, which
// may be fewer than given.
type Sink interface {
	Write(samples []int16) (int, error)
	Recover() error
	Drain() error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Device  string
	Path    string
	Format  Format
	Logger  *zap.Logger
}

// Open opens the backend named in opts and returns it with the format the
// device accepted.
func Open(opts Options) (Sink, Format, error) {
	if err := tone.ValidateRate(opts.Format.SampleRate); err != nil {
		return nil, Format{}, err
	}
	if opts.Format.PeriodSize < 0 {
		return nil, Format{}, fmt.Errorf("invalid period size %d", opts.Format.PeriodSize)
	}
	opts.Format.PeriodSize = periodFor(opts.Backend, opts.Format.PeriodSize)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Logger = opts.Logger.With(zap.String("backend", opts.Backend))

	var (
		s   Sink
		f   Format
		err error
	)
	switch opts.Backend {
	case BackendALSA:
		s, f, err = openALSA(opts)
	case BackendPortAudio:
		s, f, err = openPortAudio(opts)
	case BackendOto:
		s, f, err = openOto(opts)
	case BackendPulse:
		s, f, err = openPulse(opts)
	case BackendWAV:
		s, f, err = openWAV(opts)
	case BackendNull:
		s, f = NewDiscard(), opts.Format
	default:
		return nil, Format{}, fmt.Errorf("unknown sink backend %q", opts.Backend)
	}
	if err != nil {
		return nil, Format{}, fmt.Errorf("open %s sink: %w", opts.Backend, err)
	}
	opts.Logger.Debug("sink opened",
		zap.Int("sampleRate", f.SampleRate),
		zap.Int("periodSize", f.PeriodSize),
	)
	return s, f, nil
}
