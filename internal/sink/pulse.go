package sink

import (
	"errors"
	"fmt"

	"github.com/jfreymuth/pulse"
	"go.uber.org/zap"
)

// pulseSink plays through a PulseAudio (or PipeWire-pulse) server using the
// native protocol. The server pulls from a pipe.
type pulseSink struct {
	client *pulse.Client
	stream *pulse.PlaybackStream
	pipe   *pipe
	logger *zap.Logger
}

func openPulse(opts Options) (Sink, Format, error) {
	client, err := pulse.NewClient(pulse.ClientApplicationName("abeep"))
	if err != nil {
		return nil, Format{}, err
	}

	s := &pulseSink{
		client: client,
		pipe:   newPipe(2 * opts.Format.PeriodSize),
		logger: opts.Logger,
	}

	popts := []pulse.PlaybackOption{
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(opts.Format.SampleRate),
		pulse.PlaybackBufferSize(opts.Format.PeriodSize),
	}
	if opts.Device != "" && opts.Device != "default" {
		dev, err := client.SinkByID(opts.Device)
		if err != nil {
			client.Close()
			return nil, Format{}, fmt.Errorf("find sink %q: %w", opts.Device, err)
		}
		popts = append(popts, pulse.PlaybackSink(dev))
	}

	stream, err := client.NewPlayback(pulse.Int16Reader(s.read), popts...)
	if err != nil {
		client.Close()
		return nil, Format{}, err
	}
	s.stream = stream
	return s, opts.Format, nil
}

func (s *pulseSink) read(out []int16) (int, error) {
	n, eof := s.pipe.read(out)
	if eof {
		return n, pulse.EndOfData
	}
	return n, nil
}

func (s *pulseSink) Write(samples []int16) (int, error) {
	n, err := s.pipe.write(samples)
	if n > 0 && !s.stream.Running() {
		s.stream.Start()
	}
	return n, err
}

func (s *pulseSink) Recover() error {
	s.logger.Debug("pulse underrun recovered", zap.Bool("serverUnderflow", s.stream.Underflow()))
	s.pipe.recover()
	return nil
}

func (s *pulseSink) Drain() error {
	if err := s.pipe.beginDrain(); err != nil {
		return err
	}
	defer s.pipe.endDrain()
	if s.stream.Running() {
		s.stream.Drain()
	}
	if err := s.stream.Error(); err != nil && !errors.Is(err, pulse.EndOfData) {
		return err
	}
	return nil
}

func (s *pulseSink) Close() error {
	s.pipe.close()
	s.stream.Close()
	s.client.Close()
	return nil
}
