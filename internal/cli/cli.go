// Package cli parses the abeep command line into a tone sequence and output
// options.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/Hawk777/abeep/internal/config"
	"github.com/Hawk777/abeep/internal/tone"
)

// Options is the parsed command line.
type Options struct {
	Sequence tone.Sequence

	Backend    string
	Device     string
	Output     string
	SampleRate int
	PeriodSize int
	Variant    string
	Script     string
	Verbose    bool
}

const usageLine = "Usage: %s [-f freq] [-l length] [-r reps] [-d delay] [-D delay] [-n|--new ...]\n"

// isNew reports whether arg separates two requests.
func isNew(arg string) bool {
	return arg == "-n" || arg == "--new"
}

// split cuts args into one group per request.
func split(args []string) [][]string {
	groups := [][]string{nil}
	for _, a := range args {
		if isNew(a) {
			groups = append(groups, nil)
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], a)
	}
	return groups
}

// Parse parses args (without the program name). Output options start from
// cfg and may be given in any group. Usage and errors are written to out.
// flag.ErrHelp is returned for -h.
func Parse(name string, args []string, cfg *config.Config, out io.Writer) (*Options, error) {
	opts := &Options{
		Backend:    cfg.Backend,
		Device:     cfg.Device,
		Output:     cfg.OutputPath,
		SampleRate: cfg.SampleRate,
		PeriodSize: cfg.PeriodSize,
		Variant:    cfg.Variant,
	}

	for _, group := range split(args) {
		req := tone.Default()
		fs := newFlagSet(name, &req, opts, out)
		if err := fs.Parse(group); err != nil {
			return nil, err
		}
		if fs.NArg() > 0 {
			fs.Usage()
			return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
		}
		opts.Sequence = append(opts.Sequence, req)
	}

	return opts, nil
}

func newFlagSet(name string, req *tone.Request, opts *Options, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, usageLine, name)
		fs.PrintDefaults()
	}

	fs.Func("f", "tone frequency in Hz, 1 to 19999 (default 440)", func(s string) error {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		if f < tone.MinFrequency || f >= tone.MaxFrequency {
			return fmt.Errorf("frequency %g out of range", f)
		}
		req.Frequency = f
		return nil
	})
	fs.Func("l", "tone length in ms (default 200)", positive(&req.Length))
	fs.Func("r", "repetitions (default 1)", positive(&req.Reps))
	fs.Func("d", "delay between repetitions in ms (default 100)", delay(req, false))
	fs.Func("D", "like -d, but also delay after the last repetition", delay(req, true))

	fs.StringVar(&opts.Backend, "backend", opts.Backend, "output backend: alsa, portaudio, oto, pulse, wav, null")
	fs.StringVar(&opts.Device, "device", opts.Device, "output device name")
	fs.Func("o", "write a WAV file instead of playing (selects the wav backend)", func(s string) error {
		opts.Output = s
		opts.Backend = "wav"
		return nil
	})
	fs.IntVar(&opts.SampleRate, "rate", opts.SampleRate, "sample rate in Hz")
	fs.IntVar(&opts.PeriodSize, "period", opts.PeriodSize, "period size in frames, 0 for the device maximum on alsa")
	fs.StringVar(&opts.Variant, "variant", opts.Variant, "synthesis variant: nco or block")
	fs.StringVar(&opts.Script, "script", opts.Script, "read the tone sequence from a Lua script")
	fs.BoolVar(&opts.Verbose, "v", opts.Verbose, "debug logging")
	return fs
}

func positive(dst *int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		if n <= 0 {
			return fmt.Errorf("%d must be positive", n)
		}
		*dst = n
		return nil
	}
}

func delay(req *tone.Request, end bool) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%d must not be negative", n)
		}
		req.Delay = n
		req.EndDelay = end
		return nil
	}
}
