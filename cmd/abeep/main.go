package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Hawk777/abeep/internal/cli"
	"github.com/Hawk777/abeep/internal/config"
	"github.com/Hawk777/abeep/internal/logging"
	"github.com/Hawk777/abeep/internal/script"
	"github.com/Hawk777/abeep/internal/session"
	"github.com/Hawk777/abeep/internal/sink"
	"github.com/Hawk777/abeep/internal/synth"
)

func main() {
	os.Exit(run(os.Args[0], os.Args[1:]))
}

func run(name string, args []string) int {
	cfg := config.Load()
	opts, err := cli.Parse(name, args, cfg, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger, err := logging.New(level, term.IsTerminal(int(os.Stderr.Fd())))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()

	seq := opts.Sequence
	if opts.Script != "" {
		if seq, err = script.LoadFile(context.Background(), opts.Script); err != nil {
			logger.Error("load script", zap.Error(err))
			return 1
		}
	}
	if err := seq.Validate(); err != nil {
		logger.Error("invalid tone request", zap.Error(err))
		return 1
	}

	s, format, err := sink.Open(sink.Options{
		Backend: opts.Backend,
		Device:  opts.Device,
		Path:    opts.Output,
		Format:  sink.Format{SampleRate: opts.SampleRate, PeriodSize: opts.PeriodSize},
		Logger:  logger,
	})
	if err != nil {
		logger.Error("open output", zap.Error(err))
		return 1
	}

	sess, err := session.New("cli", s, format, synth.Variant(opts.Variant), logger)
	if err != nil {
		s.Close()
		logger.Error("create session", zap.Error(err))
		return 1
	}
	_, playErr := sess.Play(seq)
	closeErr := sess.Close()
	if playErr != nil {
		logger.Error("playback failed", zap.Error(playErr))
		return 1
	}
	if closeErr != nil {
		logger.Error("close output", zap.Error(closeErr))
		return 1
	}
	return 0
}
