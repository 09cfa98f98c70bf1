package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestRunWritesWAV(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	path := filepath.Join(t.TempDir(), "beep.wav")
	args := []string{"-o", path, "-rate", "8000", "-f", "1000", "-l", "100", "-r", "2", "-d", "50", "-n", "-l", "25"}
	if code := run("abeep", args); code != 0 {
		t.Fatalf("exit code %d", code)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	// 800 + 400 + 800 for the first request, 200 for the second
	if want := 2200; len(buf.Data) != want {
		t.Errorf("wrote %d frames, want %d", len(buf.Data), want)
	}
}

func TestRunExitCodes(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"-h"}, 0},
		{"bad frequency", []string{"-f", "0"}, 1},
		{"unknown backend", []string{"-backend", "jack"}, 1},
		{"missing script", []string{"-backend", "null", "-script", "/nonexistent.lua"}, 1},
		{"null backend", []string{"-backend", "null", "-l", "10"}, 0},
		{"overflowing length", []string{"-backend", "null", "-l", "209146758205324"}, 1},
		{"unsupported rate", []string{"-backend", "null", "-rate", "1000000", "-l", "10"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run("abeep", tt.args); got != tt.want {
				t.Errorf("exit code %d, want %d", got, tt.want)
			}
		})
	}
}
