package player

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Hawk777/abeep/internal/config"
	"github.com/Hawk777/abeep/internal/sink"
	"github.com/Hawk777/abeep/internal/testutil"
	"github.com/Hawk777/abeep/internal/tone"
)

func testConfig() *config.Config {
	return &config.Config{
		Backend:    sink.BackendNull,
		SampleRate: 8000,
		PeriodSize: 128,
		Variant:    "nco",
		MaxTones:   4,
	}
}

// countingSink tracks how many sinks are open at once.
type countingSink struct {
	*sink.Memory
	open *atomic.Int32
	max  *atomic.Int32
}

func (c countingSink) Write(s []int16) (int, error) {
	time.Sleep(time.Millisecond)
	return c.Memory.Write(s)
}

func (c countingSink) Close() error {
	c.open.Add(-1)
	return c.Memory.Close()
}

func countingOpener(open, max *atomic.Int32) OpenFunc {
	return func(o sink.Options) (sink.Sink, sink.Format, error) {
		n := open.Add(1)
		for {
			m := max.Load()
			if n <= m || max.CompareAndSwap(m, n) {
				break
			}
		}
		return countingSink{Memory: sink.NewMemory(), open: open, max: max}, o.Format, nil
	}
}

func TestPlay(t *testing.T) {
	var m *sink.Memory
	open := func(o sink.Options) (sink.Sink, sink.Format, error) {
		if o.Backend != sink.BackendNull || o.Format.SampleRate != 8000 {
			t.Errorf("unexpected options %+v", o)
		}
		m = sink.NewMemory()
		return m, o.Format, nil
	}
	p := NewForTest(testConfig(), zap.NewNop(), open)

	res, err := p.Play(context.Background(), tone.Sequence{tone.Default()})
	if err != nil {
		t.Fatal(err)
	}
	if res.ID == "" {
		t.Error("missing session id")
	}
	if res.Stats.ToneFrames != 1600 || m.Frames() != 1600 {
		t.Errorf("tone frames %d, sink frames %d", res.Stats.ToneFrames, m.Frames())
	}
	if !m.Closed() {
		t.Error("sink left open")
	}
	if got := p.ActiveSessions(); len(got) != 0 {
		t.Errorf("sessions still registered: %v", got)
	}
}

func TestPlayRejectsInvalid(t *testing.T) {
	opened := false
	p := NewForTest(testConfig(), nil, func(o sink.Options) (sink.Sink, sink.Format, error) {
		opened = true
		return sink.NewMemory(), o.Format, nil
	})

	tests := []struct {
		name string
		seq  tone.Sequence
	}{
		{"empty", tone.Sequence{}},
		{"too many", make(tone.Sequence, 5)},
		{"bad frequency", tone.Sequence{{Frequency: 0.5, Length: 10, Reps: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Play(context.Background(), tt.seq); !errors.Is(err, tone.ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
	if opened {
		t.Error("device opened for an invalid request")
	}
}

func TestPlayDeviceError(t *testing.T) {
	boom := errors.New("no such device")
	p := NewForTest(testConfig(), nil, func(sink.Options) (sink.Sink, sink.Format, error) {
		return nil, sink.Format{}, boom
	})
	if _, err := p.Play(context.Background(), tone.Sequence{tone.Default()}); !errors.Is(err, boom) {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestPlaySerializesDevice(t *testing.T) {
	baseline := testutil.GoroutineBaseline()

	var open, max atomic.Int32
	p := NewForTest(testConfig(), nil, countingOpener(&open, &max))

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Play(context.Background(), tone.Sequence{{Frequency: 440, Length: 20, Reps: 2, Delay: 10}})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
	if max.Load() != 1 {
		t.Errorf("%d sinks open at once, want 1", max.Load())
	}
	testutil.AssertNoGoroutineLeaks(t, baseline, 2)
}

func TestPlayCancelledWhileWaiting(t *testing.T) {
	p := NewForTest(testConfig(), nil, sink.Open)
	p.device <- struct{}{}
	defer func() { <-p.device }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Play(ctx, tone.Sequence{tone.Default()}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestPlayQueueTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.QueueTimeout = 20 * time.Millisecond
	p := NewForTest(cfg, nil, sink.Open)
	p.device <- struct{}{}
	defer func() { <-p.device }()

	if _, err := p.Play(context.Background(), tone.Sequence{tone.Default()}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestPlayDurationLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDurationMs = 1000
	p := NewForTest(cfg, nil, sink.Open)

	seq := tone.Sequence{{Frequency: 440, Length: 400, Reps: 2, Delay: 300}}
	if _, err := p.Play(context.Background(), seq); !errors.Is(err, tone.ErrInvalid) {
		t.Fatalf("1100 ms: expected ErrInvalid, got %v", err)
	}
	seq[0].Delay = 200
	if _, err := p.Play(context.Background(), seq); err != nil {
		t.Fatalf("1000 ms: %v", err)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRenderFrames = 8000
	p := NewForTest(cfg, nil, nil)

	tests := []struct {
		name string
		seq  tone.Sequence
		rate int
	}{
		{"negative rate", tone.Sequence{tone.Default()}, -1},
		{"rate too high", tone.Sequence{tone.Default()}, 1 << 40},
		{"overflowing length", tone.Sequence{{Frequency: 440, Length: 209146758205324, Reps: 1}}, 44100},
		{"frame limit", tone.Sequence{{Frequency: 440, Length: 500, Reps: 2, Delay: 1}}, 8000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := p.Render(tt.seq, tt.rate); !errors.Is(err, tone.ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
			if _, err := p.Analyze(tt.seq, tt.rate); !errors.Is(err, tone.ErrInvalid) {
				t.Errorf("Analyze: expected ErrInvalid, got %v", err)
			}
		})
	}
	if _, _, err := p.Render(tone.Sequence{{Frequency: 440, Length: 1000, Reps: 1}}, 8000); err != nil {
		t.Errorf("render at the limit: %v", err)
	}
}

func TestShutdown(t *testing.T) {
	p := NewForTest(testConfig(), nil, sink.Open)
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Play(context.Background(), tone.Sequence{tone.Default()}); !errors.Is(err, ErrShuttingDown) {
		t.Errorf("Play after shutdown: %v", err)
	}
	if _, _, err := p.Render(tone.Sequence{tone.Default()}, 8000); !errors.Is(err, ErrShuttingDown) {
		t.Errorf("Render after shutdown: %v", err)
	}
}

func TestRender(t *testing.T) {
	p := NewForTest(testConfig(), nil, nil)
	samples, stats, err := p.Render(tone.Sequence{{Frequency: 1000, Length: 50, Reps: 2, Delay: 25}}, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 800+400+800 {
		t.Errorf("rendered %d samples, want 2000", len(samples))
	}
	if stats.SilenceFrames != 400 {
		t.Errorf("silence frames = %d", stats.SilenceFrames)
	}
}

func TestAnalyze(t *testing.T) {
	p := NewForTest(testConfig(), nil, nil)
	seq := tone.Sequence{
		{Frequency: 440, Length: 200, Reps: 1, Delay: 50, EndDelay: true},
		{Frequency: 1500, Length: 200, Reps: 1},
		{Frequency: 440, Length: 2, Reps: 1},
	}
	got, err := p.Analyze(seq, 44100)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{440, 1500} {
		if got[i].Err != nil {
			t.Fatalf("request %d: %v", i, got[i].Err)
		}
		if math.Abs(got[i].Estimated-want) > 3 {
			t.Errorf("request %d: estimated %.1f, want %.0f", i, got[i].Estimated, want)
		}
	}
	if got[2].Err == nil {
		t.Error("expected an error for a tone too short to analyze")
	}
}
