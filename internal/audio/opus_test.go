//go:build !headless

package audio

import (
	"bytes"
	"math"
	"testing"
)

func TestOpusRoundTrip(t *testing.T) {
	const rate = 48000
	enc, err := NewEncoder(rate)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewDecoder(rate)
	if err != nil {
		t.Fatal(err)
	}

	// 110 ms: five full frames and a padded sixth
	in := make([]int16, rate*110/1000)
	for i := range in {
		in[i] = int16(12000 * math.Sin(2*math.Pi*440*float64(i)/rate))
	}
	var buf bytes.Buffer
	packets, err := enc.EncodeStream(&buf, in)
	if err != nil {
		t.Fatal(err)
	}
	if packets != 6 {
		t.Errorf("packets = %d, want 6", packets)
	}

	out, err := dec.DecodeStream(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 6*enc.FrameSize() {
		t.Fatalf("decoded %d samples, want %d", len(out), 6*enc.FrameSize())
	}
	var energy float64
	for _, s := range out {
		energy += float64(s) * float64(s)
	}
	if rms := math.Sqrt(energy / float64(len(out))); rms < 2000 {
		t.Errorf("decoded signal too quiet, rms %.0f", rms)
	}
}

func TestEncoderRejectsRate(t *testing.T) {
	if _, err := NewEncoder(44100); err == nil {
		t.Fatal("expected error for 44100 Hz")
	}
}
