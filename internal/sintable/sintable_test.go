package sintable

import (
	"math"
	"testing"
)

func TestAntisymmetric(t *testing.T) {
	for i := uint32(0); i < 2*PhysicalSize; i++ {
		if a, b := Amplitude(i), Amplitude(i+2*PhysicalSize); a != -b {
			t.Fatalf("Amplitude(%d) = %d, Amplitude(%d) = %d", i, a, i+2*PhysicalSize, b)
		}
	}
}

func TestMirror(t *testing.T) {
	for i := uint32(0); i < PhysicalSize; i++ {
		if a, b := Amplitude(i), Amplitude(2*PhysicalSize-1-i); a != b {
			t.Fatalf("Amplitude(%d) = %d, mirror = %d", i, a, b)
		}
	}
}

func TestMatchesSine(t *testing.T) {
	for _, i := range []uint32{0, 1, 1000, PhysicalSize - 1, PhysicalSize, 100000, 2 * PhysicalSize, 200000, Size - 1} {
		want := FullScale * math.Sin(2*math.Pi*(float64(i)+0.5)/Size)
		if got := float64(Amplitude(i)); math.Abs(got-want) > 1 {
			t.Errorf("Amplitude(%d) = %v, want %.1f", i, got, want)
		}
	}
}

func TestPeaks(t *testing.T) {
	if got := Amplitude(PhysicalSize - 1); got != FullScale {
		t.Errorf("positive peak = %d, want %d", got, FullScale)
	}
	if got := Amplitude(3*PhysicalSize - 1); got != -FullScale {
		t.Errorf("negative peak = %d, want %d", got, -FullScale)
	}
	if got := Amplitude(0); got != 0 {
		t.Errorf("Amplitude(0) = %d, want 0", got)
	}
}

func BenchmarkAmplitude(b *testing.B) {
	var sum int
	for i := 0; i < b.N; i++ {
		sum += int(Amplitude(uint32(i) % Size))
	}
	_ = sum
}
