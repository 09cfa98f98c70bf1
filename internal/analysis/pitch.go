// Package analysis estimates the pitch of rendered samples.
package analysis

import (
	"errors"
	"math"

	"github.com/ktye/fft"
)

// MinWindow is the smallest number of samples DominantFrequency accepts.
const MinWindow = 256

// ErrTooShort is returned when fewer than MinWindow samples are given.
var ErrTooShort = errors.New("analysis: too few samples")

// DominantFrequency returns the frequency of the strongest spectral peak in
// samples. It uses the largest power-of-two prefix, a Hann window and
// parabolic interpolation around the peak bin.
func DominantFrequency(samples []int16, sampleRate int) (float64, error) {
	n := MinWindow
	if len(samples) < n {
		return 0, ErrTooShort
	}
	for n*2 <= len(samples) {
		n *= 2
	}

	f, err := fft.New(n)
	if err != nil {
		return 0, err
	}
	buf := make([]complex128, n)
	for i := range buf {
		w := (1 - math.Cos(2*math.Pi*float64(i)/float64(n))) / 2
		buf[i] = complex(w*float64(samples[i]), 0)
	}
	buf = f.Transform(buf)

	mag := make([]float64, n/2)
	peak := 1
	for i := 1; i < n/2; i++ {
		re, im := real(buf[i]), imag(buf[i])
		mag[i] = math.Sqrt(re*re + im*im)
		if mag[i] > mag[peak] {
			peak = i
		}
	}
	if mag[peak] == 0 {
		return 0, nil
	}

	offset := 0.0
	if peak > 1 && peak < n/2-1 {
		a, b, c := mag[peak-1], mag[peak], mag[peak+1]
		if d := a - 2*b + c; d != 0 {
			offset = (a - c) / (2 * d)
		}
	}
	return (float64(peak) + offset) * float64(sampleRate) / float64(n), nil
}
