// Package synth turns tone frequencies into 16-bit samples.
//
// Two strategies are provided. The NCO variant advances a 64-bit phase
// accumulator per sample; it is phase continuous across tones and ramps into
// silence at a zero crossing, so transitions do not click, and its state is
// two integers regardless of frequency. The block variant precomputes a block
// spanning a whole number of periods and replays it; its inner loop is a copy,
// but the frame count of the block is rounded so each seam may carry a small
// discontinuity, and every distinct frequency needs its own block.
package synth

import "fmt"

// silentBelow is the frequency at or under which a tone plays as silence.
const silentBelow = 2.0

// Writer receives samples in playback order.
type Writer interface {
	Append(sample int16) error
}

// Synth renders tones and silence into a Writer.
type Synth interface {
	Tone(w Writer, frequency float64, frames int) error
	Silence(w Writer, frames int) error
}

// Variant selects a synthesis strategy.
type Variant string

const (
	VariantNCO   Variant = "nco"
	VariantBlock Variant = "block"
)

// New returns a synthesizer of the given variant for sampleRate.
func New(v Variant, sampleRate int) (Synth, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	switch v {
	case VariantNCO, "":
		return NewNCO(sampleRate), nil
	case VariantBlock:
		return NewBlockSynth(sampleRate), nil
	default:
		return nil, fmt.Errorf("unknown synthesis variant %q", v)
	}
}

func zeros(w Writer, frames int) error {
	for ; frames > 0; frames-- {
		if err := w.Append(0); err != nil {
			return err
		}
	}
	return nil
}
