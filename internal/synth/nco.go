package synth

import (
	"math"

	"github.com/Hawk777/abeep/internal/sintable"
)

const (
	// The accumulator uses its top 18 bits to address the table and the
	// remaining 46 bits as fraction.
	fractionBits = 64 - sintable.AddressBits
	roundingBias = uint64(1) << (fractionBits - 1)
	fcwScale     = float64(uint64(1) << fractionBits)

	// SilenceThreshold is the magnitude under which a ramping oscillator
	// is snapped to zero.
	SilenceThreshold = 1000
)

// NCO is a numerically controlled oscillator over the sine table.
type NCO struct {
	sampleRate  int
	accumulator uint64
	lastFCW     uint64
}

// NewNCO returns an oscillator at phase zero.
func NewNCO(sampleRate int) *NCO {
	return &NCO{sampleRate: sampleRate}
}

// ControlWord returns the per-sample accumulator increment for frequency.
func (o *NCO) ControlWord(frequency float64) uint64 {
	rate := float64(o.sampleRate)
	if frequency >= rate {
		// One full accumulator wrap is one period, so whole multiples of
		// the sample rate alias to the remainder.
		frequency = math.Mod(frequency, rate)
	}
	return uint64(frequency * sintable.Size / rate * fcwScale)
}

func (o *NCO) step(fcw uint64) int16 {
	o.accumulator += fcw
	return sintable.Amplitude(uint32((o.accumulator + roundingBias) >> fractionBits))
}

// Tone emits frames samples at frequency, continuing from the current phase.
func (o *NCO) Tone(w Writer, frequency float64, frames int) error {
	if frequency <= silentBelow {
		return o.Silence(w, frames)
	}
	fcw := o.ControlWord(frequency)
	o.lastFCW = fcw
	for ; frames > 0; frames-- {
		if err := w.Append(o.step(fcw)); err != nil {
			return err
		}
	}
	return nil
}

// Silence keeps the previous tone running until its amplitude falls below
// SilenceThreshold, then emits zeros. A ramp cut short by the frame count is
// resumed by the next call.
func (o *NCO) Silence(w Writer, frames int) error {
	for frames > 0 && o.lastFCW != 0 {
		s := o.step(o.lastFCW)
		if err := w.Append(s); err != nil {
			return err
		}
		frames--
		if s > -SilenceThreshold && s < SilenceThreshold {
			o.accumulator = 0
			o.lastFCW = 0
		}
	}
	return zeros(w, frames)
}

// Phase returns the accumulator.
func (o *NCO) Phase() uint64 { return o.accumulator }
