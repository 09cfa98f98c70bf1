package synth

import (
	"math"

	"github.com/Hawk777/abeep/internal/sintable"
)

// PeriodsPerBlock is the number of whole periods a precomputed block spans.
const PeriodsPerBlock = 20

// Block is a precomputed run of PeriodsPerBlock periods of one frequency.
type Block struct {
	Frequency float64
	Samples   []int16
}

// NewBlock computes the block for frequency at sampleRate.
func NewBlock(frequency float64, sampleRate int) *Block {
	n := int(math.Floor(PeriodsPerBlock * float64(sampleRate) / frequency))
	if n < 2 {
		n = 2
	}
	samples := make([]int16, n)
	last := float64(n - 1)
	for i := range samples {
		fraction := float64(i) / last * PeriodsPerBlock
		fraction -= math.Floor(fraction)
		samples[i] = interpolate(fraction)
	}
	return &Block{Frequency: frequency, Samples: samples}
}

// interpolate maps a fraction of a period in [0,1) onto the quarter table
// with the same four-way symmetry as sintable.Amplitude.
func interpolate(fraction float64) int16 {
	q := fraction * 4
	quadrant := int(q)
	x := q - float64(quadrant)
	switch quadrant {
	case 0:
		return quarter(x)
	case 1:
		return quarter(1 - x)
	case 2:
		return -quarter(x)
	default:
		return -quarter(1 - x)
	}
}

// quarter linearly interpolates the physical table at x in [0,1].
func quarter(x float64) int16 {
	pos := x * (sintable.PhysicalSize - 1)
	i := int(pos)
	if i >= sintable.PhysicalSize-1 {
		return sintable.Physical(sintable.PhysicalSize - 1)
	}
	a, b := float64(sintable.Physical(i)), float64(sintable.Physical(i+1))
	return int16(math.Round(a + (b-a)*(pos-float64(i))))
}

// BlockSynth replays precomputed blocks. The block for the most recent
// frequency is kept, so repetitions of a request share one block.
type BlockSynth struct {
	sampleRate int
	block      *Block
}

// NewBlockSynth returns a block synthesizer for sampleRate.
func NewBlockSynth(sampleRate int) *BlockSynth {
	return &BlockSynth{sampleRate: sampleRate}
}

// Prepare returns the block for frequency, computing it if needed.
func (s *BlockSynth) Prepare(frequency float64) *Block {
	if s.block == nil || s.block.Frequency != frequency {
		s.block = NewBlock(frequency, s.sampleRate)
	}
	return s.block
}

// Tone replays the block for frequency: whole blocks, then a partial tail.
func (s *BlockSynth) Tone(w Writer, frequency float64, frames int) error {
	if frequency <= silentBelow {
		return s.Silence(w, frames)
	}
	samples := s.Prepare(frequency).Samples
	for frames > 0 {
		n := len(samples)
		if frames < n {
			n = frames
		}
		for _, v := range samples[:n] {
			if err := w.Append(v); err != nil {
				return err
			}
		}
		frames -= n
	}
	return nil
}

// Silence emits frames zero samples.
func (s *BlockSynth) Silence(w Writer, frames int) error {
	return zeros(w, frames)
}
