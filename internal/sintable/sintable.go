// Package sintable holds a quarter-period sine table and expands it to a
// full period by symmetry.
package sintable

import "math"

const (
	// PhysicalSize is the number of stored entries (one quarter period).
	PhysicalSize = 65536
	// Size is the logical period in table indices.
	Size = PhysicalSize * 4
	// AddressBits is log2(Size).
	AddressBits = 18
	// FullScale is the largest stored amplitude.
	FullScale = math.MaxInt16
)

var physical [PhysicalSize]int16

func init() {
	// Entries are sampled at half-index offsets so that the reflected
	// quadrants line up exactly.
	for i := range physical {
		phase := (float64(i) + 0.5) * (math.Pi / 2) / PhysicalSize
		physical[i] = int16(math.Round(FullScale * math.Sin(phase)))
	}
}

// Physical returns stored entry i of the first quarter, i < PhysicalSize.
func Physical(i int) int16 { return physical[i] }

// Amplitude returns the sample at logical index i, i < Size.
func Amplitude(i uint32) int16 {
	switch {
	case i < PhysicalSize:
		return physical[i]
	case i < 2*PhysicalSize:
		return physical[PhysicalSize-(i-PhysicalSize)-1]
	case i < 3*PhysicalSize:
		return -physical[i-2*PhysicalSize]
	default:
		return -physical[PhysicalSize-(i-3*PhysicalSize)-1]
	}
}
