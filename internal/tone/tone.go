package tone

import (
	"errors"
	"fmt"
	"math"
)

// Defaults applied to every request the command line or a script creates.
const (
	DefaultFrequency = 440.0 // middle A
	DefaultLength    = 200   // milliseconds
	DefaultReps      = 1
	DefaultDelay     = 100 // milliseconds

	// MaxFrequency is exclusive.
	MaxFrequency = 20000.0
	MinFrequency = 1.0

	// MaxLength bounds Length and Delay: one hour, in milliseconds.
	MaxLength = 60 * 60 * 1000
	MaxReps   = math.MaxInt32

	MinSampleRate = 8000
	MaxSampleRate = 192000
)

// ErrInvalid is returned for a request whose values are out of range.
var ErrInvalid = errors.New("invalid tone request")

// Request describes one tone, played Reps times with Delay milliseconds of
// silence between repetitions. A Frequency of 0 plays silence.
type Request struct {
	Frequency float64 `json:"frequency"`
	Length    int     `json:"lengthMs"`
	Reps      int     `json:"reps"`
	Delay     int     `json:"delayMs"`
	EndDelay  bool    `json:"endDelay"`
}

// Default returns a request populated with the default values.
func Default() Request {
	return Request{
		Frequency: DefaultFrequency,
		Length:    DefaultLength,
		Reps:      DefaultReps,
		Delay:     DefaultDelay,
	}
}

// Validate checks the request ranges. Values are never clamped.
func (r Request) Validate() error {
	if r.Frequency != 0 && (r.Frequency < MinFrequency || r.Frequency >= MaxFrequency) {
		return fmt.Errorf("%w: frequency %g Hz outside [%g, %g)", ErrInvalid, r.Frequency, MinFrequency, MaxFrequency)
	}
	if r.Length <= 0 || r.Length > MaxLength {
		return fmt.Errorf("%w: length %d ms outside [1, %d]", ErrInvalid, r.Length, MaxLength)
	}
	if r.Reps <= 0 || r.Reps > MaxReps {
		return fmt.Errorf("%w: reps %d outside [1, %d]", ErrInvalid, r.Reps, MaxReps)
	}
	if r.Delay < 0 || r.Delay > MaxLength {
		return fmt.Errorf("%w: delay %d ms outside [0, %d]", ErrInvalid, r.Delay, MaxLength)
	}
	return nil
}

// silences is the number of delays played.
func (r Request) silences() int {
	if r.EndDelay {
		return r.Reps
	}
	return r.Reps - 1
}

// Duration is the playing time of a valid request in milliseconds.
func (r Request) Duration() int {
	return r.Reps*r.Length + r.silences()*r.Delay
}

// Frames is the number of tone and silence frames a valid request renders
// at sampleRate.
func (r Request) Frames(sampleRate int) (tone, silence int) {
	return r.Reps * Frames(r.Length, sampleRate), r.silences() * Frames(r.Delay, sampleRate)
}

// Silent reports whether the request plays no tone.
func (r Request) Silent() bool { return r.Frequency == 0 }

// Sequence is an ordered list of requests; index order is playback order.
type Sequence []Request

// Validate checks every request and reports the first failure with its index.
func (s Sequence) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: empty sequence", ErrInvalid)
	}
	for i, r := range s {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("request %d: %w", i, err)
		}
	}
	return nil
}

// Duration is the total playing time in milliseconds, saturating at
// math.MaxInt.
func (s Sequence) Duration() int {
	total := 0
	for _, r := range s {
		total = addSat(total, r.Duration())
	}
	return total
}

// Frames is the total number of frames the sequence renders at sampleRate,
// saturating at math.MaxInt.
func (s Sequence) Frames(sampleRate int) int {
	total := 0
	for _, r := range s {
		t, d := r.Frames(sampleRate)
		total = addSat(addSat(total, t), d)
	}
	return total
}

func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// ValidateRate checks that frame counts at sampleRate are computable for
// every valid request.
func ValidateRate(sampleRate int) error {
	if sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return fmt.Errorf("%w: sample rate %d Hz outside [%d, %d]", ErrInvalid, sampleRate, MinSampleRate, MaxSampleRate)
	}
	return nil
}

// Frames converts milliseconds to a frame count at the given rate, rounding
// half up.
func Frames(ms, sampleRate int) int {
	return (ms*sampleRate + 500) / 1000
}
