package tone

import (
	"errors"
	"testing"
)

func TestFrames(t *testing.T) {
	tests := []struct {
		ms, rate, want int
	}{
		{1, 44100, 44},
		{11, 44100, 485},
		{200, 44100, 8820},
		{100, 44100, 4410},
		{0, 44100, 0},
		{1, 48000, 48},
		{3, 22050, 66},
		{7, 8000, 56},
	}
	for _, tt := range tests {
		if got := Frames(tt.ms, tt.rate); got != tt.want {
			t.Errorf("Frames(%d, %d) = %d, want %d", tt.ms, tt.rate, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Request)
		valid bool
	}{
		{"default", func(r *Request) {}, true},
		{"silence", func(r *Request) { r.Frequency = 0 }, true},
		{"lowest", func(r *Request) { r.Frequency = 1 }, true},
		{"below lowest", func(r *Request) { r.Frequency = 0.5 }, false},
		{"negative", func(r *Request) { r.Frequency = -440 }, false},
		{"highest", func(r *Request) { r.Frequency = 19999.9 }, true},
		{"too high", func(r *Request) { r.Frequency = 20000 }, false},
		{"zero length", func(r *Request) { r.Length = 0 }, false},
		{"zero reps", func(r *Request) { r.Reps = 0 }, false},
		{"zero delay", func(r *Request) { r.Delay = 0 }, true},
		{"negative delay", func(r *Request) { r.Delay = -1 }, false},
		{"longest", func(r *Request) { r.Length = MaxLength }, true},
		{"too long", func(r *Request) { r.Length = MaxLength + 1 }, false},
		{"overflowing length", func(r *Request) { r.Length = 209146758205324 }, false},
		{"longest delay", func(r *Request) { r.Delay = MaxLength }, true},
		{"delay too long", func(r *Request) { r.Delay = MaxLength + 1 }, false},
		{"too many reps", func(r *Request) { r.Reps = MaxReps + 1 }, false},
	}
	for _, tt := range tests {
		r := Default()
		tt.mod(&r)
		err := r.Validate()
		if tt.valid && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tt.name, err)
		}
	}
}

func TestSequenceValidate(t *testing.T) {
	if err := (Sequence{}).Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty sequence: expected ErrInvalid, got %v", err)
	}

	bad := Default()
	bad.Reps = 0
	err := Sequence{Default(), bad}.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if got := err.Error(); got[:9] != "request 1" {
		t.Errorf("error should name request 1, got %q", got)
	}
}

func TestFramesNeverNegative(t *testing.T) {
	r := Request{Frequency: 440, Length: MaxLength, Reps: MaxReps, Delay: MaxLength, EndDelay: true}
	if err := r.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, rate := range []int{MinSampleRate, 44100, MaxSampleRate} {
		if n := Frames(r.Length, rate); n <= 0 {
			t.Errorf("Frames(%d, %d) = %d", r.Length, rate, n)
		}
		tone, silence := r.Frames(rate)
		if tone <= 0 || silence <= 0 {
			t.Errorf("rate %d: request frames %d, %d", rate, tone, silence)
		}
		if n := (Sequence{r, r, r, r}).Frames(rate); n <= 0 {
			t.Errorf("rate %d: sequence frames %d", rate, n)
		}
	}
}

func TestSequenceFrames(t *testing.T) {
	seq := Sequence{
		{Frequency: 440, Length: 100, Reps: 2, Delay: 50},
		{Frequency: 880, Length: 10, Reps: 1, Delay: 20, EndDelay: true},
	}
	if got := seq.Duration(); got != 100+50+100+10+20 {
		t.Errorf("Duration() = %d", got)
	}
	if got := seq.Frames(8000); got != 800+400+800+80+160 {
		t.Errorf("Frames(8000) = %d", got)
	}
}

func TestValidateRate(t *testing.T) {
	for _, rate := range []int{-1, 0, 7999, 192001, 1 << 40} {
		if err := ValidateRate(rate); !errors.Is(err, ErrInvalid) {
			t.Errorf("ValidateRate(%d) = %v, want ErrInvalid", rate, err)
		}
	}
	for _, rate := range []int{8000, 44100, 192000} {
		if err := ValidateRate(rate); err != nil {
			t.Errorf("ValidateRate(%d) = %v", rate, err)
		}
	}
}
