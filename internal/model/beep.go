package model

import "github.com/Hawk777/abeep/internal/tone"

// BeepRequest is the body of the /v1/beeps endpoints.
type BeepRequest struct {
	Tones      []tone.Request `json:"tones"`
	SampleRate int            `json:"sampleRate,omitempty"`
}

// Sequence converts the request into a playable sequence.
func (b BeepRequest) Sequence() tone.Sequence {
	return tone.Sequence(b.Tones)
}

type PlayResponse struct {
	ID            string `json:"id"`
	ToneFrames    int    `json:"toneFrames"`
	SilenceFrames int    `json:"silenceFrames"`
	Underruns     int    `json:"underruns"`
}

type ToneAnalysis struct {
	Requested float64 `json:"requestedHz"`
	Estimated float64 `json:"estimatedHz"`
	Frames    int     `json:"frames"`
	Error     string  `json:"error,omitempty"`
}

type AnalyzeResponse struct {
	SampleRate int            `json:"sampleRate"`
	Tones      []ToneAnalysis `json:"tones"`
}

type SessionsResponse struct {
	Sessions []string `json:"sessions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
