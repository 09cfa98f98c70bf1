package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Hawk777/abeep/internal/model"
	"github.com/Hawk777/abeep/internal/player"
	"github.com/Hawk777/abeep/internal/sequencer"
	"github.com/Hawk777/abeep/internal/tone"
)

const maxBodyBytes = 1 << 20

// Player is the part of player.Player the handlers use.
type Player interface {
	Play(ctx context.Context, seq tone.Sequence) (player.Result, error)
	Render(seq tone.Sequence, rate int) ([]int16, sequencer.Stats, error)
	Analyze(seq tone.Sequence, rate int) ([]player.Analysis, error)
	ActiveSessions() []string
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	player     Player
	sampleRate int
	logger     *zap.Logger
}

// NewHandlers creates handlers backed by p. sampleRate is the default for
// rendering when a request does not name one.
func NewHandlers(p Player, sampleRate int, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{player: p, sampleRate: sampleRate, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// statusFor maps player errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tone.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, player.ErrShuttingDown),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeBeep(w http.ResponseWriter, r *http.Request) (model.BeepRequest, bool) {
	var req model.BeepRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, false
	}
	return req, true
}
