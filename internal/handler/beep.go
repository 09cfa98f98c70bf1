package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Hawk777/abeep/internal/audio"
	"github.com/Hawk777/abeep/internal/middleware"
	"github.com/Hawk777/abeep/internal/model"
)

// PlayBeeps handles POST /v1/beeps.
func (h *Handlers) PlayBeeps(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBeep(w, r)
	if !ok {
		return
	}
	res, err := h.player.Play(r.Context(), req.Sequence())
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("playback failed",
				zap.String("requestId", middleware.GetRequestID(r.Context())),
				zap.String("session", res.ID),
				zap.Error(err),
			)
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, model.PlayResponse{
		ID:            res.ID,
		ToneFrames:    res.Stats.ToneFrames,
		SilenceFrames: res.Stats.SilenceFrames,
		Underruns:     res.Underruns,
	})
}

// RenderBeeps handles POST /v1/beeps/render?format=pcm|opus.
func (h *Handlers) RenderBeeps(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pcm"
	}
	if format != "pcm" && format != "opus" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
		return
	}
	req, ok := decodeBeep(w, r)
	if !ok {
		return
	}
	rate := req.SampleRate
	if rate == 0 {
		rate = h.sampleRate
		if format == "opus" {
			rate = 48000
		}
	}

	var enc *audio.Encoder
	if format == "opus" {
		var err error
		if enc, err = audio.NewEncoder(rate); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	samples, stats, err := h.player.Render(req.Sequence(), rate)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("X-Tone-Frames", strconv.Itoa(stats.ToneFrames))
	w.Header().Set("X-Silence-Frames", strconv.Itoa(stats.SilenceFrames))
	if enc == nil {
		w.Header().Set("Content-Type", fmt.Sprintf("audio/L16; rate=%d; channels=1", rate))
		w.Write(audio.Int16ToBytes(samples))
		return
	}

	var body bytes.Buffer
	packets, err := enc.EncodeStream(&body, samples)
	if err != nil {
		h.logger.Error("opus encode failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Opus-Packets", strconv.Itoa(packets))
	w.Header().Set("X-Opus-Frame-Ms", strconv.Itoa(audio.FrameDuration))
	w.Write(body.Bytes())
}

// AnalyzeBeeps handles POST /v1/beeps/analyze.
func (h *Handlers) AnalyzeBeeps(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBeep(w, r)
	if !ok {
		return
	}
	rate := req.SampleRate
	if rate == 0 {
		rate = h.sampleRate
	}
	results, err := h.player.Analyze(req.Sequence(), rate)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	resp := model.AnalyzeResponse{SampleRate: rate, Tones: make([]model.ToneAnalysis, len(results))}
	for i, a := range results {
		ta := model.ToneAnalysis{Requested: a.Requested, Estimated: a.Estimated, Frames: a.Frames}
		if a.Err != nil {
			ta.Error = a.Err.Error()
		}
		resp.Tones[i] = ta
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListSessions handles GET /v1/sessions.
func (h *Handlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.SessionsResponse{Sessions: h.player.ActiveSessions()})
}
