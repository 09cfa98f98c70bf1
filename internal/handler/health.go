package handler

import "net/http"

// Health handles GET /healthz. It does not touch the audio device.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
