package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Hawk777/abeep/internal/middleware"
)

// NewRouter wires the handlers. Only the /v1 routes require the API key.
func NewRouter(h *Handlers, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "X-Tone-Frames", "X-Silence-Frames", "X-Opus-Packets"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth(apiKey))
		r.Route("/beeps", func(r chi.Router) {
			r.Post("/", h.PlayBeeps)
			r.Post("/render", h.RenderBeeps)
			r.Post("/analyze", h.AnalyzeBeeps)
		})
		r.Get("/sessions", h.ListSessions)
	})
	return r
}
