package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Handler        *Handler
	MetricsHandler http.Handler
}

// NewRouter creates a Chi router with all routes configured.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", cfg.Handler.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", cfg.Handler.Chat)
		r.Get("/chat/history/{sessionID}", cfg.Handler.History)
		r.Post("/appointments", cfg.Handler.CreateAppointment)
	})

	return r
}
