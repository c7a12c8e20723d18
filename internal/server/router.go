package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"exactcalc/internal/calculator"
	"exactcalc/internal/handlers"
	"exactcalc/internal/observability"
	"exactcalc/internal/session"
)

// NewRouter wires the middleware stack and all feature routes. The session
// registry is injected so tests and main can size it independently.
func NewRouter(sessions *session.Manager) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r)
	session.NewAPI(sessions).RegisterRoutes(r)

	return r
}
