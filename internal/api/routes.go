package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check (no auth, no /api prefix)
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/styles", h.GetStyles)
		r.Post("/refresh", h.Refresh)

		r.Route("/markets", func(r chi.Router) {
			r.Get("/", h.GetMarkets)
			r.Route("/{market}", func(r chi.Router) {
				r.Get("/scrs", h.GetSCRs)
				r.Get("/channels", h.GetChannels)
				r.Get("/summary", h.GetSummary)
				r.Post("/optimize", h.Optimize)
				r.Get("/export.csv", h.ExportCSV)
			})
		})
	})

	return r
}
