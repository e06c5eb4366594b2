package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/inquiry-dashboard/internal/monitoring"
)

var defaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// SetupRoutes configures all API routes
func SetupRoutes(h *Handlers, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(monitoring.Middleware)

	if len(corsOrigins) == 0 {
		corsOrigins = defaultCORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Method(http.MethodGet, "/metrics", monitoring.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/inquiries", h.ListInquiries)
		r.Get("/contracts", h.ListContracts)
		r.Get("/overview", h.Overview)

		r.Route("/stats", func(r chi.Router) {
			r.Get("/attorneys", h.AttorneyStats)
			r.Get("/fields", h.FieldStats)
			r.Get("/media", h.MediaStats)
			r.Get("/channels", h.ChannelStats)
			r.Get("/period", h.PeriodStats)
			r.Get("/trend", h.Trend)
		})

		r.Post("/refresh", h.TriggerRefresh)
		r.Get("/refresh/status", h.RefreshStatus)
		r.Get("/history", h.History)
	})

	return r
}
