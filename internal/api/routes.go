package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))

			r.Get("/leads", h.ListLeads)
			r.Post("/leads", h.CreateLead)
			r.Get("/leads/{id}", h.GetLead)
			r.Get("/leads/{id}/playbook", h.GetPlaybook)
			r.Post("/leads/{id}/stage", h.SetStage)
			r.Post("/leads/{id}/quality/{value}", h.SetQuality)
			r.Post("/leads/{id}/dead", h.MarkDead)
			r.Post("/leads/{id}/restore", h.RestoreDead)

			r.Get("/kanban", h.Kanban)
			r.Get("/dead", h.DeadLeads)
			r.Get("/analytics", h.Analytics)
			r.Get("/reps", h.ListReps)

			r.Post("/import", h.Import)
		})
	})

	return r
}
