package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all bank routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/banks", func(r chi.Router) {
		r.Get("/search", h.HandleSearch)
		r.Get("/institution/{cert}", h.HandleGetInstitution)
		r.Get("/financials/{cert}", h.HandleGetFinancials)
		r.Get("/health/{cert}", h.HandleGetHealth)
		r.Get("/failures", h.HandleGetFailures)
		r.Get("/at-risk", h.HandleGetAtRisk)
	})
}
