package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers FRED, Treasury and BLS routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/fred", func(r chi.Router) {
		r.Get("/series/{seriesID}", h.HandleGetFREDSeries)
		r.Get("/indicators", h.HandleGetFREDIndicators)
		r.Get("/dashboard", h.HandleGetFREDDashboard)
		r.Get("/search", h.HandleSearchFRED)
	})

	r.Route("/treasury", func(r chi.Router) {
		r.Get("/debt", h.HandleGetTreasuryDebt)
		r.Get("/spending", h.HandleGetTreasurySpending)
		r.Get("/revenue", h.HandleGetTreasuryRevenue)
		r.Get("/auctions", h.HandleGetTreasuryAuctions)
		r.Get("/dashboard", h.HandleGetTreasuryDashboard)
	})

	r.Route("/bls", func(r chi.Router) {
		r.Get("/employment", h.HandleGetEmployment)
		r.Get("/cpi", h.HandleGetCPI)
		r.Get("/series/{seriesID}", h.HandleGetBLSSeries)
	})
}
