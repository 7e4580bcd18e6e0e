package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers calendar, analyst and news routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calendar", func(r chi.Router) {
		r.Get("/earnings", h.HandleGetEarnings)
		r.Get("/dividends", h.HandleGetDividends)
		r.Get("/ipo", h.HandleGetIPOs)
		r.Get("/economic", h.HandleGetEconomic)
	})

	r.Route("/analyst", func(r chi.Router) {
		r.Get("/ratings/{symbol}", h.HandleGetRatings)
		r.Get("/targets/{symbol}", h.HandleGetTargets)
	})

	r.Route("/news", func(r chi.Router) {
		r.Get("/market", h.HandleGetMarketNews)
		r.Get("/company/{symbol}", h.HandleGetCompanyNews)
	})
}
