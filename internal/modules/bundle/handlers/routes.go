package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers bundle routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bundle", func(r chi.Router) {
		r.Get("/market_snapshot/{symbol}", h.HandleGetMarketSnapshot)
		r.Post("/sanctions_screen", h.HandleSanctionsScreen)
		r.Get("/sec_snapshot/{ticker}", h.HandleGetSECSnapshot)
	})
}
