package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers SEC, perp, sanctions and analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sec", func(r chi.Router) {
		r.Get("/company/{ticker}", h.HandleGetCompany)
		r.Get("/financials/{ticker}", h.HandleGetFinancials)
		r.Get("/insiders/{ticker}", h.HandleGetInsiders)
		r.Get("/events/{ticker}", h.HandleGetEvents)
		r.Get("/batch", h.HandleGetBatch)
		r.Get("/13f/{cik}", h.HandleGet13F)
	})

	r.Route("/perp", func(r chi.Router) {
		r.Get("/funding", h.HandleGetFunding)
		r.Get("/prices/{symbol}", h.HandleGetPerpPrices)
		r.Get("/arbitrage", h.HandleGetArbitrage)
		r.Get("/platforms", h.HandleGetPlatforms)
	})

	r.Route("/sanctions", func(r chi.Router) {
		r.Post("/address", h.HandleScreenAddress)
		r.Post("/name", h.HandleScreenName)
		r.Post("/batch", h.HandleScreenBatch)
		r.Get("/country/{code}", h.HandleGetCountry)
		r.Get("/stats", h.HandleGetSanctionsStats)
	})

	r.Route("/analysis", func(r chi.Router) {
		r.Get("/wallet-compliance/{address}", h.HandleGetWalletCompliance)
		r.Get("/earnings-arbitrage/{ticker}", h.HandleGetEarningsArbitrage)
		r.Get("/insider-signal/{ticker}", h.HandleGetInsiderSignal)
	})
}
