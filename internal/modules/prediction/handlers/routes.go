package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all prediction market routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/prediction", func(r chi.Router) {
		r.Get("/markets", h.HandleGetMarkets)
		r.Get("/prices/{marketId}", h.HandleGetPrice)
		r.Get("/arbitrage", h.HandleGetArbitrage)
		r.Get("/event/{eventId}", h.HandleGetEvent)
	})
}

// RegisterStreamRoutes registers the long-lived websocket route behind mw.
// It must be mounted outside request timeouts.
func (h *Handler) RegisterStreamRoutes(r chi.Router, mw ...func(http.Handler) http.Handler) {
	r.With(mw...).Get("/ws/arbitrage", h.HandleStream)
}
