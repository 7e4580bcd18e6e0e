package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers technical indicator routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/indicators", func(r chi.Router) {
		r.Get("/sma/{symbol}", h.HandleGetSMA)
		r.Get("/ema/{symbol}", h.HandleGetEMA)
		r.Get("/rsi/{symbol}", h.HandleGetRSI)
		r.Get("/macd/{symbol}", h.HandleGetMACD)
		r.Get("/bbands/{symbol}", h.HandleGetBollinger)
		r.Get("/batch/{symbol}", h.HandleGetBatch)
	})
}
