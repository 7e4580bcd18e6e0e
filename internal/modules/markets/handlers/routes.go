package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers forex, crypto, stock, commodity and
// fundamentals routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/forex", func(r chi.Router) {
		r.Get("/rates", h.HandleGetForexRates)
		r.Get("/convert", h.HandleConvertCurrency)
		r.Get("/historical", h.HandleGetForexHistorical)
	})

	r.Route("/crypto", func(r chi.Router) {
		r.Get("/prices", h.HandleGetCryptoPrices)
		r.Get("/markets", h.HandleGetCryptoMarkets)
		r.Get("/historical", h.HandleGetCryptoHistorical)
	})

	r.Route("/stocks", func(r chi.Router) {
		r.Get("/quote/{symbol}", h.HandleGetStockQuote)
		r.Get("/historical/{symbol}", h.HandleGetStockHistorical)
		r.Get("/indices", h.HandleGetIndices)
	})

	r.Route("/commodities", func(r chi.Router) {
		r.Get("/prices", h.HandleGetCommodityPrices)
		r.Get("/metals", h.HandleGetMetals)
	})

	r.Route("/fundamentals", func(r chi.Router) {
		r.Get("/profile/{symbol}", h.HandleGetProfile)
		r.Get("/ratios/{symbol}", h.HandleGetRatios)
		r.Get("/metrics/{symbol}", h.HandleGetMetrics)
	})
}
