// Package handlers provides HTTP handlers for market data.
package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/modules/markets"
)

// Handler handles forex, crypto, stock, commodity and fundamentals requests
type Handler struct {
	service *markets.Service
	log     zerolog.Logger
}

// NewHandler creates a new markets handler
func NewHandler(service *markets.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "markets").Logger(),
	}
}

// HandleGetForexRates handles GET /forex/rates
func (h *Handler) HandleGetForexRates(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.service.Rates(r.Context(), api.Query(r, "base", "usd"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := api.M{
		"base":             sheet.Base,
		"date":             sheet.Date,
		"rates":            sheet.Rates,
		"major_pairs":      sheet.MajorPairs,
		"total_currencies": sheet.TotalCurrencies,
		"timestamp":        api.Timestamp(),
	}
	if sheet.Stale {
		response["stale"] = true
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

// HandleConvertCurrency handles GET /forex/convert
func (h *Handler) HandleConvertCurrency(w http.ResponseWriter, r *http.Request) {
	conv, err := h.service.Convert(r.Context(),
		api.Query(r, "from", "usd"),
		api.Query(r, "to", "eur"),
		api.QueryFloat(r, "amount", 1),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"from":      conv.From,
		"to":        conv.To,
		"amount":    conv.Amount,
		"rate":      conv.Rate,
		"converted": conv.Converted,
		"date":      conv.Date,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetForexHistorical handles GET /forex/historical
func (h *Handler) HandleGetForexHistorical(w http.ResponseWriter, r *http.Request) {
	rates, err := h.service.Historical(r.Context(), api.Query(r, "base", "usd"), api.Query(r, "date", ""))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"base":      rates.Base,
		"date":      rates.Date,
		"rates":     rates.Rates,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetCryptoPrices handles GET /crypto/prices
func (h *Handler) HandleGetCryptoPrices(w http.ResponseWriter, r *http.Request) {
	ids := api.QueryList(r, "ids")
	currency := api.Query(r, "currency", "usd")

	prices, err := h.service.CryptoPrices(r.Context(), ids, currency)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"currency":  strings.ToUpper(currency),
		"prices":    prices,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetCryptoMarkets handles GET /crypto/markets
func (h *Handler) HandleGetCryptoMarkets(w http.ResponseWriter, r *http.Request) {
	currency := api.Query(r, "currency", "usd")
	limit := api.Clamp(api.QueryInt(r, "limit", 50), 1, 250)

	coins, err := h.service.CryptoMarkets(r.Context(), currency, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"currency":  strings.ToUpper(currency),
		"count":     len(coins),
		"markets":   coins,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetCryptoHistorical handles GET /crypto/historical
func (h *Handler) HandleGetCryptoHistorical(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.CryptoHistory(r.Context(),
		api.Query(r, "id", "bitcoin"),
		api.Query(r, "currency", "usd"),
		api.Clamp(api.QueryInt(r, "days", 30), 1, 365),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"id":          history.ID,
		"currency":    history.Currency,
		"days":        history.Days,
		"prices":      history.Prices,
		"market_caps": history.MarketCaps,
		"summary":     history.Summary,
		"timestamp":   api.Timestamp(),
	})
}

// HandleGetStockQuote handles GET /stocks/quote/{symbol}
func (h *Handler) HandleGetStockQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.StockQuote(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":         q.Symbol,
		"price":          q.Price,
		"change":         q.Change,
		"change_percent": q.ChangePercent,
		"high":           q.High,
		"low":            q.Low,
		"open":           q.Open,
		"previous_close": q.PreviousClose,
		"timestamp":      q.Timestamp,
		"updated":        api.Timestamp(),
	})
}

// HandleGetStockHistorical handles GET /stocks/historical/{symbol}
func (h *Handler) HandleGetStockHistorical(w http.ResponseWriter, r *http.Request) {
	resolution := strings.ToUpper(api.Query(r, "resolution", "D"))
	days := api.Clamp(api.QueryInt(r, "days", 30), 1, 3650)

	history, err := h.service.StockHistory(r.Context(), chi.URLParam(r, "symbol"), resolution, days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":     history.Symbol,
		"resolution": history.Resolution,
		"count":      len(history.Candles),
		"candles":    history.Candles,
		"summary":    history.Summary,
		"timestamp":  api.Timestamp(),
	})
}

// HandleGetIndices handles GET /stocks/indices
func (h *Handler) HandleGetIndices(w http.ResponseWriter, r *http.Request) {
	indices, err := h.service.IndexQuotes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"indices":   indices,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetCommodityPrices handles GET /commodities/prices
func (h *Handler) HandleGetCommodityPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.service.MetalPrices(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"prices":    prices,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetMetals handles GET /commodities/metals
func (h *Handler) HandleGetMetals(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/commodities/prices", http.StatusFound)
}

// HandleGetProfile handles GET /fundamentals/profile/{symbol}
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Profile(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":      p.Symbol,
		"name":        p.Name,
		"exchange":    p.Exchange,
		"sector":      p.Sector,
		"industry":    p.Industry,
		"market_cap":  p.MarketCap,
		"price":       p.Price,
		"beta":        p.Beta,
		"volume":      p.Volume,
		"avg_volume":  p.AvgVolume,
		"description": p.Description,
		"ceo":         p.CEO,
		"website":     p.Website,
		"employees":   p.Employees,
		"timestamp":   api.Timestamp(),
	})
}

// HandleGetRatios handles GET /fundamentals/ratios/{symbol}
func (h *Handler) HandleGetRatios(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Ratios(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writePeriod(w, r, p, "ratios")
}

// HandleGetMetrics handles GET /fundamentals/metrics/{symbol}
func (h *Handler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Metrics(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writePeriod(w, r, p, "metrics")
}

func (h *Handler) writePeriod(w http.ResponseWriter, r *http.Request, p *markets.FinancialPeriod, key string) {
	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":      p.Symbol,
		"period":      p.Period,
		"fiscal_year": p.FiscalYear,
		"date":        p.Date,
		key:           p.Values,
		"timestamp":   api.Timestamp(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	api.WriteJSON(w, r, h.log, status, data)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, r, h.log, err)
}
