// Package handlers provides HTTP handlers for calendars, analyst data and news.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/modules/research"
)

const defaultNewsLimit = 20

// Handler handles research requests
type Handler struct {
	service *research.Service
	log     zerolog.Logger
}

// NewHandler creates a new research handler
func NewHandler(service *research.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "research").Logger(),
	}
}

// HandleGetEarnings handles GET /calendar/earnings
func (h *Handler) HandleGetEarnings(w http.ResponseWriter, r *http.Request) {
	cal, err := h.service.Earnings(r.Context(), api.Query(r, "from", ""), api.Query(r, "to", ""), api.Query(r, "symbol", ""))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"from":      cal.From,
		"to":        cal.To,
		"count":     cal.Count,
		"earnings":  cal.Events,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetDividends handles GET /calendar/dividends
func (h *Handler) HandleGetDividends(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.Dividends(r.Context(), api.Query(r, "symbol", ""))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":    history.Symbol,
		"count":     history.Count,
		"dividends": history.Dividends,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetIPOs handles GET /calendar/ipo
func (h *Handler) HandleGetIPOs(w http.ResponseWriter, r *http.Request) {
	cal, err := h.service.IPOs(r.Context(), api.Query(r, "from", ""), api.Query(r, "to", ""))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"from":      cal.From,
		"to":        cal.To,
		"count":     cal.Count,
		"ipos":      cal.Events,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetEconomic handles GET /calendar/economic
func (h *Handler) HandleGetEconomic(w http.ResponseWriter, r *http.Request) {
	cal, err := h.service.Economic(r.Context(), api.Query(r, "from", ""), api.Query(r, "to", ""))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"from":      cal.From,
		"to":        cal.To,
		"count":     cal.Count,
		"events":    cal.Events,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetRatings handles GET /analyst/ratings/{symbol}
func (h *Handler) HandleGetRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.Ratings(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":         ratings.Symbol,
		"period":         ratings.Period,
		"ratings":        ratings.Ratings,
		"consensus":      ratings.Consensus,
		"recommendation": ratings.Recommendation,
		"timestamp":      api.Timestamp(),
	})
}

// HandleGetTargets handles GET /analyst/targets/{symbol}
func (h *Handler) HandleGetTargets(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Targets(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":             t.Symbol,
		"current_price":      t.CurrentPrice,
		"target_high":        t.TargetHigh,
		"target_low":         t.TargetLow,
		"target_mean":        t.TargetMean,
		"target_median":      t.TargetMedian,
		"number_of_analysts": t.NumberOfAnalysts,
		"upside_percent":     t.UpsidePercent,
		"last_updated":       t.LastUpdated,
		"timestamp":          api.Timestamp(),
	})
}

// HandleGetMarketNews handles GET /news/market
func (h *Handler) HandleGetMarketNews(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.MarketNews(r.Context(),
		api.Query(r, "category", "general"),
		api.Clamp(api.QueryInt(r, "limit", defaultNewsLimit), 1, 100),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"category":  feed.Category,
		"count":     feed.Count,
		"news":      feed.News,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetCompanyNews handles GET /news/company/{symbol}
func (h *Handler) HandleGetCompanyNews(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.CompanyNews(r.Context(),
		chi.URLParam(r, "symbol"),
		api.Query(r, "from", ""),
		api.Query(r, "to", ""),
		api.Clamp(api.QueryInt(r, "limit", defaultNewsLimit), 1, 100),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":    feed.Symbol,
		"from":      feed.From,
		"to":        feed.To,
		"count":     feed.Count,
		"news":      feed.News,
		"timestamp": api.Timestamp(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	api.WriteJSON(w, r, h.log, status, data)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, r, h.log, err)
}
