// Package handlers provides HTTP handlers for technical indicators.
package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/modules/indicators"
)

// Handler handles indicator requests
type Handler struct {
	service *indicators.Service
	log     zerolog.Logger
}

// NewHandler creates a new indicators handler
func NewHandler(service *indicators.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "indicators").Logger(),
	}
}

func period(r *http.Request, def int) int {
	return api.Clamp(api.QueryInt(r, "period", def), 2, 200)
}

// HandleGetSMA handles GET /indicators/sma/{symbol}
func (h *Handler) HandleGetSMA(w http.ResponseWriter, r *http.Request) {
	h.movingAverage(w, r, "SMA")
}

// HandleGetEMA handles GET /indicators/ema/{symbol}
func (h *Handler) HandleGetEMA(w http.ResponseWriter, r *http.Request) {
	h.movingAverage(w, r, "EMA")
}

func (h *Handler) movingAverage(w http.ResponseWriter, r *http.Request, function string) {
	osc, err := h.service.MovingAverage(r.Context(), function, chi.URLParam(r, "symbol"), period(r, 20))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	key := strings.ToLower(function)
	response := api.M{
		"symbol":        osc.Symbol,
		"indicator":     osc.Indicator,
		"period":        osc.Period,
		"source":        osc.Source,
		"current_price": osc.CurrentPrice,
		"signal":        osc.Signal,
		"values":        values(osc, key),
		"timestamp":     api.Timestamp(),
	}
	response["current_"+key] = osc.Current
	h.writeJSON(w, r, http.StatusOK, response)
}

// HandleGetRSI handles GET /indicators/rsi/{symbol}
func (h *Handler) HandleGetRSI(w http.ResponseWriter, r *http.Request) {
	osc, err := h.service.RSI(r.Context(), chi.URLParam(r, "symbol"), period(r, 14))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":      osc.Symbol,
		"indicator":   osc.Indicator,
		"period":      osc.Period,
		"source":      osc.Source,
		"current_rsi": osc.Current,
		"signal":      osc.Signal,
		"values":      values(osc, "rsi"),
		"timestamp":   api.Timestamp(),
	})
}

func values(osc *indicators.Oscillator, key string) []api.M {
	out := make([]api.M, 0, len(osc.Values))
	for _, v := range osc.Values {
		out = append(out, api.M{"date": v.Date, key: v.Value})
	}
	return out
}

// HandleGetMACD handles GET /indicators/macd/{symbol}
func (h *Handler) HandleGetMACD(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.MACD(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":      m.Symbol,
		"indicator":   "MACD",
		"source":      m.Source,
		"date":        m.Date,
		"macd_line":   m.MACDLine,
		"signal_line": m.SignalLine,
		"histogram":   m.Histogram,
		"signal":      m.Signal,
		"timestamp":   api.Timestamp(),
	})
}

// HandleGetBollinger handles GET /indicators/bbands/{symbol}
func (h *Handler) HandleGetBollinger(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Bollinger(r.Context(), chi.URLParam(r, "symbol"), period(r, 20))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":        b.Symbol,
		"indicator":     "BBANDS",
		"period":        b.Period,
		"source":        b.Source,
		"date":          b.Date,
		"current_price": b.CurrentPrice,
		"upper_band":    b.UpperBand,
		"middle_band":   b.MiddleBand,
		"lower_band":    b.LowerBand,
		"signal":        b.Signal,
		"timestamp":     api.Timestamp(),
	})
}

// HandleGetBatch handles GET /indicators/batch/{symbol}
func (h *Handler) HandleGetBatch(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Batch(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"symbol":        b.Symbol,
		"current_price": b.CurrentPrice,
		"indicators": api.M{
			"sma_20": b.SMA20,
			"rsi_14": b.RSI14,
		},
		"overall_signal": b.OverallSignal,
		"timestamp":      api.Timestamp(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	api.WriteJSON(w, r, h.log, status, data)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, r, h.log, err)
}
