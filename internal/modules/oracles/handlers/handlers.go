// Package handlers provides HTTP handlers for the SEC, perp DEX and
// sanctions oracles.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/modules/oracles"
)

// Handler handles oracle requests
type Handler struct {
	service *oracles.Service
	log     zerolog.Logger
}

// NewHandler creates a new oracles handler
func NewHandler(service *oracles.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "oracles").Logger(),
	}
}

// HandleGetCompany handles GET /sec/company/{ticker}
func (h *Handler) HandleGetCompany(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Company(r.Context(), chi.URLParam(r, "ticker"))
	h.passThrough(w, r, data, err)
}

// HandleGetFinancials handles GET /sec/financials/{ticker}
func (h *Handler) HandleGetFinancials(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Financials(r.Context(),
		chi.URLParam(r, "ticker"),
		api.Query(r, "metrics", oracles.DefaultMetrics),
		api.Query(r, "periods", oracles.DefaultPeriods),
	)
	h.passThrough(w, r, data, err)
}

// HandleGetInsiders handles GET /sec/insiders/{ticker}
func (h *Handler) HandleGetInsiders(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Insiders(r.Context(), chi.URLParam(r, "ticker"), api.Query(r, "days", oracles.DefaultInsiderDays))
	h.passThrough(w, r, data, err)
}

// HandleGetEvents handles GET /sec/events/{ticker}
func (h *Handler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Events(r.Context(), chi.URLParam(r, "ticker"), api.Query(r, "days", oracles.DefaultEventDays))
	h.passThrough(w, r, data, err)
}

// HandleGetBatch handles GET /sec/batch
func (h *Handler) HandleGetBatch(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.BatchFinancials(r.Context(), api.Query(r, "tickers", ""), api.Query(r, "metrics", oracles.DefaultMetrics))
	h.passThrough(w, r, data, err)
}

// HandleGet13F handles GET /sec/13f/{cik}
func (h *Handler) HandleGet13F(w http.ResponseWriter, r *http.Request) {
	filings, err := h.service.ThirteenF(r.Context(), chi.URLParam(r, "cik"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"cik":                filings.CIK,
		"name":               filings.Name,
		"entity_type":        filings.EntityType,
		"recent_13f_filings": filings.Filings,
		"filing_count":       filings.FilingCount,
		"instruction":        filings.Instruction,
		"timestamp":          api.Timestamp(),
	})
}

// HandleGetFunding handles GET /perp/funding
func (h *Handler) HandleGetFunding(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Funding(r.Context(), api.Query(r, "symbol", ""))
	h.passThrough(w, r, data, err)
}

// HandleGetPerpPrices handles GET /perp/prices/{symbol}
func (h *Handler) HandleGetPerpPrices(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.PerpPrices(r.Context(), chi.URLParam(r, "symbol"))
	h.passThrough(w, r, data, err)
}

// HandleGetArbitrage handles GET /perp/arbitrage
func (h *Handler) HandleGetArbitrage(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Arbitrage(r.Context(), api.Query(r, "min_spread", oracles.DefaultMinSpread))
	h.passThrough(w, r, data, err)
}

// HandleGetPlatforms handles GET /perp/platforms
func (h *Handler) HandleGetPlatforms(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Platforms(r.Context())
	h.passThrough(w, r, data, err)
}

// HandleScreenAddress handles POST /sanctions/address
func (h *Handler) HandleScreenAddress(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodeBody(w, r)
	if !ok {
		return
	}
	data, err := h.service.ScreenAddress(r.Context(), payload)
	h.passThrough(w, r, data, err)
}

// HandleScreenName handles POST /sanctions/name
func (h *Handler) HandleScreenName(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodeBody(w, r)
	if !ok {
		return
	}
	data, err := h.service.ScreenName(r.Context(), payload)
	h.passThrough(w, r, data, err)
}

// HandleScreenBatch handles POST /sanctions/batch
func (h *Handler) HandleScreenBatch(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodeBody(w, r)
	if !ok {
		return
	}
	data, err := h.service.ScreenBatch(r.Context(), payload)
	h.passThrough(w, r, data, err)
}

// HandleGetCountry handles GET /sanctions/country/{code}
func (h *Handler) HandleGetCountry(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Country(r.Context(), chi.URLParam(r, "code"))
	h.passThrough(w, r, data, err)
}

// HandleGetSanctionsStats handles GET /sanctions/stats
func (h *Handler) HandleGetSanctionsStats(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.SanctionsStats(r.Context())
	h.passThrough(w, r, data, err)
}

// HandleGetWalletCompliance handles GET /analysis/wallet-compliance/{address}
func (h *Handler) HandleGetWalletCompliance(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.WalletCompliance(r.Context(), chi.URLParam(r, "address"))
	h.passThrough(w, r, data, err)
}

// HandleGetEarningsArbitrage handles GET /analysis/earnings-arbitrage/{ticker}
func (h *Handler) HandleGetEarningsArbitrage(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.EarningsArbitrage(r.Context(), chi.URLParam(r, "ticker"))
	h.passThrough(w, r, data, err)
}

// HandleGetInsiderSignal handles GET /analysis/insider-signal/{ticker}
func (h *Handler) HandleGetInsiderSignal(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.InsiderSignal(r.Context(), chi.URLParam(r, "ticker"))
	h.passThrough(w, r, data, err)
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request) (any, bool) {
	var payload any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, api.Validation("Invalid JSON body"))
		return nil, false
	}
	return payload, true
}

func (h *Handler) passThrough(w http.ResponseWriter, r *http.Request, data any, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, data)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	api.WriteJSON(w, r, h.log, status, data)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, r, h.log, err)
}
