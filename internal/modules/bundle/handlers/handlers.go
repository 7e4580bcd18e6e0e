// Package handlers provides HTTP handlers for bundled requests.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/modules/bundle"
)

// Handler handles bundle requests
type Handler struct {
	service *bundle.Service
	log     zerolog.Logger
}

// NewHandler creates a new bundle handler
func NewHandler(service *bundle.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "bundle").Logger(),
	}
}

// HandleGetMarketSnapshot handles GET /bundle/market_snapshot/{symbol}
func (h *Handler) HandleGetMarketSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.MarketSnapshot(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}
	api.WriteJSON(w, r, h.log, http.StatusOK, snap)
}

// HandleSanctionsScreen handles POST /bundle/sanctions_screen
func (h *Handler) HandleSanctionsScreen(w http.ResponseWriter, r *http.Request) {
	var req bundle.ScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, r, h.log, api.Validation("Invalid JSON body"))
		return
	}
	api.WriteJSON(w, r, h.log, http.StatusOK, h.service.SanctionsScreen(r.Context(), req))
}

// HandleGetSECSnapshot handles GET /bundle/sec_snapshot/{ticker}
func (h *Handler) HandleGetSECSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.SECSnapshot(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}
	api.WriteJSON(w, r, h.log, http.StatusOK, snap)
}
