// Package handlers provides HTTP handlers for bank health operations.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/fdic"
	"github.com/aristath/oracles/internal/modules/banks"
)

// Handler handles bank HTTP requests
type Handler struct {
	service *banks.Service
	log     zerolog.Logger
}

// NewHandler creates a new banks handler
func NewHandler(service *banks.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "banks").Logger(),
	}
}

// HandleSearch handles GET /banks/search
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := fdic.SearchQuery{
		Name:       api.Query(r, "name", ""),
		State:      api.Query(r, "state", ""),
		City:       api.Query(r, "city", ""),
		ActiveOnly: api.QueryBool(r, "active", true),
		Limit:      api.Clamp(api.QueryInt(r, "limit", 25), 1, 100),
	}

	institutions, err := h.service.Search(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"count":        len(institutions),
		"institutions": institutions,
		"timestamp":    api.Timestamp(),
	})
}

// HandleGetInstitution handles GET /banks/institution/{cert}
func (h *Handler) HandleGetInstitution(w http.ResponseWriter, r *http.Request) {
	inst, err := h.service.Institution(r.Context(), chi.URLParam(r, "cert"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"institution": inst,
		"timestamp":   api.Timestamp(),
	})
}

// HandleGetFinancials handles GET /banks/financials/{cert}
func (h *Handler) HandleGetFinancials(w http.ResponseWriter, r *http.Request) {
	cert := chi.URLParam(r, "cert")
	periods := api.Clamp(api.QueryInt(r, "periods", 4), 1, 40)

	reports, trends, err := h.service.Financials(r.Context(), cert, periods)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"cert":       cert,
		"periods":    len(reports),
		"financials": reports,
		"trends":     trends,
		"timestamp":  api.Timestamp(),
	})
}

// HandleGetHealth handles GET /banks/health/{cert}
func (h *Handler) HandleGetHealth(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Health(r.Context(), chi.URLParam(r, "cert"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"health":    report.Health,
		"metrics":   report.Metrics,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetFailures handles GET /banks/failures
func (h *Handler) HandleGetFailures(w http.ResponseWriter, r *http.Request) {
	limit := api.Clamp(api.QueryInt(r, "limit", 25), 1, 500)

	failures, err := h.service.Failures(r.Context(), limit, api.Query(r, "year", ""))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"count":     len(failures),
		"failures":  failures,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetAtRisk handles GET /banks/at-risk
func (h *Handler) HandleGetAtRisk(w http.ResponseWriter, r *http.Request) {
	minAssets := api.QueryInt(r, "min_assets", 100)
	limit := api.Clamp(api.QueryInt(r, "limit", 50), 1, 500)

	result, err := h.service.AtRisk(r.Context(), minAssets, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"count": result.Total,
		"note":  "Banks showing 2+ stress indicators (last 12 months). This is not investment advice.",
		"filters": api.M{
			"min_assets_millions": result.MinAssetsMil,
			"report_date_after":   result.Cutoff,
		},
		"at_risk_banks": result.Banks,
		"timestamp":     api.Timestamp(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	api.WriteJSON(w, r, h.log, status, data)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, r, h.log, err)
}
