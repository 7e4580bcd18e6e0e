// Package handlers provides HTTP handlers for economic data.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/fred"
	"github.com/aristath/oracles/internal/modules/economy"
)

// Handler handles FRED, Treasury and BLS requests
type Handler struct {
	service *economy.Service
	log     zerolog.Logger
}

// NewHandler creates a new economy handler
func NewHandler(service *economy.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "economy").Logger(),
	}
}

// HandleGetFREDSeries handles GET /fred/series/{seriesID}
func (h *Handler) HandleGetFREDSeries(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Series(r.Context(), fred.ObservationQuery{
		SeriesID: chi.URLParam(r, "seriesID"),
		Limit:    api.Clamp(api.QueryInt(r, "limit", 20), 1, 10000),
		Start:    api.Query(r, "start", ""),
		End:      api.Query(r, "end", ""),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"series_id":    report.SeriesID,
		"name":         report.Name,
		"category":     report.Category,
		"frequency":    report.Frequency,
		"units":        report.Units,
		"observations": report.Observations,
		"timestamp":    api.Timestamp(),
	})
}

// HandleGetFREDIndicators handles GET /fred/indicators
func (h *Handler) HandleGetFREDIndicators(w http.ResponseWriter, r *http.Request) {
	category := api.Query(r, "category", "")

	set, err := h.service.Indicators(r.Context(), category)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var indicators any = set.ByCategory()
	if category != "" {
		indicators = set.Indicators
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"count":      len(set.Indicators),
		"categories": set.Categories,
		"indicators": indicators,
		"timestamp":  api.Timestamp(),
	})
}

// HandleGetFREDDashboard handles GET /fred/dashboard
func (h *Handler) HandleGetFREDDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"dashboard": dash.Series,
		"insights":  dash.Insights,
		"timestamp": api.Timestamp(),
	})
}

// HandleSearchFRED handles GET /fred/search
func (h *Handler) HandleSearchFRED(w http.ResponseWriter, r *http.Request) {
	limit := api.Clamp(api.QueryInt(r, "limit", 25), 1, 1000)

	results, err := h.service.SearchSeries(r.Context(), api.Query(r, "q", ""), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	series := make([]api.M, 0, len(results))
	for _, s := range results {
		series = append(series, api.M{
			"id":                  s.ID,
			"title":               s.Title,
			"frequency":           s.Frequency,
			"units":               s.Units,
			"seasonal_adjustment": s.SeasonalAdjustment,
			"last_updated":        s.LastUpdated,
			"popularity":          s.Popularity,
		})
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"count":     len(series),
		"series":    series,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetTreasuryDebt handles GET /treasury/debt
func (h *Handler) HandleGetTreasuryDebt(w http.ResponseWriter, r *http.Request) {
	debt, err := h.service.Debt(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"total_debt":        debt.Total,
		"debt_held_public":  debt.DebtHeldPublic,
		"intragovernmental": debt.Intragovernmental,
		"record_date":       debt.RecordDate,
		"change_30d":        debt.Change30d,
		"trend":             debt.Trend,
		"timestamp":         api.Timestamp(),
	})
}

// HandleGetTreasurySpending handles GET /treasury/spending
func (h *Handler) HandleGetTreasurySpending(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Spending(r.Context(), api.Query(r, "year", ""))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	categories := make([]api.M, 0, len(st.Lines))
	for _, l := range st.Lines {
		categories = append(categories, api.M{"category": l.Name, "ytd_spending": l.YTD, "prior_ytd": l.PriorYTD})
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"fiscal_year": st.FiscalYear,
		"categories":  categories,
		"total_ytd":   st.TotalYTD,
		"timestamp":   api.Timestamp(),
	})
}

// HandleGetTreasuryRevenue handles GET /treasury/revenue
func (h *Handler) HandleGetTreasuryRevenue(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Revenue(r.Context(), api.Query(r, "year", ""))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	sources := make([]api.M, 0, len(st.Lines))
	for _, l := range st.Lines {
		sources = append(sources, api.M{"source": l.Name, "ytd_revenue": l.YTD, "prior_ytd": l.PriorYTD})
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"fiscal_year": st.FiscalYear,
		"sources":     sources,
		"total_ytd":   st.TotalYTD,
		"timestamp":   api.Timestamp(),
	})
}

// HandleGetTreasuryAuctions handles GET /treasury/auctions
func (h *Handler) HandleGetTreasuryAuctions(w http.ResponseWriter, r *http.Request) {
	auctions, err := h.service.Auctions(r.Context(), api.Query(r, "type", "all"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"auctions":  auctions,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetTreasuryDashboard handles GET /treasury/dashboard
func (h *Handler) HandleGetTreasuryDashboard(w http.ResponseWriter, r *http.Request) {
	debt, err := h.service.Debt(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"national_debt": api.M{
			"total":             debt.Total,
			"debt_held_public":  debt.DebtHeldPublic,
			"intragovernmental": debt.Intragovernmental,
			"date":              debt.RecordDate,
			"change_30d":        debt.Change30d,
		},
		"debt_trend": debt.Trend,
		"insights":   economy.DebtInsights(debt),
		"timestamp":  api.Timestamp(),
	})
}

// HandleGetEmployment handles GET /bls/employment
func (h *Handler) HandleGetEmployment(w http.ResponseWriter, r *http.Request) {
	series, err := h.service.Employment(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"employment_data": series,
		"timestamp":       api.Timestamp(),
	})
}

// HandleGetCPI handles GET /bls/cpi
func (h *Handler) HandleGetCPI(w http.ResponseWriter, r *http.Request) {
	series, err := h.service.CPI(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"cpi_data":  series,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetBLSSeries handles GET /bls/series/{seriesID}
func (h *Handler) HandleGetBLSSeries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "seriesID")
	years := api.Clamp(api.QueryInt(r, "years", 2), 1, 20)

	data, err := h.service.SeriesData(r.Context(), id, years)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"series_id": id,
		"data":      data,
		"timestamp": api.Timestamp(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	api.WriteJSON(w, r, h.log, status, data)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, r, h.log, err)
}
