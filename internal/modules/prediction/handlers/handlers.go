// Package handlers provides HTTP handlers for prediction market operations.
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/modules/prediction"
)

// Handler handles prediction market HTTP requests
type Handler struct {
	service *prediction.Service
	hub     *prediction.Hub
	log     zerolog.Logger
}

// NewHandler creates a new prediction handler
func NewHandler(service *prediction.Service, hub *prediction.Hub, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		log:     log.With().Str("handler", "prediction").Logger(),
	}
}

// HandleGetMarkets handles GET /prediction/markets
func (h *Handler) HandleGetMarkets(w http.ResponseWriter, r *http.Request) {
	source := api.Query(r, "source", "")
	category := api.Query(r, "category", "")
	limit := api.QueryInt(r, "limit", 50)

	markets := h.service.Markets(r.Context(), source, category, limit)

	h.writeJSON(w, r, http.StatusOK, api.M{
		"count":     len(markets),
		"markets":   markets,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetPrice handles GET /prediction/prices/{marketId}
func (h *Handler) HandleGetPrice(w http.ResponseWriter, r *http.Request) {
	marketID := chi.URLParam(r, "marketId")
	source := api.Query(r, "source", "auto")

	market, err := h.service.Price(r.Context(), marketID, source)
	if errors.Is(err, prediction.ErrNotFound) {
		err = api.NotFound("Market not found", api.M{"marketId": marketID})
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"market":    market,
		"timestamp": api.Timestamp(),
	})
}

// HandleGetArbitrage handles GET /prediction/arbitrage
func (h *Handler) HandleGetArbitrage(w http.ResponseWriter, r *http.Request) {
	minSpread := api.QueryFloat(r, "min_spread", 0.02)
	limit := api.QueryInt(r, "limit", 20)

	report := h.service.Arbitrage(r.Context(), minSpread, limit)
	h.writeJSON(w, r, http.StatusOK, report)
}

// HandleGetEvent handles GET /prediction/event/{eventId}
func (h *Handler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	source := api.Query(r, "source", "auto")

	from, event, err := h.service.Event(r.Context(), eventID, source)
	if errors.Is(err, prediction.ErrNotFound) {
		err = api.NotFound("Event not found", api.M{"eventId": eventID})
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.M{
		"source":    from,
		"event":     event,
		"timestamp": api.Timestamp(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	api.WriteJSON(w, r, h.log, status, data)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, r, h.log, err)
}
