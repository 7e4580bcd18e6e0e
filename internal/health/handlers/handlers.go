// Package handlers provides the /health and /status endpoints.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/health"
)

// CacheSizer reports the number of cached entries.
type CacheSizer interface {
	Len() int
}

// Handler serves dependency health
type Handler struct {
	checker *health.Checker
	cache   CacheSizer
	version string
	log     zerolog.Logger
}

// NewHandler creates a new health handler
func NewHandler(checker *health.Checker, cache CacheSizer, version string, log zerolog.Logger) *Handler {
	return &Handler{
		checker: checker,
		cache:   cache,
		version: version,
		log:     log.With().Str("handler", "health").Logger(),
	}
}

// HandleGetHealth handles GET /health
// Every dependency is probed live.
func (h *Handler) HandleGetHealth(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Run(r.Context())

	response := api.M{
		"gateway": "healthy",
		"version": h.version,
	}
	for name, status := range report.ByName() {
		response[name] = status
	}
	response["cache_entries"] = h.cache.Len()
	response["timestamp"] = api.Timestamp()

	api.WriteJSON(w, r, h.log, http.StatusOK, response)
}

// HandleGetStatus handles GET /status
func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Latest(r.Context())

	api.WriteJSON(w, r, h.log, http.StatusOK, api.M{
		"status":        report.Overall(),
		"version":       h.version,
		"services":      report.ByService(),
		"cache_entries": h.cache.Len(),
		"timestamp":     api.Timestamp(),
	})
}

// RegisterRoutes registers health routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleGetHealth)
	r.Get("/status", h.HandleGetStatus)
}
