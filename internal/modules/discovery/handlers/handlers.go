// Package handlers provides HTTP handlers for the free discovery documents.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/modules/discovery"
)

// Handler serves discovery documents
type Handler struct {
	service *discovery.Service
	log     zerolog.Logger
}

// NewHandler creates a new discovery handler
func NewHandler(service *discovery.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "discovery").Logger(),
	}
}

// HandleGetRoot handles GET /
// The root answers 402 so x402 crawlers recognise the gateway as a paid
// resource. The advertised resource follows the forwarded scheme and host.
func (h *Handler) HandleGetRoot(w http.ResponseWriter, r *http.Request) {
	proto := r.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = "https"
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}

	h.writeJSON(w, r, http.StatusPaymentRequired, h.service.PaymentInfo(proto+"://"+host))
}

// HandleGetPricing handles GET /pricing
func (h *Handler) HandleGetPricing(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.service.Pricing())
}

// HandleGetManifest handles GET /manifest
func (h *Handler) HandleGetManifest(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.service.Manifest())
}

// HandleGetX402 handles GET /.well-known/x402
func (h *Handler) HandleGetX402(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.service.Discovery())
}

// HandleGetX402Manifest handles GET /.well-known/x402-manifest.json
func (h *Handler) HandleGetX402Manifest(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.service.X402Manifest())
}

// HandleGetEndpointManifest handles GET /.well-known/x402/{category}/{endpoint}.json
func (h *Handler) HandleGetEndpointManifest(w http.ResponseWriter, r *http.Request) {
	manifest, err := h.service.EndpointManifest(chi.URLParam(r, "category"), chi.URLParam(r, "endpoint"))
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, manifest)
}

// HandleGetAgentCard handles GET /.well-known/agent.json
func (h *Handler) HandleGetAgentCard(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.service.AgentCard())
}

// HandleGetRegistration handles GET /.well-known/agent-registration.json
func (h *Handler) HandleGetRegistration(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.service.Registration())
}

// HandleGetDemoQuote handles GET /demo/quote
func (h *Handler) HandleGetDemoQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.service.DemoQuote(r.Context())
	if err != nil {
		h.writeJSON(w, r, http.StatusServiceUnavailable, api.M{
			"symbol": quote.Symbol,
			"price":  nil,
			"note":   quote.Note,
			"error":  err.Error(),
		})
		return
	}
	h.writeJSON(w, r, http.StatusOK, quote)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	api.WriteJSON(w, r, h.log, status, data)
}
