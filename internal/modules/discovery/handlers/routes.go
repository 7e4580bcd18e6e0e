package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the root, pricing, manifest, well-known and demo
// routes. None of them are metered.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetRoot)
	r.Get("/pricing", h.HandleGetPricing)
	r.Get("/manifest", h.HandleGetManifest)
	r.Get("/demo/quote", h.HandleGetDemoQuote)

	r.Route("/.well-known", func(r chi.Router) {
		r.Get("/x402", h.HandleGetX402)
		r.Get("/x402-manifest.json", h.HandleGetX402Manifest)
		r.Get("/x402/{category}/{endpoint}.json", h.HandleGetEndpointManifest)
		r.Get("/agent.json", h.HandleGetAgentCard)
		r.Get("/agent-registration.json", h.HandleGetRegistration)
	})
}
