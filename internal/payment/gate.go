package payment

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
)

// HeaderName carries the caller's payment proof. Only its presence is
// checked; the proof is not verified against the settlement network.
const HeaderName = "X-Payment"

// Terms are the payee details advertised with every price.
type Terms struct {
	PublicURL   string // gateway base URL, no trailing slash
	PayTo       string
	Network     string
	Asset       string
	GatewayName string
}

// SchemaInput describes how the resource is called.
type SchemaInput struct {
	Type         string `json:"type"`
	Method       string `json:"method"`
	Discoverable bool   `json:"discoverable"`
}

// SchemaOutput describes the resource's response.
type SchemaOutput struct {
	Type string `json:"type"`
}

// OutputSchema is the x402 outputSchema object.
type OutputSchema struct {
	Input  SchemaInput   `json:"input"`
	Output *SchemaOutput `json:"output,omitempty"`
}

// AssetInfo names the payment token for EIP-712 signing.
type AssetInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Accept is one x402 payment option.
type Accept struct {
	Scheme            string       `json:"scheme"`
	Network           string       `json:"network"`
	MaxAmountRequired string       `json:"maxAmountRequired"`
	Resource          string       `json:"resource"`
	Description       string       `json:"description"`
	MimeType          string       `json:"mimeType"`
	PayTo             string       `json:"payTo"`
	MaxTimeoutSeconds int          `json:"maxTimeoutSeconds"`
	Asset             string       `json:"asset"`
	OutputSchema      OutputSchema `json:"outputSchema"`
	Extra             AssetInfo    `json:"extra"`
}

// RequiredMetadata identifies the gateway and endpoint in a 402 body.
type RequiredMetadata struct {
	Gateway  string `json:"gateway"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Required is the 402 response body.
type Required struct {
	X402Version int              `json:"x402Version"`
	Error       string           `json:"error"`
	Accepts     []Accept         `json:"accepts"`
	Metadata    RequiredMetadata `json:"metadata"`
}

// Resource is the absolute URL of an endpoint.
func (t Terms) Resource(ep Endpoint) string {
	return t.PublicURL + "/" + ep.Key
}

// Accept builds the payment option shown in 402 responses.
func (t Terms) Accept(ep Endpoint) Accept {
	return Accept{
		Scheme:            "exact",
		Network:           t.Network,
		MaxAmountRequired: ep.AtomicAmount(),
		Resource:          t.Resource(ep),
		Description:       ep.Summary(),
		MimeType:          "application/json",
		PayTo:             t.PayTo,
		MaxTimeoutSeconds: 300,
		Asset:             t.Asset,
		OutputSchema: OutputSchema{
			Input: SchemaInput{Type: "http", Method: ep.Method(), Discoverable: true},
		},
		Extra: AssetInfo{Name: "USD Coin", Version: "2"},
	}
}

// ManifestAccept is the discovery manifest variant: plain description and
// a declared JSON output.
func (t Terms) ManifestAccept(ep Endpoint) Accept {
	a := t.Accept(ep)
	a.Description = ep.Description
	a.OutputSchema.Output = &SchemaOutput{Type: "json"}
	return a
}

// Required builds the 402 body for ep.
func (t Terms) Required(ep Endpoint) Required {
	return Required{
		X402Version: 1,
		Error:       "X-PAYMENT header is required",
		Accepts:     []Accept{t.Accept(ep)},
		Metadata: RequiredMetadata{
			Gateway:  t.PublicURL,
			Name:     ep.Name,
			Category: ep.Category(),
		},
	}
}

// Gate meters requests against a price table.
type Gate struct {
	table *Table
	terms Terms
	log   zerolog.Logger
}

// NewGate creates a payment gate
func NewGate(table *Table, terms Terms, log zerolog.Logger) *Gate {
	return &Gate{
		table: table,
		terms: terms,
		log:   log.With().Str("component", "payment_gate").Logger(),
	}
}

// Table returns the gate's price list.
func (g *Gate) Table() *Table { return g.table }

// Terms returns the advertised payee details.
func (g *Gate) Terms() Terms { return g.terms }

// Middleware lets free routes and requests carrying a payment header through.
// Metered requests without the header get a 402 and never reach next.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ep, metered := g.table.Lookup(r.URL.Path)
		if !metered {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get(HeaderName) == "" {
			g.log.Debug().Str("endpoint", ep.Key).Str("path", r.URL.Path).Msg("Payment required")
			api.WriteJSON(w, r, g.log, http.StatusPaymentRequired, g.terms.Required(ep))
			return
		}

		next.ServeHTTP(w, r)
	})
}
