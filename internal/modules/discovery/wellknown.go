package discovery

import (
	"fmt"
	"strings"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/payment"
)

var agentCapabilities = []string{
	"sec_filings",
	"xbrl_financials",
	"insider_trading",
	"8k_events",
	"funding_rates",
	"open_interest",
	"arbitrage_detection",
	"sanctions_screening",
	"crypto_address_screening",
	"compliance_check",
	"prediction_markets",
	"polymarket",
	"kalshi",
	"prediction_arbitrage",
	"bank_health",
	"fdic_data",
	"bank_failures",
	"economic_indicators",
	"fred_data",
	"gdp",
	"inflation",
	"unemployment",
}

var registrationCapabilities = []string{
	"sec_filings",
	"xbrl_financials",
	"insider_trading",
	"sanctions_screening",
	"funding_rates",
	"arbitrage_detection",
	"prediction_markets",
	"bank_health_monitoring",
	"economic_indicators",
}

// DiscoveryMetadata summarises the gateway in the x402 discovery document.
type DiscoveryMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Endpoints   int    `json:"endpoints"`
	Network     string `json:"network"`
	PayTo       string `json:"payTo"`
}

// Discovery is the /.well-known/x402 document crawlers start from.
type Discovery struct {
	Version         int               `json:"version"`
	Resources       []string          `json:"resources"`
	OwnershipProofs []string          `json:"ownershipProofs"`
	Manifest        string            `json:"manifest"`
	Instructions    string            `json:"instructions"`
	Metadata        DiscoveryMetadata `json:"metadata"`
}

// Discovery lists every paid resource URL.
func (s *Service) Discovery() *Discovery {
	endpoints := s.table.Endpoints()
	resources := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		resources = append(resources, s.terms.Resource(ep))
	}

	return &Discovery{
		Version:         1,
		Resources:       resources,
		OwnershipProofs: []string{OwnershipProof},
		Manifest:        s.url("/.well-known/x402-manifest.json"),
		Instructions:    s.instructions(),
		Metadata: DiscoveryMetadata{
			Name:        Name,
			Description: Description,
			Version:     s.version,
			Endpoints:   len(resources),
			Network:     s.terms.Network,
			PayTo:       s.terms.PayTo,
		},
	}
}

func (s *Service) instructions() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", Name, Description)

	b.WriteString("## Quick Start\n\n")
	fmt.Fprintf(&b, "1. Send a GET request to any endpoint without %s header to see pricing\n", payment.HeaderName)
	b.WriteString("2. Pay with USDC on Base network\n")
	fmt.Fprintf(&b, "3. Include the tx hash in %s header\n\n", payment.HeaderName)

	b.WriteString("## Free Demo\n\n")
	fmt.Fprintf(&b, "Test without payment: `GET %s`\n\n", s.url("/demo/quote"))

	b.WriteString("## Bundles (recommended)\n\n")
	for _, bundle := range []struct{ label, key, call string }{
		{"Market Snapshot", "bundle/market_snapshot", "GET /bundle/market_snapshot/{symbol}"},
		{"Sanctions Screen", "bundle/sanctions_screen", "POST /bundle/sanctions_screen"},
		{"SEC Snapshot", "bundle/sec_snapshot", "GET /bundle/sec_snapshot/{ticker}"},
	} {
		if ep, ok := s.table.Get(bundle.key); ok {
			fmt.Fprintf(&b, "- %s: `%s` ($%s)\n", bundle.label, bundle.call, ep.Price.StringFixed(2))
		}
	}

	b.WriteString("\n## Documentation\n\n")
	fmt.Fprintf(&b, "- Pricing: %s\n", s.url("/pricing"))
	fmt.Fprintf(&b, "- Agent Card: %s", s.url("/.well-known/agent.json"))
	return b.String()
}

// Identity is the on-chain registration of the agent.
type Identity struct {
	Registry        string `json:"registry"`
	ChainID         int    `json:"chainId"`
	AgentID         int    `json:"agentId"`
	SepoliaRegistry string `json:"sepoliaRegistry,omitempty"`
	SepoliaAgentID  int    `json:"sepoliaAgentId,omitempty"`
}

// ManifestMetadata identifies the gateway in x402 manifests.
type ManifestMetadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Identity    Identity `json:"identity"`
}

// X402Manifest lists payment options for one or all resources.
type X402Manifest struct {
	Accepts     []payment.Accept  `json:"accepts"`
	LastUpdated string            `json:"lastUpdated"`
	Metadata    *ManifestMetadata `json:"metadata,omitempty"`
	Resource    string            `json:"resource"`
	Type        string            `json:"type"`
	X402Version int               `json:"x402Version"`
}

// X402Manifest is the full manifest with an accept entry per endpoint.
func (s *Service) X402Manifest() *X402Manifest {
	endpoints := s.table.Endpoints()
	accepts := make([]payment.Accept, 0, len(endpoints))
	for _, ep := range endpoints {
		accepts = append(accepts, s.terms.ManifestAccept(ep))
	}

	return &X402Manifest{
		Accepts:     accepts,
		LastUpdated: s.timestamp(),
		Metadata: &ManifestMetadata{
			Name:        Name,
			Description: Description,
			Version:     s.version,
			Identity:    Identity{Registry: Registry, ChainID: ChainID, AgentID: AgentID},
		},
		Resource:    s.terms.PublicURL,
		Type:        "http",
		X402Version: 2,
	}
}

// EndpointManifest is the manifest of a single endpoint.
func (s *Service) EndpointManifest(category, endpoint string) (*X402Manifest, error) {
	ep, ok := s.table.Get(category + "/" + endpoint)
	if !ok {
		return nil, api.NotFound("Unknown endpoint", api.M{"endpoint": category + "/" + endpoint})
	}

	return &X402Manifest{
		Accepts:     []payment.Accept{s.terms.ManifestAccept(ep)},
		LastUpdated: s.timestamp(),
		Resource:    s.terms.Resource(ep),
		Type:        "http",
		X402Version: 2,
	}, nil
}

// X402Settings advertises how the agent is paid.
type X402Settings struct {
	Enabled  bool   `json:"enabled"`
	Network  string `json:"network"`
	Receiver string `json:"receiver"`
	Currency string `json:"currency"`
}

// Entrypoint is one priced capability of the agent card.
type Entrypoint struct {
	Key         string  `json:"key"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// AgentCard is the A2A-style agent description.
type AgentCard struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Description  string       `json:"description"`
	Homepage     string       `json:"homepage"`
	Identity     Identity     `json:"identity"`
	X402         X402Settings `json:"x402"`
	Entrypoints  []Entrypoint `json:"entrypoints"`
	Capabilities []string     `json:"capabilities"`
}

func (s *Service) x402Settings() X402Settings {
	return X402Settings{Enabled: true, Network: s.terms.Network, Receiver: s.terms.PayTo, Currency: "USDC"}
}

// AgentCard describes the agent and every priced entrypoint.
func (s *Service) AgentCard() *AgentCard {
	endpoints := s.table.Endpoints()
	entrypoints := make([]Entrypoint, 0, len(endpoints))
	for _, ep := range endpoints {
		entrypoints = append(entrypoints, Entrypoint{Key: ep.Key, Price: ep.Price.InexactFloat64(), Description: ep.Description})
	}

	return &AgentCard{
		Name:        Name,
		Version:     s.version,
		Description: Description,
		Homepage:    Homepage,
		Identity: Identity{
			Registry:        Registry,
			ChainID:         ChainID,
			AgentID:         AgentID,
			SepoliaRegistry: SepoliaRegistry,
			SepoliaAgentID:  SepoliaAgentID,
		},
		X402:         s.x402Settings(),
		Entrypoints:  entrypoints,
		Capabilities: agentCapabilities,
	}
}

// ServiceRef is one service listed in the registration file.
type ServiceRef struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Registration is the ERC-8004 registration file.
type Registration struct {
	Context         string       `json:"@context"`
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Image           string       `json:"image"`
	AgentID         int          `json:"agentId"`
	ChainID         int          `json:"chainId"`
	Registry        string       `json:"registry"`
	SepoliaAgentID  int          `json:"sepoliaAgentId"`
	SepoliaRegistry string       `json:"sepoliaRegistry"`
	Services        []ServiceRef `json:"services"`
	X402            X402Settings `json:"x402"`
	Capabilities    []string     `json:"capabilities"`
}

// Registration returns the ERC-8004 registration file.
func (s *Service) Registration() *Registration {
	return &Registration{
		Context:         "https://www.w3.org/ns/did/v1",
		ID:              fmt.Sprintf("did:erc8004:%d:%s:%d", ChainID, Registry, AgentID),
		Name:            Name,
		Description:     Description,
		Image:           Logo,
		AgentID:         AgentID,
		ChainID:         ChainID,
		Registry:        Registry,
		SepoliaAgentID:  SepoliaAgentID,
		SepoliaRegistry: SepoliaRegistry,
		Services: []ServiceRef{
			{ID: "a2a", Type: "a2a", ServiceEndpoint: s.url("/.well-known/agent.json")},
			{ID: "x402", Type: "x402", ServiceEndpoint: s.url("/")},
		},
		X402:         s.x402Settings(),
		Capabilities: registrationCapabilities,
	}
}
