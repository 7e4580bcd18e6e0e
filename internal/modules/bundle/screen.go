package bundle

import (
	"context"
	"sync"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/fanout"
)

// ScreenRequest names the inputs to screen. Empty fields are skipped.
type ScreenRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Country string `json:"country"`
}

// InputsChecked records which inputs were screened.
type InputsChecked struct {
	Name    bool `json:"name"`
	Address bool `json:"address"`
	Country bool `json:"country"`
}

// RiskSummary condenses the screen. AnyMatch is true when the name or the
// address screen reported at least one match.
type RiskSummary struct {
	InputsChecked InputsChecked `json:"inputsChecked"`
	AnyMatch      bool          `json:"anyMatch"`
}

// SanctionsScreen is the combined name, address and country screen.
type SanctionsScreen struct {
	Timestamp     string      `json:"timestamp"`
	Bundle        string      `json:"bundle"`
	NameScreen    any         `json:"nameScreen,omitempty"`
	AddressScreen any         `json:"addressScreen,omitempty"`
	CountryInfo   any         `json:"countryInfo,omitempty"`
	RiskSummary   RiskSummary `json:"riskSummary"`
}

var unavailable = api.M{"error": "unavailable"}

// SanctionsScreen screens every provided input concurrently. A failed
// screen is reported as {"error":"unavailable"} in its section.
func (s *Service) SanctionsScreen(ctx context.Context, req ScreenRequest) *SanctionsScreen {
	out := &SanctionsScreen{
		Timestamp: s.now().UTC().Format(api.TimestampLayout),
		Bundle:    "sanctions_screen",
		RiskSummary: RiskSummary{InputsChecked: InputsChecked{
			Name:    req.Name != "",
			Address: req.Address != "",
			Country: req.Country != "",
		}},
	}

	var mu sync.Mutex
	branch := func(name string, call func(ctx context.Context) (any, error), set func(any)) fanout.Task[struct{}] {
		return func(ctx context.Context) (struct{}, error) {
			v, err := call(ctx)
			if s.degraded(name, err) {
				v = unavailable
			}
			mu.Lock()
			set(v)
			mu.Unlock()
			return struct{}{}, nil
		}
	}

	var tasks []fanout.Task[struct{}]
	if req.Name != "" {
		tasks = append(tasks, branch("name_screen", func(ctx context.Context) (any, error) {
			return s.sanctions.ScreenName(ctx, map[string]string{"name": req.Name})
		}, func(v any) { out.NameScreen = v }))
	}
	if req.Address != "" {
		tasks = append(tasks, branch("address_screen", func(ctx context.Context) (any, error) {
			return s.sanctions.ScreenAddress(ctx, map[string]string{"address": req.Address})
		}, func(v any) { out.AddressScreen = v }))
	}
	if req.Country != "" {
		tasks = append(tasks, branch("country_info", func(ctx context.Context) (any, error) {
			return s.sanctions.Country(ctx, req.Country)
		}, func(v any) { out.CountryInfo = v }))
	}
	fanout.Settle(ctx, tasks...)

	out.RiskSummary.AnyMatch = hasMatches(out.NameScreen) || hasMatches(out.AddressScreen)
	return out
}

func hasMatches(screen any) bool {
	m, ok := screen.(map[string]any)
	if !ok {
		return false
	}
	matches, _ := m["matches"].([]any)
	return len(matches) > 0
}
