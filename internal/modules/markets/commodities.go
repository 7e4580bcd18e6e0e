package markets

import (
	"context"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/goldapi"
	"github.com/aristath/oracles/internal/fanout"
)

// MetalQuote is the USD spot price of a precious metal.
type MetalQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	PriceUSD      float64 `json:"price_usd"`
	PricePerGram  float64 `json:"price_per_gram"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// MetalPrices quotes gold, silver, platinum and palladium. A metal whose
// quote fails is left out.
func (s *Service) MetalPrices(ctx context.Context) ([]MetalQuote, error) {
	if !s.metals.Configured() {
		return nil, api.NotConfigured(goldapi.EnvKey, goldapi.SetupHint)
	}

	tasks := make([]fanout.Task[*goldapi.Price], len(goldapi.Metals))
	for i, m := range goldapi.Metals {
		m := m
		tasks[i] = func(ctx context.Context) (*goldapi.Price, error) {
			return s.metals.Price(ctx, m.Symbol)
		}
	}

	quotes := make([]MetalQuote, 0, len(goldapi.Metals))
	for i, res := range fanout.Settle(ctx, tasks...) {
		metal := goldapi.Metals[i]
		if !res.OK() {
			s.log.Warn().Err(res.Err).Str("metal", metal.Symbol).Msg("Metal quote unavailable")
			continue
		}
		p := res.Value
		quotes = append(quotes, MetalQuote{
			Symbol:        p.Metal,
			Name:          metalName(p.Metal),
			PriceUSD:      float64(p.Price),
			PricePerGram:  float64(p.PricePerGram),
			Change:        float64(p.Change),
			ChangePercent: float64(p.ChangePercent),
		})
	}
	return quotes, nil
}

func metalName(symbol string) string {
	for _, m := range goldapi.Metals {
		if m.Symbol == symbol {
			return m.Name
		}
	}
	return symbol
}
