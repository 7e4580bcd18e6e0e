package oracles

import (
	"context"
	"net/url"
)

// Funding returns funding rates across venues, or for one symbol.
func (s *Service) Funding(ctx context.Context, symbol string) (any, error) {
	path := "/funding"
	if symbol != "" {
		path += "/" + segment(symbol)
	}
	return s.perp.Get(ctx, path, nil)
}

// PerpPrices returns mark prices of symbol on every venue.
func (s *Service) PerpPrices(ctx context.Context, symbol string) (any, error) {
	return s.perp.Get(ctx, "/prices/"+segment(symbol), nil)
}

// Arbitrage returns cross-venue funding spreads of at least minSpread.
func (s *Service) Arbitrage(ctx context.Context, minSpread string) (any, error) {
	return s.perp.Get(ctx, "/arbitrage", url.Values{"min_spread": {minSpread}})
}

// Platforms lists the venues the aggregator covers.
func (s *Service) Platforms(ctx context.Context) (any, error) {
	return s.perp.Get(ctx, "/platforms", nil)
}
