package oracles

import (
	"context"
)

// ScreenAddress checks a wallet address against the sanctions lists.
func (s *Service) ScreenAddress(ctx context.Context, payload any) (any, error) {
	return s.sanctions.Post(ctx, "/screen/address", payload)
}

// ScreenName fuzzy-matches a person or entity name.
func (s *Service) ScreenName(ctx context.Context, payload any) (any, error) {
	return s.sanctions.Post(ctx, "/screen/name", payload)
}

// ScreenBatch screens several addresses and names in one call.
func (s *Service) ScreenBatch(ctx context.Context, payload any) (any, error) {
	return s.sanctions.Post(ctx, "/screen/batch", payload)
}

// Country returns the sanctions programs targeting a country code.
func (s *Service) Country(ctx context.Context, code string) (any, error) {
	return s.sanctions.Get(ctx, "/screen/country/"+segment(code), nil)
}

// SanctionsStats returns list sizes and the last refresh time.
func (s *Service) SanctionsStats(ctx context.Context) (any, error) {
	return s.sanctions.Get(ctx, "/stats", nil)
}
