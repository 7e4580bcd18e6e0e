package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/aristath/oracles/internal/api"
)

// RatingCounts is the distribution of analyst ratings in one period.
type RatingCounts struct {
	StrongBuy  int `json:"strong_buy"`
	Buy        int `json:"buy"`
	Hold       int `json:"hold"`
	Sell       int `json:"sell"`
	StrongSell int `json:"strong_sell"`
	Total      int `json:"total"`
}

// Ratings is the latest analyst consensus for a symbol. Consensus is a
// 1 (strong sell) to 5 (strong buy) score formatted to two decimals.
type Ratings struct {
	Symbol         string       `json:"symbol"`
	Period         string       `json:"period"`
	Ratings        RatingCounts `json:"ratings"`
	Consensus      *string      `json:"consensus"`
	Recommendation string       `json:"recommendation"`
}

// Ratings returns the most recent month of analyst ratings.
func (s *Service) Ratings(ctx context.Context, symbol string) (*Ratings, error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(symbol)

	recs, err := s.source.Recommendations(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, api.NotFound("No analyst ratings found", nil)
	}

	latest := recs[0]
	total := latest.Total()
	out := &Ratings{
		Symbol: symbol,
		Period: latest.Period,
		Ratings: RatingCounts{
			StrongBuy:  latest.StrongBuy,
			Buy:        latest.Buy,
			Hold:       latest.Hold,
			Sell:       latest.Sell,
			StrongSell: latest.StrongSell,
			Total:      total,
		},
		Recommendation: "HOLD",
	}

	if total > 0 {
		score := float64(latest.StrongBuy*5+latest.Buy*4+latest.Hold*3+latest.Sell*2+latest.StrongSell) / float64(total)
		consensus := fmt.Sprintf("%.2f", score)
		out.Consensus = &consensus
	}

	bullish := latest.StrongBuy + latest.Buy
	bearish := latest.Sell + latest.StrongSell
	switch {
	case bullish > bearish:
		out.Recommendation = "BUY"
	case bearish > bullish:
		out.Recommendation = "SELL"
	}
	return out, nil
}

// Targets is the analyst price target consensus next to the last price.
type Targets struct {
	Symbol           string  `json:"symbol"`
	CurrentPrice     float64 `json:"current_price"`
	TargetHigh       any     `json:"target_high"`
	TargetLow        any     `json:"target_low"`
	TargetMean       float64 `json:"target_mean"`
	TargetMedian     any     `json:"target_median"`
	NumberOfAnalysts any     `json:"number_of_analysts"`
	UpsidePercent    *string `json:"upside_percent"`
	LastUpdated      any     `json:"last_updated"`
}

// Targets returns price targets and the implied upside from the current
// quote. A failed quote leaves the upside null.
func (s *Service) Targets(ctx context.Context, symbol string) (*Targets, error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(symbol)

	target, err := s.source.PriceTarget(ctx, symbol)
	if err != nil {
		return nil, err
	}

	out := &Targets{
		Symbol:           symbol,
		TargetHigh:       target["targetHigh"],
		TargetLow:        target["targetLow"],
		TargetMean:       target.Float("targetMean"),
		TargetMedian:     target["targetMedian"],
		NumberOfAnalysts: target["numberOfAnalysts"],
		LastUpdated:      target["lastUpdated"],
	}

	quote, err := s.source.Quote(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote unavailable for upside")
		return out, nil
	}

	out.CurrentPrice = quote.Current
	if quote.Current > 0 {
		upside := fmt.Sprintf("%.2f", (out.TargetMean-quote.Current)/quote.Current*100)
		out.UpsidePercent = &upside
	}
	return out, nil
}
