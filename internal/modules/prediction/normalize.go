package prediction

import (
	"github.com/aristath/oracles/internal/clients/kalshi"
	"github.com/aristath/oracles/internal/clients/polymarket"
	"github.com/aristath/oracles/internal/jsonx"
)

// NormalizePolymarket maps a Gamma market. YES is the first outcome price;
// NO is the second, or 1-YES when the second is missing or zero.
func NormalizePolymarket(event polymarket.Event, market polymarket.Market) NormalizedMarket {
	var yes, no float64
	if len(market.OutcomePrices) > 0 {
		yes = jsonx.ParseFloat(market.OutcomePrices[0])
	}
	if len(market.OutcomePrices) > 1 {
		no = jsonx.ParseFloat(market.OutcomePrices[1])
	}
	if no == 0 {
		no = 1 - yes
	}

	text := event.Title + " " + market.Question
	return NormalizedMarket{
		Source:   SourcePolymarket,
		ID:       market.ID,
		Title:    event.Title,
		Question: market.Question,
		YesPrice: probability(yes),
		NoPrice:  probability(no),
		Volume:   nonNegative(jsonx.ParseFloat(market.Volume)),
		Active:   market.Active && !event.Closed,
		Keywords: ExtractKeywords(text),
		Entities: ExtractEntities(text),
	}
}

// NormalizeKalshi maps a Kalshi market. Ask prices are quoted in cents.
func NormalizeKalshi(event kalshi.Event, market kalshi.Market) NormalizedMarket {
	oi := nonNegative(float64(market.OpenInterest))
	text := event.Title + " " + market.Title
	return NormalizedMarket{
		Source:       SourceKalshi,
		ID:           market.Ticker,
		Title:        event.Title,
		Question:     market.Title,
		Category:     event.Category,
		YesPrice:     probability(float64(market.YesAsk) / 100),
		NoPrice:      probability(float64(market.NoAsk) / 100),
		Volume:       nonNegative(float64(market.Volume)),
		OpenInterest: &oi,
		Active:       market.Status == "active",
		Keywords:     ExtractKeywords(text),
		Entities:     ExtractEntities(text),
	}
}

// NormalizePolymarketEvents flattens events into markets.
func NormalizePolymarketEvents(events []polymarket.Event) []NormalizedMarket {
	out := make([]NormalizedMarket, 0, len(events))
	for _, e := range events {
		for _, m := range e.Markets {
			out = append(out, NormalizePolymarket(e, m))
		}
	}
	return out
}

// NormalizeKalshiEvents flattens events into markets. A non-empty category
// keeps only events in that category.
func NormalizeKalshiEvents(events []kalshi.Event, category string) []NormalizedMarket {
	out := make([]NormalizedMarket, 0, len(events))
	for _, e := range events {
		if category != "" && e.Category != category {
			continue
		}
		for _, m := range e.Markets {
			out = append(out, NormalizeKalshi(e, m))
		}
	}
	return out
}

func probability(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
