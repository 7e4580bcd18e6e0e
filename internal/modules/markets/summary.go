package markets

import (
	"github.com/aristath/oracles/internal/jsonx"
	"github.com/aristath/oracles/pkg/formulas"
)

// PriceSummary describes a price path: where it started and ended, its
// range, and how volatile the period-to-period returns were.
type PriceSummary struct {
	Points               int     `json:"points"`
	Start                float64 `json:"start"`
	End                  float64 `json:"end"`
	ChangePercent        float64 `json:"change_percent"`
	High                 float64 `json:"high"`
	Low                  float64 `json:"low"`
	MeanReturn           float64 `json:"mean_return"`
	Volatility           float64 `json:"volatility"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	MaxDrawdown          float64 `json:"max_drawdown"`
}

// summarize returns nil for fewer than two prices.
func summarize(prices []float64, periodsPerYear float64) *PriceSummary {
	if len(prices) < 2 {
		return nil
	}

	returns := formulas.CalculateReturns(prices)
	low, high := formulas.MinMax(prices)
	first, last := prices[0], prices[len(prices)-1]

	summary := &PriceSummary{
		Points:               len(prices),
		Start:                first,
		End:                  last,
		High:                 high,
		Low:                  low,
		MeanReturn:           jsonx.Round(formulas.Mean(returns), 6),
		Volatility:           jsonx.Round(formulas.StdDev(returns), 6),
		AnnualizedVolatility: jsonx.Round(formulas.AnnualizedVolatility(returns, periodsPerYear), 4),
		MaxDrawdown:          jsonx.Round(formulas.MaxDrawdown(prices), 4),
	}
	if first != 0 {
		summary.ChangePercent = jsonx.Round((last-first)/first*100, 2)
	}
	return summary
}

// periodsPerYear maps a Finnhub candle resolution to its yearly count.
func periodsPerYear(resolution string) float64 {
	switch resolution {
	case "W":
		return 52
	case "M":
		return 12
	default:
		return formulas.TradingDaysPerYear
	}
}
