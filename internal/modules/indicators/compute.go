package indicators

import (
	"github.com/aristath/oracles/internal/clients/alphavantage"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/pkg/formulas"
)

// compute derives the requested series from daily closes and returns it
// newest first, keyed the way Alpha Vantage names the values.
func compute(q alphavantage.Query, candles *finnhub.Candles) []alphavantage.Point {
	closes := candles.Close
	columns := map[string][]float64{}

	switch q.Function {
	case "SMA":
		columns["SMA"] = formulas.SMA(closes, q.Period)
	case "EMA":
		columns["EMA"] = formulas.EMA(closes, q.Period)
	case "RSI":
		columns["RSI"] = formulas.RSI(closes, q.Period)
	case "MACD":
		if m := formulas.MACD(closes); m != nil {
			columns["MACD"] = m.MACD
			columns["MACD_Signal"] = m.Signal
			columns["MACD_Hist"] = m.Histogram
		}
	case "BBANDS":
		if b := formulas.Bollinger(closes, q.Period); b != nil {
			columns["Real Upper Band"] = b.Upper
			columns["Real Middle Band"] = b.Middle
			columns["Real Lower Band"] = b.Lower
		}
	}

	n := -1
	for _, col := range columns {
		if n < 0 || len(col) < n {
			n = len(col)
		}
	}
	if n <= 0 || len(candles.Time) < n {
		return nil
	}

	// Series are right-aligned with the candles.
	points := make([]alphavantage.Point, 0, n)
	for back := 1; back <= n; back++ {
		p := alphavantage.Point{
			Date:   candleDate(candles.Time[len(candles.Time)-back]),
			Values: make(map[string]float64, len(columns)),
		}
		for name, col := range columns {
			p.Values[name] = col[len(col)-back]
		}
		points = append(points, p)
	}
	return points
}
