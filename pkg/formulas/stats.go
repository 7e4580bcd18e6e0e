// Package formulas holds the numeric building blocks behind price summaries
// and technical indicators.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Periods per year used to annualize volatility.
const (
	TradingDaysPerYear  = 252 // equities
	CalendarDaysPerYear = 365 // crypto trades every day
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// CalculateReturns converts prices to simple returns
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// AnnualizedVolatility scales the standard deviation of per-period returns
// to a yearly figure.
func AnnualizedVolatility(returns []float64, periodsPerYear float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	return StdDev(returns) * math.Sqrt(periodsPerYear)
}

// MinMax returns the smallest and largest values, or zeros for empty input.
func MinMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	return floats.Min(data), floats.Max(data)
}

// MaxDrawdown is the largest peak to trough decline as a positive fraction.
func MaxDrawdown(prices []float64) float64 {
	var peak, worst float64
	for _, p := range prices {
		if p > peak {
			peak = p
		}
		if peak > 0 {
			if dd := (peak - p) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

func isNaN(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
