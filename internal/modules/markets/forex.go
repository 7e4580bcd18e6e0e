package markets

import (
	"context"
	"fmt"
	"strings"

	"github.com/aristath/oracles/internal/api"
)

// majorCurrencies are reported as BASE/QUOTE pairs next to the full table.
var majorCurrencies = []string{"eur", "gbp", "jpy", "cad", "aud", "chf", "cny", "inr", "krw", "mxn", "brl", "sgd", "hkd"}

// RateSheet is the latest rate table of one base currency.
type RateSheet struct {
	Base            string             `json:"base"`
	Date            string             `json:"date"`
	Rates           map[string]float64 `json:"rates"`
	MajorPairs      map[string]float64 `json:"major_pairs"`
	TotalCurrencies int                `json:"total_currencies"`
	Stale           bool               `json:"stale,omitempty"`
}

// Conversion is an amount converted at the latest rate.
type Conversion struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Rate      float64 `json:"rate"`
	Converted float64 `json:"converted"`
	Date      string  `json:"date"`
}

// HistoricalRates is the rate table published on a past date. Codes stay
// lower case as the upstream publishes them.
type HistoricalRates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Rates returns the latest table for base with upper case codes, the base
// itself excluded.
func (s *Service) Rates(ctx context.Context, base string) (*RateSheet, error) {
	table, err := s.forex.Latest(ctx, base)
	if err != nil {
		return nil, err
	}

	upperBase := strings.ToUpper(table.Base)
	sheet := &RateSheet{
		Base:            upperBase,
		Date:            table.Date,
		Rates:           make(map[string]float64, len(table.Rates)),
		MajorPairs:      make(map[string]float64),
		TotalCurrencies: len(table.Rates),
		Stale:           table.Stale,
	}
	for code, rate := range table.Rates {
		if code == table.Base {
			continue
		}
		sheet.Rates[strings.ToUpper(code)] = rate
	}
	for _, code := range majorCurrencies {
		if rate, ok := table.Rates[code]; ok && rate != 0 {
			sheet.MajorPairs[upperBase+"/"+strings.ToUpper(code)] = rate
		}
	}
	return sheet, nil
}

// Convert converts amount from one currency to another.
func (s *Service) Convert(ctx context.Context, from, to string, amount float64) (*Conversion, error) {
	from, to = strings.ToLower(from), strings.ToLower(to)

	table, err := s.forex.Latest(ctx, from)
	if err != nil {
		return nil, err
	}

	rate, ok := table.Rates[to]
	if from == to {
		rate, ok = 1, true
	}
	if !ok || rate == 0 {
		return nil, api.NotFound(fmt.Sprintf("Rate not found for %s/%s", strings.ToUpper(from), strings.ToUpper(to)), nil)
	}

	return &Conversion{
		From:      strings.ToUpper(from),
		To:        strings.ToUpper(to),
		Amount:    amount,
		Rate:      rate,
		Converted: amount * rate,
		Date:      table.Date,
	}, nil
}

// Historical returns the table for base on date (YYYY-MM-DD).
func (s *Service) Historical(ctx context.Context, base, date string) (*HistoricalRates, error) {
	if date == "" {
		return nil, api.Validation("Date parameter required (format: YYYY-MM-DD)")
	}

	table, err := s.forex.Historical(ctx, base, date)
	if err != nil {
		return nil, err
	}

	out := &HistoricalRates{Base: strings.ToUpper(table.Base), Date: table.Date, Rates: table.Rates}
	if out.Date == "" {
		out.Date = date
	}
	if out.Rates == nil {
		out.Rates = map[string]float64{}
	}
	return out, nil
}
