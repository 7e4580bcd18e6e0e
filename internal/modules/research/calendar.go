package research

import (
	"context"
	"strings"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/jsonx"
)

const maxCalendarRows = 100

// Calendar is a window of scheduled events. Count is the number of
// events upstream reported, Events may be capped.
type Calendar[T any] struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Count  int    `json:"count"`
	Events []T    `json:"events"`
}

// EarningsEvent is a scheduled earnings release.
type EarningsEvent struct {
	Symbol          any `json:"symbol"`
	Date            any `json:"date"`
	Hour            any `json:"hour"`
	EPSEstimate     any `json:"eps_estimate"`
	EPSActual       any `json:"eps_actual"`
	RevenueEstimate any `json:"revenue_estimate"`
	RevenueActual   any `json:"revenue_actual"`
	Quarter         any `json:"quarter"`
	Year            any `json:"year"`
}

// Dividend is one declared distribution.
type Dividend struct {
	ExDate          any `json:"ex_date"`
	PayDate         any `json:"pay_date"`
	RecordDate      any `json:"record_date"`
	DeclarationDate any `json:"declaration_date"`
	Amount          any `json:"amount"`
	Currency        any `json:"currency"`
}

// IPO is an upcoming listing.
type IPO struct {
	Symbol     any `json:"symbol"`
	Name       any `json:"name"`
	Date       any `json:"date"`
	Exchange   any `json:"exchange"`
	PriceRange any `json:"price_range"`
	Shares     any `json:"shares"`
	TotalValue any `json:"total_value"`
	Status     any `json:"status"`
}

// EconomicEvent is a scheduled macro release.
type EconomicEvent struct {
	Country  any `json:"country"`
	Event    any `json:"event"`
	Time     any `json:"time"`
	Impact   any `json:"impact"`
	Actual   any `json:"actual"`
	Estimate any `json:"estimate"`
	Previous any `json:"previous"`
	Unit     any `json:"unit"`
}

// Earnings returns earnings releases between from and to, defaulting to
// the coming week.
func (s *Service) Earnings(ctx context.Context, from, to, symbol string) (*Calendar[EarningsEvent], error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}
	r, err := s.dateRange(from, to, 0, 7)
	if err != nil {
		return nil, err
	}

	rows, err := s.source.EarningsCalendar(ctx, r, symbol)
	if err != nil {
		return nil, err
	}

	return newCalendar(r, rows, maxCalendarRows, func(e jsonx.Record) EarningsEvent {
		return EarningsEvent{
			Symbol:          e["symbol"],
			Date:            e["date"],
			Hour:            e["hour"],
			EPSEstimate:     e["epsEstimate"],
			EPSActual:       e["epsActual"],
			RevenueEstimate: e["revenueEstimate"],
			RevenueActual:   e["revenueActual"],
			Quarter:         e["quarter"],
			Year:            e["year"],
		}
	}), nil
}

// DividendHistory covers the past year and the next quarter.
type DividendHistory struct {
	Symbol    string     `json:"symbol"`
	Count     int        `json:"count"`
	Dividends []Dividend `json:"dividends"`
}

// Dividends returns the dividend history of symbol.
func (s *Service) Dividends(ctx context.Context, symbol string) (*DividendHistory, error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}
	if symbol == "" {
		return nil, api.Validation("Symbol parameter required")
	}
	symbol = strings.ToUpper(symbol)
	r, _ := s.dateRange("", "", -365, 90)

	rows, err := s.source.Dividends(ctx, symbol, r)
	if err != nil {
		return nil, err
	}

	history := &DividendHistory{Symbol: symbol, Count: len(rows), Dividends: make([]Dividend, 0, len(rows))}
	for _, d := range rows {
		history.Dividends = append(history.Dividends, Dividend{
			ExDate:          d["exDate"],
			PayDate:         d["payDate"],
			RecordDate:      d["recordDate"],
			DeclarationDate: d["declarationDate"],
			Amount:          d["amount"],
			Currency:        d["currency"],
		})
	}
	return history, nil
}

// IPOs returns listings between from and to, defaulting to the next 30 days.
func (s *Service) IPOs(ctx context.Context, from, to string) (*Calendar[IPO], error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}
	r, err := s.dateRange(from, to, 0, 30)
	if err != nil {
		return nil, err
	}

	rows, err := s.source.IPOCalendar(ctx, r)
	if err != nil {
		return nil, err
	}

	return newCalendar(r, rows, len(rows), func(e jsonx.Record) IPO {
		return IPO{
			Symbol:     e["symbol"],
			Name:       e["name"],
			Date:       e["date"],
			Exchange:   e["exchange"],
			PriceRange: e["price"],
			Shares:     e["numberOfShares"],
			TotalValue: e["totalSharesValue"],
			Status:     e["status"],
		}
	}), nil
}

// Economic returns macro releases between from and to, defaulting to the
// coming week.
func (s *Service) Economic(ctx context.Context, from, to string) (*Calendar[EconomicEvent], error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}
	r, err := s.dateRange(from, to, 0, 7)
	if err != nil {
		return nil, err
	}

	rows, err := s.source.EconomicCalendar(ctx, r)
	if err != nil {
		return nil, err
	}

	return newCalendar(r, rows, maxCalendarRows, func(e jsonx.Record) EconomicEvent {
		return EconomicEvent{
			Country:  e["country"],
			Event:    e["event"],
			Time:     e["time"],
			Impact:   e["impact"],
			Actual:   e["actual"],
			Estimate: e["estimate"],
			Previous: e["prev"],
			Unit:     e["unit"],
		}
	}), nil
}

func newCalendar[T any](r finnhub.DateRange, rows []jsonx.Record, limit int, convert func(jsonx.Record) T) *Calendar[T] {
	cal := &Calendar[T]{
		From:   r.From.Format(finnhub.DateLayout),
		To:     r.To.Format(finnhub.DateLayout),
		Count:  len(rows),
		Events: make([]T, 0, min(len(rows), limit)),
	}
	for i, row := range rows {
		if i == limit {
			break
		}
		cal.Events = append(cal.Events, convert(row))
	}
	return cal
}
