package markets

import (
	"context"
	"strings"
	"time"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/coingecko"
	"github.com/aristath/oracles/pkg/formulas"
)

const msPerYear = float64(365 * 24 * time.Hour / time.Millisecond)

// CoinPrice is a spot price with 24h statistics. Fields are null when
// CoinGecko omits them.
type CoinPrice struct {
	ID        string `json:"id"`
	Price     any    `json:"price"`
	Change24h any    `json:"change_24h"`
	MarketCap any    `json:"market_cap"`
	Volume24h any    `json:"volume_24h"`
}

// CoinMarket is one row of the market cap ranking.
type CoinMarket struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Price         any    `json:"price"`
	MarketCap     any    `json:"market_cap"`
	MarketCapRank any    `json:"market_cap_rank"`
	Volume24h     any    `json:"volume_24h"`
	Change1h      any    `json:"change_1h"`
	Change24h     any    `json:"change_24h"`
	Change7d      any    `json:"change_7d"`
	ATH           any    `json:"ath"`
	ATHChange     any    `json:"ath_change"`
}

// PricePoint is a dated price.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// CapPoint is a dated market capitalisation.
type CapPoint struct {
	Date      string  `json:"date"`
	MarketCap float64 `json:"market_cap"`
}

// CoinHistory is the price path of one coin with its summary.
type CoinHistory struct {
	ID         string        `json:"id"`
	Currency   string        `json:"currency"`
	Days       int           `json:"days"`
	Prices     []PricePoint  `json:"prices"`
	MarketCaps []CapPoint    `json:"market_caps"`
	Summary    *PriceSummary `json:"summary"`
}

// CryptoPrices returns spot prices for ids in the order requested. Ids
// CoinGecko does not know are left out.
func (s *Service) CryptoPrices(ctx context.Context, ids []string, currency string) ([]CoinPrice, error) {
	if len(ids) == 0 {
		ids = coingecko.DefaultIDs
	}
	currency = strings.ToLower(currency)

	data, err := s.crypto.SimplePrices(ctx, ids, currency)
	if err != nil {
		return nil, err
	}

	prices := make([]CoinPrice, 0, len(data))
	for _, id := range ids {
		values, ok := data[id]
		if !ok {
			continue
		}
		prices = append(prices, CoinPrice{
			ID:        id,
			Price:     values[currency],
			Change24h: values[currency+"_24h_change"],
			MarketCap: values[currency+"_market_cap"],
			Volume24h: values[currency+"_24h_vol"],
		})
	}
	return prices, nil
}

// CryptoMarkets returns the top limit coins by market cap.
func (s *Service) CryptoMarkets(ctx context.Context, currency string, limit int) ([]CoinMarket, error) {
	rows, err := s.crypto.Markets(ctx, strings.ToLower(currency), limit)
	if err != nil {
		return nil, err
	}

	markets := make([]CoinMarket, 0, len(rows))
	for _, coin := range rows {
		markets = append(markets, CoinMarket{
			ID:            coin.String("id"),
			Symbol:        strings.ToUpper(coin.String("symbol")),
			Name:          coin.String("name"),
			Price:         coin["current_price"],
			MarketCap:     coin["market_cap"],
			MarketCapRank: coin["market_cap_rank"],
			Volume24h:     coin["total_volume"],
			Change1h:      coin["price_change_percentage_1h_in_currency"],
			Change24h:     coin["price_change_percentage_24h"],
			Change7d:      coin["price_change_percentage_7d_in_currency"],
			ATH:           coin["ath"],
			ATHChange:     coin["ath_change_percentage"],
		})
	}
	return markets, nil
}

// CryptoHistory returns the price path of id over days days. Only the last
// ten market cap points are kept.
func (s *Service) CryptoHistory(ctx context.Context, id, currency string, days int) (*CoinHistory, error) {
	currency = strings.ToLower(currency)

	chart, err := s.crypto.MarketChart(ctx, id, currency, days)
	if err != nil {
		return nil, err
	}

	history := &CoinHistory{
		ID:         id,
		Currency:   strings.ToUpper(currency),
		Days:       days,
		Prices:     make([]PricePoint, 0, len(chart.Prices)),
		MarketCaps: make([]CapPoint, 0, 10),
	}

	closes := make([]float64, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		history.Prices = append(history.Prices, PricePoint{Date: msTimestamp(p[0]), Price: p[1]})
		closes = append(closes, p[1])
	}
	caps := chart.MarketCaps
	if len(caps) > 10 {
		caps = caps[len(caps)-10:]
	}
	for _, c := range caps {
		history.MarketCaps = append(history.MarketCaps, CapPoint{Date: msTimestamp(c[0]), MarketCap: c[1]})
	}

	history.Summary = summarize(closes, samplesPerYear(chart.Prices))
	return history, nil
}

// samplesPerYear infers the sampling rate from the timestamps. CoinGecko
// returns 5-minute, hourly or daily points depending on the range.
func samplesPerYear(points [][2]float64) float64 {
	if len(points) < 2 {
		return formulas.CalendarDaysPerYear
	}
	span := points[len(points)-1][0] - points[0][0]
	if span <= 0 {
		return formulas.CalendarDaysPerYear
	}
	interval := span / float64(len(points)-1)
	return msPerYear / interval
}

func msTimestamp(ms float64) string {
	return time.UnixMilli(int64(ms)).UTC().Format(api.TimestampLayout)
}
