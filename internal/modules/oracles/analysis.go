package oracles

import (
	"context"
	"time"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/fanout"
)

// Recommendations attached to analysis results.
const (
	adviceSanctioned   = "DO NOT TRANSACT - Address is on sanctions list"
	adviceClear        = "Address not found on sanctions lists"
	adviceEarnings     = "Recent earnings may cause funding rate volatility"
	adviceNoEarnings   = "No recent earnings events"
	adviceLongBias     = "Consider long bias"
	adviceShortBias    = "Consider short bias"
	adviceNoClearTrend = "Neutral - no clear signal"
)

const earningsClassification = "earnings_results"

// WalletCompliance is a sanctions verdict on one address.
type WalletCompliance struct {
	Address          string `json:"address"`
	Sanctioned       any    `json:"sanctioned"`
	RiskScore        any    `json:"risk_score"`
	SanctionsMatches any    `json:"sanctions_matches"`
	CheckedAt        string `json:"checked_at"`
	Recommendation   string `json:"recommendation"`
}

// WalletCompliance screens address and turns the verdict into advice.
func (s *Service) WalletCompliance(ctx context.Context, address string) (*WalletCompliance, error) {
	raw, err := s.ScreenAddress(ctx, map[string]string{"address": address})
	if err != nil {
		return nil, err
	}
	screen := asRecord(raw)

	out := &WalletCompliance{
		Address:          address,
		Sanctioned:       screen["sanctioned"],
		RiskScore:        screen["risk_score"],
		SanctionsMatches: screen["matches"],
		CheckedAt:        time.Now().UTC().Format(api.TimestampLayout),
		Recommendation:   adviceClear,
	}
	if screen["sanctioned"] == true {
		out.Recommendation = adviceSanctioned
	}
	return out, nil
}

// EarningsArbitrage relates recent earnings filings to perp funding.
type EarningsArbitrage struct {
	Ticker               string `json:"ticker"`
	RecentEarningsEvents int    `json:"recent_earnings_events"`
	Events               []any  `json:"events"`
	CurrentFundingRates  any    `json:"current_funding_rates"`
	Recommendation       string `json:"recommendation"`
}

// EarningsArbitrage reads the last 30 days of 8-K events and the current
// funding rates concurrently. Either failing fails the analysis.
func (s *Service) EarningsArbitrage(ctx context.Context, ticker string) (*EarningsArbitrage, error) {
	results := fanout.Settle[any](ctx,
		func(ctx context.Context) (any, error) { return s.Events(ctx, ticker, analysisWindowDays) },
		func(ctx context.Context) (any, error) { return s.Funding(ctx, "") },
	)
	for _, res := range results {
		if res.Err != nil {
			return nil, res.Err
		}
	}

	out := &EarningsArbitrage{
		Ticker:              ticker,
		Events:              earningsEvents(results[0].Value),
		CurrentFundingRates: results[1].Value,
		Recommendation:      adviceNoEarnings,
	}
	out.RecentEarningsEvents = len(out.Events)
	if out.RecentEarningsEvents > 0 {
		out.Recommendation = adviceEarnings
	}
	return out, nil
}

// earningsEvents keeps the events classified as earnings results. Anything
// other than a list yields no events.
func earningsEvents(raw any) []any {
	list, _ := raw.([]any)
	out := make([]any, 0, len(list))
	for _, e := range list {
		classes, _ := asRecord(e)["classifications"].([]any)
		for _, c := range classes {
			if c == earningsClassification {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// InsiderSignal condenses 30 days of insider trading into a bias.
type InsiderSignal struct {
	Ticker            string `json:"ticker"`
	Sentiment         any    `json:"sentiment"`
	TotalTransactions any    `json:"total_transactions"`
	NetSharesTraded   any    `json:"net_shares_traded"`
	TotalBuyValue     any    `json:"total_buy_value"`
	TotalSellValue    any    `json:"total_sell_value"`
	Signal            string `json:"signal"`
}

// InsiderSignal maps the insider sentiment onto a trading bias.
func (s *Service) InsiderSignal(ctx context.Context, ticker string) (*InsiderSignal, error) {
	raw, err := s.Insiders(ctx, ticker, analysisWindowDays)
	if err != nil {
		return nil, err
	}
	insiders := asRecord(raw)

	out := &InsiderSignal{
		Ticker:            ticker,
		Sentiment:         insiders["sentiment"],
		TotalTransactions: insiders["total_transactions"],
		NetSharesTraded:   insiders["net_shares_traded"],
		TotalBuyValue:     insiders["total_buy_value"],
		TotalSellValue:    insiders["total_sell_value"],
	}
	switch insiders.String("sentiment") {
	case "bullish":
		out.Signal = adviceLongBias
	case "bearish":
		out.Signal = adviceShortBias
	default:
		out.Signal = adviceNoClearTrend
	}
	return out, nil
}
