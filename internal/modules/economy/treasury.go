package economy

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aristath/oracles/internal/clients/treasury"
	"github.com/aristath/oracles/internal/jsonx"
)

const (
	// debtLookback is the minimum age of the record a 30 day change is
	// measured against. Debt records are published on business days only.
	debtLookback = 25 * 24 * time.Hour

	maxStatementLines = 20
)

// ErrNoDebtRecords is returned when the debt endpoint answers without data.
var ErrNoDebtRecords = errors.New("Treasury returned no debt records")

// DebtPoint is one point of the debt trend.
type DebtPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// DebtSummary is the latest national debt position.
type DebtSummary struct {
	Total             float64
	DebtHeldPublic    float64
	Intragovernmental float64
	RecordDate        string
	Change30d         *float64
	Trend             []DebtPoint
}

// StatementLine is a spending category or revenue source.
type StatementLine struct {
	Name     string
	YTD      float64
	PriorYTD float64
}

// Statement is a year-to-date outlay or receipt table.
type Statement struct {
	FiscalYear string
	Lines      []StatementLine
	TotalYTD   float64
}

// Auction is a Treasury auction result. Unreported amounts are null.
type Auction struct {
	CUSIP         string `json:"cusip"`
	SecurityType  string `json:"security_type"`
	SecurityTerm  string `json:"security_term"`
	AuctionDate   string `json:"auction_date"`
	IssueDate     string `json:"issue_date"`
	MaturityDate  string `json:"maturity_date"`
	OfferingAmt   any    `json:"offering_amt"`
	HighYield     any    `json:"high_yield"`
	HighRate      any    `json:"high_rate"`
	TotalAccepted any    `json:"total_accepted"`
	BidToCover    any    `json:"bid_to_cover"`
}

// Debt summarizes the latest debt to the penny records.
func (s *Service) Debt(ctx context.Context) (*DebtSummary, error) {
	records, err := s.treasury.Debt(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoDebtRecords
	}

	latest := records[0]
	summary := &DebtSummary{
		Total:             float64(latest.TotalPublicDebt),
		DebtHeldPublic:    float64(latest.DebtHeldPublic),
		Intragovernmental: float64(latest.Intragovernmental),
		RecordDate:        latest.RecordDate,
		Change30d:         debtChange(records),
		Trend:             make([]DebtPoint, 0, 10),
	}
	for _, r := range records[:min(10, len(records))] {
		summary.Trend = append(summary.Trend, DebtPoint{Date: r.RecordDate, Total: float64(r.TotalPublicDebt)})
	}
	return summary, nil
}

// debtChange compares the latest record with the first one at least 25 days
// older. It is nil when no such record was returned.
func debtChange(records []treasury.DebtRecord) *float64 {
	latestDate, err := time.Parse(time.DateOnly, records[0].RecordDate)
	if err != nil {
		return nil
	}
	for _, r := range records[1:] {
		d, err := time.Parse(time.DateOnly, r.RecordDate)
		if err != nil {
			continue
		}
		if latestDate.Sub(d) >= debtLookback {
			change := float64(records[0].TotalPublicDebt) - float64(r.TotalPublicDebt)
			return &change
		}
	}
	return nil
}

// DebtInsights flags notable debt levels and growth.
func DebtInsights(d *DebtSummary) []string {
	insights := []string{}
	if d.Total > 35e12 {
		insights = append(insights, "National debt exceeds $35 trillion")
	}
	if d.Total > 36e12 {
		insights = append(insights, "National debt exceeds $36 trillion")
	}
	if d.Change30d != nil && *d.Change30d > 200e9 {
		insights = append(insights, "Debt increased >$200B in past 30 days")
	}
	return insights
}

// Spending returns outlays by top-level category. An empty year means the
// current calendar year.
func (s *Service) Spending(ctx context.Context, year string) (*Statement, error) {
	year = s.fiscalYear(year)
	rows, err := s.treasury.Outlays(ctx, year)
	if err != nil {
		return nil, err
	}
	return statementFrom(year, rows, "current_fytd_net_outly_amt", "prior_fytd_net_outly_amt"), nil
}

// Revenue returns receipts by top-level source. An empty year means the
// current calendar year.
func (s *Service) Revenue(ctx context.Context, year string) (*Statement, error) {
	year = s.fiscalYear(year)
	rows, err := s.treasury.Receipts(ctx, year)
	if err != nil {
		return nil, err
	}
	return statementFrom(year, rows, "current_fytd_net_rcpt_amt", "prior_fytd_net_rcpt_amt"), nil
}

func (s *Service) fiscalYear(year string) string {
	if year == "" {
		return strconv.Itoa(s.now().Year())
	}
	return year
}

// statementFrom keeps rows with a reported year-to-date amount. The total
// covers every kept row while Lines holds the first 20.
func statementFrom(year string, rows []jsonx.Record, ytdField, priorField string) *Statement {
	st := &Statement{FiscalYear: year, Lines: []StatementLine{}}
	for _, r := range rows {
		if r.NullableString(ytdField) == nil {
			continue
		}
		ytd := r.Float(ytdField)
		st.TotalYTD += ytd
		if len(st.Lines) < maxStatementLines {
			st.Lines = append(st.Lines, StatementLine{
				Name:     r.String("classification_desc"),
				YTD:      ytd,
				PriorYTD: r.Float(priorField),
			})
		}
	}
	return st
}

// Auctions returns recent auction results.
func (s *Service) Auctions(ctx context.Context, securityType string) ([]Auction, error) {
	rows, err := s.treasury.Auctions(ctx, securityType)
	if err != nil {
		return nil, err
	}

	out := make([]Auction, 0, len(rows))
	for _, r := range rows {
		out = append(out, Auction{
			CUSIP:         r.String("cusip"),
			SecurityType:  r.String("security_type"),
			SecurityTerm:  r.String("security_term"),
			AuctionDate:   r.String("auction_date"),
			IssueDate:     r.String("issue_date"),
			MaturityDate:  r.String("maturity_date"),
			OfferingAmt:   r.NullableFloat("offering_amt"),
			HighYield:     r.NullableFloat("high_yield"),
			HighRate:      r.NullableFloat("high_investment_rate"),
			TotalAccepted: r.NullableFloat("total_accepted"),
			BidToCover:    r.NullableFloat("bid_to_cover_ratio"),
		})
	}
	return out, nil
}
