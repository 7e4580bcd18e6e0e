// Package oracles fronts the gateway's internal backends: the SEC filings
// oracle, the perp DEX aggregator and the sanctions screener. Most answers
// pass through untouched; the analysis operations combine them.
package oracles

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/secedgar"
	"github.com/aristath/oracles/internal/jsonx"
)

// Defaults applied when the caller omits a query parameter.
const (
	DefaultMetrics     = "Revenues,NetIncomeLoss"
	DefaultPeriods     = "4"
	DefaultInsiderDays = "90"
	DefaultEventDays   = "365"
	DefaultMinSpread   = "0.01"
)

const (
	analysisWindowDays = "30"
	thirteenFLimit     = 5
	thirteenFNote      = "Use accession number to fetch full holdings data"
)

// Backend is a JSON pass-through to one internal service.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values) (any, error)
	Post(ctx context.Context, path string, payload any) (any, error)
}

// FilingSource reads EDGAR submission histories.
type FilingSource interface {
	Submissions(ctx context.Context, cik string) (*secedgar.Submissions, error)
}

// Backends bundles the services behind the oracles.
type Backends struct {
	SEC       Backend
	Perp      Backend
	Sanctions Backend
	EDGAR     FilingSource
}

// Service answers SEC, perp, sanctions and analysis requests.
type Service struct {
	sec       Backend
	perp      Backend
	sanctions Backend
	edgar     FilingSource
	log       zerolog.Logger
}

// NewService creates an oracles service
func NewService(b Backends, log zerolog.Logger) *Service {
	return &Service{
		sec:       b.SEC,
		perp:      b.Perp,
		sanctions: b.Sanctions,
		edgar:     b.EDGAR,
		log:       log.With().Str("service", "oracles").Logger(),
	}
}

func segment(s string) string {
	return url.PathEscape(strings.TrimSpace(s))
}

func asRecord(v any) jsonx.Record {
	if m, ok := v.(map[string]any); ok {
		return jsonx.Record(m)
	}
	return jsonx.Record{}
}

// Company returns the SEC oracle profile of ticker.
func (s *Service) Company(ctx context.Context, ticker string) (any, error) {
	return s.sec.Get(ctx, "/company/"+segment(ticker), nil)
}

// Financials returns XBRL facts for ticker.
func (s *Service) Financials(ctx context.Context, ticker, metrics, periods string) (any, error) {
	return s.sec.Get(ctx, "/financials/"+segment(ticker), url.Values{
		"metrics": {metrics},
		"periods": {periods},
	})
}

// Insiders returns Form 4 activity over the last days days.
func (s *Service) Insiders(ctx context.Context, ticker, days string) (any, error) {
	return s.sec.Get(ctx, "/insiders/"+segment(ticker), url.Values{"days": {days}})
}

// Events returns 8-K material events over the last days days.
func (s *Service) Events(ctx context.Context, ticker, days string) (any, error) {
	return s.sec.Get(ctx, "/events/"+segment(ticker), url.Values{"days": {days}})
}

// BatchFinancials returns facts for a comma-separated ticker list.
func (s *Service) BatchFinancials(ctx context.Context, tickers, metrics string) (any, error) {
	if strings.TrimSpace(tickers) == "" {
		return nil, api.Validation("Tickers parameter required")
	}
	return s.sec.Get(ctx, "/batch/financials", url.Values{
		"tickers": {tickers},
		"metrics": {metrics},
	})
}

// ThirteenFFilings summarizes an institutional manager's recent 13F
// filings.
type ThirteenFFilings struct {
	CIK         string            `json:"cik"`
	Name        string            `json:"name"`
	EntityType  string            `json:"entity_type"`
	Filings     []secedgar.Filing `json:"recent_13f_filings"`
	FilingCount int               `json:"filing_count"`
	Instruction string            `json:"instruction"`
}

// ThirteenF lists the five most recent 13F-HR filings of cik.
func (s *Service) ThirteenF(ctx context.Context, cik string) (*ThirteenFFilings, error) {
	sub, err := s.edgar.Submissions(ctx, cik)
	if err != nil {
		return nil, err
	}

	filings := sub.ThirteenF(thirteenFLimit)
	return &ThirteenFFilings{
		CIK:         secedgar.PadCIK(cik),
		Name:        sub.Name,
		EntityType:  sub.EntityType,
		Filings:     filings,
		FilingCount: len(filings),
		Instruction: thirteenFNote,
	}, nil
}
