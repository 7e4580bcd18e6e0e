package markets

import (
	"context"
	"strings"

	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/jsonx"
)

const maxDescription = 500

// field maps an output key onto an FMP field name.
type field struct {
	out string
	in  string
}

var ratioFields = []field{
	{"pe_ratio", "priceToEarningsRatio"},
	{"pb_ratio", "priceToBookRatio"},
	{"ps_ratio", "priceToSalesRatio"},
	{"peg_ratio", "priceToEarningsGrowthRatio"},
	{"ev_to_ebitda", "enterpriseValueMultiple"},
	{"gross_margin", "grossProfitMargin"},
	{"operating_margin", "operatingProfitMargin"},
	{"net_margin", "netProfitMargin"},
	{"current_ratio", "currentRatio"},
	{"quick_ratio", "quickRatio"},
	{"debt_to_equity", "debtToEquityRatio"},
	{"debt_to_assets", "debtToAssetsRatio"},
	{"eps", "netIncomePerShare"},
	{"book_value_per_share", "bookValuePerShare"},
	{"dividend_yield", "dividendYieldPercentage"},
}

var metricFields = []field{
	{"market_cap", "marketCap"},
	{"enterprise_value", "enterpriseValue"},
	{"ev_to_sales", "evToSales"},
	{"ev_to_ebitda", "evToEBITDA"},
	{"ev_to_fcf", "evToFreeCashFlow"},
	{"roe", "returnOnEquity"},
	{"roa", "returnOnAssets"},
	{"roic", "returnOnInvestedCapital"},
	{"earnings_yield", "earningsYield"},
	{"fcf_yield", "freeCashFlowYield"},
	{"current_ratio", "currentRatio"},
	{"working_capital", "workingCapital"},
	{"tangible_asset_value", "tangibleAssetValue"},
	{"invested_capital", "investedCapital"},
}

// CompanyProfile is the descriptive profile of a listed company.
type CompanyProfile struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Exchange    string `json:"exchange"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	MarketCap   any    `json:"market_cap"`
	Price       any    `json:"price"`
	Beta        any    `json:"beta"`
	Volume      any    `json:"volume"`
	AvgVolume   any    `json:"avg_volume"`
	Description string `json:"description"`
	CEO         string `json:"ceo"`
	Website     string `json:"website"`
	Employees   any    `json:"employees"`
}

// FinancialPeriod is a set of ratios or metrics for one reporting period.
type FinancialPeriod struct {
	Symbol     string         `json:"symbol"`
	Period     string         `json:"period"`
	FiscalYear string         `json:"fiscal_year"`
	Date       string         `json:"date"`
	Values     map[string]any `json:"-"`
}

// Profile returns the company profile with the description cut to 500
// characters.
func (s *Service) Profile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	p, err := s.fundamentals.Profile(ctx, strings.ToUpper(symbol))
	if err != nil {
		return nil, err
	}

	return &CompanyProfile{
		Symbol:      p.String("symbol"),
		Name:        p.String("companyName"),
		Exchange:    p.String("exchange"),
		Sector:      p.String("sector"),
		Industry:    p.String("industry"),
		MarketCap:   p["marketCap"],
		Price:       p["price"],
		Beta:        p["beta"],
		Volume:      p["volume"],
		AvgVolume:   p["averageVolume"],
		Description: fetch.Truncate(p.String("description"), maxDescription),
		CEO:         p.String("ceo"),
		Website:     p.String("website"),
		Employees:   p["fullTimeEmployees"],
	}, nil
}

// Ratios returns the latest valuation, profitability, liquidity and
// leverage ratios.
func (s *Service) Ratios(ctx context.Context, symbol string) (*FinancialPeriod, error) {
	r, err := s.fundamentals.Ratios(ctx, strings.ToUpper(symbol))
	if err != nil {
		return nil, err
	}
	return period(r, ratioFields), nil
}

// Metrics returns the latest key metrics.
func (s *Service) Metrics(ctx context.Context, symbol string) (*FinancialPeriod, error) {
	r, err := s.fundamentals.KeyMetrics(ctx, strings.ToUpper(symbol))
	if err != nil {
		return nil, err
	}
	return period(r, metricFields), nil
}

func period(r jsonx.Record, fields []field) *FinancialPeriod {
	p := &FinancialPeriod{
		Symbol:     r.String("symbol"),
		Period:     r.String("period"),
		FiscalYear: r.String("fiscalYear"),
		Date:       r.String("date"),
		Values:     make(map[string]any, len(fields)),
	}
	for _, f := range fields {
		p.Values[f.out] = r[f.in]
	}
	return p
}
