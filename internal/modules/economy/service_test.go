package economy

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/bls"
	"github.com/aristath/oracles/internal/clients/fred"
	"github.com/aristath/oracles/internal/clients/treasury"
	"github.com/aristath/oracles/internal/jsonx"
)

func fp(v float64) *float64 { return &v }

type fakeFRED struct {
	mu           sync.Mutex
	configured   bool
	observations map[string][]fred.Observation
	info         map[string]*fred.SeriesInfo
	failing      map[string]bool
	infoErr      error
	queries      []fred.ObservationQuery
}

func (f *fakeFRED) Configured() bool { return f.configured }

func (f *fakeFRED) Observations(_ context.Context, q fred.ObservationQuery) ([]fred.Observation, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.failing[q.SeriesID] {
		return nil, errors.New("upstream down")
	}
	return f.observations[q.SeriesID], nil
}

func (f *fakeFRED) Info(_ context.Context, id string) (*fred.SeriesInfo, error) {
	return f.info[id], f.infoErr
}

func (f *fakeFRED) Search(context.Context, string, int) ([]fred.SeriesInfo, error) {
	return []fred.SeriesInfo{{ID: "GDP", Title: "Gross Domestic Product"}}, nil
}

type fakeTreasury struct {
	debt     []treasury.DebtRecord
	outlays  []jsonx.Record
	receipts []jsonx.Record
	auctions []jsonx.Record
	lastYear string
}

func (f *fakeTreasury) Debt(context.Context) ([]treasury.DebtRecord, error) { return f.debt, nil }

func (f *fakeTreasury) Outlays(_ context.Context, year string) ([]jsonx.Record, error) {
	f.lastYear = year
	return f.outlays, nil
}

func (f *fakeTreasury) Receipts(_ context.Context, year string) ([]jsonx.Record, error) {
	f.lastYear = year
	return f.receipts, nil
}

func (f *fakeTreasury) Auctions(context.Context, string) ([]jsonx.Record, error) {
	return f.auctions, nil
}

type fakeBLS struct {
	series  []bls.Series
	lastReq bls.Request
}

func (f *fakeBLS) Series(_ context.Context, req bls.Request) ([]bls.Series, error) {
	f.lastReq = req
	return f.series, nil
}

func newTestService(f FREDSource, t TreasurySource, b BLSSource) *Service {
	s := NewService(f, t, b, zerolog.New(nil).Level(zerolog.Disabled))
	s.now = func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestSeries_MetadataPrecedence(t *testing.T) {
	src := &fakeFRED{
		configured: true,
		observations: map[string][]fred.Observation{
			"UNRATE": {{Date: "2026-09-01", Value: fp(4.1)}},
			"XYZ":    {{Date: "2026-09-01", Value: nil}},
		},
		info: map[string]*fred.SeriesInfo{
			"UNRATE": {Title: "Unemployment Rate (FRED title)", Units: "%", Frequency: "M"},
			"XYZ":    {Title: "Some Series", Units: "Index", Frequency: "D"},
		},
	}
	svc := newTestService(src, nil, nil)

	report, err := svc.Series(context.Background(), fred.ObservationQuery{SeriesID: "unrate", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "UNRATE", report.SeriesID)
	assert.Equal(t, "Unemployment Rate", report.Name)
	assert.Equal(t, "employment", report.Category)
	assert.Equal(t, "monthly", report.Frequency)
	assert.Equal(t, "%", report.Units)

	report, err = svc.Series(context.Background(), fred.ObservationQuery{SeriesID: "XYZ", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "Some Series", report.Name)
	assert.Equal(t, "other", report.Category)
	assert.Equal(t, "D", report.Frequency)
}

func TestSeries_InfoFailureTolerated(t *testing.T) {
	src := &fakeFRED{
		configured:   true,
		observations: map[string][]fred.Observation{"ABC": {{Date: "2026-09-01", Value: fp(1)}}},
		infoErr:      errors.New("metadata down"),
	}
	svc := newTestService(src, nil, nil)

	report, err := svc.Series(context.Background(), fred.ObservationQuery{SeriesID: "ABC", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "ABC", report.Name)
	assert.Len(t, report.Observations, 1)
}

func TestIndicators(t *testing.T) {
	src := &fakeFRED{
		configured: true,
		observations: map[string][]fred.Observation{
			"HOUST":        {{Date: "2026-09-01", Value: fp(1400)}, {Date: "2026-08-01", Value: fp(1350)}},
			"CSUSHPINSA":   {{Date: "2026-07-01", Value: nil}, {Date: "2026-06-01", Value: fp(320)}},
			"MORTGAGE30US": nil,
		},
		failing: map[string]bool{"MORTGAGE30US": true},
	}
	svc := newTestService(src, nil, nil)

	set, err := svc.Indicators(context.Background(), "housing")
	require.NoError(t, err)
	require.Len(t, set.Indicators, 2)
	assert.Equal(t, []string{"housing"}, set.Categories)

	houst := set.Indicators[0]
	assert.Equal(t, "HOUST", houst.SeriesID)
	require.NotNil(t, houst.Change)
	assert.Equal(t, 50.0, *houst.Change)

	caseShiller := set.Indicators[1]
	assert.Nil(t, caseShiller.LatestValue)
	assert.Nil(t, caseShiller.Change)

	for _, q := range src.queries {
		assert.Equal(t, 2, q.Limit)
	}
}

func TestIndicators_CapsSeriesAndGroups(t *testing.T) {
	src := &fakeFRED{configured: true, observations: map[string][]fred.Observation{}}
	svc := newTestService(src, nil, nil)

	set, err := svc.Indicators(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, set.Indicators, maxIndicatorSeries)
	assert.Len(t, src.queries, maxIndicatorSeries)
	assert.Equal(t, []string{"gdp", "inflation", "employment", "rates"}, set.Categories)
	assert.Len(t, set.ByCategory()["rates"], 4)
}

func TestIndicators_NotConfigured(t *testing.T) {
	svc := newTestService(&fakeFRED{}, nil, nil)

	_, err := svc.Indicators(context.Background(), "")
	var notConfigured *api.NotConfiguredError
	require.ErrorAs(t, err, &notConfigured)
	assert.Equal(t, "FRED_API_KEY", notConfigured.Key)

	_, err = svc.Dashboard(context.Background())
	require.ErrorAs(t, err, &notConfigured)
}

func TestDashboard_Insights(t *testing.T) {
	src := &fakeFRED{
		configured: true,
		observations: map[string][]fred.Observation{
			"T10Y2Y":   {{Date: "2026-10-16", Value: fp(-0.35)}, {Date: "2026-10-10", Value: fp(-0.2)}},
			"UNRATE":   {{Date: "2026-09-01", Value: fp(5.4)}},
			"CPIAUCSL": {{Date: "2026-09-01", Value: fp(312)}, {Date: "2026-05-01", Value: fp(300)}},
			"UMCSENT":  {{Date: "2026-09-01", Value: fp(65)}},
		},
		failing: map[string]bool{"M2SL": true},
	}
	svc := newTestService(src, nil, nil)

	dash, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, dash.Series, "M2SL")
	cpi := dash.Series["CPIAUCSL"]
	require.NotNil(t, cpi.ChangePeriod)
	assert.Equal(t, "4.00%", *cpi.ChangePeriod)
	assert.Equal(t, "Consumer Price Index", cpi.Name)

	assert.Equal(t, []string{
		"Yield curve inverted (recession signal)",
		"Elevated unemployment rate (>5%)",
		"Inflation running above 3% annualized",
		"Consumer sentiment below historical average",
	}, dash.Insights)
}

func TestDashboardEntry_NoChangeFromZero(t *testing.T) {
	entry := dashboardEntry("T10Y2Y", []fred.Observation{{Date: "b", Value: fp(0.5)}, {Date: "a", Value: fp(0)}})
	assert.Nil(t, entry.ChangePeriod)
	require.NotNil(t, entry.Current)
	assert.Equal(t, 0.5, *entry.Current)

	empty := dashboardEntry("UNKNOWN", nil)
	assert.Equal(t, "UNKNOWN", empty.Name)
	assert.NotNil(t, empty.Trend)
	assert.Nil(t, empty.Current)
}

func TestSearchSeries_RequiresQuery(t *testing.T) {
	svc := newTestService(&fakeFRED{configured: true}, nil, nil)

	_, err := svc.SearchSeries(context.Background(), " ", 25)
	var validation *api.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Query parameter q is required", validation.Message)

	results, err := svc.SearchSeries(context.Background(), "gdp", 25)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDebt(t *testing.T) {
	records := []treasury.DebtRecord{
		{RecordDate: "2026-10-16", TotalPublicDebt: 36_500e9, DebtHeldPublic: 29_000e9, Intragovernmental: 7_500e9},
		{RecordDate: "2026-10-01", TotalPublicDebt: 36_400e9},
		{RecordDate: "2026-09-21", TotalPublicDebt: 36_250e9},
		{RecordDate: "2026-09-15", TotalPublicDebt: 36_200e9},
	}
	svc := newTestService(nil, &fakeTreasury{debt: records}, nil)

	debt, err := svc.Debt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", debt.RecordDate)
	require.NotNil(t, debt.Change30d)
	assert.InDelta(t, 250e9, *debt.Change30d, 1)
	assert.Len(t, debt.Trend, 4)

	assert.Equal(t, []string{
		"National debt exceeds $35 trillion",
		"National debt exceeds $36 trillion",
		"Debt increased >$200B in past 30 days",
	}, DebtInsights(debt))
}

func TestDebt_NoLookbackRecord(t *testing.T) {
	records := []treasury.DebtRecord{
		{RecordDate: "2026-10-16", TotalPublicDebt: 34_000e9},
		{RecordDate: "2026-10-01", TotalPublicDebt: 33_900e9},
	}
	svc := newTestService(nil, &fakeTreasury{debt: records}, nil)

	debt, err := svc.Debt(context.Background())
	require.NoError(t, err)
	assert.Nil(t, debt.Change30d)
	assert.Empty(t, DebtInsights(debt))
}

func TestDebt_Empty(t *testing.T) {
	svc := newTestService(nil, &fakeTreasury{}, nil)

	_, err := svc.Debt(context.Background())
	assert.ErrorIs(t, err, ErrNoDebtRecords)
}

func TestSpending_FiltersAndTotals(t *testing.T) {
	src := &fakeTreasury{outlays: []jsonx.Record{
		{"classification_desc": "Social Security Administration", "current_fytd_net_outly_amt": "1500.5", "prior_fytd_net_outly_amt": "1400"},
		{"classification_desc": "Unreported", "current_fytd_net_outly_amt": "null"},
		{"classification_desc": "Department of Defense", "current_fytd_net_outly_amt": "800", "prior_fytd_net_outly_amt": "750"},
	}}
	svc := newTestService(nil, src, nil)

	st, err := svc.Spending(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2026", st.FiscalYear)
	assert.Equal(t, "2026", src.lastYear)
	require.Len(t, st.Lines, 2)
	assert.Equal(t, "Social Security Administration", st.Lines[0].Name)
	assert.Equal(t, 1400.0, st.Lines[0].PriorYTD)
	assert.InDelta(t, 2300.5, st.TotalYTD, 0.001)

	_, err = svc.Revenue(context.Background(), "2024")
	require.NoError(t, err)
	assert.Equal(t, "2024", src.lastYear)
}

func TestStatement_TotalCoversAllRows(t *testing.T) {
	rows := make([]jsonx.Record, 25)
	for i := range rows {
		rows[i] = jsonx.Record{"classification_desc": "line", "current_fytd_net_rcpt_amt": "10"}
	}

	st := statementFrom("2026", rows, "current_fytd_net_rcpt_amt", "prior_fytd_net_rcpt_amt")
	assert.Len(t, st.Lines, maxStatementLines)
	assert.Equal(t, 250.0, st.TotalYTD)
}

func TestAuctions_NullableAmounts(t *testing.T) {
	src := &fakeTreasury{auctions: []jsonx.Record{{
		"cusip":                "912797XX1",
		"security_type":        "Bill",
		"offering_amt":         "70000000000",
		"high_yield":           "null",
		"high_investment_rate": "5.31",
		"bid_to_cover_ratio":   nil,
	}}}
	svc := newTestService(nil, src, nil)

	auctions, err := svc.Auctions(context.Background(), "Bill")
	require.NoError(t, err)
	require.Len(t, auctions, 1)
	assert.Equal(t, 70000000000.0, auctions[0].OfferingAmt)
	assert.Nil(t, auctions[0].HighYield)
	assert.Equal(t, 5.31, auctions[0].HighRate)
	assert.Nil(t, auctions[0].BidToCover)
	assert.Nil(t, auctions[0].TotalAccepted)
}

func TestEmployment(t *testing.T) {
	src := &fakeBLS{series: []bls.Series{
		{ID: "LNS14000000", Data: []bls.DataPoint{{Year: "2026", Period: "M09", Value: "4.1"}}},
		{ID: "UNKNOWN", Data: nil},
	}}
	svc := newTestService(nil, nil, src)

	series, err := svc.Employment(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "Unemployment Rate", series[0].Name)
	require.NotNil(t, series[0].Latest)
	assert.Equal(t, "4.1", series[0].Latest.Value)
	assert.Equal(t, "UNKNOWN", series[1].Name)
	assert.Nil(t, series[1].Latest)
	assert.NotNil(t, series[1].Trend)

	assert.Equal(t, 2025, src.lastReq.StartYear)
	assert.Equal(t, 2026, src.lastReq.EndYear)
	assert.Len(t, src.lastReq.SeriesIDs, 4)
}

func TestCPI_YearOverYear(t *testing.T) {
	data := []bls.DataPoint{
		{Year: "2026", Period: "M09", PeriodName: "September", Value: "315.0"},
		{Year: "2026", Period: "M08", PeriodName: "August", Value: "314.0"},
		{Year: "2025", Period: "M10", PeriodName: "October", Value: "305.0"},
		{Year: "2025", Period: "M09", PeriodName: "September", Value: "300.0"},
	}
	src := &fakeBLS{series: []bls.Series{
		{ID: "CUUR0000SA0", Data: data},
		{ID: "CUUR0000SAF1", Data: data[:2]},
	}}
	svc := newTestService(nil, nil, src)

	series, err := svc.CPI(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 2)

	all := series[0]
	assert.Equal(t, "CPI All Items", all.Name)
	assert.Equal(t, 315.0, all.LatestValue)
	assert.Equal(t, "2026-September", all.LatestPeriod)
	require.NotNil(t, all.YoYChange)
	assert.Equal(t, "5.00%", *all.YoYChange)
	assert.Len(t, all.Trend, 4)

	assert.Nil(t, series[1].YoYChange)
}

func TestSeriesData(t *testing.T) {
	src := &fakeBLS{}
	svc := newTestService(nil, nil, src)

	data, err := svc.SeriesData(context.Background(), "CES0000000001", 5)
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)
	assert.Equal(t, 2021, src.lastReq.StartYear)
	assert.Equal(t, []string{"CES0000000001"}, src.lastReq.SeriesIDs)
}
