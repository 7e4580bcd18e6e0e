package banks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/fdic"
	"github.com/aristath/oracles/internal/jsonx"
)

type fakeFDIC struct {
	institutions map[string]jsonx.Record
	financials   map[string][]fdic.Financials
	search       []jsonx.Record
	failures     []jsonx.Record
	weakest      []fdic.Financials
	err          error

	lastSince string
}

func (f *fakeFDIC) Search(context.Context, fdic.SearchQuery) ([]jsonx.Record, error) {
	return f.search, f.err
}

func (f *fakeFDIC) Institution(_ context.Context, cert string) (jsonx.Record, error) {
	return f.institutions[cert], f.err
}

func (f *fakeFDIC) Financials(_ context.Context, cert string, periods int) ([]fdic.Financials, error) {
	rows := f.financials[cert]
	if len(rows) > periods {
		rows = rows[:periods]
	}
	return rows, f.err
}

func (f *fakeFDIC) Failures(context.Context, int, string) ([]jsonx.Record, error) {
	return f.failures, f.err
}

func (f *fakeFDIC) WeakestReports(_ context.Context, since string) ([]fdic.Financials, error) {
	f.lastSince = since
	return f.weakest, f.err
}

func newTestService(src FDICSource) *Service {
	s := NewService(src, zerolog.New(nil).Level(zerolog.Disabled))
	s.now = func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestService_SearchPostFilters(t *testing.T) {
	src := &fakeFDIC{search: []jsonx.Record{
		{"NAME": "First Bank", "STALP": "TX", "CITY": "Austin", "ACTIVE": 1.0},
		{"NAME": "First Bank", "STALP": "CA", "CITY": "Fresno", "ACTIVE": 1.0},
		{"NAME": "First Bank", "STALP": "TX", "CITY": "Dallas", "ACTIVE": 0.0},
		{"NAME": "First Bank", "STALP": "TX", "CITY": "North Austin", "ACTIVE": 1.0},
	}}
	svc := newTestService(src)

	got, err := svc.Search(context.Background(), fdic.SearchQuery{Name: "first", State: "tx", City: "austin", ActiveOnly: true, Limit: 25})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Austin", got[0].String("CITY"))
	assert.Equal(t, "North Austin", got[1].String("CITY"))

	got, err = svc.Search(context.Background(), fdic.SearchQuery{Name: "first", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_InstitutionNotFound(t *testing.T) {
	svc := newTestService(&fakeFDIC{})

	_, err := svc.Institution(context.Background(), "999")

	var nf *api.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Institution not found", nf.Message)
	assert.Equal(t, "999", nf.Fields["cert"])
}

func TestService_FinancialsTrends(t *testing.T) {
	latest, prev := healthyReport(), healthyReport()
	latest.ASSET = 1_050_000
	latest.NETINC = 6_000
	latest.ROA = 1.0
	prev.DEP = 0

	svc := newTestService(&fakeFDIC{financials: map[string][]fdic.Financials{"628": {latest, prev}}})

	reports, trends, err := svc.Financials(context.Background(), "628", 4)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	require.NotNil(t, trends)
	assert.Equal(t, "5.00%", *trends.AssetGrowth)
	assert.Nil(t, trends.DepositGrowth)
	assert.Equal(t, "-50.00%", *trends.IncomeChange)
	assert.Equal(t, "-0.2000", trends.ROAChange)

	_, trends, err = svc.Financials(context.Background(), "628", 1)
	require.NoError(t, err)
	assert.Nil(t, trends)

	_, _, err = svc.Financials(context.Background(), "404", 4)
	var nf *api.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestService_Health(t *testing.T) {
	src := &fakeFDIC{
		institutions: map[string]jsonx.Record{"628": {"NAME": "Example Bank", "DATEUPDT": "2026-07-01"}},
		financials:   map[string][]fdic.Financials{"628": {healthyReport()}},
	}
	svc := newTestService(src)

	report, err := svc.Health(context.Background(), "628")
	require.NoError(t, err)
	assert.Equal(t, "Example Bank", report.Health.Name)
	assert.Equal(t, RiskLow, report.Health.RiskLevel)
	assert.Equal(t, "11.00%", report.Metrics["equity_ratio"])
	assert.Equal(t, "$1.0B", report.Metrics["total_assets"])
	assert.Equal(t, "$800.0M", report.Metrics["total_deposits"])

	_, err = svc.Health(context.Background(), "404")
	var nf *api.NotFoundError
	assert.ErrorAs(t, err, &nf)

	src.err = errors.New("fdic down")
	_, err = svc.Health(context.Background(), "628")
	assert.EqualError(t, err, "fdic down")
}

func TestService_AtRisk(t *testing.T) {
	weak := func(cert string, roa float64, asset float64) fdic.Financials {
		return fdic.Financials{
			CERT: jsonx.String(cert), REPDTE: "20260630",
			ASSET: jsonx.Float(asset), EQTOT: jsonx.Float(asset * 0.04),
			NETINC: -100, ROA: jsonx.Float(roa), LNLSNET: 1000, NCLNLS: 10,
		}
	}
	src := &fakeFDIC{weakest: []fdic.Financials{
		weak("1", -0.9, 500_000),
		weak("1", -0.5, 500_000),
		weak("2", -1.5, 50_000),
		weak("3", -0.2, 200_000),
		{CERT: "4", ASSET: 900_000, EQTOT: 100_000, ROA: -0.1, NETINC: 5},
	}}
	svc := newTestService(src)

	result, err := svc.AtRisk(context.Background(), 100, 50)
	require.NoError(t, err)

	assert.Equal(t, "20251018", src.lastSince)
	assert.Equal(t, "20251018", result.Cutoff)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Banks, 2)
	assert.Equal(t, "1", result.Banks[0].Cert)
	assert.Equal(t, "-0.90%", result.Banks[0].ROA)
	assert.Equal(t, []string{"Negative ROA", "Net loss", "Low capital"}, result.Banks[0].StressSignals)
	assert.Equal(t, "3", result.Banks[1].Cert)

	result, err = svc.AtRisk(context.Background(), 100, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.Banks, 1)
}

func TestService_Failures(t *testing.T) {
	svc := newTestService(&fakeFDIC{failures: []jsonx.Record{
		{"CERT": 59017.0, "NAME": "Pulaski Savings Bank", "CITYST": "CHICAGO, IL", "FAILDATE": "1/17/2025", "COST": nil},
	}})

	failures, err := svc.Failures(context.Background(), 25, "")
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "Pulaski Savings Bank", failures[0].Name)
	assert.Equal(t, "CHICAGO, IL", failures[0].City)
	assert.Nil(t, failures[0].EstimatedLoss)
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "$2.5B", FormatThousands(2_500_000))
	assert.Equal(t, "$750.0M", FormatThousands(750_000))
	assert.Equal(t, "$0.0M", FormatThousands(0))
}
