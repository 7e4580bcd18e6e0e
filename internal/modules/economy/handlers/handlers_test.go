package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/oracles/internal/clients/bls"
	"github.com/aristath/oracles/internal/clients/fred"
	"github.com/aristath/oracles/internal/clients/treasury"
	"github.com/aristath/oracles/internal/jsonx"
	"github.com/aristath/oracles/internal/modules/economy"
)

type stubFRED struct{ configured bool }

func (s stubFRED) Configured() bool { return s.configured }

func (stubFRED) Observations(_ context.Context, q fred.ObservationQuery) ([]fred.Observation, error) {
	v := 4.2
	return []fred.Observation{{Date: "2026-09-01", Value: &v}}, nil
}

func (stubFRED) Info(context.Context, string) (*fred.SeriesInfo, error) { return nil, nil }

func (stubFRED) Search(context.Context, string, int) ([]fred.SeriesInfo, error) {
	return []fred.SeriesInfo{{ID: "GDP", Title: "Gross Domestic Product", Frequency: "Q"}}, nil
}

type stubTreasury struct{}

func (stubTreasury) Debt(context.Context) ([]treasury.DebtRecord, error) {
	return []treasury.DebtRecord{{RecordDate: "2026-10-16", TotalPublicDebt: 37e12}}, nil
}

func (stubTreasury) Outlays(context.Context, string) ([]jsonx.Record, error) {
	return []jsonx.Record{{"classification_desc": "Defense", "current_fytd_net_outly_amt": "10"}}, nil
}

func (stubTreasury) Receipts(context.Context, string) ([]jsonx.Record, error) {
	return []jsonx.Record{{"classification_desc": "Income Taxes", "current_fytd_net_rcpt_amt": "20"}}, nil
}

func (stubTreasury) Auctions(context.Context, string) ([]jsonx.Record, error) { return nil, nil }

type stubBLS struct{}

func (stubBLS) Series(context.Context, bls.Request) ([]bls.Series, error) {
	return []bls.Series{{ID: "LNS14000000", Data: []bls.DataPoint{{Year: "2026", Period: "M09", Value: "4.1"}}}}, nil
}

func newTestRouter(fredConfigured bool) chi.Router {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	svc := economy.NewService(stubFRED{configured: fredConfigured}, stubTreasury{}, stubBLS{}, logger)
	router := chi.NewRouter()
	NewHandler(svc, logger).RegisterRoutes(router)
	return router
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestEconomyRoutes(t *testing.T) {
	router := newTestRouter(true)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		validate       func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "fred series",
			path:           "/fred/series/unrate?limit=5",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Equal(t, "UNRATE", response["series_id"])
				assert.Equal(t, "Unemployment Rate", response["name"])
				assert.Len(t, response["observations"], 1)
			},
		},
		{
			name:           "fred indicators grouped",
			path:           "/fred/indicators",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Equal(t, float64(15), response["count"])
				assert.IsType(t, map[string]interface{}{}, response["indicators"])
			},
		},
		{
			name:           "fred indicators by category",
			path:           "/fred/indicators?category=money",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Equal(t, float64(2), response["count"])
				assert.IsType(t, []interface{}{}, response["indicators"])
			},
		},
		{
			name:           "fred dashboard",
			path:           "/fred/dashboard",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Len(t, response["dashboard"], len(fred.DashboardSeries))
				assert.Contains(t, response, "insights")
			},
		},
		{
			name:           "fred search without q",
			path:           "/fred/search",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "fred search",
			path:           "/fred/search?q=gdp",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				series := response["series"].([]interface{})
				require.Len(t, series, 1)
				assert.Equal(t, "Q", series[0].(map[string]interface{})["frequency"])
			},
		},
		{
			name:           "treasury debt",
			path:           "/treasury/debt",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Equal(t, 37e12, response["total_debt"])
				assert.Nil(t, response["change_30d"])
			},
		},
		{
			name:           "treasury spending",
			path:           "/treasury/spending?year=2025",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Equal(t, "2025", response["fiscal_year"])
				categories := response["categories"].([]interface{})
				assert.Equal(t, "Defense", categories[0].(map[string]interface{})["category"])
			},
		},
		{
			name:           "treasury revenue",
			path:           "/treasury/revenue",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Equal(t, float64(20), response["total_ytd"])
				assert.Len(t, response["sources"], 1)
			},
		},
		{
			name:           "treasury auctions",
			path:           "/treasury/auctions?type=Bill",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "treasury dashboard",
			path:           "/treasury/dashboard",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Len(t, response["insights"], 2)
				assert.Contains(t, response["national_debt"], "total")
			},
		},
		{
			name:           "bls employment",
			path:           "/bls/employment",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Len(t, response["employment_data"], 1)
			},
		},
		{
			name:           "bls cpi",
			path:           "/bls/cpi",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bls series",
			path:           "/bls/series/LNS14000000?years=3",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Equal(t, "LNS14000000", response["series_id"])
				assert.Len(t, response["data"], 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validate != nil {
				tt.validate(t, w)
			}
		})
	}
}

func TestFREDRoutes_NotConfigured(t *testing.T) {
	router := newTestRouter(false)

	for _, path := range []string{"/fred/indicators", "/fred/dashboard"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
		response := decode(t, w)
		assert.Equal(t, "FRED_API_KEY not configured", response["error"])
		assert.Contains(t, response["setup"], "fred.stlouisfed.org")
	}
}

func TestRegisterRoutes(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(economy.NewService(stubFRED{}, stubTreasury{}, stubBLS{}, logger), logger)
	router := chi.NewRouter()

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	})
}
