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

	"github.com/aristath/oracles/internal/clients/fdic"
	"github.com/aristath/oracles/internal/jsonx"
	"github.com/aristath/oracles/internal/modules/banks"
)

type stubFDIC struct{}

func (stubFDIC) Search(context.Context, fdic.SearchQuery) ([]jsonx.Record, error) {
	return []jsonx.Record{{"NAME": "Example Bank", "ACTIVE": 1.0}}, nil
}

func (stubFDIC) Institution(_ context.Context, cert string) (jsonx.Record, error) {
	if cert != "628" {
		return nil, nil
	}
	return jsonx.Record{"CERT": "628", "NAME": "Example Bank"}, nil
}

func (stubFDIC) Financials(_ context.Context, cert string, _ int) ([]fdic.Financials, error) {
	if cert != "628" {
		return nil, nil
	}
	return []fdic.Financials{{CERT: "628", REPDTE: "20260630", ASSET: 1_000_000, DEP: 800_000, EQTOT: 100_000, ROA: 1, NIMY: 3.4, LNLSNET: 500_000, NCLNLS: 2_500}}, nil
}

func (stubFDIC) Failures(context.Context, int, string) ([]jsonx.Record, error) {
	return []jsonx.Record{{"NAME": "Failed Bank"}}, nil
}

func (stubFDIC) WeakestReports(context.Context, string) ([]fdic.Financials, error) {
	return nil, nil
}

func newTestRouter() chi.Router {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(banks.NewService(stubFDIC{}, logger), logger)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestBankRoutes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		validate       func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "search",
			path:           "/banks/search?name=example",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, float64(1), response["count"])
			},
		},
		{
			name:           "institution not found",
			path:           "/banks/institution/1",
			expectedStatus: http.StatusNotFound,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"error":"Institution not found","cert":"1"}`, w.Body.String())
			},
		},
		{
			name:           "health",
			path:           "/banks/health/628",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				var response struct {
					Health  banks.HealthScore `json:"health"`
					Metrics map[string]string `json:"metrics"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, banks.RiskLow, response.Health.RiskLevel)
				assert.Equal(t, "10.00%", response.Metrics["equity_ratio"])
			},
		},
		{
			name:           "financials without trends",
			path:           "/banks/financials/628",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, float64(1), response["periods"])
				assert.Nil(t, response["trends"])
			},
		},
		{
			name:           "failures",
			path:           "/banks/failures",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "at risk with no candidates",
			path:           "/banks/at-risk",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, float64(0), response["count"])
				assert.Equal(t, []interface{}{}, response["at_risk_banks"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validate != nil {
				tt.validate(t, w)
			}
		})
	}
}
