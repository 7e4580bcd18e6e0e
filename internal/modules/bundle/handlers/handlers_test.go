package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/jsonx"
	"github.com/aristath/oracles/internal/modules/bundle"
)

type stubEquities struct{}

func (stubEquities) Quote(context.Context, string) (*finnhub.Quote, error) {
	return &finnhub.Quote{Current: 230}, nil
}

func (stubEquities) CompanyNews(context.Context, string, finnhub.DateRange) ([]finnhub.NewsItem, error) {
	return []finnhub.NewsItem{{Headline: "Apple ships"}}, nil
}

type stubEstimates struct{}

func (stubEstimates) AnalystEstimates(context.Context, string) ([]jsonx.Record, error) {
	return []jsonx.Record{{"date": "2027"}}, nil
}

type stubScreener struct{}

func (stubScreener) ScreenName(_ context.Context, payload any) (any, error) {
	return map[string]any{"matches": []any{map[string]any{"name": "ACME"}}}, nil
}

func (stubScreener) ScreenAddress(context.Context, any) (any, error) {
	return map[string]any{"matches": []any{}}, nil
}

func (stubScreener) Country(_ context.Context, code string) (any, error) {
	return map[string]any{"country": code}, nil
}

type stubFilings struct{}

func (stubFilings) Company(_ context.Context, ticker string) (any, error) {
	return map[string]any{"ticker": ticker}, nil
}

func (stubFilings) Financials(context.Context, string, string, string) (any, error) {
	return map[string]any{}, nil
}

func (stubFilings) Insiders(context.Context, string, string) (any, error) {
	return []any{}, nil
}

func (stubFilings) Events(context.Context, string, string) (any, error) {
	return []any{}, nil
}

func newTestRouter() chi.Router {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	svc := bundle.NewService(bundle.Sources{
		Equities:  stubEquities{},
		Estimates: stubEstimates{},
		Sanctions: stubScreener{},
		Filings:   stubFilings{},
	}, cache.New(100), logger)
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

func TestBundleRoutes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		validate       func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "market snapshot",
			method:         http.MethodGet,
			path:           "/bundle/market_snapshot/aapl",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Equal(t, "AAPL", response["symbol"])
				assert.Equal(t, "market_snapshot", response["bundle"])
				assert.Len(t, response["recentNews"], 1)
				quote := response["quote"].(map[string]interface{})
				assert.Equal(t, float64(230), quote["price"])
			},
		},
		{
			name:           "sanctions screen",
			method:         http.MethodPost,
			path:           "/bundle/sanctions_screen",
			body:           `{"name":"Acme","country":"IR"}`,
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.NotContains(t, response, "addressScreen")
				summary := response["riskSummary"].(map[string]interface{})
				assert.Equal(t, true, summary["anyMatch"])
				checked := summary["inputsChecked"].(map[string]interface{})
				assert.Equal(t, false, checked["address"])
				assert.Equal(t, true, checked["country"])
			},
		},
		{
			name:           "sanctions screen invalid body",
			method:         http.MethodPost,
			path:           "/bundle/sanctions_screen",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "Invalid JSON body", decode(t, w)["error"])
			},
		},
		{
			name:           "sec snapshot",
			method:         http.MethodGet,
			path:           "/bundle/sec_snapshot/nvda",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				response := decode(t, w)
				assert.Equal(t, "NVDA", response["ticker"])
				assert.Equal(t, "sec_snapshot", response["bundle"])
				assert.Len(t, response["endpointsUsed"], 4)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validate != nil {
				tt.validate(t, w)
			}
		})
	}
}

func TestRegisterRoutes(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(bundle.NewService(bundle.Sources{}, cache.New(10), logger), logger)
	router := chi.NewRouter()

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	})
}
