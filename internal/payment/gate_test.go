package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTerms() Terms {
	return Terms{
		PublicURL:   "https://gateway.test",
		PayTo:       "0xPAYEE",
		Network:     "base",
		Asset:       "0xUSDC",
		GatewayName: "Financial Oracles Gateway",
	}
}

func newTestGate() (*Gate, *int) {
	calls := 0
	return NewGate(DefaultTable(), testTerms(), zerolog.New(nil).Level(zerolog.Disabled)), &calls
}

func serve(g *Gate, calls *int, method, path string, header http.Header) *httptest.ResponseRecorder {
	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestGate(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		header         http.Header
		expectedStatus int
		expectedCalls  int
		validate       func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "free route passes",
			method:         "GET",
			path:           "/health",
			expectedStatus: http.StatusOK,
			expectedCalls:  1,
		},
		{
			name:           "unpriced two segment route passes",
			method:         "GET",
			path:           "/demo/quote",
			expectedStatus: http.StatusOK,
			expectedCalls:  1,
		},
		{
			name:           "metered route without payment",
			method:         "GET",
			path:           "/prediction/arbitrage",
			expectedStatus: http.StatusPaymentRequired,
			expectedCalls:  0,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				var body Required
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

				assert.Equal(t, 1, body.X402Version)
				assert.Equal(t, "X-PAYMENT header is required", body.Error)
				require.Len(t, body.Accepts, 1)

				accept := body.Accepts[0]
				assert.Equal(t, "exact", accept.Scheme)
				assert.Equal(t, "base", accept.Network)
				assert.Equal(t, "20000", accept.MaxAmountRequired)
				assert.Equal(t, "https://gateway.test/prediction/arbitrage", accept.Resource)
				assert.Equal(t, "Prediction Arbitrage - Find cross-platform arbitrage opportunities", accept.Description)
				assert.Equal(t, "application/json", accept.MimeType)
				assert.Equal(t, "0xPAYEE", accept.PayTo)
				assert.Equal(t, 300, accept.MaxTimeoutSeconds)
				assert.Equal(t, "0xUSDC", accept.Asset)
				assert.Equal(t, "GET", accept.OutputSchema.Input.Method)
				assert.Nil(t, accept.OutputSchema.Output)
				assert.Equal(t, AssetInfo{Name: "USD Coin", Version: "2"}, accept.Extra)

				assert.Equal(t, RequiredMetadata{
					Gateway:  "https://gateway.test",
					Name:     "Prediction Arbitrage",
					Category: "prediction",
				}, body.Metadata)
			},
		},
		{
			name:           "metered route with path parameter",
			method:         "POST",
			path:           "/sanctions/address",
			expectedStatus: http.StatusPaymentRequired,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				var body Required
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "POST", body.Accepts[0].OutputSchema.Input.Method)
				assert.Equal(t, "10000", body.Accepts[0].MaxAmountRequired)
			},
		},
		{
			name:           "payment header present reaches handler",
			method:         "GET",
			path:           "/sec/company/AAPL",
			header:         http.Header{"X-Payment": []string{"0xdeadbeef"}},
			expectedStatus: http.StatusOK,
			expectedCalls:  1,
		},
		{
			name:           "any non-empty proof is accepted",
			method:         "GET",
			path:           "/banks/health/3511",
			header:         http.Header{"X-Payment": []string{"anything"}},
			expectedStatus: http.StatusOK,
			expectedCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, calls := newTestGate()
			w := serve(g, calls, tt.method, tt.path, tt.header)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCalls, *calls)
			if tt.validate != nil {
				tt.validate(t, w)
			}
		})
	}
}

func TestGate_RepeatedUnpaidRequestsAreIdentical(t *testing.T) {
	g, calls := newTestGate()

	first := serve(g, calls, "GET", "/fred/series/GDP", nil)
	second := serve(g, calls, "GET", "/fred/series/GDP", nil)

	assert.Equal(t, http.StatusPaymentRequired, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 0, *calls)
}

func TestTerms_ManifestAccept(t *testing.T) {
	ep, ok := DefaultTable().Get("stocks/quote")
	require.True(t, ok)

	accept := testTerms().ManifestAccept(ep)

	assert.Equal(t, "Real-time stock quotes", accept.Description)
	require.NotNil(t, accept.OutputSchema.Output)
	assert.Equal(t, "json", accept.OutputSchema.Output.Type)
	assert.Equal(t, "5000", accept.MaxAmountRequired)
}
