package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FinScore/internal/domain/models"
	"FinScore/internal/service/mock"
	"FinScore/internal/service/ratelimit"
	"FinScore/internal/usecase"
	xlogger "FinScore/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, burst float64) (*echo.Echo, *usecase.Enricher) {
	t.Helper()
	universe := []string{"AAPL", "MSFT"}
	qs := usecase.NewMockQuoteService(universe, usecase.QuoteOptions{}, nil)
	ids := usecase.NewIdentifierResolver(nil, mock.NewDirectory(universe), nil)
	enr := usecase.NewEnricher(qs, usecase.NewFundamentalsService(ids, mock.NewFacts()), nil, nil, nil)

	e := echo.New()
	NewStocksEchoHandler(xlogger.Nop(), enr, ratelimit.New(), burst, 0.0001).RegisterRoutes(e)
	return e, enr
}

func do(e *echo.Echo, method, target string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestListWarmsColdCache(t *testing.T) {
	e, enr := newTestServer(t, 3)

	rec, env := do(e, http.MethodGet, "/api/stocks")
	require.Equal(t, http.StatusOK, rec.Code)
	var state models.CacheState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.NotEqual(t, models.StatusCold, state.Status)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, enr.Refresh(ctx, false))

	_, env = do(e, http.MethodGet, "/api/stocks")
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, models.StatusReady, state.Status)
	assert.Len(t, state.Tickers, 2)
	assert.NotNil(t, state.LastUpdated)
}

func TestGetCachedAndOnDemand(t *testing.T) {
	e, enr := newTestServer(t, 3)
	require.NoError(t, enr.Refresh(context.Background(), false))

	rec, env := do(e, http.MethodGet, "/api/stocks/AAPL")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.EnrichedTicker
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "AAPL", got.Ticker)

	rec, env = do(e, http.MethodGet, "/api/stocks/nvda")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "NVDA", got.Ticker)
	require.NotNil(t, got.LatestPrice)
	assert.Equal(t, mock.Price("NVDA"), *got.LatestPrice)
	assert.Len(t, enr.Snapshot().Tickers, 2, "on-demand lookups never enter the cache")
}

func TestGetRejectsMalformedTicker(t *testing.T) {
	e, _ := newTestServer(t, 3)
	rec, _ := do(e, http.MethodGet, "/api/stocks/1BAD")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(e, http.MethodGet, "/api/stocks/WAYTOOLONGTICKER")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshAcceptsAndRateLimits(t *testing.T) {
	e, enr := newTestServer(t, 1)

	rec, _ := do(e, http.MethodPost, "/api/stocks/refresh?force=maybe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(e, http.MethodPost, "/api/stocks/refresh?force=true")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, http.StatusAccepted, env.Status)

	rec, _ = do(e, http.MethodPost, "/api/stocks/refresh")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	require.NoError(t, enr.Refresh(context.Background(), false))
}

func TestToAppError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("x: %w", models.ErrInvalidTicker), http.StatusBadRequest},
		{fmt.Errorf("x: %w", models.ErrTickerNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", models.ErrMissingCredential), http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		appErr := toAppError(tc.err, "X")
		assert.Equal(t, tc.status, appErr.Status, tc.err.Error())
		assert.ErrorIs(t, appErr, tc.err)
	}
}
