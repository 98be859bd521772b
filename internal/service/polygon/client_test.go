package polygon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FinScore/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type openGate struct{}

func (openGate) Acquire(ctx context.Context) error { return ctx.Err() }

func TestBulkQuotesForDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/aggs/grouped/locale/us/market/stocks/2024-05-03", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("apiKey"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "OK",
			"resultsCount": 3,
			"results": []map[string]interface{}{
				{"T": "AAPL", "c": 183.38},
				{"T": "MSFT", "c": 406.66},
				{"T": "BAD", "c": 0},
			},
		})
	}))
	defer server.Close()

	c := New("k", server.URL, time.Second, openGate{}, nil)
	got, err := c.BulkQuotesForDate(context.Background(), time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"AAPL": 183.38, "MSFT": 406.66}, got)
}

func TestPreviousClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/aggs/ticker/AAPL/prev", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"T":"AAPL","c":193.79}]}`))
	}))
	defer server.Close()

	c := New("k", server.URL, time.Second, openGate{}, nil)
	p, err := c.PreviousClose(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 193.79, p)
}

func TestRateLimitedResponseIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := New("k", server.URL, time.Second, openGate{}, nil)
	_, err := c.PreviousClose(context.Background(), "AAPL")
	require.Error(t, err)

	var ue *models.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.True(t, ue.IsRateLimited())
}

func TestMissingKeyIsConfigurationError(t *testing.T) {
	c := New("", "http://unused.invalid", time.Second, openGate{}, nil)
	_, err := c.BulkQuotesForDate(context.Background(), time.Now())
	assert.ErrorIs(t, err, models.ErrMissingCredential)
}
