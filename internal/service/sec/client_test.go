package sec

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FinScore/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const factsBody = `{
  "cik": 320193,
  "entityName": "Apple Inc.",
  "facts": {
    "dei": {
      "EntityCommonStockSharesOutstanding": {
        "units": {"shares": [{"end": "2024-04-19", "val": 15337686000, "fy": 2024, "fp": "Q2", "form": "10-Q", "filed": "2024-05-03"}]}
      }
    },
    "us-gaap": {
      "Revenues": {
        "units": {"USD": [
          {"start": "2023-12-31", "end": "2024-03-30", "val": 90753000000, "fy": 2024, "fp": "Q2", "form": "10-Q", "filed": "2024-05-03"},
          {"end": "bogus", "val": 1, "fy": 2024, "fp": "Q2"}
        ]}
      },
      "EarningsPerShareDiluted": {
        "units": {"USD/shares": [{"start": "2022-09-25", "end": "2023-09-30", "val": 6.13, "fy": null, "fp": "fy"}]}
      }
    }
  }
}`

type openGate struct{}

func (openGate) Acquire(ctx context.Context) error { return ctx.Err() }

func TestCompanyFacts(t *testing.T) {
	var ua string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		assert.Equal(t, "/api/xbrl/companyfacts/CIK0000320193.json", r.URL.Path)
		_, _ = w.Write([]byte(factsBody))
	}))
	defer server.Close()

	c := New("finscore test@example.com", server.URL, "", time.Second, openGate{}, nil)
	facts, err := c.CompanyFacts(context.Background(), "320193")
	require.NoError(t, err)
	assert.Equal(t, "finscore test@example.com", ua)
	assert.Equal(t, "Apple Inc.", facts.EntityName)

	rev := facts.Concepts["Revenues"]["USD"]
	require.Len(t, rev, 1, "points with unparseable end dates are dropped")
	assert.Equal(t, 90753000000.0, rev[0].Value)
	assert.Equal(t, models.FiscalQ2, rev[0].FP)
	require.NotNil(t, rev[0].Start)
	days, ok := rev[0].DurationDays()
	assert.True(t, ok)
	assert.Equal(t, 90, days)

	eps := facts.Concepts["EarningsPerShareDiluted"]["USD/shares"]
	require.Len(t, eps, 1)
	assert.Equal(t, models.FiscalFY, eps[0].FP)
	assert.Equal(t, 0, eps[0].FY)

	require.Len(t, facts.Concepts["EntityCommonStockSharesOutstanding"]["shares"], 1)
}

func TestLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
			"1": {"cik_str": 1067983, "ticker": "brk-b", "title": "BERKSHIRE HATHAWAY INC"},
			"2": {"cik_str": 0, "ticker": "NOPE", "title": "missing"}
		}`))
	}))
	defer server.Close()

	c := New("ua", server.URL, server.URL+"/files/company_tickers.json", time.Second, openGate{}, nil)
	got, err := c.Lookup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CompanyIdentity{Identifier: "0000320193", Name: "Apple Inc."}, got["AAPL"])
	assert.Equal(t, "0001067983", got["BRK-B"].Identifier)
	assert.NotContains(t, got, "NOPE")
}

func TestMissingUserAgent(t *testing.T) {
	c := New("", "http://unused.invalid", "http://unused.invalid", time.Second, openGate{}, nil)
	_, err := c.CompanyFacts(context.Background(), "320193")
	assert.ErrorIs(t, err, models.ErrMissingCredential)
	_, err = c.Lookup(context.Background())
	assert.ErrorIs(t, err, models.ErrMissingCredential)
}

func TestNotFoundIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := New("ua", server.URL, "", time.Second, openGate{}, nil)
	_, err := c.CompanyFacts(context.Background(), "1")
	var ue *models.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusNotFound, ue.Status)
}
