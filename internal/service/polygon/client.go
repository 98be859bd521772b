package polygon

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"FinScore/internal/domain/models"
	drepo "FinScore/internal/domain/repository"
	xhttp "FinScore/pkg/http"
)

const provider = "polygon"

// Client implements QuoteProvider against the Polygon.io aggregates API.
// Every request passes through the shared fetch gate.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	gate    drepo.Gate
	metrics drepo.Metrics
}

// New creates a Polygon QuoteProvider.
func New(apiKey, baseURL string, timeout time.Duration, gate drepo.Gate, metrics drepo.Metrics) *Client {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		gate:    gate,
		metrics: metrics,
	}
}

type aggResult struct {
	T string  `json:"T"`
	C float64 `json:"c"`
}

type aggResponse struct {
	Status       string      `json:"status"`
	ResultsCount int         `json:"resultsCount"`
	Results      []aggResult `json:"results"`
}

// BulkQuotesForDate returns the close of every ticker in the grouped daily bars for date.
func (c *Client) BulkQuotesForDate(ctx context.Context, date time.Time) (map[string]float64, error) {
	u := fmt.Sprintf("%s/v2/aggs/grouped/locale/us/market/stocks/%s", c.baseURL, date.Format("2006-01-02"))
	var resp aggResponse
	if err := c.get(ctx, "grouped", u, &resp); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(resp.Results))
	for _, r := range resp.Results {
		if r.T == "" || !usable(r.C) {
			continue
		}
		out[strings.ToUpper(r.T)] = r.C
	}
	return out, nil
}

// PreviousClose returns the previous session close for ticker.
func (c *Client) PreviousClose(ctx context.Context, ticker string) (float64, error) {
	u := fmt.Sprintf("%s/v2/aggs/ticker/%s/prev", c.baseURL, url.PathEscape(ticker))
	var resp aggResponse
	if err := c.get(ctx, "prev_close", u, &resp); err != nil {
		return 0, err
	}
	if len(resp.Results) == 0 {
		return 0, &models.UpstreamError{Provider: provider, Op: "prev_close", Err: fmt.Errorf("no results for %s", ticker)}
	}
	return resp.Results[0].C, nil
}

func (c *Client) get(ctx context.Context, op, u string, dest interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("polygon api key: %w", models.ErrMissingCredential)
	}
	if err := c.gate.Acquire(ctx); err != nil {
		return fmt.Errorf("polygon %s: gate: %w", op, err)
	}
	err := c.http.GetJSON(ctx, u, map[string][]string{
		"adjusted": {"true"},
		"apiKey":   {c.apiKey},
	}, dest)
	if err != nil {
		c.metrics.RecordUpstreamCall(provider, op, "error")
		ue := &models.UpstreamError{Provider: provider, Op: op, Err: err}
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			ue.Status = se.Status
		}
		return ue
	}
	c.metrics.RecordUpstreamCall(provider, op, "ok")
	return nil
}

func usable(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0
}

var _ drepo.QuoteProvider = (*Client)(nil)
