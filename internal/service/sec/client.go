package sec

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"FinScore/internal/domain/models"
	drepo "FinScore/internal/domain/repository"
	xhttp "FinScore/pkg/http"
	"FinScore/pkg/util"
)

const provider = "sec"

// Client reads XBRL company facts and the public ticker directory from EDGAR.
// EDGAR rejects anonymous traffic, so a descriptive User-Agent is mandatory.
type Client struct {
	userAgent  string
	baseURL    string
	tickersURL string
	http       *xhttp.Client
	gate       drepo.Gate
	metrics    drepo.Metrics
}

// New creates an EDGAR client. The gate is acquired before every request.
func New(userAgent, baseURL, tickersURL string, timeout time.Duration, gate drepo.Gate, metrics drepo.Metrics) *Client {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	return &Client{
		userAgent:  userAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tickersURL: tickersURL,
		http:       xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithUserAgent(userAgent)),
		gate:       gate,
		metrics:    metrics,
	}
}

type factPoint struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Val   float64 `json:"val"`
	FY    *int    `json:"fy"`
	FP    string  `json:"fp"`
	Form  string  `json:"form"`
	Filed string  `json:"filed"`
}

type concept struct {
	Units map[string][]factPoint `json:"units"`
}

type companyFactsResponse struct {
	EntityName string                        `json:"entityName"`
	Facts      map[string]map[string]concept `json:"facts"`
}

// CompanyFacts fetches every reported concept for a company identifier.
func (c *Client) CompanyFacts(ctx context.Context, identifier string) (models.CompanyFacts, error) {
	cik, err := util.PadCIK(identifier)
	if err != nil {
		return models.CompanyFacts{}, &models.UpstreamError{Provider: provider, Op: "companyfacts", Err: err}
	}
	var resp companyFactsResponse
	u := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.baseURL, cik)
	if err := c.get(ctx, "companyfacts", u, &resp); err != nil {
		return models.CompanyFacts{}, err
	}
	return toCompanyFacts(resp), nil
}

func toCompanyFacts(resp companyFactsResponse) models.CompanyFacts {
	out := models.CompanyFacts{
		EntityName: resp.EntityName,
		Concepts:   make(map[string]models.ConceptUnits),
	}
	for _, taxonomy := range resp.Facts {
		for name, con := range taxonomy {
			units := out.Concepts[name]
			if units == nil {
				units = make(models.ConceptUnits, len(con.Units))
				out.Concepts[name] = units
			}
			for unit, points := range con.Units {
				for _, p := range points {
					fp, ok := toFactPoint(p)
					if !ok {
						continue
					}
					units[unit] = append(units[unit], fp)
				}
			}
		}
	}
	return out
}

func toFactPoint(p factPoint) (models.FactPoint, bool) {
	end, ok := util.ParseDay(p.End)
	if !ok {
		return models.FactPoint{}, false
	}
	fp := models.FactPoint{End: &end, FP: strings.ToUpper(p.FP), Value: p.Val}
	if p.FY != nil {
		fp.FY = *p.FY
	}
	if start, ok := util.ParseDay(p.Start); ok {
		fp.Start = &start
	}
	if filed, ok := util.ParseDay(p.Filed); ok {
		fp.Filed = &filed
	}
	return fp, true
}

type directoryEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// Lookup downloads the full ticker→identifier directory.
func (c *Client) Lookup(ctx context.Context) (map[string]models.CompanyIdentity, error) {
	var resp map[string]directoryEntry
	if err := c.get(ctx, "directory", c.tickersURL, &resp); err != nil {
		return nil, err
	}
	out := make(map[string]models.CompanyIdentity, len(resp))
	for _, e := range resp {
		t, ok := util.NormalizeTicker(e.Ticker)
		if !ok || e.CIK <= 0 {
			continue
		}
		cik, _ := util.PadCIK(strconv.FormatInt(e.CIK, 10))
		out[t] = models.CompanyIdentity{Identifier: cik, Name: e.Title}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, op, u string, dest interface{}) error {
	if c.userAgent == "" {
		return fmt.Errorf("sec user agent: %w", models.ErrMissingCredential)
	}
	if err := c.gate.Acquire(ctx); err != nil {
		return fmt.Errorf("sec %s: gate: %w", op, err)
	}
	if err := c.http.GetJSON(ctx, u, nil, dest); err != nil {
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

var (
	_ drepo.FactsProvider       = (*Client)(nil)
	_ drepo.IdentifierDirectory = (*Client)(nil)
)
