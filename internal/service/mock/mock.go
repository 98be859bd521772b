// Package mock synthesizes deterministic market and disclosure data so the
// pipeline can run without network access or credentials.
package mock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FinScore/internal/domain/models"
	drepo "FinScore/internal/domain/repository"
	"FinScore/pkg/util"
)

// Hash folds the ticker characters into a stable 32-bit value.
func Hash(ticker string) uint32 {
	var h uint32
	for _, c := range []byte(strings.ToUpper(ticker)) {
		h = h*31 + uint32(c)
	}
	return h
}

// Price returns a stable price in [20, 500) for ticker.
func Price(ticker string) float64 {
	return 20 + float64(Hash(ticker)%48000)/100
}

// Directory resolves a fixed list of tickers to synthetic identifiers.
type Directory struct {
	tickers []string
}

func NewDirectory(tickers []string) *Directory {
	return &Directory{tickers: tickers}
}

func (d *Directory) Lookup(_ context.Context) (map[string]models.CompanyIdentity, error) {
	out := make(map[string]models.CompanyIdentity, len(d.tickers))
	for _, t := range d.tickers {
		out[strings.ToUpper(t)] = Identity(t)
	}
	return out, nil
}

// Identity is the synthetic identity used for ticker in mock mode.
func Identity(ticker string) models.CompanyIdentity {
	cik, _ := util.PadCIK(fmt.Sprint(Hash(ticker) % 10_000_000))
	return models.CompanyIdentity{Identifier: cik, Name: strings.ToUpper(ticker) + " Holdings"}
}

// Facts generates eight quarters and two fiscal years of disclosures per
// identifier, anchored on the most recent calendar quarter end before now.
type Facts struct {
	now func() time.Time
}

func NewFacts() *Facts { return &Facts{now: time.Now} }

func (f *Facts) CompanyFacts(_ context.Context, identifier string) (models.CompanyFacts, error) {
	h := Hash(identifier)
	// quarterly revenue between 0.5B and 20B, growing 0-15% a year
	baseRev := 5e8 + float64(h%195)*1e8
	growth := float64(h%16) / 100
	margin := float64(int(h%45)-5) / 100
	shares := 1e8 + float64(h%9900)*1e6

	next := quarterStart(f.now())
	anchor := next.AddDate(0, 0, -1)
	rev := make([]models.FactPoint, 0, 10)
	opInc := make([]models.FactPoint, 0, 10)
	eps := make([]models.FactPoint, 0, 10)

	quarterly := func(i int) float64 {
		// i = 0 is the latest quarter
		years := float64(i) / 4
		return baseRev / (1 + growth*years)
	}
	for i := 0; i < 8; i++ {
		end := next.AddDate(0, -3*i, 0).AddDate(0, 0, -1)
		start := next.AddDate(0, -3*(i+1), 0)
		fy, fp := fiscalTag(end)
		r := quarterly(i)
		o := r * margin
		rev = append(rev, point(start, end, fy, fp, r))
		opInc = append(opInc, point(start, end, fy, fp, o))
		eps = append(eps, point(start, end, fy, fp, round2(o*0.8/shares)))
	}
	for y := 0; y < 2; y++ {
		end := time.Date(anchor.Year()-1-y, 12, 31, 0, 0, 0, 0, time.UTC)
		start := time.Date(end.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		r := 0.0
		for q := 0; q < 4; q++ {
			r += quarterly(4*(y+1) + q)
		}
		o := r * margin
		rev = append(rev, point(start, end, end.Year(), models.FiscalFY, r))
		opInc = append(opInc, point(start, end, end.Year(), models.FiscalFY, o))
		eps = append(eps, point(start, end, end.Year(), models.FiscalFY, round2(o*0.8/shares)))
	}
	sharesEnd := anchor.AddDate(0, 1, 0)
	return models.CompanyFacts{
		EntityName: "Synthetic " + identifier,
		Concepts: map[string]models.ConceptUnits{
			"Revenues":                           {"USD": rev},
			"OperatingIncomeLoss":                {"USD": opInc},
			"EarningsPerShareDiluted":            {"USD/shares": eps},
			"EntityCommonStockSharesOutstanding": {"shares": {{End: &sharesEnd, Value: shares}}},
		},
	}, nil
}

// quarterStart returns the first day of the calendar quarter containing now.
func quarterStart(now time.Time) time.Time {
	y, m, _ := now.UTC().Date()
	return time.Date(y, time.Month(((int(m)-1)/3)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

func fiscalTag(end time.Time) (int, string) {
	q := (int(end.Month())-1)/3 + 1
	return end.Year(), fmt.Sprintf("Q%d", q)
}

func point(start, end time.Time, fy int, fp string, v float64) models.FactPoint {
	s, e := start, end
	return models.FactPoint{Start: &s, End: &e, FY: fy, FP: fp, Value: v}
}

func round2(v float64) float64 {
	return float64(int64(v*100)) / 100
}

var (
	_ drepo.IdentifierDirectory = (*Directory)(nil)
	_ drepo.FactsProvider       = (*Facts)(nil)
)
