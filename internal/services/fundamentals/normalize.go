// Package fundamentals turns raw XBRL fact series into trailing-twelve-month metrics.
package fundamentals

import (
	"math"
	"sort"
	"time"

	"FinScore/internal/domain/models"
	"FinScore/pkg/util"
)

const (
	UnitUSD       = "USD"
	UnitPerShare  = "USD/shares"
	UnitShares    = "shares"
	minQuarterLen = 45
	maxQuarterLen = 120
	minAnnualLen  = 300
	maxAnnualLen  = 400
	// four quarter ends spanning more than this are not one contiguous year
	maxTTMSpanDays = 430
)

// Concept lists in priority order; the first one carrying data wins.
var (
	RevenueConcepts = []string{
		"Revenues",
		"RevenueFromContractWithCustomerExcludingAssessedTax",
		"RevenueFromContractWithCustomerIncludingAssessedTax",
		"SalesRevenueNet",
	}
	OperatingIncomeConcepts = []string{"OperatingIncomeLoss"}
	EPSConcepts             = []string{"EarningsPerShareDiluted", "EarningsPerShareBasic"}
	SharesConcepts          = []string{
		"EntityCommonStockSharesOutstanding",
		"CommonStockSharesOutstanding",
		"WeightedAverageNumberOfDilutedSharesOutstanding",
	}
)

// Series picks the first non-empty series over concepts × units.
func Series(facts models.CompanyFacts, concepts []string, units ...string) []models.FactPoint {
	for _, c := range concepts {
		cu, ok := facts.Concepts[c]
		if !ok {
			continue
		}
		for _, u := range units {
			if pts := cu[u]; len(pts) > 0 {
				return pts
			}
		}
	}
	return nil
}

// Normalize computes every fundamentals field from a company's facts.
// Fields that cannot be derived are left nil.
func Normalize(facts models.CompanyFacts) models.Fundamentals {
	var (
		out  models.Fundamentals
		asOf time.Time
	)
	// asOf is the newest period end in any series that yielded a value
	use := func(v float64, series []models.FactPoint) *float64 {
		if end := latestEnd(series); end.After(asOf) {
			asOf = end
		}
		return &v
	}

	revSeries := Series(facts, RevenueConcepts, UnitUSD)
	if v, _, ok := TTM(revSeries); ok {
		out.RevenueTtm = use(v, revSeries)
	}
	opSeries := Series(facts, OperatingIncomeConcepts, UnitUSD)
	if v, _, ok := TTM(opSeries); ok {
		out.OperatingIncomeTtm = use(v, opSeries)
	}
	epsSeries := Series(facts, EPSConcepts, UnitPerShare)
	if v, _, ok := TTM(epsSeries); ok {
		out.EpsTtm = use(v, epsSeries)
	}
	sharesSeries := Series(facts, SharesConcepts, UnitShares)
	if v, _, ok := Latest(sharesSeries); ok {
		out.SharesOutstanding = use(v, sharesSeries)
	}
	if g, _, ok := GrowthYoY(revSeries); ok {
		out.RevenueGrowthYoY = use(g, revSeries)
	}
	out.OperatingMargin = Margin(out.OperatingIncomeTtm, out.RevenueTtm)

	if !asOf.IsZero() {
		out.AsOf = &asOf
	}
	return out
}

func latestEnd(points []models.FactPoint) time.Time {
	var t time.Time
	for _, p := range points {
		if p.End != nil && p.End.After(t) {
			t = *p.End
		}
	}
	return t
}

// TTM sums the four most recent standalone quarters, falling back to the most
// recent fiscal-year value when fewer than four qualify. The returned time is
// the end date of the newest point used.
func TTM(points []models.FactPoint) (float64, time.Time, bool) {
	q := quarters(points)
	if len(q) >= 4 {
		newest, fourth := *q[0].End, *q[3].End
		if util.DaysBetween(fourth, newest) > maxTTMSpanDays {
			return 0, time.Time{}, false
		}
		sum := 0.0
		for _, p := range q[:4] {
			sum += p.Value
		}
		return sum, newest, true
	}
	fy := annuals(points)
	if len(fy) == 0 {
		return 0, time.Time{}, false
	}
	return fy[0].Value, *fy[0].End, true
}

// GrowthYoY compares the two most recent fiscal years, as a percentage.
func GrowthYoY(points []models.FactPoint) (float64, time.Time, bool) {
	fy := annuals(points)
	if len(fy) < 2 || fy[1].Value == 0 {
		return 0, time.Time{}, false
	}
	latest, prior := fy[0].Value, fy[1].Value
	return (latest - prior) / math.Abs(prior) * 100, *fy[0].End, true
}

// Margin returns operating income over revenue, as a percentage.
func Margin(opInc, rev *float64) *float64 {
	if opInc == nil || rev == nil || *rev == 0 {
		return nil
	}
	m := *opInc / *rev * 100
	return &m
}

// Latest returns the value with the greatest end date.
func Latest(points []models.FactPoint) (float64, time.Time, bool) {
	var (
		best  *models.FactPoint
		found bool
	)
	for i := range points {
		p := &points[i]
		if p.End == nil {
			continue
		}
		if !found || p.End.After(*best.End) || (p.End.Equal(*best.End) && filedAfter(*p, *best)) {
			best, found = p, true
		}
	}
	if !found {
		return 0, time.Time{}, false
	}
	return best.Value, *best.End, true
}

type periodKey struct {
	fy  int
	fp  string
	end time.Time
}

// quarters returns deduplicated standalone quarters, newest first, one per end date.
func quarters(points []models.FactPoint) []models.FactPoint {
	byKey := make(map[periodKey]models.FactPoint)
	for _, p := range points {
		if !p.IsQuarter() || p.End == nil {
			continue
		}
		if d, ok := p.DurationDays(); ok && (d < minQuarterLen || d > maxQuarterLen) {
			continue
		}
		k := periodKey{fy: p.FY, fp: p.FP, end: *p.End}
		if prev, ok := byKey[k]; ok && !filedAfter(p, prev) {
			continue
		}
		byKey[k] = p
	}
	return distinctEnds(byKey)
}

// annuals returns fiscal-year points of roughly one year, newest first, one per end date.
func annuals(points []models.FactPoint) []models.FactPoint {
	byKey := make(map[periodKey]models.FactPoint)
	for _, p := range points {
		if p.FP != models.FiscalFY || p.End == nil {
			continue
		}
		if d, ok := p.DurationDays(); ok && (d < minAnnualLen || d > maxAnnualLen) {
			continue
		}
		k := periodKey{fy: p.FY, fp: p.FP, end: *p.End}
		if prev, ok := byKey[k]; ok && !filedAfter(p, prev) {
			continue
		}
		byKey[k] = p
	}
	return distinctEnds(byKey)
}

func distinctEnds(byKey map[periodKey]models.FactPoint) []models.FactPoint {
	pts := make([]models.FactPoint, 0, len(byKey))
	for _, p := range byKey {
		pts = append(pts, p)
	}
	sort.Slice(pts, func(i, j int) bool {
		if !pts[i].End.Equal(*pts[j].End) {
			return pts[i].End.After(*pts[j].End)
		}
		if filedAfter(pts[i], pts[j]) != filedAfter(pts[j], pts[i]) {
			return filedAfter(pts[i], pts[j])
		}
		if pts[i].FY != pts[j].FY {
			return pts[i].FY > pts[j].FY
		}
		return pts[i].FP < pts[j].FP
	})
	out := pts[:0]
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].End.Equal(*p.End) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func filedAfter(a, b models.FactPoint) bool {
	switch {
	case a.Filed == nil:
		return false
	case b.Filed == nil:
		return true
	default:
		return a.Filed.After(*b.Filed)
	}
}
