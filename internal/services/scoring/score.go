// Package scoring computes the 0-100 value score from valuation ratios.
package scoring

import (
	"math"

	"FinScore/internal/domain/models"
)

const (
	maxComponent = 25
	maxTotal     = 100
	// P/S assumed when revenue is unknown
	defaultPS = 10
)

// PeScore rewards low positive P/E. Non-positive or unknown P/E scores 0.
func PeScore(pe *float64) int {
	if pe == nil || *pe <= 0 {
		return 0
	}
	return component(25 * (1 - (*pe-10)/30))
}

// PsScore rewards low P/S.
func PsScore(ps *float64) int {
	v := float64(defaultPS)
	if ps != nil {
		v = *ps
	}
	return component(25 * (1 - (v-1)/9))
}

// GrowthScore maps 0-20% revenue growth onto 0-25.
func GrowthScore(g *float64) int {
	if g == nil {
		return 0
	}
	return component(25 * math.Max(0, *g) / 20)
}

// MarginScore maps 0-25% operating margin onto 0-25.
func MarginScore(m *float64) int {
	if m == nil {
		return 0
	}
	return component(25 * math.Max(0, *m) / 25)
}

// Score returns the breakdown and the total, clamped independently.
func Score(pe, ps, growth, margin *float64) (models.ValueScoreBreakdown, int) {
	b := models.ValueScoreBreakdown{
		PE:     PeScore(pe),
		PS:     PsScore(ps),
		Growth: GrowthScore(growth),
		Margin: MarginScore(margin),
	}
	return b, clamp(b.PE+b.PS+b.Growth+b.Margin, 0, maxTotal)
}

func component(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	// clamp before converting; huge ratios would overflow int
	v = math.Min(math.Max(v, 0), maxComponent)
	return int(math.Round(v))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
