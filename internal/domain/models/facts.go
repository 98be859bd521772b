package models

import (
	"time"

	"FinScore/pkg/util"
)

// Fiscal period tags.
const (
	FiscalQ1 = "Q1"
	FiscalQ2 = "Q2"
	FiscalQ3 = "Q3"
	FiscalQ4 = "Q4"
	FiscalFY = "FY"
)

// FactPoint is one reported value for a concept.
type FactPoint struct {
	Start *time.Time
	End   *time.Time
	Filed *time.Time
	FP    string
	FY    int
	Value float64
}

// IsQuarter reports whether the point is tagged as a standalone quarter.
func (p FactPoint) IsQuarter() bool {
	switch p.FP {
	case FiscalQ1, FiscalQ2, FiscalQ3, FiscalQ4:
		return true
	}
	return false
}

// DurationDays returns the period length, or false when no start date is known.
func (p FactPoint) DurationDays() (int, bool) {
	if p.Start == nil || p.End == nil {
		return 0, false
	}
	return util.DaysBetween(*p.Start, *p.End), true
}

// ConceptUnits maps unit (USD, USD/shares, shares) to its points.
type ConceptUnits map[string][]FactPoint

// CompanyFacts maps concept name to its unit series. Concepts from every
// taxonomy (us-gaap, dei) share one namespace.
type CompanyFacts struct {
	EntityName string
	Concepts   map[string]ConceptUnits
}
