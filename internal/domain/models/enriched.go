package models

import "time"

// EnrichedTicker is one fully computed universe record. Pointer fields are
// serialized as explicit null when data is unavailable; nothing is omitted.
type EnrichedTicker struct {
	Ticker      string  `json:"ticker"`
	CompanyName *string `json:"companyName"`

	LatestPrice *float64 `json:"latestPrice"`
	MarketCap   *float64 `json:"marketCap"`

	PeTtm            *float64 `json:"peTtm"`
	Ps               *float64 `json:"ps"`
	EpsTtm           *float64 `json:"epsTtm"`
	RevenueTtm       *float64 `json:"revenueTtm"`
	RevenueGrowthYoY *float64 `json:"revenueGrowthYoY"`
	OperatingMargin  *float64 `json:"operatingMargin"`

	ValueScore       int                 `json:"valueScore"`
	ScoreBreakdown   ValueScoreBreakdown `json:"scoreBreakdown"`
	FundamentalsAsOf *time.Time          `json:"fundamentalsAsOf"`
}

// ValueScoreBreakdown holds the four sub-scores, each in [0,25].
// Total is the sum clamped to [0,100] on its own; it is not derived by
// re-clamping the components.
type ValueScoreBreakdown struct {
	PE     int `json:"pe"`
	PS     int `json:"ps"`
	Growth int `json:"growth"`
	Margin int `json:"margin"`
}

// Fundamentals is the normalized output for one company.
type Fundamentals struct {
	RevenueTtm         *float64
	OperatingIncomeTtm *float64
	EpsTtm             *float64
	RevenueGrowthYoY   *float64
	OperatingMargin    *float64
	SharesOutstanding  *float64
	AsOf               *time.Time
}

// CompanyIdentity maps a ticker to its disclosure identifier (CIK).
type CompanyIdentity struct {
	Identifier string `json:"cik"`
	Name       string `json:"name"`
}
