package models

import "time"

// Quote source labels.
const (
	QuoteSourceBulk      = "bulk"
	QuoteSourcePrevClose = "prev_close"
	QuoteSourceMock      = "mock"
)

// UniverseQuote is the resolved price for one ticker.
type UniverseQuote struct {
	Price  float64   `json:"price"`
	AsOf   time.Time `json:"asOf"`
	Source string    `json:"source"`
}
