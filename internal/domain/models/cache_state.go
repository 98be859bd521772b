package models

import "time"

// CacheStatus is the enrichment cache lifecycle state.
type CacheStatus string

const (
	StatusCold    CacheStatus = "cold"
	StatusLoading CacheStatus = "loading"
	StatusReady   CacheStatus = "ready"
	StatusError   CacheStatus = "error"
)

// CacheState is a point-in-time copy of the enrichment cache.
type CacheState struct {
	Status      CacheStatus      `json:"status"`
	Tickers     []EnrichedTicker `json:"data"`
	LastUpdated *time.Time       `json:"lastUpdated"`
	Error       string           `json:"error,omitempty"`
}
