package repository

import (
	"context"
	"time"

	"FinScore/internal/domain/models"
)

// QuoteProvider is a quota-limited price source.
type QuoteProvider interface {
	// BulkQuotesForDate returns closing prices for every ticker traded on date.
	BulkQuotesForDate(ctx context.Context, date time.Time) (map[string]float64, error)
	// PreviousClose returns the most recent closing price for one ticker.
	PreviousClose(ctx context.Context, ticker string) (float64, error)
}

// FactsProvider returns raw per-concept disclosure series for a company.
type FactsProvider interface {
	CompanyFacts(ctx context.Context, identifier string) (models.CompanyFacts, error)
}

// IdentifierSeed is the static ticker -> identity lookup.
type IdentifierSeed interface {
	Load(ctx context.Context) (map[string]models.CompanyIdentity, error)
}

// IdentifierDirectory is the live ticker -> identity directory used when the seed has no entry.
type IdentifierDirectory interface {
	Lookup(ctx context.Context) (map[string]models.CompanyIdentity, error)
}

// Gate throttles outbound calls to quota-limited upstreams.
type Gate interface {
	Acquire(ctx context.Context) error
}

// SnapshotPublisher forwards completed refreshes to downstream consumers.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, runID string, tickers []models.EnrichedTicker) error
	Close() error
}

type Metrics interface {
	RecordUpstreamCall(provider, op, result string)
	RecordGateWait(seconds float64)
	RecordRefresh(result string, seconds float64)
	RecordCacheStatus(status string)
	RecordValueScore(ticker string, score int)
}
