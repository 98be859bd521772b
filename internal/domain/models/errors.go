package models

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned when an upstream needs a key or user agent that is not configured.
	ErrMissingCredential = errors.New("missing upstream credential")
	// ErrInvalidTicker is returned before any upstream call for a malformed symbol.
	ErrInvalidTicker = errors.New("invalid ticker symbol")
	// ErrIdentifierUnresolved marks a ticker without a disclosure identifier.
	ErrIdentifierUnresolved = errors.New("identifier unresolved")
	// ErrNoQuotes means no price could be obtained for any universe ticker.
	ErrNoQuotes = errors.New("no quotes available for universe")
	// ErrTickerNotFound is returned by on-demand enrichment when nothing is known about a ticker.
	ErrTickerNotFound = errors.New("ticker not found")
)

// UpstreamError describes a failed call to an external provider.
type UpstreamError struct {
	Provider string
	Op       string
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsRateLimited reports whether the upstream signalled quota exhaustion.
func (e *UpstreamError) IsRateLimited() bool { return e.Status == 429 }
