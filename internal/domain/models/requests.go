package models

// Requests for enrichment HTTP endpoints.

type RefreshRequest struct {
	Force bool `query:"force" json:"force"`
}

type TickerRequest struct {
	Ticker string `param:"ticker" validate:"required,ticker"`
}
