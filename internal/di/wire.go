//go:build wireinject
// +build wireinject

package di

import (
	"FinScore/internal/usecase"
	"FinScore/pkg/config"
	"FinScore/pkg/server"

	"github.com/google/wire"
)

var pipelineSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideGate,
	ProvideDurableCache,

	// Upstreams: variant chosen by data mode
	ProvideQuoteService,
	ProvideSECClient,
	ProvideFactsProvider,
	ProvideIdentifierDirectory,
	ProvideIdentifierSeed,

	// Use cases
	ProvideIdentifierResolver,
	ProvideFundamentalsService,
	ProvideSnapshotPublisher,
	ProvideEnricher,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		pipelineSet,
		ProvideScheduler,
		ProvideStocksHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil, nil
}

// InitializeEnricher wires only the enrichment pipeline, for one-shot commands.
func InitializeEnricher(cfg *config.Config) (*usecase.Enricher, func(), error) {
	wire.Build(pipelineSet)
	return &usecase.Enricher{}, nil, nil
}
