package di

import (
	"context"
	"fmt"
	"time"

	"FinScore/internal/domain/repository"
	"FinScore/internal/handler/api"
	internalrepo "FinScore/internal/repository"
	"FinScore/internal/service/cache"
	"FinScore/internal/service/mock"
	"FinScore/internal/service/polygon"
	"FinScore/internal/service/ratelimit"
	"FinScore/internal/service/sec"
	"FinScore/internal/usecase"
	"FinScore/pkg/config"
	xhttp "FinScore/pkg/http"
	pkgkafka "FinScore/pkg/kafka"
	applogger "FinScore/pkg/logger"
	"FinScore/pkg/metrics"
	"FinScore/pkg/server"
)

// ProvideLogger builds the process logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return repository.NopMetrics{}
	}
	return metrics.New()
}

// ProvideGate creates the single fetch gate shared by every quota-limited client.
func ProvideGate(cfg *config.Config, m repository.Metrics, l *applogger.Logger) *ratelimit.Gate {
	return ratelimit.NewGate(cfg.Gate.Interval, m, l)
}

// ProvideDurableCache selects the file or Redis backend for the quote map.
func ProvideDurableCache(cfg *config.Config, l *applogger.Logger) (cache.BytesCache, func(), error) {
	if cfg.Cache.Backend != config.CacheBackendRedis {
		return cache.NewFileCache(cfg.Cache.FilePath), func() {}, nil
	}
	rc := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	cleanup := func() {
		if err := rc.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}
	return rc, cleanup, nil
}

// ProvideQuoteService picks the mock or live quote strategy.
func ProvideQuoteService(cfg *config.Config, gate *ratelimit.Gate, durable cache.BytesCache, m repository.Metrics, l *applogger.Logger) *usecase.QuoteService {
	opts := usecase.QuoteOptions{
		TTL:          cfg.Quotes.TTL,
		CacheName:    cfg.Quotes.CacheName,
		BulkAttempts: cfg.Polygon.BulkAttempts,
	}
	if cfg.IsMock() {
		return usecase.NewMockQuoteService(cfg.Data.Universe, opts, l)
	}
	client := polygon.New(cfg.Polygon.APIKey, cfg.Polygon.BaseURL, cfg.Polygon.Timeout, gate, m)
	return usecase.NewQuoteService(cfg.Data.Universe, client, durable, opts, l)
}

// ProvideSECClient creates the EDGAR client used in real mode.
func ProvideSECClient(cfg *config.Config, gate *ratelimit.Gate, m repository.Metrics) *sec.Client {
	return sec.New(cfg.SEC.UserAgent, cfg.SEC.BaseURL, cfg.SEC.TickersURL, cfg.SEC.Timeout, gate, m)
}

func ProvideFactsProvider(cfg *config.Config, client *sec.Client) repository.FactsProvider {
	if cfg.IsMock() {
		return mock.NewFacts()
	}
	return client
}

func ProvideIdentifierDirectory(cfg *config.Config, client *sec.Client) repository.IdentifierDirectory {
	if cfg.IsMock() {
		return mock.NewDirectory(cfg.Data.Universe)
	}
	return client
}

func ProvideIdentifierSeed(cfg *config.Config) repository.IdentifierSeed {
	return internalrepo.NewSeedFile(cfg.Data.SeedPath)
}

func ProvideIdentifierResolver(seed repository.IdentifierSeed, dir repository.IdentifierDirectory, l *applogger.Logger) *usecase.IdentifierResolver {
	return usecase.NewIdentifierResolver(seed, dir, l)
}

func ProvideFundamentalsService(ids *usecase.IdentifierResolver, facts repository.FactsProvider) *usecase.FundamentalsService {
	return usecase.NewFundamentalsService(ids, facts)
}

// ProvideSnapshotPublisher creates a Kafka publisher when enabled.
func ProvideSnapshotPublisher(cfg *config.Config, l *applogger.Logger) (repository.SnapshotPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopSnapshotPublisher{}, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(cfg.Kafka.Topic,
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaSnapshotPublisher(producer)
	cleanup := func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	return pub, cleanup, nil
}

func ProvideEnricher(qs *usecase.QuoteService, fs *usecase.FundamentalsService, pub repository.SnapshotPublisher, m repository.Metrics, l *applogger.Logger) *usecase.Enricher {
	return usecase.NewEnricher(qs, fs, pub, m, l)
}

func ProvideScheduler(cfg *config.Config, enr *usecase.Enricher, l *applogger.Logger) (*usecase.RefreshScheduler, error) {
	return usecase.NewRefreshScheduler(enr, cfg.Refresh.Schedule, cfg.Refresh.ForceScheduled, l)
}

func ProvideStocksHandler(cfg *config.Config, enr *usecase.Enricher, l *applogger.Logger) *api.StocksEchoHandler {
	return api.NewStocksEchoHandler(l, enr, ratelimit.New(), cfg.API.RefreshBurst, cfg.API.RefreshPerSecond)
}

func ProvideHTTPServer(cfg *config.Config, h *api.StocksEchoHandler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, enr *usecase.Enricher, sched *usecase.RefreshScheduler, srv *xhttp.Server, l *applogger.Logger) *server.App {
	return server.New(enr, sched, srv, cfg.Refresh.PreloadOnStart, l)
}
