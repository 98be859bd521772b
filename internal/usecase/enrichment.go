package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"FinScore/internal/domain/models"
	drepo "FinScore/internal/domain/repository"
	"FinScore/internal/services/scoring"
	applogger "FinScore/pkg/logger"
	"FinScore/pkg/util"
)

// Enricher owns the enrichment cache: the single place records are built and
// the only writer of the cached collection.
type Enricher struct {
	quotes    *QuoteService
	funds     *FundamentalsService
	publisher drepo.SnapshotPublisher
	metrics   drepo.Metrics
	l         *applogger.Logger
	now       func() time.Time

	mu    sync.RWMutex
	state models.CacheState
	run   *refreshRun
}

type refreshRun struct {
	id    string
	force bool
	done  chan struct{}
	err   error
}

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// NewEnricher creates a cold cache. publisher and metrics may be nil.
func NewEnricher(quotes *QuoteService, funds *FundamentalsService, publisher drepo.SnapshotPublisher, metrics drepo.Metrics, l *applogger.Logger) *Enricher {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	e := &Enricher{
		quotes:    quotes,
		funds:     funds,
		publisher: publisher,
		metrics:   metrics,
		l:         l.With(applogger.String("component", "enricher")),
		now:       time.Now,
		state:     models.CacheState{Status: models.StatusCold, Tickers: []models.EnrichedTicker{}},
	}
	metrics.RecordCacheStatus(string(models.StatusCold))
	return e
}

// Snapshot returns the current state without waiting for a running refresh.
// The returned slice is shared and must not be modified.
func (e *Enricher) Snapshot() models.CacheState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Lookup returns the cached record for ticker, if any.
func (e *Enricher) Lookup(ticker string) (models.EnrichedTicker, bool) {
	s := e.Snapshot()
	for _, t := range s.Tickers {
		if t.Ticker == ticker {
			return t, true
		}
	}
	return models.EnrichedTicker{}, false
}

// TriggerRefresh starts a refresh unless the cache is already ready and force
// is false. A refresh in flight is joined regardless of force. The returned
// channel closes when the joined or started run finishes.
func (e *Enricher) TriggerRefresh(force bool) <-chan struct{} {
	if r := e.trigger(force, false); r != nil {
		return r.done
	}
	return closedDone
}

// Refresh triggers and waits for the outcome. A no-op trigger returns nil.
func (e *Enricher) Refresh(ctx context.Context, force bool) error {
	return e.wait(ctx, e.trigger(force, false))
}

// RefreshScheduled rebuilds the cache even when it is ready. Unless force is
// set, quotes still inside their TTL are reused.
func (e *Enricher) RefreshScheduled(ctx context.Context, force bool) error {
	return e.wait(ctx, e.trigger(force, true))
}

func (e *Enricher) wait(ctx context.Context, r *refreshRun) error {
	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Enricher) trigger(force, rebuild bool) *refreshRun {
	e.mu.Lock()
	if e.run != nil {
		r := e.run
		e.mu.Unlock()
		return r
	}
	if e.state.Status == models.StatusReady && !force && !rebuild {
		e.mu.Unlock()
		return nil
	}
	r := &refreshRun{id: uuid.NewString(), force: force, done: make(chan struct{})}
	e.run = r
	e.state.Status = models.StatusLoading
	e.state.Error = ""
	e.mu.Unlock()

	e.metrics.RecordCacheStatus(string(models.StatusLoading))
	// runs detached; callers only ever wait on done
	go e.execute(r)
	return r
}

func (e *Enricher) execute(r *refreshRun) {
	ctx := context.Background()
	start := e.now()
	l := e.l.With(applogger.String("run_id", r.id))
	l.Info("refresh started", applogger.Bool("force", r.force))

	tickers, err := e.build(ctx, l, r.force)

	e.mu.Lock()
	if err != nil {
		e.state.Status = models.StatusError
		e.state.Error = err.Error()
	} else {
		ts := e.now()
		e.state = models.CacheState{Status: models.StatusReady, Tickers: tickers, LastUpdated: &ts}
	}
	status := e.state.Status
	e.run = nil
	r.err = err
	e.mu.Unlock()
	close(r.done)

	elapsed := e.now().Sub(start)
	e.metrics.RecordCacheStatus(string(status))
	if err != nil {
		e.metrics.RecordRefresh("error", elapsed.Seconds())
		l.Error("refresh failed", applogger.Error(err), applogger.Duration("elapsed", elapsed))
		return
	}
	e.metrics.RecordRefresh("ok", elapsed.Seconds())
	for _, t := range tickers {
		e.metrics.RecordValueScore(t.Ticker, t.ValueScore)
	}
	l.Info("refresh completed", applogger.Int("tickers", len(tickers)), applogger.Duration("elapsed", elapsed))

	if e.publisher != nil {
		if perr := e.publisher.PublishSnapshot(ctx, r.id, tickers); perr != nil {
			l.Warn("snapshot publish failed", applogger.Error(perr))
		}
	}
}

func (e *Enricher) build(ctx context.Context, l *applogger.Logger, force bool) ([]models.EnrichedTicker, error) {
	e.funds.Identifiers().LoadSeed(ctx)

	universe := e.quotes.Universe()
	quotes, err := e.quotes.GetQuotes(ctx, force)
	if err != nil {
		return nil, fmt.Errorf("quotes: %w", err)
	}
	if len(universe) > 0 && len(quotes) == 0 {
		return nil, models.ErrNoQuotes
	}
	l.Debug("quotes resolved", applogger.Int("count", len(quotes)), applogger.Int("universe", len(universe)))

	out := make([]models.EnrichedTicker, 0, len(universe))
	for _, t := range universe {
		var price *float64
		if q, ok := quotes[t]; ok {
			p := q.Price
			price = &p
		}
		rec, err := e.enrichTicker(ctx, l, t, price)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// enrichTicker always yields a record. The error is reserved for missing
// credentials, which abort the whole run.
func (e *Enricher) enrichTicker(ctx context.Context, l *applogger.Logger, ticker string, price *float64) (models.EnrichedTicker, error) {
	id, f, err := e.funds.Fetch(ctx, ticker)
	if err != nil {
		if errors.Is(err, models.ErrMissingCredential) {
			return models.EnrichedTicker{}, err
		}
		l.Warn("fundamentals unavailable", applogger.String("ticker", ticker), applogger.Error(err))
	}
	return Assemble(ticker, price, id.Name, f), nil
}

// EnrichOne builds a record for any ticker without touching the cache.
func (e *Enricher) EnrichOne(ctx context.Context, ticker string) (models.EnrichedTicker, error) {
	t, ok := util.NormalizeTicker(ticker)
	if !ok {
		return models.EnrichedTicker{}, fmt.Errorf("%q: %w", ticker, models.ErrInvalidTicker)
	}

	var price *float64
	q, found, err := e.quotes.Quote(ctx, t)
	switch {
	case errors.Is(err, models.ErrMissingCredential):
		return models.EnrichedTicker{}, err
	case err != nil:
		e.l.Warn("on-demand quote failed", applogger.String("ticker", t), applogger.Error(err))
	case found:
		price = &q.Price
	}

	id, f, err := e.funds.Fetch(ctx, t)
	if errors.Is(err, models.ErrMissingCredential) {
		return models.EnrichedTicker{}, err
	}
	if err != nil && !errors.Is(err, models.ErrIdentifierUnresolved) {
		e.l.Warn("on-demand fundamentals failed", applogger.String("ticker", t), applogger.Error(err))
	}
	if price == nil && id.Identifier == "" {
		return models.EnrichedTicker{}, fmt.Errorf("%s: %w", t, models.ErrTickerNotFound)
	}
	return Assemble(t, price, id.Name, f), nil
}

// Assemble derives the price-dependent ratios and the score.
func Assemble(ticker string, price *float64, name string, f models.Fundamentals) models.EnrichedTicker {
	rec := models.EnrichedTicker{
		Ticker:           ticker,
		LatestPrice:      price,
		EpsTtm:           f.EpsTtm,
		RevenueTtm:       f.RevenueTtm,
		RevenueGrowthYoY: f.RevenueGrowthYoY,
		OperatingMargin:  f.OperatingMargin,
		FundamentalsAsOf: f.AsOf,
	}
	if name != "" {
		rec.CompanyName = &name
	}
	if price != nil {
		// negative P/E is reported for loss makers; it scores 0
		if f.EpsTtm != nil && *f.EpsTtm != 0 {
			pe := *price / *f.EpsTtm
			rec.PeTtm = &pe
		}
		if f.SharesOutstanding != nil && *f.SharesOutstanding > 0 {
			mc := *price * *f.SharesOutstanding
			rec.MarketCap = &mc
		}
	}
	if rec.MarketCap != nil && f.RevenueTtm != nil && *f.RevenueTtm > 0 {
		ps := *rec.MarketCap / *f.RevenueTtm
		rec.Ps = &ps
	}
	rec.ScoreBreakdown, rec.ValueScore = scoring.Score(rec.PeTtm, rec.Ps, rec.RevenueGrowthYoY, rec.OperatingMargin)
	return rec
}
