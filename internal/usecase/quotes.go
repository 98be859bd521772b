package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"FinScore/internal/domain/models"
	drepo "FinScore/internal/domain/repository"
	"FinScore/internal/service/cache"
	"FinScore/internal/service/mock"
	applogger "FinScore/pkg/logger"
	"FinScore/pkg/util"
)

const memQuotesKey = "universe"

// QuoteOptions tunes the quote service. Zero values take defaults.
type QuoteOptions struct {
	TTL          time.Duration
	CacheName    string
	BulkAttempts int
	Now          func() time.Time
}

func (o *QuoteOptions) setDefaults() {
	if o.TTL <= 0 {
		o.TTL = 10 * time.Minute
	}
	if o.CacheName == "" {
		o.CacheName = "universe-quotes"
	}
	if o.BulkAttempts <= 0 {
		o.BulkAttempts = 7
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// QuoteService resolves one price per universe ticker, caching the whole map.
// Concurrent callers share a single in-flight fetch.
type QuoteService struct {
	universe []string
	opts     QuoteOptions
	provider drepo.QuoteProvider
	durable  cache.BytesCache
	mem      *cache.TTLCache[map[string]models.UniverseQuote]
	l        *applogger.Logger

	fetchAll func(ctx context.Context) (map[string]models.UniverseQuote, error)
	fetchOne func(ctx context.Context, ticker string) (models.UniverseQuote, bool, error)

	mu      sync.Mutex
	pending *quoteRun
}

type quoteRun struct {
	done   chan struct{}
	quotes map[string]models.UniverseQuote
	err    error
}

// durableQuotes is the on-disk form; FetchedAt bounds in-memory reuse.
type durableQuotes struct {
	FetchedAt time.Time                       `json:"fetchedAt"`
	Quotes    map[string]models.UniverseQuote `json:"quotes"`
}

// NewQuoteService builds the live variant: bulk grouped bars, then per-ticker
// previous close. durable may be nil.
func NewQuoteService(universe []string, provider drepo.QuoteProvider, durable cache.BytesCache, opts QuoteOptions, l *applogger.Logger) *QuoteService {
	s := newQuoteService(universe, opts, l)
	s.provider = provider
	s.durable = durable
	s.fetchAll = s.fetchLive
	s.fetchOne = s.fetchLiveOne
	return s
}

// NewMockQuoteService builds the offline variant. Prices depend only on the
// ticker, so nothing is persisted.
func NewMockQuoteService(universe []string, opts QuoteOptions, l *applogger.Logger) *QuoteService {
	s := newQuoteService(universe, opts, l)
	s.fetchAll = s.fetchMock
	s.fetchOne = s.fetchMockOne
	return s
}

func newQuoteService(universe []string, opts QuoteOptions, l *applogger.Logger) *QuoteService {
	opts.setDefaults()
	if l == nil {
		l = applogger.Nop()
	}
	u := make([]string, 0, len(universe))
	for _, t := range universe {
		u = append(u, strings.ToUpper(t))
	}
	return &QuoteService{
		universe: u,
		opts:     opts,
		mem:      cache.NewTTLCacheWithClock[map[string]models.UniverseQuote](opts.Now),
		l:        l.With(applogger.String("component", "quotes")),
	}
}

// Universe returns the configured tickers in order.
func (s *QuoteService) Universe() []string {
	return append([]string(nil), s.universe...)
}

// GetQuotes returns ticker -> quote for the universe. Tickers without any
// price are absent. Only configuration errors are returned.
func (s *QuoteService) GetQuotes(ctx context.Context, force bool) (map[string]models.UniverseQuote, error) {
	if !force {
		if q, ok := s.mem.Get(memQuotesKey); ok {
			return q, nil
		}
	}

	s.mu.Lock()
	r := s.pending
	if r == nil {
		r = &quoteRun{done: make(chan struct{})}
		s.pending = r
		go s.run(context.WithoutCancel(ctx), r, force)
	}
	s.mu.Unlock()

	select {
	case <-r.done:
		return r.quotes, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Quote returns a single price. Universe tickers are served from the cached
// map when present; anything else goes upstream.
func (s *QuoteService) Quote(ctx context.Context, ticker string) (models.UniverseQuote, bool, error) {
	if q, ok := s.mem.Get(memQuotesKey); ok {
		if uq, ok := q[ticker]; ok {
			return uq, true, nil
		}
	}
	return s.fetchOne(ctx, ticker)
}

func (s *QuoteService) run(ctx context.Context, r *quoteRun, force bool) {
	defer func() {
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
		close(r.done)
	}()

	if !force {
		if q, ok := s.loadDurable(); ok {
			r.quotes = q
			return
		}
	}

	quotes, err := s.fetchAll(ctx)
	if err != nil {
		r.err = err
		return
	}
	r.quotes = quotes
	if len(quotes) == 0 {
		return
	}
	fetchedAt := s.opts.Now()
	s.mem.SetUntil(memQuotesKey, quotes, fetchedAt.Add(s.opts.TTL))
	s.storeDurable(fetchedAt, quotes)
}

func (s *QuoteService) loadDurable() (map[string]models.UniverseQuote, bool) {
	if s.durable == nil {
		return nil, false
	}
	b, ok, err := s.durable.GetBytes(s.opts.CacheName)
	if err != nil {
		s.l.Warn("durable quote cache read failed", applogger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var dq durableQuotes
	if err := json.Unmarshal(b, &dq); err != nil {
		s.l.Warn("durable quote cache corrupt", applogger.Error(err))
		return nil, false
	}
	exp := dq.FetchedAt.Add(s.opts.TTL)
	if !s.opts.Now().Before(exp) {
		return nil, false
	}
	out := make(map[string]models.UniverseQuote, len(s.universe))
	for _, t := range s.universe {
		if q, ok := dq.Quotes[t]; ok && usablePrice(q.Price) {
			out[t] = q
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	s.mem.SetUntil(memQuotesKey, out, exp)
	s.l.Debug("quotes restored from durable cache", applogger.Int("count", len(out)))
	return out, true
}

func (s *QuoteService) storeDurable(fetchedAt time.Time, quotes map[string]models.UniverseQuote) {
	if s.durable == nil {
		return
	}
	b, err := json.Marshal(durableQuotes{FetchedAt: fetchedAt, Quotes: quotes})
	if err != nil {
		s.l.Warn("encode quotes failed", applogger.Error(err))
		return
	}
	if err := s.durable.SetBytes(s.opts.CacheName, b, s.opts.TTL); err != nil {
		s.l.Warn("durable quote cache write failed", applogger.Error(err))
	}
}

func (s *QuoteService) fetchLive(ctx context.Context) (map[string]models.UniverseQuote, error) {
	out := make(map[string]models.UniverseQuote, len(s.universe))

	for _, d := range util.RecentWeekdays(s.opts.Now(), s.opts.BulkAttempts) {
		prices, err := s.provider.BulkQuotesForDate(ctx, d)
		if err != nil {
			if errors.Is(err, models.ErrMissingCredential) {
				return nil, err
			}
			s.l.Warn("bulk quotes failed", applogger.String("date", util.FormatDay(d)), applogger.Error(err))
			continue
		}
		for _, t := range s.universe {
			if p, ok := prices[t]; ok && usablePrice(p) {
				out[t] = models.UniverseQuote{Price: p, AsOf: d, Source: models.QuoteSourceBulk}
			}
		}
		if len(out) > 0 {
			s.l.Info("bulk quotes resolved", applogger.String("date", util.FormatDay(d)), applogger.Int("count", len(out)))
			break
		}
		s.l.Debug("bulk quotes empty", applogger.String("date", util.FormatDay(d)))
	}

	for _, t := range s.universe {
		if _, ok := out[t]; ok {
			continue
		}
		q, ok, err := s.fetchLiveOne(ctx, t)
		if err != nil {
			if errors.Is(err, models.ErrMissingCredential) {
				return nil, err
			}
			s.l.Warn("previous close failed", applogger.String("ticker", t), applogger.Error(err))
			continue
		}
		if ok {
			out[t] = q
		}
	}
	return out, nil
}

func (s *QuoteService) fetchLiveOne(ctx context.Context, ticker string) (models.UniverseQuote, bool, error) {
	p, err := s.provider.PreviousClose(ctx, ticker)
	if err != nil {
		return models.UniverseQuote{}, false, err
	}
	if !usablePrice(p) {
		return models.UniverseQuote{}, false, nil
	}
	return models.UniverseQuote{Price: p, AsOf: util.TruncateDay(s.opts.Now()), Source: models.QuoteSourcePrevClose}, true, nil
}

func (s *QuoteService) fetchMock(ctx context.Context) (map[string]models.UniverseQuote, error) {
	out := make(map[string]models.UniverseQuote, len(s.universe))
	for _, t := range s.universe {
		q, _, _ := s.fetchMockOne(ctx, t)
		out[t] = q
	}
	return out, nil
}

func (s *QuoteService) fetchMockOne(_ context.Context, ticker string) (models.UniverseQuote, bool, error) {
	return models.UniverseQuote{
		Price:  mock.Price(ticker),
		AsOf:   util.TruncateDay(s.opts.Now()),
		Source: models.QuoteSourceMock,
	}, true, nil
}

func usablePrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0
}
