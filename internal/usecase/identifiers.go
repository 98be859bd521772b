package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"FinScore/internal/domain/models"
	drepo "FinScore/internal/domain/repository"
	applogger "FinScore/pkg/logger"
)

// IdentifierResolver maps tickers to disclosure identities: seed first, then
// the live directory, which is downloaded at most once per process.
type IdentifierResolver struct {
	seed drepo.IdentifierSeed
	dir  drepo.IdentifierDirectory
	l    *applogger.Logger

	mu         sync.RWMutex
	seedMap    map[string]models.CompanyIdentity
	seedLoaded bool

	dirMu      sync.Mutex
	dirMap     map[string]models.CompanyIdentity
	dirLoaded  bool
	dirPending *dirRun
}

type dirRun struct {
	done chan struct{}
	m    map[string]models.CompanyIdentity
	err  error
}

func NewIdentifierResolver(seed drepo.IdentifierSeed, dir drepo.IdentifierDirectory, l *applogger.Logger) *IdentifierResolver {
	if l == nil {
		l = applogger.Nop()
	}
	return &IdentifierResolver{seed: seed, dir: dir, l: l.With(applogger.String("component", "identifiers"))}
}

// LoadSeed re-reads the seed. Failures are logged and leave the previous seed in place.
func (r *IdentifierResolver) LoadSeed(ctx context.Context) {
	if r.seed == nil {
		return
	}
	m, err := r.seed.Load(ctx)
	if err != nil {
		r.l.Warn("seed load failed", applogger.Error(err))
		return
	}
	r.mu.Lock()
	r.seedMap = m
	r.seedLoaded = true
	r.mu.Unlock()
	r.l.Debug("seed loaded", applogger.Int("count", len(m)))
}

// Resolve returns the identity for ticker or ErrIdentifierUnresolved.
// Directory failures, including ErrMissingCredential, are returned as is.
func (r *IdentifierResolver) Resolve(ctx context.Context, ticker string) (models.CompanyIdentity, error) {
	keys := tickerVariants(ticker)

	r.mu.RLock()
	loaded := r.seedLoaded
	r.mu.RUnlock()
	if !loaded {
		r.LoadSeed(ctx)
	}

	r.mu.RLock()
	for _, k := range keys {
		if id, ok := r.seedMap[k]; ok {
			r.mu.RUnlock()
			return id, nil
		}
	}
	r.mu.RUnlock()

	if r.dir == nil {
		return models.CompanyIdentity{}, fmt.Errorf("%s: %w", ticker, models.ErrIdentifierUnresolved)
	}
	dir, err := r.directory(ctx)
	if err != nil {
		return models.CompanyIdentity{}, err
	}
	for _, k := range keys {
		if id, ok := dir[k]; ok {
			return id, nil
		}
	}
	return models.CompanyIdentity{}, fmt.Errorf("%s: %w", ticker, models.ErrIdentifierUnresolved)
}

func (r *IdentifierResolver) directory(ctx context.Context) (map[string]models.CompanyIdentity, error) {
	r.dirMu.Lock()
	if r.dirLoaded {
		m := r.dirMap
		r.dirMu.Unlock()
		return m, nil
	}
	run := r.dirPending
	if run == nil {
		run = &dirRun{done: make(chan struct{})}
		r.dirPending = run
		go r.fetchDirectory(context.WithoutCancel(ctx), run)
	}
	r.dirMu.Unlock()

	select {
	case <-run.done:
		return run.m, run.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *IdentifierResolver) fetchDirectory(ctx context.Context, run *dirRun) {
	m, err := r.dir.Lookup(ctx)
	r.dirMu.Lock()
	if err == nil {
		r.dirMap, r.dirLoaded = m, true
		r.l.Info("identifier directory loaded", applogger.Int("count", len(m)))
	} else {
		r.l.Warn("identifier directory failed", applogger.Error(err))
	}
	r.dirPending = nil
	r.dirMu.Unlock()
	run.m, run.err = m, err
	close(run.done)
}

// tickerVariants covers class-share spellings: BRK.B and BRK-B name the same listing.
func tickerVariants(ticker string) []string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	out := []string{t}
	switch {
	case strings.Contains(t, "."):
		out = append(out, strings.ReplaceAll(t, ".", "-"))
	case strings.Contains(t, "-"):
		out = append(out, strings.ReplaceAll(t, "-", "."))
	}
	return out
}
