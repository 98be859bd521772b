package ratelimit

import (
	"context"
	"time"

	domrepo "FinScore/internal/domain/repository"
	applogger "FinScore/pkg/logger"

	"golang.org/x/time/rate"
)

// Gate enforces a minimum spacing between outbound calls to a quota-limited
// upstream. One instance is shared by every caller in the process; callers
// block in arrival order and a slow upstream only delays later callers.
type Gate struct {
	lim     *rate.Limiter
	metrics domrepo.Metrics
	l       *applogger.Logger
}

// NewGate creates a gate that admits one call per interval. A non-positive
// interval admits every call immediately.
func NewGate(interval time.Duration, metrics domrepo.Metrics, l *applogger.Logger) *Gate {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &Gate{
		lim:     rate.NewLimiter(limit, 1),
		metrics: metrics,
		l:       l,
	}
}

// Acquire blocks until the interval since the previous admitted call has
// elapsed, or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	start := time.Now()
	if err := g.lim.Wait(ctx); err != nil {
		return err
	}
	waited := time.Since(start)
	g.metrics.RecordGateWait(waited.Seconds())
	if waited > time.Second {
		g.l.Debug("fetch gate released", applogger.Duration("waited_ms", waited))
	}
	return nil
}

var _ domrepo.Gate = (*Gate)(nil)
