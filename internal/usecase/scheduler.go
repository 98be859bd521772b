package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	applogger "FinScore/pkg/logger"
)

// Refresher is the part of the Enricher the scheduler drives.
type Refresher interface {
	RefreshScheduled(ctx context.Context, force bool) error
}

// RefreshScheduler triggers cache refreshes on a cron schedule.
type RefreshScheduler struct {
	cron     *cron.Cron
	target   Refresher
	schedule string
	force    bool
	l        *applogger.Logger
}

// NewRefreshScheduler validates schedule (standard 5-field cron or @every/@hourly
// descriptors) and registers the refresh job.
func NewRefreshScheduler(target Refresher, schedule string, force bool, l *applogger.Logger) (*RefreshScheduler, error) {
	if l == nil {
		l = applogger.Nop()
	}
	s := &RefreshScheduler{
		cron:     cron.New(),
		target:   target,
		schedule: schedule,
		force:    force,
		l:        l.With(applogger.String("component", "scheduler")),
	}
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *RefreshScheduler) runOnce() {
	start := time.Now()
	s.l.Debug("scheduled refresh", applogger.Bool("force", s.force))
	if err := s.target.RefreshScheduled(context.Background(), s.force); err != nil {
		s.l.Error("scheduled refresh failed", applogger.Error(err))
		return
	}
	s.l.Debug("scheduled refresh done", applogger.Duration("elapsed", time.Since(start)))
}

func (s *RefreshScheduler) Start() {
	s.cron.Start()
	s.l.Info("scheduler started", applogger.String("schedule", s.schedule))
}

// Stop halts the schedule and waits for a running job to return or ctx to end.
func (s *RefreshScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.l.Info("scheduler stopped")
}

// Next reports the next activation time, zero before Start.
func (s *RefreshScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
