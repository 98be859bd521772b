package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"FinScore/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	force atomic.Bool
}

func (c *countingRefresher) RefreshScheduled(_ context.Context, force bool) error {
	c.calls.Add(1)
	c.force.Store(force)
	return nil
}

func TestRefreshSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := NewRefreshScheduler(&countingRefresher{}, "every tuesday", false, nil)
	assert.Error(t, err)
}

func TestRefreshSchedulerRuns(t *testing.T) {
	r := &countingRefresher{}
	s, err := NewRefreshScheduler(r, "@every 1s", true, nil)
	require.NoError(t, err)

	s.Start()
	assert.False(t, s.Next().IsZero())
	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	assert.True(t, r.force.Load())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestScheduledRunRebuildsReadyCache(t *testing.T) {
	fx := newFixture(t, []string{"AAPL"}, appleSeed)
	require.NoError(t, fx.e.Refresh(context.Background(), false))
	first := *fx.e.Snapshot().LastUpdated

	s, err := NewRefreshScheduler(fx.e, "@every 1h", false, nil)
	require.NoError(t, err)

	fx.clk.Advance(2 * time.Hour)
	s.runOnce()

	snap := fx.e.Snapshot()
	assert.Equal(t, models.StatusReady, snap.Status)
	assert.True(t, snap.LastUpdated.After(first))
	assert.EqualValues(t, 2, fx.quotes.bulkCalls.Load(), "expired quotes are refetched")
	assert.EqualValues(t, 2, fx.facts.calls.Load())

	fx.clk.Advance(time.Minute)
	s.runOnce()
	assert.EqualValues(t, 2, fx.quotes.bulkCalls.Load(), "quotes within ttl are reused")
	assert.EqualValues(t, 3, fx.facts.calls.Load())
}
