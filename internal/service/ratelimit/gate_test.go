package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateSpacesCalls(t *testing.T) {
	g := NewGate(40*time.Millisecond, nil, nil)
	ctx := context.Background()

	require.NoError(t, g.Acquire(ctx))
	first := time.Now()
	require.NoError(t, g.Acquire(ctx))
	second := time.Now()
	require.NoError(t, g.Acquire(ctx))
	third := time.Now()

	assert.GreaterOrEqual(t, second.Sub(first), 30*time.Millisecond)
	assert.GreaterOrEqual(t, third.Sub(second), 30*time.Millisecond)
}

func TestGateSerializesConcurrentCallers(t *testing.T) {
	g := NewGate(20*time.Millisecond, nil, nil)
	ctx := context.Background()

	var (
		mu    sync.Mutex
		times []time.Time
		wg    sync.WaitGroup
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, g.Acquire(ctx))
			mu.Lock()
			times = append(times, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, times, 4)
	earliest, latest := times[0], times[0]
	for _, ts := range times {
		if ts.Before(earliest) {
			earliest = ts
		}
		if ts.After(latest) {
			latest = ts
		}
	}
	// four admissions need at least three full intervals
	assert.GreaterOrEqual(t, latest.Sub(earliest), 50*time.Millisecond)
}

func TestGateZeroIntervalNeverBlocks(t *testing.T) {
	g := NewGate(0, nil, nil)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, g.Acquire(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestGateHonorsCancellation(t *testing.T) {
	g := NewGate(time.Hour, nil, nil)
	require.NoError(t, g.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, g.Acquire(ctx))
}

func TestLimiterPerKey(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("a", 2, 0.001))
	assert.True(t, l.Allow("a", 2, 0.001))
	assert.False(t, l.Allow("a", 2, 0.001))
	assert.True(t, l.Allow("b", 2, 0.001))
}
