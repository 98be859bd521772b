package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter is a keyed token bucket used to throttle inbound API callers.
type Limiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
}

func New() *Limiter { return &Limiter{m: make(map[string]*rate.Limiter)} }

// Allow returns true if one token can be consumed for key. The bucket for a
// key is created on first use with the given capacity and refill rate.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	l.mu.Lock()
	b, ok := l.m[key]
	if !ok {
		burst := int(capacity)
		if burst < 1 {
			burst = 1
		}
		b = rate.NewLimiter(rate.Limit(refillPerSec), burst)
		l.m[key] = b
	}
	l.mu.Unlock()
	return b.Allow()
}
