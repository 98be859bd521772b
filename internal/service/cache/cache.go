package cache

import "time"

// BytesCache is a minimal durable cache API storing raw bytes with TTL.
// Implementations must treat expired entries as misses.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
