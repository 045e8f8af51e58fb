package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Backend names used as limiter keys.
const (
	BackendFlights   = "flights"
	BackendLocations = "locations"
	BackendTextGen   = "textgen"
	BackendGeoIP     = "geoip"
	BackendSubmit    = "submit"
)

// BackendLimiter hands out one token bucket per outbound backend so a burst
// of multi-leg searches cannot starve the location lookups. Backends without
// an explicit limit share the defaults' shape but not their bucket.
type BackendLimiter struct {
	mu       sync.RWMutex
	buckets  map[string]*rate.Limiter
	defaults RateLimitConfig
}

// RateLimitConfig describes one bucket. A non-positive RequestsPerSecond
// disables limiting for the backend.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func (c RateLimitConfig) limit() rate.Limit {
	if c.RequestsPerSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(c.RequestsPerSecond)
}

func (c RateLimitConfig) burst() int {
	if c.BurstSize < 1 {
		return 1
	}
	return c.BurstSize
}

func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

func NewBackendLimiter(defaults RateLimitConfig) *BackendLimiter {
	return &BackendLimiter{
		buckets:  make(map[string]*rate.Limiter),
		defaults: defaults,
	}
}

func NewBackendLimiterWithDefaults() *BackendLimiter {
	return NewBackendLimiter(DefaultConfig())
}

// GetLimiter returns backend's bucket, creating it from the defaults on
// first use.
func (b *BackendLimiter) GetLimiter(backend string) *rate.Limiter {
	b.mu.RLock()
	bucket, ok := b.buckets[backend]
	b.mu.RUnlock()
	if ok {
		return bucket
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if bucket, ok = b.buckets[backend]; ok {
		return bucket
	}
	bucket = rate.NewLimiter(b.defaults.limit(), b.defaults.burst())
	b.buckets[backend] = bucket
	return bucket
}

// SetLimit reconfigures backend. An existing bucket is adjusted in place so
// callers already holding it see the new limit.
func (b *BackendLimiter) SetLimit(backend string, cfg RateLimitConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if bucket, ok := b.buckets[backend]; ok {
		bucket.SetLimit(cfg.limit())
		bucket.SetBurst(cfg.burst())
		return
	}
	b.buckets[backend] = rate.NewLimiter(cfg.limit(), cfg.burst())
}

// Wait blocks until backend has a token or ctx is done. A nil limiter never
// blocks.
func (b *BackendLimiter) Wait(ctx context.Context, backend string) error {
	if b == nil {
		return nil
	}
	return b.GetLimiter(backend).Wait(ctx)
}
