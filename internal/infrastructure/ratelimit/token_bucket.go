// Package ratelimit provides rate limiting implementations.
package ratelimit

import (
	"sync"
	"time"

	"github.com/turtacn/adminauth/pkg/constants"
)

// TokenBucket implements the token bucket algorithm for rate limiting.
// It provides thread-safe rate limiting with automatic token refill.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64   // Maximum number of tokens
	tokens     float64   // Current number of tokens
	rate       float64   // Tokens added per second
	lastRefill time.Time // Last time tokens were refilled
	now        func() time.Time
}

// TokenBucketConfig holds configuration for creating a token bucket.
type TokenBucketConfig struct {
	// Capacity is the maximum number of tokens the bucket can hold
	Capacity float64
	// Rate is the number of tokens added per second
	Rate float64
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// NewTokenBucket creates a full bucket.
func NewTokenBucket(cfg TokenBucketConfig) *TokenBucket {
	if cfg.Capacity <= 0 {
		cfg.Capacity = float64(constants.DefaultLoginAttemptsPerMinute)
	}
	if cfg.Rate <= 0 {
		cfg.Rate = cfg.Capacity / 60.0
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenBucket{
		capacity:   cfg.Capacity,
		tokens:     cfg.Capacity,
		rate:       cfg.Rate,
		lastRefill: cfg.Now(),
		now:        cfg.Now,
	}
}

// Take consumes one token. When none is available it reports how long until one is.
func (tb *TokenBucket) Take() (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1 {
		tb.tokens--
		return true, 0
	}
	seconds := (1 - tb.tokens) / tb.rate
	return false, time.Duration(seconds * float64(time.Second))
}

// refill must be called with lock held.
func (tb *TokenBucket) refill() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	tb.tokens += elapsed * tb.rate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now
}

// Available returns the current number of tokens available.
func (tb *TokenBucket) Available() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	return tb.tokens
}

// TokenBucketPool manages multiple token buckets with automatic cleanup.
type TokenBucketPool struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucketEntry
	config  TokenBucketConfig
}

type tokenBucketEntry struct {
	bucket   *TokenBucket
	lastUsed time.Time
}

// NewTokenBucketPool creates a new token bucket pool.
func NewTokenBucketPool(config TokenBucketConfig) *TokenBucketPool {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &TokenBucketPool{
		buckets: make(map[string]*tokenBucketEntry),
		config:  config,
	}
}

// GetOrCreate gets an existing bucket or creates a new one.
func (p *TokenBucketPool) GetOrCreate(key string) *TokenBucket {
	p.mu.Lock()
	defer p.mu.Unlock()

	if entry, exists := p.buckets[key]; exists {
		entry.lastUsed = p.config.Now()
		return entry.bucket
	}
	bucket := NewTokenBucket(p.config)
	p.buckets[key] = &tokenBucketEntry{bucket: bucket, lastUsed: p.config.Now()}
	return bucket
}

// Remove removes a bucket from the pool.
func (p *TokenBucketPool) Remove(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.buckets, key)
}

// Cleanup removes buckets that haven't been used for maxIdle and returns how many were dropped.
func (p *TokenBucketPool) Cleanup(maxIdle time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.config.Now()
	removed := 0
	for key, entry := range p.buckets {
		if now.Sub(entry.lastUsed) > maxIdle {
			delete(p.buckets, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of buckets in the pool.
func (p *TokenBucketPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets)
}

//Personal.AI order the ending
