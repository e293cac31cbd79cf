package service

import (
	"time"
)

// Metrics defines the interface for collecting authentication metrics.
// This abstraction allows the application layer to remain independent of the specific monitoring implementation (e.g., Prometheus).
type Metrics interface {
	// RecordLogin records the outcome and latency of a login attempt.
	RecordLogin(result string, duration time.Duration)

	// RecordTokenIssued counts issued tokens.
	RecordTokenIssued()

	// RecordAuthentication records the terminal state of one authentication pipeline run.
	RecordAuthentication(outcome string)

	// RecordTokenRejected counts token rejections by error code.
	RecordTokenRejected(code string)

	// RecordRateLimitHit records an event when a rate limit is triggered.
	RecordRateLimitHit(scope string)

	// RecordCacheAccess records a cache hit or miss.
	RecordCacheAccess(cacheType string, hit bool)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) RecordLogin(string, time.Duration)  {}
func (NoopMetrics) RecordTokenIssued()                 {}
func (NoopMetrics) RecordAuthentication(string)        {}
func (NoopMetrics) RecordTokenRejected(string)         {}
func (NoopMetrics) RecordRateLimitHit(string)          {}
func (NoopMetrics) RecordCacheAccess(string, bool)     {}
