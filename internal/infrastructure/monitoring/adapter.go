// Package monitoring provides the zap logger, Prometheus metrics and OpenTelemetry tracing
// used by the admin auth service.
package monitoring

import (
	"time"

	"github.com/turtacn/adminauth/internal/domain/service"
)

// MetricsAdapter implements the domain's service.Metrics interface, sending metrics to a Prometheus backend.
type MetricsAdapter struct {
	metrics *Metrics
}

// NewMetricsAdapter wraps a concrete Prometheus Metrics object.
func NewMetricsAdapter(metrics *Metrics) service.Metrics {
	return &MetricsAdapter{metrics: metrics}
}

func (a *MetricsAdapter) RecordLogin(result string, duration time.Duration) {
	a.metrics.RecordLogin(result, duration)
}

func (a *MetricsAdapter) RecordTokenIssued() {
	a.metrics.TokensIssued.Inc()
}

func (a *MetricsAdapter) RecordAuthentication(outcome string) {
	a.metrics.AuthenticationResults.WithLabelValues(outcome).Inc()
}

func (a *MetricsAdapter) RecordTokenRejected(code string) {
	a.metrics.TokenRejections.WithLabelValues(code).Inc()
}

func (a *MetricsAdapter) RecordRateLimitHit(scope string) {
	a.metrics.RateLimitHits.WithLabelValues(scope).Inc()
}

func (a *MetricsAdapter) RecordCacheAccess(cacheType string, hit bool) {
	a.metrics.RecordCacheAccess(cacheType, hit)
}
