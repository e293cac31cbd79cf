package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin_auth"

// Metrics manages the Prometheus metrics.
type Metrics struct {
	LoginAttempts         *prometheus.CounterVec
	LoginLatency          prometheus.Histogram
	TokensIssued          prometheus.Counter
	AuthenticationResults *prometheus.CounterVec
	TokenRejections       *prometheus.CounterVec
	RateLimitHits         *prometheus.CounterVec
	CacheAccesses         *prometheus.CounterVec

	ActiveRequests  *prometheus.GaugeVec
	RequestDuration *prometheus.HistogramVec
	RequestErrors   *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg means the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Total number of login attempts by result.",
			},
			[]string{"result"},
		),
		LoginLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "login_latency_seconds",
				Help:      "Latency of login requests, including password hashing.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		TokensIssued: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_issued_total",
				Help:      "Total number of bearer tokens issued.",
			},
		),
		AuthenticationResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "authentication_results_total",
				Help:      "Terminal states of the per-request authentication pipeline.",
			},
			[]string{"outcome"},
		),
		TokenRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_rejections_total",
				Help:      "Bearer tokens rejected, by reason.",
			},
			[]string{"reason"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Total number of rate limit hits.",
			},
			[]string{"scope"},
		),
		CacheAccesses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_accesses_total",
				Help:      "Cache lookups by cache and result.",
			},
			[]string{"cache", "result"},
		),
		ActiveRequests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_active_requests",
				Help:      "In-flight HTTP requests.",
			},
			[]string{"path", "method"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method", "status"},
		),
		RequestErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_request_errors_total",
				Help:      "HTTP responses with status >= 400.",
			},
			[]string{"path", "method", "status"},
		),
	}
}

// RecordLogin records metrics for a login attempt.
func (m *Metrics) RecordLogin(result string, duration time.Duration) {
	m.LoginAttempts.WithLabelValues(result).Inc()
	m.LoginLatency.Observe(duration.Seconds())
}

// RecordCacheAccess records a cache lookup.
func (m *Metrics) RecordCacheAccess(cacheType string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheAccesses.WithLabelValues(cacheType, result).Inc()
}

func (m *Metrics) ActiveRequestsInc(path, method string) {
	m.ActiveRequests.WithLabelValues(path, method).Inc()
}

func (m *Metrics) ActiveRequestsDec(path, method string) {
	m.ActiveRequests.WithLabelValues(path, method).Dec()
}

// ObserveRequest records latency for every request and counts responses with status >= 400.
func (m *Metrics) ObserveRequest(path, method string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.RequestDuration.WithLabelValues(path, method, code).Observe(duration.Seconds())
	if status >= 400 {
		m.RequestErrors.WithLabelValues(path, method, code).Inc()
	}
}

//Personal.AI order the ending
