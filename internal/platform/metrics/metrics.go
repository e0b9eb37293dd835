package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-wide HTTP and account metrics.
type Metrics struct {
	AccountsCreated prometheus.Counter
	RequestLatency  *prometheus.HistogramVec
	RateLimitHits   *prometheus.CounterVec
}

// New creates and registers the metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "contesthub_accounts_created_total",
			Help: "Total number of accounts created on first sign-in",
		}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contesthub_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern, method and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method", "status"}),
		RateLimitHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contesthub_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"route", "key_type"}),
	}
}

// IncrementAccountsCreated increments the accounts created counter by 1.
func (m *Metrics) IncrementAccountsCreated() {
	if m != nil {
		m.AccountsCreated.Inc()
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, method, status).Observe(d.Seconds())
	}
}

// IncrementRateLimitHit records a rejected request.
func (m *Metrics) IncrementRateLimitHit(route, keyType string) {
	if m != nil {
		m.RateLimitHits.WithLabelValues(route, keyType).Inc()
	}
}

// Handler exposes the default gatherer for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
