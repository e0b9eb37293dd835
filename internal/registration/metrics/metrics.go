package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration workflow.
type Metrics struct {
	// Confirmation outcomes: confirmed, already_processed, not_completed, or an error code
	ConfirmOutcome *prometheus.CounterVec

	// End-to-end confirmation latency including the gateway lookup
	ConfirmLatency prometheus.Histogram

	// Gateway call latency by operation
	GatewayLatency *prometheus.HistogramVec

	// Checkout sessions by result
	CheckoutResult *prometheus.CounterVec

	// Confirmed-event publish failures
	PublishFailures prometheus.Counter
}

// New registers the registration metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConfirmOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contesthub_registration_confirm_outcomes_total",
			Help: "Registration confirmation outcomes",
		}, []string{"outcome"}),

		ConfirmLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "contesthub_registration_confirm_duration_seconds",
			Help:    "Duration of registration confirmation",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		GatewayLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contesthub_payment_gateway_duration_seconds",
			Help:    "Duration of payment gateway calls by operation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),

		CheckoutResult: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contesthub_registration_checkouts_total",
			Help: "Checkout session creation attempts by result",
		}, []string{"result"}),

		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "contesthub_registration_event_publish_failures_total",
			Help: "Registration events that could not be published",
		}),
	}
}

func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.ConfirmOutcome.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveConfirmLatency(d time.Duration) {
	if m != nil {
		m.ConfirmLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveGatewayLatency(operation string, d time.Duration) {
	if m != nil {
		m.GatewayLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementCheckout(result string) {
	if m != nil {
		m.CheckoutResult.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementPublishFailure() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}
