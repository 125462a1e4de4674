package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records the payment flow's operational counters.
type PaymentMetrics struct {
	ordersCreated   *prometheus.CounterVec
	sessionFailures prometheus.Counter
	webhookEvents   *prometheus.CounterVec
	verifyDuration  prometheus.Histogram
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders persisted by the intake flow, labeled by storefront domain.",
	}, []string{"domain"})
	sessionFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_session_failures_total",
		Help: "Provider session creations that failed and were compensated.",
	})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_events_total",
		Help: "Provider webhook deliveries by event type and outcome.",
	}, []string{"event", "outcome"})
	verifyDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_verification_duration_seconds",
		Help:    "Duration of provider transaction verification calls.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(ordersCreated, sessionFailures, webhookEvents, verifyDuration)
	return &PaymentMetrics{
		ordersCreated:   ordersCreated,
		sessionFailures: sessionFailures,
		webhookEvents:   webhookEvents,
		verifyDuration:  verifyDuration,
	}
}

// IncOrderCreated counts one persisted order for the domain.
func (m *PaymentMetrics) IncOrderCreated(domain string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(domain)).Inc()
}

// IncSessionFailure counts one compensated provider failure.
func (m *PaymentMetrics) IncSessionFailure() {
	if m == nil || m.sessionFailures == nil {
		return
	}
	m.sessionFailures.Inc()
}

// IncWebhookEvent counts one webhook delivery with its outcome.
func (m *PaymentMetrics) IncWebhookEvent(event, outcome string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	m.webhookEvents.WithLabelValues(normalizeLabel(event), normalizeLabel(outcome)).Inc()
}

// ObserveVerification records the duration of one verification call.
func (m *PaymentMetrics) ObserveVerification(duration time.Duration) {
	if m == nil || m.verifyDuration == nil {
		return
	}
	m.verifyDuration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
