package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics tracks order composition outcomes.
type OrderMetrics struct {
	created *prometheus.CounterVec
	failed  *prometheus.CounterVec
}

// NewOrderMetrics registers the order composer counters.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully composed, by payment method.",
	}, []string{"payment_method"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Order composition failures, by error code.",
	}, []string{"reason"})
	reg.MustRegister(created, failed)
	return &OrderMetrics{created: created, failed: failed}
}

// IncCreated counts a composed order.
func (o *OrderMetrics) IncCreated(paymentMethod string) {
	if o == nil || o.created == nil {
		return
	}
	o.created.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncFailed counts a rejected composition attempt.
func (o *OrderMetrics) IncFailed(reason string) {
	if o == nil || o.failed == nil {
		return
	}
	o.failed.WithLabelValues(normalizeLabel(reason)).Inc()
}
