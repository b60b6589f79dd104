package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Revalidation outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// PricingMetrics records cart revalidation outcomes.
type PricingMetrics struct {
	duration     *prometheus.HistogramVec
	revalidation *prometheus.CounterVec
	itemStatus   *prometheus.CounterVec
	blocked      *prometheus.CounterVec
	breaker      *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_duration_seconds",
		Help:    "Duration of cart operations including collaborator fetches.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	revalidation := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_revalidations_total",
		Help: "Cart revalidations by outcome.",
	}, []string{"outcome"})
	itemStatus := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_item_status_total",
		Help: "Cart lines observed per validation status.",
	}, []string{"status"})
	blocked := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_blocked_total",
		Help: "Revalidated carts that could not be ordered, by reason.",
	}, []string{"reason"})
	breaker := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_breaker_transitions_total",
		Help: "Circuit breaker state transitions per upstream collaborator.",
	}, []string{"upstream", "to"})
	reg.MustRegister(duration, revalidation, itemStatus, blocked, breaker)
	return &PricingMetrics{
		duration:     duration,
		revalidation: revalidation,
		itemStatus:   itemStatus,
		blocked:      blocked,
		breaker:      breaker,
	}
}

// ObserveDuration records the duration for the named cart operation.
func (p *PricingMetrics) ObserveDuration(operation string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncRevalidation counts a revalidation with OutcomeSuccess or OutcomeFailure.
func (p *PricingMetrics) IncRevalidation(outcome string) {
	if p == nil || p.revalidation == nil {
		return
	}
	p.revalidation.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddItemStatus adds n lines observed with the given status.
func (p *PricingMetrics) AddItemStatus(status string, n int) {
	if p == nil || p.itemStatus == nil || n <= 0 {
		return
	}
	p.itemStatus.WithLabelValues(normalizeLabel(status)).Add(float64(n))
}

// IncBlocked counts a cart that cannot be ordered.
func (p *PricingMetrics) IncBlocked(reason string) {
	if p == nil || p.blocked == nil {
		return
	}
	p.blocked.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncBreakerTransition counts a circuit breaker moving to a new state.
func (p *PricingMetrics) IncBreakerTransition(upstream, to string) {
	if p == nil || p.breaker == nil {
		return
	}
	p.breaker.WithLabelValues(normalizeLabel(upstream), normalizeLabel(to)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
