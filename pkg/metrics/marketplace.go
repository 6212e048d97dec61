package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MarketplaceMetrics records counters for the core marketplace workflows.
type MarketplaceMetrics struct {
	orderTransitions    *prometheus.CounterVec
	negotiationOutcomes *prometheus.CounterVec
	matchDuration       *prometheus.HistogramVec
}

// NewMarketplaceMetrics registers the marketplace metrics on the provided registerer.
func NewMarketplaceMetrics(reg prometheus.Registerer) *MarketplaceMetrics {
	if reg == nil {
		return &MarketplaceMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Order state machine transitions by from/to status.",
	}, []string{"from", "to"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "negotiation_outcomes_total",
		Help: "Terminal price-request outcomes.",
	}, []string{"outcome"})
	matchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sourcing_match_duration_seconds",
		Help:    "Duration of sourcing matcher computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	reg.MustRegister(transitions, outcomes, matchDuration)
	return &MarketplaceMetrics{
		orderTransitions:    transitions,
		negotiationOutcomes: outcomes,
		matchDuration:       matchDuration,
	}
}

// IncOrderTransition increments the transition counter for the given statuses.
func (m *MarketplaceMetrics) IncOrderTransition(from, to string) {
	if m == nil || m.orderTransitions == nil {
		return
	}
	m.orderTransitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncNegotiationOutcome increments the terminal outcome counter.
func (m *MarketplaceMetrics) IncNegotiationOutcome(outcome string) {
	if m == nil || m.negotiationOutcomes == nil {
		return
	}
	m.negotiationOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveMatchDuration records how long a matcher projection took.
func (m *MarketplaceMetrics) ObserveMatchDuration(kind string, duration time.Duration) {
	if m == nil || m.matchDuration == nil {
		return
	}
	m.matchDuration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
