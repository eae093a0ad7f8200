package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TransitionMetrics holds the Prometheus collectors a transitiond instance
// exposes: per-transition outcome counts, gas consumption, and latency.
type TransitionMetrics struct {
	Transitions *prometheus.CounterVec
	GasUsed     *prometheus.HistogramVec
	Latency     *prometheus.HistogramVec
}

var (
	once     sync.Once
	registry *TransitionMetrics
)

// Registry returns the lazily-initialized, process-wide transition metrics.
func Registry() *TransitionMetrics {
	once.Do(func() {
		registry = &TransitionMetrics{
			Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "statecore",
				Subsystem: "transition",
				Name:      "total",
				Help:      "Total transitions processed, segmented by outcome.",
			}, []string{"outcome"}),
			GasUsed: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "statecore",
				Subsystem: "transition",
				Name:      "gas_used",
				Help:      "Distribution of gas_used across committed transitions.",
				Buckets:   prometheus.ExponentialBuckets(100, 4, 10),
			}, []string{"variant"}),
			Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "statecore",
				Subsystem: "transition",
				Name:      "duration_seconds",
				Help:      "Latency distribution of the transition call.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(registry.Transitions, registry.GasUsed, registry.Latency)
	})
	return registry
}

// Handler exposes the default Prometheus registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveOutcome records one transition's outcome and gas_used.
func (m *TransitionMetrics) ObserveOutcome(outcome, variant string, gasUsed uint64, seconds float64) {
	m.Transitions.WithLabelValues(outcome).Inc()
	m.Latency.WithLabelValues(outcome).Observe(seconds)
	if outcome != "rejected" {
		m.GasUsed.WithLabelValues(variant).Observe(float64(gasUsed))
	}
}
