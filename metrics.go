package c45

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Stop rules reported on Metrics.Leaves.
const (
	stopPure           = "pure"
	stopNoAttributes   = "no-attributes"
	stopEmptyPartition = "empty-partition"
	stopExhausted      = "exhausted"
)

/*
Metrics holds the prometheus collectors a Builder reports to.
*/
type Metrics struct {
	// Trees counts the trees grown, by outcome ("ok" or "error").
	Trees *prometheus.CounterVec
	// Internal counts the internal nodes created.
	Internal prometheus.Counter
	// Leaves counts the leaves created, by the stop rule that created them.
	Leaves *prometheus.CounterVec
	// Duration observes the time taken to grow each tree in seconds.
	Duration prometheus.Histogram
}

// NewMetrics returns Metrics with its collectors registered in the
// given prometheus.Registerer. A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Trees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "c45",
			Name:      "trees_total",
			Help:      "Number of trees grown, by outcome.",
		}, []string{"outcome"}),
		Internal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "c45",
			Name:      "internal_nodes_total",
			Help:      "Number of internal nodes created while growing trees.",
		}),
		Leaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "c45",
			Name:      "leaves_total",
			Help:      "Number of leaves created while growing trees, by stop rule.",
		}, []string{"rule"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "c45",
			Name:      "build_duration_seconds",
			Help:      "Time taken to grow a tree.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Trees, m.Internal, m.Leaves, m.Duration)
	}
	return m
}

func (m *Metrics) leaf(rule string) {
	if m != nil {
		m.Leaves.WithLabelValues(rule).Inc()
	}
}

func (m *Metrics) internal() {
	if m != nil {
		m.Internal.Inc()
	}
}

func (m *Metrics) tree(err error, seconds float64) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Trees.WithLabelValues(outcome).Inc()
	m.Duration.Observe(seconds)
}
