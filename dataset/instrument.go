package dataset

import (
	"context"

	"github.com/pbanos/c45/feature"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors an instrumented DataSource
// reports its queries to.
type Metrics struct {
	Queries  *prometheus.CounterVec
	Failures *prometheus.CounterVec
}

// NewMetrics returns Metrics with its collectors registered in the
// given prometheus.Registerer. A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "c45",
			Subsystem: "dataset",
			Name:      "queries_total",
			Help:      "Number of queries issued to the dataset, by operation.",
		}, []string{"op"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "c45",
			Subsystem: "dataset",
			Name:      "query_failures_total",
			Help:      "Number of dataset queries that returned an error, by operation.",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Queries, m.Failures)
	}
	return m
}

type instrumented struct {
	DataSource
	m *Metrics
}

// Instrument wraps a DataSource so every query it receives is counted
// on the given Metrics. Records is forwarded when the wrapped DataSource
// is a Lister.
func Instrument(ds DataSource, m *Metrics) DataSource {
	i := &instrumented{ds, m}
	if _, ok := ds.(Lister); ok {
		return &instrumentedLister{i}
	}
	return i
}

func (i *instrumented) CountMatching(ctx context.Context, c feature.Criteria) (int, error) {
	n, err := i.DataSource.CountMatching(ctx, c)
	i.observe("count", err)
	return n, err
}

func (i *instrumented) Attributes(ctx context.Context) ([]string, error) {
	a, err := i.DataSource.Attributes(ctx)
	i.observe("attributes", err)
	return a, err
}

func (i *instrumented) DistinctValues(ctx context.Context, attribute string) ([]string, error) {
	v, err := i.DataSource.DistinctValues(ctx, attribute)
	i.observe("distinct", err)
	return v, err
}

func (i *instrumented) observe(op string, err error) {
	i.m.Queries.WithLabelValues(op).Inc()
	if err != nil {
		i.m.Failures.WithLabelValues(op).Inc()
	}
}

type instrumentedLister struct {
	*instrumented
}

func (il *instrumentedLister) Records(ctx context.Context) ([]feature.Record, error) {
	r, err := il.DataSource.(Lister).Records(ctx)
	il.observe("records", err)
	return r, err
}
