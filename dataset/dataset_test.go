package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/pbanos/c45/feature"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var records = []feature.Record{
	{"color": "red", "size": "big", "class": "yes"},
	{"color": "blue", "size": "big", "class": "no"},
	{"color": "red", "size": "small", "class": "yes"},
	{"color": "green", "size": "small", "class": "no"},
}

func TestMemoryDataSource(t *testing.T) {
	ctx := context.Background()
	ds, err := NewMemory([]string{"color", "size", "class"}, records)
	require.NoError(t, err)

	attrs, err := ds.Attributes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"color", "size", "class"}, attrs)

	values, err := ds.DistinctValues(ctx, "color")
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue", "green"}, values)

	_, err = ds.DistinctValues(ctx, "weight")
	assert.Error(t, err)

	tests := []struct {
		criteria feature.Criteria
		count    int
	}{
		{nil, 4},
		{feature.Criteria{}, 4},
		{feature.Criteria{"color": "red"}, 2},
		{feature.Criteria{"color": "red", "size": "small"}, 1},
		{feature.Criteria{"color": "red", "class": "no"}, 0},
		{feature.Criteria{"color": "purple"}, 0},
	}
	for _, tt := range tests {
		n, err := ds.CountMatching(ctx, tt.criteria)
		require.NoError(t, err)
		assert.Equal(t, tt.count, n, "criteria %v", tt.criteria)
	}
}

func TestNewMemoryErrors(t *testing.T) {
	_, err := NewMemory([]string{"color", "color"}, records)
	assert.Error(t, err)
	_, err = NewMemory([]string{"color", "weight"}, records)
	assert.Error(t, err)
}

func TestMemoryDataSourceCancelled(t *testing.T) {
	ds, err := NewMemory([]string{"color", "size", "class"}, records)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ds.CountMatching(ctx, feature.Criteria{"color": "red"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	ds, err := NewMemory([]string{"color", "size", "class"}, records)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	ids := Instrument(ds, m)

	_, err = ids.CountMatching(ctx, feature.Criteria{"color": "red"})
	require.NoError(t, err)
	_, err = ids.CountMatching(ctx, nil)
	require.NoError(t, err)
	_, err = ids.DistinctValues(ctx, "weight")
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Queries.WithLabelValues("count")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues("distinct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures.WithLabelValues("distinct")))

	l, ok := ids.(Lister)
	require.True(t, ok)
	rs, err := l.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, rs, 4)
}
