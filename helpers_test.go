package c45

import (
	"context"
	"fmt"
	"testing"

	"github.com/pbanos/c45/dataset"
	"github.com/pbanos/c45/feature"
	"github.com/stretchr/testify/require"
)

var weatherAttributes = []string{"Outlook", "Temperature", "Humidity", "Wind", "PlayTennis"}

var weatherRows = [][]string{
	{"Sunny", "Hot", "High", "Weak", "No"},
	{"Sunny", "Hot", "High", "Strong", "No"},
	{"Overcast", "Hot", "High", "Weak", "Yes"},
	{"Rain", "Mild", "High", "Weak", "Yes"},
	{"Rain", "Cool", "Normal", "Weak", "Yes"},
	{"Rain", "Cool", "Normal", "Strong", "No"},
	{"Overcast", "Cool", "Normal", "Strong", "Yes"},
	{"Sunny", "Mild", "High", "Weak", "No"},
	{"Sunny", "Cool", "Normal", "Weak", "Yes"},
	{"Rain", "Mild", "Normal", "Weak", "Yes"},
	{"Sunny", "Mild", "Normal", "Strong", "Yes"},
	{"Overcast", "Mild", "High", "Strong", "Yes"},
	{"Overcast", "Hot", "Normal", "Weak", "Yes"},
	{"Rain", "Mild", "High", "Strong", "No"},
}

func toRecords(attributes []string, rows [][]string) []feature.Record {
	records := make([]feature.Record, 0, len(rows))
	for _, row := range rows {
		r := make(feature.Record, len(attributes))
		for i, a := range attributes {
			r[a] = row[i]
		}
		records = append(records, r)
	}
	return records
}

func memoryDataSource(t *testing.T, attributes []string, rows [][]string) dataset.DataSource {
	ds, err := dataset.NewMemory(attributes, toRecords(attributes, rows))
	require.NoError(t, err)
	return ds
}

func weatherDataSource(t *testing.T) dataset.DataSource {
	return memoryDataSource(t, weatherAttributes, weatherRows)
}

// failingDataSource fails every CountMatching call after the first n.
type failingDataSource struct {
	dataset.DataSource
	n     int
	calls int
}

var errBackend = fmt.Errorf("backend unavailable")

func (f *failingDataSource) CountMatching(ctx context.Context, c feature.Criteria) (int, error) {
	f.calls++
	if f.calls > f.n {
		return 0, errBackend
	}
	return f.DataSource.CountMatching(ctx, c)
}
