package json

import (
	"testing"

	"github.com/pbanos/c45/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecords(t *testing.T) {
	records, err := ReadRecords([]byte(`{
		"record": {"outlook": "sunny", "windy": true},
		"records": [{"outlook": "rain", "humidity": 85}, {"outlook": "overcast"}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, []feature.Record{
		{"outlook": "sunny", "windy": "true"},
		{"outlook": "rain", "humidity": "85"},
		{"outlook": "overcast"},
	}, records)
}

func TestReadRecordsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"records": [`},
		{"no records", `{}`},
		{"null value", `{"record": {"outlook": null}}`},
		{"nested value", `{"record": {"outlook": {"sky": "clear"}}}`},
		{"list value", `{"records": [{"outlook": ["sunny"]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecords([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
