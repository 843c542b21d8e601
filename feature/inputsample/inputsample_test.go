package inputsample

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSample(t *testing.T) {
	ctx := context.Background()
	in := strings.NewReader("sunny\n\n  high \n?\n")
	out := &bytes.Buffer{}
	known := map[string][]string{"outlook": {"sunny", "rain"}}
	s := New(in, known, NewWriterRequester(out, "?"), "?")

	v, ok, err := s.ValueFor(ctx, "outlook")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sunny", v)

	v, ok, err = s.ValueFor(ctx, "humidity")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "high", v)

	_, ok, err = s.ValueFor(ctx, "wind")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = s.ValueFor(ctx, "outlook")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sunny", v)

	_, _, err = s.ValueFor(ctx, "temperature")
	assert.Error(t, err)

	prompts := out.String()
	assert.Contains(t, prompts, "What is the value for outlook? [sunny, rain] (? if undefined)")
	assert.Contains(t, prompts, `"" is not a valid value for humidity`)
	assert.Equal(t, 1, strings.Count(prompts, "value for outlook"))
}
