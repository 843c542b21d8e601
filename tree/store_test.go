package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	_, err := s.Get(ctx, "weather")
	assert.Equal(t, ErrSnapshotNotFound, err)

	data := []byte(`{"version":1}`)
	require.NoError(t, s.Put(ctx, "weather", data))
	data[0] = 'X'
	got, err := s.Get(ctx, "weather")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	require.NoError(t, s.Put(ctx, "weather", []byte("v2")))
	got, err = s.Get(ctx, "weather")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	require.NoError(t, s.Delete(ctx, "weather"))
	require.NoError(t, s.Delete(ctx, "weather"))
	_, err = s.Get(ctx, "weather")
	assert.Equal(t, ErrSnapshotNotFound, err)
}

func TestMemoryStoreCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()
	assert.Equal(t, context.Canceled, s.Put(ctx, "weather", []byte("v1")))
}
