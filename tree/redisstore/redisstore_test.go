package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pbanos/c45/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedisStore runs against the redis server at C45_TEST_REDIS_ADDR.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("C45_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("C45_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := Dial(addr, "c45-test", time.Minute)
	require.NoError(t, err)
	defer s.Close(ctx)
	defer s.Delete(ctx, "weather")

	_, err = s.Get(ctx, "weather")
	assert.Equal(t, tree.ErrSnapshotNotFound, err)
	require.NoError(t, s.Put(ctx, "weather", []byte("v1")))
	data, err := s.Get(ctx, "weather")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
	require.NoError(t, s.Delete(ctx, "weather"))
	_, err = s.Get(ctx, "weather")
	assert.Equal(t, tree.ErrSnapshotNotFound, err)
}

func TestKeyFor(t *testing.T) {
	rs := &redisStore{prefix: "c45"}
	assert.Equal(t, "c45:weather", rs.keyFor("weather"))
}
