package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, InterfaceRedisService) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisService(client, "hoa:")
}

func TestRedisServiceRoundTrip(t *testing.T) {
	mr, svc := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "stats", map[string]int{"total": 3}, time.Minute))
	assert.True(t, mr.Exists("hoa:stats"))

	var got map[string]int
	require.NoError(t, svc.Get(ctx, "stats", &got))
	assert.Equal(t, 3, got["total"])

	require.NoError(t, svc.Delete(ctx, "stats"))
	assert.ErrorIs(t, svc.Get(ctx, "stats", &got), ErrCacheMiss)
}

func TestRedisServiceExpiry(t *testing.T) {
	mr, svc := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	var v string
	assert.ErrorIs(t, svc.Get(ctx, "k", &v), ErrCacheMiss)
	assert.NoError(t, svc.Ping(ctx))
}
