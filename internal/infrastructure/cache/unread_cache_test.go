package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/infrastructure/cache"
)

func newCache(t *testing.T, ttl time.Duration) (*cache.UnreadCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewUnreadCache(rdb, ttl), mr
}

func setUnread(t *testing.T, c *cache.UnreadCache, userID string, n int) {
	t.Helper()
	ctx := context.Background()
	v, err := c.Version(ctx, userID)
	require.NoError(t, err)
	stored, err := c.SetUnread(ctx, userID, n, v)
	require.NoError(t, err)
	require.True(t, stored)
}

func TestUnreadCache_MissSetHit(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := c.GetUnread(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	setUnread(t, c, "u1", 3)
	n, ok, err := c.GetUnread(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestUnreadCache_TTL(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	ctx := context.Background()

	setUnread(t, c, "u1", 1)
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.GetUnread(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnreadCache_Invalidate(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	setUnread(t, c, "u1", 1)
	setUnread(t, c, "u2", 2)
	setUnread(t, c, "u3", 3)
	require.NoError(t, c.Invalidate(ctx, "u1", "u2"))
	require.NoError(t, c.Invalidate(ctx))

	_, ok, _ := c.GetUnread(ctx, "u1")
	assert.False(t, ok)
	_, ok, _ = c.GetUnread(ctx, "u2")
	assert.False(t, ok)
	n, ok, _ := c.GetUnread(ctx, "u3")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestNewRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb, err := cache.NewRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	assert.NoError(t, rdb.Close())

	_, err = cache.NewRedis(context.Background(), "::no-es-url")
	assert.Error(t, err)
}

func TestUnreadCache_SetDescartadoTrasInvalidate(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	v, err := c.Version(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, c.Invalidate(ctx, "u1"))

	stored, err := c.SetUnread(ctx, "u1", 5, v)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, _ := c.GetUnread(ctx, "u1")
	assert.False(t, ok)

	v, err = c.Version(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	stored, err = c.SetUnread(ctx, "u1", 5, v)
	require.NoError(t, err)
	assert.True(t, stored)
	n, ok, _ := c.GetUnread(ctx, "u1")
	assert.True(t, ok)
	assert.Equal(t, 5, n)
}
