package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CacheRepository, *time.Time) {
	t.Helper()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCacheRepository()
	cache.now = func() time.Time { return clock }
	t.Cleanup(func() { cache.Close() })
	return cache, &clock
}

func TestCacheRepository_SetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "recipe:1", []byte("payload"), time.Minute))

	got, err := cache.Get(ctx, "recipe:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	exists, err := cache.Exists(ctx, "recipe:1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCacheRepository_MissAndExpiry(t *testing.T) {
	cache, clock := newTestCache(t)
	ctx := context.Background()

	_, err := cache.Get(ctx, "absent")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "short", []byte("x"), time.Second))
	*clock = clock.Add(2 * time.Second)

	_, err = cache.Get(ctx, "short")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	cache.sweep()
	assert.Empty(t, cache.data)
}

func TestCacheRepository_DeleteMany(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, cache.Set(ctx, "c", []byte("3"), 0))

	require.NoError(t, cache.Delete(ctx, "a", "b", "missing"))

	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	got, err := cache.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), got)
}

func TestCacheRepository_ReturnsCopies(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, cache.Set(ctx, "k", value, time.Minute))
	value[0] = 'z'

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'z'

	again, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
