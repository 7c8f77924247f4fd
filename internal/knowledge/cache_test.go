package knowledge

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedSource(t *testing.T, origin Source) (*CachedSource, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCachedSource(origin, client, time.Minute, nil), mr
}

func TestCachedSourceReadThrough(t *testing.T) {
	origin := &stubSource{StaticSource: StaticSource{Data: sampleDataset()}}
	cache, mr := newCachedSource(t, origin)
	ctx := context.Background()

	first, err := cache.FetchServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Buzz Cut", first[0].Name)
	assert.Equal(t, 1, origin.calls)
	assert.True(t, mr.Exists("knowledge:services"))

	second, err := cache.FetchServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, origin.calls, "second read should be served from redis")

	mr.FastForward(2 * time.Minute)
	_, err = cache.FetchServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, origin.calls, "expired entry should refetch")
}

func TestCachedSourceInvalidate(t *testing.T) {
	origin := &stubSource{StaticSource: StaticSource{Data: sampleDataset()}}
	cache, mr := newCachedSource(t, origin)
	ctx := context.Background()

	_, err := cache.FetchFAQs(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists("knowledge:faqs"))

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists("knowledge:faqs"))
}

func TestCachedSourceSkipsEmptyAndErrors(t *testing.T) {
	origin := &stubSource{StaticSource: StaticSource{Data: sampleDataset()}, failServices: true}
	cache, mr := newCachedSource(t, origin)
	ctx := context.Background()

	_, err := cache.FetchServices(ctx)
	require.Error(t, err)
	assert.False(t, mr.Exists("knowledge:services"))

	promos, err := cache.FetchPromotions(ctx)
	require.NoError(t, err)
	assert.Empty(t, promos)
	assert.False(t, mr.Exists("knowledge:promotions"))
}

func TestCachedSourceCorruptEntry(t *testing.T) {
	origin := &stubSource{StaticSource: StaticSource{Data: sampleDataset()}}
	cache, mr := newCachedSource(t, origin)
	require.NoError(t, mr.Set("knowledge:barbers", "{not json"))

	barbers, err := cache.FetchBarbers(context.Background())
	require.NoError(t, err)
	require.Len(t, barbers, 1)
	assert.Equal(t, 1, origin.calls)
}

func TestCachedSourceRedisDown(t *testing.T) {
	origin := &stubSource{StaticSource: StaticSource{Data: sampleDataset()}}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCachedSource(origin, client, time.Minute, nil)

	services, err := cache.FetchServices(context.Background())
	require.NoError(t, err)
	assert.Len(t, services, 1)
}
