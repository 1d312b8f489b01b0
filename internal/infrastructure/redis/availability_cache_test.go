package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/config"
)

func newTestCache(t *testing.T) *AvailabilityCache {
	t.Helper()
	client := NewClient(&config.RedisConfig{Host: "localhost", Port: "6379"})
	if err := Ping(context.Background(), client); err != nil {
		t.Skipf("Redis接続エラー: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewAvailabilityCache(client)
}

func TestAvailabilityCache_SetAndGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	err := cache.SetAvailableCount(ctx, "flight-cache-1", 42, 10*time.Second)
	require.NoError(t, err)

	count, err := cache.GetAvailableCount(ctx, "flight-cache-1")
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestAvailabilityCache_Miss(t *testing.T) {
	cache := newTestCache(t)

	_, err := cache.GetAvailableCount(context.Background(), "flight-cache-missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestAvailabilityCache_Invalidate(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetAvailableCount(ctx, "flight-cache-2", 10, 10*time.Second))
	require.NoError(t, cache.Invalidate(ctx, "flight-cache-2"))

	_, err := cache.GetAvailableCount(ctx, "flight-cache-2")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
