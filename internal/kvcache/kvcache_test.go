package kvcache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "meals:u1", []byte(`["tacos"]`), time.Minute))
	value, ok, err := store.Get(ctx, "meals:u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["tacos"]`, string(value))

	require.NoError(t, store.Delete(ctx, "meals:u1"))
	_, ok, err = store.Get(ctx, "meals:u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := NewMemory()
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 30*time.Minute))

	current = current.Add(29 * time.Minute)
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "entry inside its TTL is a hit")

	current = current.Add(2 * time.Minute)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry reads as a miss")
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	original := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", original, time.Minute))
	original[0] = 'x'

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(value), "store is insulated from caller mutation")
}

// Requires a running redis instance; skipped unless REDIS_HOST is set.
func TestRedisRoundTrip(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set; skipping redis cache test")
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port)})
	require.NoError(t, client.Ping(ctx).Err())

	store := NewRedis(client)
	key := fmt.Sprintf("engine:test:%d", time.Now().UnixNano())

	require.NoError(t, store.Set(ctx, key, []byte("cached"), time.Minute))
	value, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cached", string(value))

	require.NoError(t, store.Delete(ctx, key))
	_, ok, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
