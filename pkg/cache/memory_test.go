package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k1", []byte("v1"), 0))

	value, hit, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("v1"), value)

	_, hit, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "short", []byte("v"), 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)

	_, hit, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNewSelectsBackend(t *testing.T) {
	c, err := New(&Config{Backend: "memory"})
	require.NoError(t, err)
	require.IsType(t, &MemoryCache{}, c)
	c.Close()

	_, err = New(&Config{Backend: "etcd"})
	assert.Error(t, err)
}
