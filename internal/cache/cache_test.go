package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return a stored value", func(t *testing.T) {
		m, err := NewMemory(0)
		require.NoError(t, err)
		defer m.Close()

		require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Hour))
		got, ok := m.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("Should miss after expiry", func(t *testing.T) {
		m, err := NewMemory(0)
		require.NoError(t, err)
		defer m.Close()

		require.NoError(t, m.Set(ctx, "k", []byte("v"), 50*time.Millisecond))
		time.Sleep(100 * time.Millisecond)
		_, ok := m.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("Should miss after delete", func(t *testing.T) {
		m, err := NewMemory(0)
		require.NoError(t, err)
		defer m.Close()

		require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Hour))
		require.NoError(t, m.Delete(ctx, "k"))
		_, ok := m.Get(ctx, "k")
		assert.False(t, ok)
	})
}

func TestRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedis(client, "clickform:")

	t.Run("Should store values under the prefix", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "spaces_1", []byte(`[]`), time.Hour))
		assert.True(t, mr.Exists("clickform:spaces_1"))

		got, ok := c.Get(ctx, "spaces_1")
		require.True(t, ok)
		assert.Equal(t, []byte(`[]`), got)
	})

	t.Run("Should miss once the TTL has elapsed", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "lists_1", []byte(`[]`), time.Hour))
		mr.FastForward(time.Hour + time.Second)
		_, ok := c.Get(ctx, "lists_1")
		assert.False(t, ok)
	})

	t.Run("Should miss on unknown keys", func(t *testing.T) {
		_, ok := c.Get(ctx, "missing")
		assert.False(t, ok)
	})
}
