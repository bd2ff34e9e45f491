package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Memory is an in-process Cache backed by ristretto.
type Memory struct {
	store *ristretto.Cache[string, []byte]
}

// NewMemory creates an in-process cache holding up to maxBytes of values.
func NewMemory(maxBytes int64) (*Memory, error) {
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	store, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 10_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &Memory{store: store}, nil
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	return m.store.Get(key)
}

// Set implements Cache. The write is visible to Get once Set returns.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if !m.store.SetWithTTL(key, value, int64(len(value))+1, ttl) {
		return fmt.Errorf("cache rejected key %s", key)
	}
	m.store.Wait()
	return nil
}

// Delete implements Cache.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.store.Del(key)
	return nil
}

// Close releases the cache's background goroutines.
func (m *Memory) Close() {
	m.store.Close()
}
