package cache

import (
	"context"
	"sync"

	"scs-go/internal/scs"
)

// MemoryCache is an in-memory implementation of the Cache interface.
// Nothing survives the process, making it useful for testing and for
// throwaway sessions. This implementation is safe for concurrent use.
type MemoryCache struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: make(map[string][]byte)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryCache) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryCache) Close() error { return nil }

// Compile-time check that MemoryCache implements scs.Cache interface
var _ scs.Cache = (*MemoryCache)(nil)
