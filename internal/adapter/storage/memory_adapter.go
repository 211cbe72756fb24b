package storage

import (
	"context"
	"sync"
)

// MemoryQuantityRepository keeps quantities in process memory. Used when no Redis is configured.
type MemoryQuantityRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryQuantityRepository() *MemoryQuantityRepository {
	return &MemoryQuantityRepository{values: make(map[string]string)}
}

func (m *MemoryQuantityRepository) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryQuantityRepository) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}
