package cache

import (
	"context"
	"sync"
)

// Memory is an in-process cache holding at most size entries. When full, an
// arbitrary entry is evicted.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
	size int
}

func NewMemory(size int) *Memory {
	if size <= 0 {
		size = 1
	}
	return &Memory{
		data: make(map[string]string, size),
		size: size,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *Memory) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[key]; !ok && len(m.data) >= m.size {
		for k := range m.data {
			delete(m.data, k)
			break
		}
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
