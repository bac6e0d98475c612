package kvstore

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Store backed by a map. It is the default backend
// for tests and for hosts that do not need persistence across restarts.
//
// MaxBytes, when positive, bounds the total stored payload size and makes
// Set fail the way a quota-limited medium would, which lets tests exercise
// the cleanup-and-retry write path.
type Memory struct {
	mu       sync.RWMutex
	values   map[string]string
	maxBytes int
}

// NewMemory creates an empty in-memory store without a quota.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// NewMemoryWithQuota creates an in-memory store that rejects writes once the
// total payload would exceed maxBytes.
func NewMemoryWithQuota(maxBytes int) *Memory {
	return &Memory{values: make(map[string]string), maxBytes: maxBytes}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxBytes > 0 {
		total := len(value)
		for k, v := range m.values {
			if k == key {
				continue
			}
			total += len(v)
		}
		if total > m.maxBytes {
			return fmt.Errorf("set %q: quota of %d bytes exceeded", key, m.maxBytes)
		}
	}

	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
