package store

import "sync"

// Memory is a thread-safe in-memory Backend.
// Values are lost when the process exits.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ Backend = (*Memory)(nil)

// NewMemory creates an empty in-memory Backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Read(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Write(key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
