package storage

import "context"

// Memory keeps entries in a plain map. It backs tests and ephemeral runs;
// the application is single-threaded so no locking is required.
type Memory struct {
	entries map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := m.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	copied := make([]byte, len(value))
	copy(copied, value)
	m.entries[key] = copied
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
