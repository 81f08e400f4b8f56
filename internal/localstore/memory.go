package localstore

import (
	"context"
	"sync"
)

// Memory is an in-process store used by tests and by the CLI when no state
// directory is configured.
type Memory struct {
	mu    sync.Mutex
	slots map[string][]byte

	// FailPut, when set, is returned by every Put.
	FailPut error
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		return m.FailPut
	}
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

// Keys returns the number of populated slots.
func (m *Memory) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}
