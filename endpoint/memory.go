package endpoint

import (
	"context"
	"sync"
)

// Memory is an in-process Backend, used by tests and by the round-trip
// invariants in spec.md §8 that need a real (if trivial) store.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailNext, when > 0, makes the next N PutOnce/GetOnce calls fail
	// transiently before succeeding — used to exercise Endpoint's retry
	// loop deterministically (spec.md §8 boundary scenario 6).
	FailNext int
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) PutOnce(_ context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext > 0 {
		m.FailNext--
		return errTransient
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[path] = cp
	return nil
}

func (m *Memory) GetOnce(_ context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailNext > 0 {
		m.FailNext--
		return nil, errTransient
	}
	data, ok := m.objects[path]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

var errTransient = errNamed("endpoint: simulated transient failure")

type errNamed string

func (e errNamed) Error() string { return string(e) }
