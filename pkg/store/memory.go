package store

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Save(ctx context.Context, e Entry) error {
	e, err := prepare(e)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Name] = e.clone()
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, name string) (*Entry, error) {
	m.mu.RLock()
	e, ok := m.entries[name]
	m.mu.RUnlock()
	if !ok {
		return nil, notFound(name)
	}
	e = e.clone()
	return &e, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Info, 0, len(m.entries))
	for _, name := range slices.Sorted(maps.Keys(m.entries)) {
		out = append(out, m.entries[name].info())
	}
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
