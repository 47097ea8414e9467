package i18n

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. It backs tests and single-instance
// deployments that do not need translations to survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Key]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key]string)}
}

func (m *MemoryStore) Find(_ context.Context, key Key) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryStore) Insert(_ context.Context, key Key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; ok {
		return ErrConflict
	}
	m.entries[key] = value
	return nil
}

func (m *MemoryStore) DeleteEntity(_ context.Context, entityType, entityID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.entries {
		if k.EntityType == entityType && k.EntityID == entityID {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) DeleteLanguage(_ context.Context, lang string) (int64, error) {
	lang = NormalizeLang(lang)
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.entries {
		if k.Language == lang {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of cached entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
