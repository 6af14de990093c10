package prefstore

import (
	cache "github.com/patrickmn/go-cache"
)

// MemoryStore is a PreferenceStore that keeps values in memory only.
type MemoryStore struct {
	values *cache.Cache
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: cache.New(cache.NoExpiration, 0)}
}

// Get returns a stored value.
func (m *MemoryStore) Get(key string) (string, bool) {
	v, ok := m.values.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Set stores a value.
func (m *MemoryStore) Set(key, value string) error {
	m.values.Set(key, value, cache.NoExpiration)
	return nil
}

// Remove deletes values.
func (m *MemoryStore) Remove(keys ...string) error {
	for _, k := range keys {
		m.values.Delete(k)
	}
	return nil
}

// Clear deletes all values.
func (m *MemoryStore) Clear() error {
	m.values.Flush()
	return nil
}

// Snapshot returns a copy of all stored values.
func (m *MemoryStore) Snapshot() map[string]string {
	items := m.values.Items()
	ret := make(map[string]string, len(items))
	for k, item := range items {
		ret[k] = item.Object.(string)
	}
	return ret
}
