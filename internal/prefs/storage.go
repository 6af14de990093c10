// Package prefs provides typed access to the persisted preference values, and applies the current
// privacy mode's storage rules to every write.
package prefs

import (
	"strconv"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/model"
)

// FeatureFilter decides whether values belonging to a storage feature may be written.
type FeatureFilter func(model.PrivacyStorageFeature) bool

// Storage wraps an interfaces.PreferenceStore. Writes to a key are silently skipped if the
// feature filter rejects the key's storage feature, or if the key is not a known key.
type Storage struct {
	store   interfaces.PreferenceStore
	loggers ldlog.Loggers
	filter  FeatureFilter
	lock    sync.RWMutex
}

// NewStorage creates a Storage. Values written by incompatible older versions are removed.
func NewStorage(store interfaces.PreferenceStore, loggers ldlog.Loggers) *Storage {
	s := &Storage{
		store:   store,
		loggers: loggers,
		filter:  func(model.PrivacyStorageFeature) bool { return true },
	}
	s.migrate()
	return s
}

func (s *Storage) migrate() {
	for _, k := range legacyKeys {
		if _, ok := s.store.Get(k); ok {
			s.loggers.Warn("Updating from old version, breaking changes detected. Removing some stored data")
			keys := append(append([]string(nil), legacyKeys...), changedKeys...)
			if err := s.store.Remove(keys...); err != nil {
				s.loggers.Errorf("Failed to remove outdated preferences: %s", err)
			}
			return
		}
	}
}

// SetFeatureFilter replaces the filter applied to writes.
func (s *Storage) SetFeatureFilter(filter FeatureFilter) {
	s.lock.Lock()
	s.filter = filter
	s.lock.Unlock()
}

func (s *Storage) canSave(key string) bool {
	feature, ok := featureByKey[key]
	if !ok {
		return false
	}
	s.lock.RLock()
	filter := s.filter
	s.lock.RUnlock()
	return filter(feature)
}

// Clear removes every stored value.
func (s *Storage) Clear() {
	if err := s.store.Clear(); err != nil {
		s.loggers.Errorf("Failed to clear preferences: %s", err)
	}
}

// CleanStorageFeature removes the values of one storage feature, or all values for
// model.StorageAll.
func (s *Storage) CleanStorageFeature(feature model.PrivacyStorageFeature) {
	if feature == model.StorageAll {
		s.Clear()
		return
	}
	if keys := KeysOf(feature); len(keys) > 0 {
		if err := s.store.Remove(keys...); err != nil {
			s.loggers.Errorf("Failed to remove %s preferences: %s", feature, err)
		}
	}
}

// Remove deletes a value. Removal is not subject to the feature filter.
func (s *Storage) Remove(key string) {
	if err := s.store.Remove(key); err != nil {
		s.loggers.Errorf("Failed to remove preference %s: %s", key, err)
	}
}

// String returns a stored string, or "" and false if it is not set.
func (s *Storage) String(key string) (string, bool) {
	return s.store.Get(key)
}

// SetString stores a string, if allowed.
func (s *Storage) SetString(key, value string) {
	if !s.canSave(key) {
		return
	}
	if err := s.store.Set(key, value); err != nil {
		s.loggers.Errorf("Failed to save preference %s: %s", key, err)
	}
}

// Int64 returns a stored number, or 0 if it is not set or malformed.
func (s *Storage) Int64(key string) int64 {
	v, ok := s.store.Get(key)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		s.loggers.Warnf("Ignoring malformed preference %s", key)
		return 0
	}
	return n
}

// SetInt64 stores a number, if allowed.
func (s *Storage) SetInt64(key string, value int64) {
	s.SetString(key, strconv.FormatInt(value, 10))
}

// Bool returns a stored boolean, or false if it is not set or malformed.
func (s *Storage) Bool(key string) bool {
	v, ok := s.store.Get(key)
	if !ok {
		return false
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// SetBool stores a boolean, if allowed.
func (s *Storage) SetBool(key string, value bool) {
	s.SetString(key, strconv.FormatBool(value))
}
