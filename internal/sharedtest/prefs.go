package sharedtest

import (
	"errors"
	"sync"
)

// ErrFakeStore is the error returned by FailingPreferenceStore writes.
var ErrFakeStore = errors.New("sorry")

// FailingPreferenceStore is an interfaces.PreferenceStore whose writes always fail.
type FailingPreferenceStore struct {
	values map[string]string
	lock   sync.Mutex
}

// NewFailingPreferenceStore creates a store that starts with the given values.
func NewFailingPreferenceStore(values map[string]string) *FailingPreferenceStore {
	return &FailingPreferenceStore{values: values}
}

func (s *FailingPreferenceStore) Get(key string) (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FailingPreferenceStore) Set(string, string) error { return ErrFakeStore }

func (s *FailingPreferenceStore) Remove(...string) error { return ErrFakeStore }

func (s *FailingPreferenceStore) Clear() error { return ErrFakeStore }
