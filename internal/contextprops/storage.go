// Package contextprops holds the context property bundles that the host application registers.
package contextprops

import (
	"sync"

	"github.com/analyticskit/go-analytics/model"
)

// Storage is a list of context property bundles, in the order they were added.
type Storage struct {
	bundles []model.ContextProperty
	lock    sync.Mutex
}

// NewStorage creates an empty Storage.
func NewStorage() *Storage {
	return &Storage{}
}

// Add appends a bundle.
func (s *Storage) Add(cp model.ContextProperty) {
	s.lock.Lock()
	s.bundles = append(s.bundles, cp)
	s.lock.Unlock()
}

// Clear removes every bundle.
func (s *Storage) Clear() {
	s.lock.Lock()
	s.bundles = nil
	s.lock.Unlock()
}

// DeleteByKey removes a property from every bundle. Bundles left with no properties are removed.
func (s *Storage) DeleteByKey(name model.PropertyName) {
	s.lock.Lock()
	defer s.lock.Unlock()
	kept := s.bundles[:0]
	for _, cp := range s.bundles {
		cp = cp.WithoutProperty(name)
		if len(cp.Properties()) > 0 {
			kept = append(kept, cp)
		}
	}
	s.bundles = kept
}

// Len returns the number of bundles.
func (s *Storage) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.bundles)
}

// GetByEventName returns the properties of every bundle that applies to an event name, in bundle
// order. model.AnyEventName selects all bundles. Non-persistent bundles that were selected are
// removed.
func (s *Storage) GetByEventName(eventName string) []model.Property {
	s.lock.Lock()
	defer s.lock.Unlock()
	var ret []model.Property
	kept := s.bundles[:0]
	for _, cp := range s.bundles {
		matched := eventName == model.AnyEventName || appliesTo(cp, eventName)
		if matched {
			ret = append(ret, cp.Properties()...)
		}
		if !matched || cp.Persistent() {
			kept = append(kept, cp)
		}
	}
	for i := len(kept); i < len(s.bundles); i++ {
		s.bundles[i] = model.ContextProperty{}
	}
	s.bundles = kept
	return ret
}

func appliesTo(cp model.ContextProperty, eventName string) bool {
	for _, pattern := range cp.EventNames() {
		if model.WildcardMatches(pattern, eventName) {
			return true
		}
	}
	return false
}
