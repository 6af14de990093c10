// Package visitorid resolves the visitor identifier that is sent with every request.
package visitorid

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"golang.org/x/sync/singleflight"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal/prefs"
	"github.com/analyticskit/go-analytics/model"
)

// Source supplies one kind of visitor identifier.
type Source interface {
	// VisitorID returns the identifier, or false if the source has none.
	VisitorID() (string, bool)
	// LimitAdTracking returns true if the user asked not to be tracked with this identifier.
	LimitAdTracking() bool
}

// UUIDSource generates a random identifier and persists it for the visitor lifetime.
type UUIDSource struct {
	prefs    *prefs.Storage
	lifetime time.Duration
	mode     model.VisitorStorageMode
	clock    interfaces.Clock
	lock     sync.Mutex
}

// NewUUIDSource creates a UUIDSource. In model.VisitorStorageRelative mode the lifetime is
// measured from the last use rather than from generation.
func NewUUIDSource(p *prefs.Storage, lifetime time.Duration, mode model.VisitorStorageMode,
	clock interfaces.Clock) *UUIDSource {
	return &UUIDSource{prefs: p, lifetime: lifetime, mode: mode, clock: clock}
}

// VisitorID returns the stored identifier, replacing it first if it is missing or expired.
func (s *UUIDSource) VisitorID() (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	now := s.clock.Now().UnixMilli()
	if id, ok := s.prefs.String(prefs.KeyVisitorUUID); ok && id != "" {
		generated := s.prefs.Int64(prefs.KeyVisitorUUIDGenerationTimestamp)
		if generated == 0 {
			generated = now
			s.prefs.SetInt64(prefs.KeyVisitorUUIDGenerationTimestamp, now)
		}
		if generated+s.lifetime.Milliseconds() > now {
			if s.mode == model.VisitorStorageRelative {
				s.prefs.SetInt64(prefs.KeyVisitorUUIDGenerationTimestamp, now)
			}
			return id, true
		}
	}
	id := uuid.NewString()
	s.prefs.SetString(prefs.KeyVisitorUUID, id)
	s.prefs.SetInt64(prefs.KeyVisitorUUIDGenerationTimestamp, now)
	return id, true
}

// LimitAdTracking is always false.
func (s *UUIDSource) LimitAdTracking() bool { return false }

// CustomSource returns an identifier set by the host application.
type CustomSource struct {
	id   string
	lock sync.RWMutex
}

// Set changes the identifier; "" removes it.
func (s *CustomSource) Set(id string) {
	s.lock.Lock()
	s.id = id
	s.lock.Unlock()
}

func (s *CustomSource) VisitorID() (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.id, s.id != ""
}

func (s *CustomSource) LimitAdTracking() bool { return false }

// AdvertisingSource adapts an interfaces.AdvertisingIDSource. The platform is queried once;
// concurrent first calls share one query. If the query fails or there is no platform source, the
// source has no identifier and reports limited tracking.
type AdvertisingSource struct {
	name    string
	source  interfaces.AdvertisingIDSource
	timeout time.Duration
	loggers ldlog.Loggers
	group   singleflight.Group
	info    *interfaces.AdvertisingIDInfo
	lock    sync.Mutex
}

// DefaultLookupTimeout is the longest time an advertising identifier query may take.
const DefaultLookupTimeout = 10 * time.Second

// NewAdvertisingSource creates an AdvertisingSource. source may be nil.
func NewAdvertisingSource(name string, source interfaces.AdvertisingIDSource, loggers ldlog.Loggers) *AdvertisingSource {
	return &AdvertisingSource{name: name, source: source, timeout: DefaultLookupTimeout, loggers: loggers}
}

func (s *AdvertisingSource) load() *interfaces.AdvertisingIDInfo {
	s.lock.Lock()
	info := s.info
	s.lock.Unlock()
	if info != nil {
		return info
	}
	v, _, _ := s.group.Do(s.name, func() (interface{}, error) {
		result := &interfaces.AdvertisingIDInfo{LimitAdTracking: true}
		if s.source != nil {
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()
			fetched, err := s.source.AdvertisingIDInfo(ctx)
			if err != nil {
				s.loggers.Warnf("Unable to get %s advertising ID: %s", s.name, err)
			} else {
				result = &fetched
			}
		}
		s.lock.Lock()
		s.info = result
		s.lock.Unlock()
		return result, nil
	})
	return v.(*interfaces.AdvertisingIDInfo)
}

func (s *AdvertisingSource) VisitorID() (string, bool) {
	info := s.load()
	return info.ID, info.ID != ""
}

func (s *AdvertisingSource) LimitAdTracking() bool {
	return s.load().LimitAdTracking
}

type firstOf []Source

// FirstOf combines sources: the identifier comes from the first source that has one, and tracking
// is limited if any source limits it.
func FirstOf(sources ...Source) Source {
	return firstOf(sources)
}

func (f firstOf) VisitorID() (string, bool) {
	for _, s := range f {
		if id, ok := s.VisitorID(); ok {
			return id, true
		}
	}
	return "", false
}

func (f firstOf) LimitAdTracking() bool {
	for _, s := range f {
		if s.LimitAdTracking() {
			return true
		}
	}
	return false
}
