// Package users keeps the current user of the host application.
package users

import (
	"sync"
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal/prefs"
	"github.com/analyticskit/go-analytics/model"
)

// StorageParams contains the dependencies of a Storage.
type StorageParams struct {
	Prefs    *prefs.Storage
	Lifetime time.Duration
	Clock    interfaces.Clock
	Loggers  ldlog.Loggers
}

// Storage holds the current user. A user that should be stored is persisted together with the time
// it was saved, and is forgotten once the lifetime has passed.
type Storage struct {
	prefs      *prefs.Storage
	lifetime   time.Duration
	clock      interfaces.Clock
	loggers    ldlog.Loggers
	explicit   *model.User
	stored     *model.User
	storedRaw  string
	recognized bool
	lock       sync.Mutex
}

// NewStorage creates a Storage and loads the persisted user, if any.
func NewStorage(params StorageParams) *Storage {
	s := &Storage{
		prefs:    params.Prefs,
		lifetime: params.Lifetime,
		clock:    params.Clock,
		loggers:  params.Loggers,
	}
	if raw, ok := s.prefs.String(prefs.KeyUser); ok {
		s.storedRaw = raw
		s.stored = s.parse(raw)
	}
	s.recognized = s.stored != nil
	return s
}

// User returns the current user, or nil if there is none.
func (s *Storage) User() *model.User {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.explicit != nil {
		u := *s.explicit
		return &u
	}
	if u := s.storedUserLocked(); u != nil {
		ret := *u
		return &ret
	}
	return nil
}

// Recognized returns true if the current user was loaded from storage rather than set during this
// run.
func (s *Storage) Recognized() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.explicit == nil {
		s.storedUserLocked()
	}
	return s.recognized
}

// SetUser replaces the current user; nil removes it. The user is persisted only if its
// ShouldBeStored field is true.
func (s *Storage) SetUser(u *model.User) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.recognized = false
	if u == nil {
		s.explicit = nil
		s.saveLocked(nil)
		return
	}
	copied := *u
	s.explicit = &copied
	if copied.ShouldBeStored {
		s.saveLocked(&copied)
	}
}

func (s *Storage) storedUserLocked() *model.User {
	raw, _ := s.prefs.String(prefs.KeyUser)
	if raw != s.storedRaw {
		s.storedRaw = raw
		s.stored = s.parse(raw)
	}
	if s.stored == nil {
		s.recognized = false
		return nil
	}
	now := s.clock.Now().UnixMilli()
	generated := s.prefs.Int64(prefs.KeyUserGenerationTimestamp)
	if generated == 0 {
		generated = now
		s.prefs.SetInt64(prefs.KeyUserGenerationTimestamp, generated)
	}
	if generated+s.lifetime.Milliseconds() <= now {
		s.loggers.Debug("Stored user has expired")
		s.recognized = false
		s.saveLocked(nil)
		return nil
	}
	return s.stored
}

func (s *Storage) saveLocked(u *model.User) {
	s.stored = u
	if u == nil {
		s.storedRaw = ""
		s.prefs.Remove(prefs.KeyUser)
		s.prefs.Remove(prefs.KeyUserGenerationTimestamp)
		return
	}
	s.storedRaw = string(MarshalUser(*u))
	s.prefs.SetString(prefs.KeyUser, s.storedRaw)
	s.prefs.SetInt64(prefs.KeyUserGenerationTimestamp, s.clock.Now().UnixMilli())
}

func (s *Storage) parse(raw string) *model.User {
	if raw == "" {
		return nil
	}
	u, err := UnmarshalUser([]byte(raw))
	if err != nil {
		s.loggers.Warnf("Ignoring malformed stored user: %s", err)
		return nil
	}
	return &u
}

// MarshalUser returns the stored JSON representation of a user.
func MarshalUser(u model.User) []byte {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("id").String(u.ID)
	obj.Maybe("category", u.Category != "").String(u.Category)
	obj.End()
	return w.Bytes()
}

// UnmarshalUser parses the output of MarshalUser. The result always has ShouldBeStored set.
func UnmarshalUser(data []byte) (model.User, error) {
	ret := model.User{ShouldBeStored: true}
	r := jreader.NewReader(data)
	for obj := r.Object().WithRequiredProperties([]string{"id"}); obj.Next(); {
		switch string(obj.Name()) {
		case "id":
			ret.ID = r.String()
		case "category":
			ret.Category, _ = r.StringOrNull()
		}
	}
	if err := r.Error(); err != nil {
		return model.User{}, err
	}
	return ret, nil
}
