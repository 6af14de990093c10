// Package privacy keeps track of the current privacy mode and enforces its storage rules.
package privacy

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal/prefs"
	"github.com/analyticskit/go-analytics/model"
)

// ErrUnknownPrivacyMode is returned when a mode name is not registered.
var ErrUnknownPrivacyMode = errors.New("privacy mode is not registered")

// ModesStorageParams contains the dependencies of a ModesStorage.
type ModesStorageParams struct {
	CustomModes     []model.PrivacyMode
	DefaultModeName string
	StorageLifetime time.Duration
	Prefs           *prefs.Storage
	Clock           interfaces.Clock
	Loggers         ldlog.Loggers
}

// ModesStorage holds the registry of privacy modes and the current mode.
//
// The registry is fixed at construction. The current mode is persisted together with an expiration
// time; once that time has passed, the default mode applies again.
type ModesStorage struct {
	registry    map[string]model.PrivacyMode
	defaultMode model.PrivacyMode
	lifetime    time.Duration
	prefs       *prefs.Storage
	clock       interfaces.Clock
	loggers     ldlog.Loggers
	cached      atomic.Pointer[model.PrivacyMode]
	lock        sync.Mutex
}

// NewModesStorage creates a ModesStorage and installs its storage feature filter on params.Prefs.
func NewModesStorage(params ModesStorageParams) (*ModesStorage, error) {
	registry := make(map[string]model.PrivacyMode)
	for _, m := range model.BuiltInPrivacyModes() {
		registry[m.Name()] = m
	}
	for _, m := range params.CustomModes {
		if m.Name() == "" {
			return nil, errors.New("custom privacy mode must have a name")
		}
		if _, exists := registry[m.Name()]; exists {
			return nil, fmt.Errorf("privacy mode %q is already registered", m.Name())
		}
		registry[m.Name()] = m
	}
	defaultName := params.DefaultModeName
	if defaultName == "" {
		defaultName = model.PrivacyModeOptInName
	}
	defaultMode, ok := registry[defaultName]
	if !ok {
		return nil, fmt.Errorf("%w: default mode %q", ErrUnknownPrivacyMode, defaultName)
	}
	s := &ModesStorage{
		registry:    registry,
		defaultMode: defaultMode,
		lifetime:    params.StorageLifetime,
		prefs:       params.Prefs,
		clock:       params.Clock,
		loggers:     params.Loggers,
	}
	s.prefs.SetFeatureFilter(s.IsFeatureAllowed)
	return s, nil
}

// Modes returns every registered mode, ordered by name.
func (s *ModesStorage) Modes() []model.PrivacyMode {
	names := maps.Keys(s.registry)
	sort.Strings(names)
	ret := make([]model.PrivacyMode, 0, len(names))
	for _, n := range names {
		ret = append(ret, s.registry[n])
	}
	return ret
}

// Mode looks up a registered mode by name.
func (s *ModesStorage) Mode(name string) (model.PrivacyMode, bool) {
	m, ok := s.registry[name]
	return m, ok
}

// DefaultMode returns the mode that applies when no other mode has been set.
func (s *ModesStorage) DefaultMode() model.PrivacyMode { return s.defaultMode }

// CurrentMode resolves the mode that applies now.
func (s *ModesStorage) CurrentMode() model.PrivacyMode {
	s.lock.Lock()
	defer s.lock.Unlock()

	if cur := s.cached.Load(); cur != nil && isNonPersistentMode(*cur) {
		return *cur
	}
	expiration := s.prefs.Int64(prefs.KeyPrivacyModeExpirationTimestamp)
	if expiration > 0 && expiration <= s.clock.Now().UnixMilli() {
		s.loggers.Debugf("Privacy mode expired, reverting to %s", s.defaultMode.Name())
		s.setLocked(s.defaultMode)
		return s.defaultMode
	}
	mode := s.defaultMode
	if name, ok := s.prefs.String(prefs.KeyPrivacyMode); ok {
		if stored, found := s.registry[name]; found {
			mode = stored
		}
	}
	s.cached.Store(&mode)
	return mode
}

// SetMode makes a registered mode current and persists it, if the mode allows that. Stored values
// of every storage feature the new mode does not allow are removed.
func (s *ModesStorage) SetMode(name string) error {
	mode, ok := s.registry[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPrivacyMode, name)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.setLocked(mode)
	return nil
}

func (s *ModesStorage) setLocked(mode model.PrivacyMode) {
	s.cached.Store(&mode)
	s.prefs.SetString(prefs.KeyPrivacyMode, mode.Name())
	s.prefs.SetInt64(prefs.KeyPrivacyModeExpirationTimestamp, s.clock.Now().Add(s.lifetime).UnixMilli())
	s.prefs.SetBool(prefs.KeyPrivacyVisitorConsent, mode.VisitorConsent())
	for _, f := range model.AllStorageFeatures {
		if !IsFeatureAllowedIn(mode, f) {
			s.prefs.CleanStorageFeature(f)
		}
	}
}

// IsFeatureAllowed reports whether values of a storage feature may be written in the most recently
// resolved mode.
func (s *ModesStorage) IsFeatureAllowed(feature model.PrivacyStorageFeature) bool {
	cur := s.cached.Load()
	if cur == nil {
		return IsFeatureAllowedIn(s.defaultMode, feature)
	}
	return IsFeatureAllowedIn(*cur, feature)
}

// IsFeatureAllowedIn reports whether a mode allows writing a storage feature. A feature is allowed if
// it or model.StorageAll is allowed, and neither is forbidden.
func IsFeatureAllowedIn(mode model.PrivacyMode, feature model.PrivacyStorageFeature) bool {
	forbidden := mode.ForbiddenStorage()
	if slices.Contains(forbidden, model.StorageAll) || slices.Contains(forbidden, feature) {
		return false
	}
	allowed := mode.AllowedStorage()
	return slices.Contains(allowed, model.StorageAll) || slices.Contains(allowed, feature)
}

func isNonPersistentMode(m model.PrivacyMode) bool {
	return m.Name() == model.PrivacyModeNoConsentName || m.Name() == model.PrivacyModeNoStorageName
}
