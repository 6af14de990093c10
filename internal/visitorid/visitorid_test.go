package visitorid

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal/prefs"
	"github.com/analyticskit/go-analytics/internal/sharedtest"
	"github.com/analyticskit/go-analytics/model"
	"github.com/analyticskit/go-analytics/prefstore"
)

const lifetime = 395 * 24 * time.Hour

var startTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixedMode struct{ mode model.PrivacyMode }

func (m fixedMode) CurrentMode() model.PrivacyMode { return m.mode }

type fakeAdSource struct {
	info  interfaces.AdvertisingIDInfo
	err   error
	calls int32
	delay time.Duration
}

func (f *fakeAdSource) AdvertisingIDInfo(ctx context.Context) (interfaces.AdvertisingIDInfo, error) {
	atomic.AddInt32(&f.calls, 1)
	time.Sleep(f.delay)
	return f.info, f.err
}

type staticSource struct {
	id      string
	limited bool
}

func (s staticSource) VisitorID() (string, bool) { return s.id, s.id != "" }
func (s staticSource) LimitAdTracking() bool     { return s.limited }

func TestUUIDSource(t *testing.T) {
	t.Run("generates and keeps an id", func(t *testing.T) {
		store := prefstore.NewMemoryStore()
		clock := sharedtest.NewFakeClock(startTime)
		s := NewUUIDSource(prefs.NewStorage(store, ldlog.NewDisabledLoggers()), lifetime, model.VisitorStorageFixed, clock)
		id, ok := s.VisitorID()
		require.True(t, ok)
		assert.NotEmpty(t, id)
		clock.Advance(time.Hour)
		id2, _ := s.VisitorID()
		assert.Equal(t, id, id2)
		assert.Equal(t, id, store.Snapshot()[prefs.KeyVisitorUUID])
		assert.False(t, s.LimitAdTracking())
	})

	t.Run("fixed mode expires from generation", func(t *testing.T) {
		clock := sharedtest.NewFakeClock(startTime)
		s := NewUUIDSource(prefs.NewStorage(prefstore.NewMemoryStore(), ldlog.NewDisabledLoggers()),
			lifetime, model.VisitorStorageFixed, clock)
		id, _ := s.VisitorID()
		clock.Advance(lifetime - time.Hour)
		id2, _ := s.VisitorID()
		assert.Equal(t, id, id2)
		clock.Advance(time.Hour)
		id3, _ := s.VisitorID()
		assert.NotEqual(t, id, id3)
	})

	t.Run("relative mode slides the expiry", func(t *testing.T) {
		clock := sharedtest.NewFakeClock(startTime)
		s := NewUUIDSource(prefs.NewStorage(prefstore.NewMemoryStore(), ldlog.NewDisabledLoggers()),
			lifetime, model.VisitorStorageRelative, clock)
		id, _ := s.VisitorID()
		clock.Advance(lifetime - time.Hour)
		_, _ = s.VisitorID()
		clock.Advance(2 * time.Hour)
		id2, _ := s.VisitorID()
		assert.Equal(t, id, id2)
	})
}

func TestCustomSource(t *testing.T) {
	var s CustomSource
	_, ok := s.VisitorID()
	assert.False(t, ok)
	s.Set("visitor-1")
	id, ok := s.VisitorID()
	assert.True(t, ok)
	assert.Equal(t, "visitor-1", id)
}

func TestAdvertisingSource(t *testing.T) {
	t.Run("queries once", func(t *testing.T) {
		fake := &fakeAdSource{info: interfaces.AdvertisingIDInfo{ID: "ad-1"}, delay: 20 * time.Millisecond}
		s := NewAdvertisingSource("google", fake, ldlog.NewDisabledLoggers())
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id, ok := s.VisitorID()
				assert.True(t, ok)
				assert.Equal(t, "ad-1", id)
			}()
		}
		wg.Wait()
		assert.False(t, s.LimitAdTracking())
		assert.Equal(t, int32(1), atomic.LoadInt32(&fake.calls))
	})

	t.Run("failure means no id and limited tracking", func(t *testing.T) {
		mockLog := ldlogtest.NewMockLog()
		s := NewAdvertisingSource("huawei", &fakeAdSource{err: errors.New("unavailable")}, mockLog.Loggers)
		_, ok := s.VisitorID()
		assert.False(t, ok)
		assert.True(t, s.LimitAdTracking())
		mockLog.AssertMessageMatch(t, true, ldlog.Warn, "Unable to get huawei advertising ID")
	})

	t.Run("no platform source", func(t *testing.T) {
		s := NewAdvertisingSource("google", nil, ldlog.NewDisabledLoggers())
		_, ok := s.VisitorID()
		assert.False(t, ok)
		assert.True(t, s.LimitAdTracking())
	})
}

func TestFirstOf(t *testing.T) {
	s := FirstOf(staticSource{limited: true}, staticSource{id: "b"})
	id, ok := s.VisitorID()
	assert.True(t, ok)
	assert.Equal(t, "b", id)
	assert.True(t, s.LimitAdTracking())

	_, ok = FirstOf(staticSource{}).VisitorID()
	assert.False(t, ok)
}

func TestProvider(t *testing.T) {
	sources := map[model.VisitorIDType]Source{
		model.VisitorIDCustom:            staticSource{id: "custom"},
		model.VisitorIDGoogleAdvertising: staticSource{id: "ad", limited: true},
	}
	fallback := staticSource{id: "uuid"}
	newProvider := func(mode model.PrivacyMode, idType model.VisitorIDType, ignoreLT bool) *Provider {
		return NewProvider(ProviderParams{
			Modes:                   fixedMode{mode},
			Type:                    idType,
			Sources:                 sources,
			Fallback:                fallback,
			IgnoreLimitedAdTracking: ignoreLT,
		})
	}

	for _, tc := range []struct {
		mode     model.PrivacyMode
		expected string
	}{
		{model.PrivacyModeOptOut, OptOutID},
		{model.PrivacyModeNoConsent, NoConsentID},
		{model.PrivacyModeNoStorage, NoStorageID},
		{model.PrivacyModeOptIn, "custom"},
		{model.PrivacyModeExempt, "custom"},
	} {
		t.Run(tc.mode.Name(), func(t *testing.T) {
			id, ok := newProvider(tc.mode, model.VisitorIDCustom, false).VisitorID()
			assert.True(t, ok)
			assert.Equal(t, tc.expected, id)
		})
	}

	t.Run("limited tracking reports opt-out", func(t *testing.T) {
		id, _ := newProvider(model.PrivacyModeOptIn, model.VisitorIDGoogleAdvertising, false).VisitorID()
		assert.Equal(t, OptOutID, id)
	})

	t.Run("limited tracking can be ignored", func(t *testing.T) {
		id, _ := newProvider(model.PrivacyModeOptIn, model.VisitorIDGoogleAdvertising, true).VisitorID()
		assert.Equal(t, "uuid", id)
	})

	t.Run("missing source falls back", func(t *testing.T) {
		id, _ := newProvider(model.PrivacyModeOptIn, model.VisitorIDHuaweiAdvertising, false).VisitorID()
		assert.Equal(t, "uuid", id)
	})
}
