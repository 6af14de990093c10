package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal/prefs"
	"github.com/analyticskit/go-analytics/internal/sharedtest"
	"github.com/analyticskit/go-analytics/prefstore"
)

var startTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newPrefs(store *prefstore.MemoryStore) *prefs.Storage {
	return prefs.NewStorage(store, sharedtest.NewTestLoggers())
}

func TestFirstSession(t *testing.T) {
	store := prefstore.NewMemoryStore()
	clock := sharedtest.NewFakeClock(startTime)
	s := NewStorage(newPrefs(store), sharedtest.NewFakeDeviceInfo(), clock)

	f := s.Facts()
	assert.True(t, f.IsFirstSession())
	assert.False(t, f.IsFirstSessionAfterUpdate())
	assert.Equal(t, int64(1), f.SessionCount)
	assert.Equal(t, int64(1), f.SessionCountSinceUpdate)
	assert.Equal(t, startTime.UnixMilli(), f.FirstSessionDate.UnixMilli())
	assert.Equal(t, int64(0), f.DaysSinceFirstSession)
	assert.NotEmpty(t, f.SessionID)

	snapshot := store.Snapshot()
	assert.Equal(t, "1", snapshot[prefs.KeySessionCount])
	assert.Equal(t, "10", snapshot[prefs.KeyVersionCode])
}

func TestNewSessionIncrementsCounters(t *testing.T) {
	clock := sharedtest.NewFakeClock(startTime)
	s := NewStorage(newPrefs(prefstore.NewMemoryStore()), sharedtest.NewFakeDeviceInfo(), clock)
	firstID := s.SessionID()

	clock.Advance(3 * 24 * time.Hour)
	s.NewSession()

	f := s.Facts()
	assert.False(t, f.IsFirstSession())
	assert.False(t, f.IsFirstSessionAfterUpdate())
	assert.Equal(t, int64(2), f.SessionCount)
	assert.Equal(t, int64(2), f.SessionCountSinceUpdate)
	assert.Equal(t, int64(3), f.DaysSinceFirstSession)
	assert.Equal(t, int64(3), f.DaysSinceLastSession)
	assert.NotEqual(t, firstID, f.SessionID)
}

func TestRestartContinuesStoredState(t *testing.T) {
	store := prefstore.NewMemoryStore()
	clock := sharedtest.NewFakeClock(startTime)
	device := sharedtest.NewFakeDeviceInfo()
	_ = NewStorage(newPrefs(store), device, clock)

	clock.Advance(24 * time.Hour)
	s := NewStorage(newPrefs(store), device, clock)

	f := s.Facts()
	assert.Equal(t, int64(2), f.SessionCount)
	assert.Equal(t, int64(2), f.SessionCountSinceUpdate)
	assert.Equal(t, startTime.UnixMilli(), f.FirstSessionDate.UnixMilli())
	assert.Equal(t, int64(1), f.DaysSinceLastSession)
}

func TestVersionChangeStartsFirstSessionAfterUpdate(t *testing.T) {
	store := prefstore.NewMemoryStore()
	clock := sharedtest.NewFakeClock(startTime)
	device := sharedtest.NewFakeDeviceInfo()
	_ = NewStorage(newPrefs(store), device, clock)
	clock.Advance(time.Hour)
	_ = NewStorage(newPrefs(store), device, clock)

	clock.Advance(48 * time.Hour)
	device.SetAppInfo(&interfaces.AppInfo{ID: "com.example.app", Version: "1.3.0", VersionCode: 11})
	s := NewStorage(newPrefs(store), device, clock)

	f := s.Facts()
	assert.Equal(t, int64(3), f.SessionCount)
	assert.Equal(t, int64(1), f.SessionCountSinceUpdate)
	assert.True(t, f.IsFirstSessionAfterUpdate())
	assert.Equal(t, clock.Now().UnixMilli(), f.FirstSessionDateAfterUpdate.UnixMilli())
	assert.Equal(t, "11", store.Snapshot()[prefs.KeyVersionCode])

	clock.Advance(24 * time.Hour)
	s.NewSession()
	f = s.Facts()
	assert.False(t, f.IsFirstSessionAfterUpdate())
	assert.Equal(t, int64(2), f.SessionCountSinceUpdate)
	assert.Equal(t, int64(1), f.DaysSinceUpdate)
}

func TestStateIsKeptInMemoryWhenWritesFail(t *testing.T) {
	clock := sharedtest.NewFakeClock(startTime)
	p := prefs.NewStorage(sharedtest.NewFailingPreferenceStore(nil), sharedtest.NewTestLoggers())
	s := NewStorage(p, sharedtest.NewFakeDeviceInfo(), clock)
	s.NewSession()
	require.Equal(t, int64(2), s.Facts().SessionCount)
}

func TestReportDate(t *testing.T) {
	assert.Equal(t, 20240501, ReportDate(time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)))
	assert.Equal(t, 19991231, ReportDate(time.Date(1999, 12, 31, 23, 59, 0, 0, time.Local)))
	assert.Equal(t, 20000101, ReportDate(time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local)))
}

func TestReportDateUsesLocalCalendarDay(t *testing.T) {
	lateEvening := time.Date(1999, 12, 31, 23, 59, 0, 0, time.Local)
	assert.Equal(t, 19991231, ReportDate(lateEvening.UTC()))
	earlyMorning := time.Date(2000, 1, 1, 0, 1, 0, 0, time.Local)
	assert.Equal(t, 20000101, ReportDate(earlyMorning.In(time.FixedZone("far", -11*3600))))
}
