// Package session keeps the session counters and the current session identifier.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal/prefs"
)

const day = 24 * time.Hour

// Facts is a snapshot of the session state.
type Facts struct {
	SessionID                   string
	SessionCount                int64
	SessionCountSinceUpdate     int64
	FirstSessionDate            time.Time
	FirstSessionDateAfterUpdate time.Time
	LastSessionDate             time.Time
	DaysSinceFirstSession       int64
	DaysSinceUpdate             int64
	DaysSinceLastSession        int64
}

// IsFirstSession is true if this is the first session ever.
func (f Facts) IsFirstSession() bool { return f.SessionCount == 1 }

// IsFirstSessionAfterUpdate is true if this is the first session since the application version
// code changed, not counting the very first session.
func (f Facts) IsFirstSessionAfterUpdate() bool {
	return f.SessionCount != 1 && f.SessionCountSinceUpdate == 1
}

// Storage tracks sessions. Counters and dates are written through to the preference storage, which
// may discard them depending on the privacy mode; the in-memory values stay valid for the lifetime
// of the Storage.
type Storage struct {
	prefs       *prefs.Storage
	clock       interfaces.Clock
	versionCode int64

	sessionID               string
	sessionCount            int64
	sessionCountSinceUpdate int64
	firstSession            int64
	firstSessionAfterUpdate int64
	lastSession             int64
	previousSession         int64
	lock                    sync.RWMutex
}

// NewStorage loads the stored session state and starts a session: the first one if nothing was
// stored, otherwise the next one.
func NewStorage(p *prefs.Storage, device interfaces.DeviceInfoProvider, clock interfaces.Clock) *Storage {
	s := &Storage{prefs: p, clock: clock}
	if app, ok := device.AppInfo(); ok {
		s.versionCode = app.VersionCode
	}
	now := clock.Now().UnixMilli()
	if p.Int64(prefs.KeySessionCount) <= 0 {
		s.sessionCount = 1
		s.sessionCountSinceUpdate = 1
		s.firstSession = now
		s.firstSessionAfterUpdate = now
		s.lastSession = now
		s.previousSession = now
		s.sessionID = uuid.NewString()
		p.SetInt64(prefs.KeySessionCount, s.sessionCount)
		p.SetInt64(prefs.KeySessionCountSinceUpdate, s.sessionCountSinceUpdate)
		p.SetInt64(prefs.KeyFirstSessionDate, s.firstSession)
		p.SetInt64(prefs.KeyFirstSessionDateAfterUpdate, s.firstSessionAfterUpdate)
		p.SetInt64(prefs.KeyLastSessionDate, s.lastSession)
		p.SetInt64(prefs.KeyVersionCode, s.versionCode)
		return s
	}
	s.sessionCount = p.Int64(prefs.KeySessionCount)
	s.sessionCountSinceUpdate = positiveOr(p.Int64(prefs.KeySessionCountSinceUpdate), 1)
	s.firstSession = positiveOr(p.Int64(prefs.KeyFirstSessionDate), now)
	s.firstSessionAfterUpdate = positiveOr(p.Int64(prefs.KeyFirstSessionDateAfterUpdate), s.firstSession)
	s.lastSession = positiveOr(p.Int64(prefs.KeyLastSessionDate), now)
	s.newSessionLocked(p.Int64(prefs.KeyVersionCode))
	return s
}

func positiveOr(v, fallback int64) int64 {
	if v > 0 {
		return v
	}
	return fallback
}

// NewSession starts a new session. It is called when the application returns to the foreground
// after the background grace period.
func (s *Storage) NewSession() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.newSessionLocked(s.versionCode)
}

func (s *Storage) newSessionLocked(savedVersionCode int64) {
	now := s.clock.Now().UnixMilli()
	s.previousSession = s.lastSession
	s.lastSession = now
	s.sessionCount++
	if savedVersionCode != s.versionCode {
		s.firstSessionAfterUpdate = now
		s.sessionCountSinceUpdate = 1
		s.prefs.SetInt64(prefs.KeyVersionCode, s.versionCode)
		s.prefs.SetInt64(prefs.KeyFirstSessionDateAfterUpdate, now)
	} else {
		s.sessionCountSinceUpdate++
	}
	s.sessionID = uuid.NewString()
	s.prefs.SetInt64(prefs.KeyLastSessionDate, now)
	s.prefs.SetInt64(prefs.KeySessionCount, s.sessionCount)
	s.prefs.SetInt64(prefs.KeySessionCountSinceUpdate, s.sessionCountSinceUpdate)
}

// SessionID returns the identifier of the current session.
func (s *Storage) SessionID() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.sessionID
}

// Facts returns the current session state. Day counts are computed against the clock's current
// time; DaysSinceLastSession counts from the start of the previous session.
func (s *Storage) Facts() Facts {
	s.lock.RLock()
	defer s.lock.RUnlock()
	now := s.clock.Now().UnixMilli()
	return Facts{
		SessionID:                   s.sessionID,
		SessionCount:                s.sessionCount,
		SessionCountSinceUpdate:     s.sessionCountSinceUpdate,
		FirstSessionDate:            time.UnixMilli(s.firstSession),
		FirstSessionDateAfterUpdate: time.UnixMilli(s.firstSessionAfterUpdate),
		LastSessionDate:             time.UnixMilli(s.lastSession),
		DaysSinceFirstSession:       daysBetween(now, s.firstSession),
		DaysSinceUpdate:             daysBetween(now, s.firstSessionAfterUpdate),
		DaysSinceLastSession:        daysBetween(now, s.previousSession),
	}
}

func daysBetween(a, b int64) int64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	return int64(time.Duration(d) * time.Millisecond / day)
}

// ReportDate formats a time as the yyyyMMdd number used in event properties. The date is the
// calendar day in the device's local time zone.
func ReportDate(t time.Time) int {
	y, m, d := t.Local().Date()
	return y*10000 + int(m)*100 + d
}
