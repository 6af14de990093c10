package session

import (
	"sync"
	"time"

	"github.com/analyticskit/go-analytics/interfaces"
)

// MinBackgroundDuration is the smallest allowed background grace period.
const MinBackgroundDuration = 2 * time.Second

// Lifecycle turns foreground and background transitions into session expiry. Returning to the
// foreground after at least the grace period calls onExpired.
type Lifecycle struct {
	grace        time.Duration
	clock        interfaces.Clock
	onExpired    func()
	backgroundAt time.Time
	inBackground bool
	lock         sync.Mutex
}

// NewLifecycle creates a Lifecycle. A grace period below MinBackgroundDuration is raised to it.
func NewLifecycle(grace time.Duration, clock interfaces.Clock, onExpired func()) *Lifecycle {
	if grace < MinBackgroundDuration {
		grace = MinBackgroundDuration
	}
	return &Lifecycle{grace: grace, clock: clock, onExpired: onExpired}
}

// GracePeriod returns the effective background grace period.
func (l *Lifecycle) GracePeriod() time.Duration { return l.grace }

// OnBackground records that the application moved to the background.
func (l *Lifecycle) OnBackground() {
	l.lock.Lock()
	l.backgroundAt = l.clock.Now()
	l.inBackground = true
	l.lock.Unlock()
}

// OnForeground records that the application returned to the foreground. It reports whether a new
// session was started.
func (l *Lifecycle) OnForeground() bool {
	l.lock.Lock()
	expired := l.inBackground && l.clock.Now().Sub(l.backgroundAt).Abs() >= l.grace
	l.inBackground = false
	l.lock.Unlock()
	if expired && l.onExpired != nil {
		l.onExpired()
	}
	return expired
}
