package interfaces

import "time"

// Clock returns the current time. It is injected so that time-dependent behavior can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock that returns time.Now().
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }
