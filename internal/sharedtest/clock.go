package sharedtest

import (
	"sync"
	"time"
)

// FakeClock is an interfaces.Clock whose time only changes when the test says so.
type FakeClock struct {
	now  time.Time
	lock sync.Mutex
}

// NewFakeClock creates a FakeClock set to t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Set changes the current fake time.
func (c *FakeClock) Set(t time.Time) {
	c.lock.Lock()
	c.now = t
	c.lock.Unlock()
}

// Advance moves the current fake time forward.
func (c *FakeClock) Advance(d time.Duration) {
	c.lock.Lock()
	c.now = c.now.Add(d)
	c.lock.Unlock()
}
