package scheduler

import (
	"sync"
	"time"
)

// Timers is a group of one-shot timers that can all be cancelled at once.
//
// A callback whose timer fired just before CancelAll was called is skipped, so after CancelAll
// returns no callback scheduled before it will start.
type Timers struct {
	pending    map[*time.Timer]struct{}
	generation uint64
	lock       sync.Mutex
}

// NewTimers creates an empty Timers group.
func NewTimers() *Timers {
	return &Timers{pending: make(map[*time.Timer]struct{})}
}

// Schedule calls fn on its own goroutine after the delay, unless CancelAll is called first.
func (t *Timers) Schedule(delay time.Duration, fn func()) {
	t.lock.Lock()
	defer t.lock.Unlock()
	generation := t.generation
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		t.lock.Lock()
		current := t.generation == generation
		delete(t.pending, timer)
		t.lock.Unlock()
		if current {
			fn()
		}
	})
	t.pending[timer] = struct{}{}
}

// CancelAll stops every timer scheduled so far.
func (t *Timers) CancelAll() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.generation++
	for timer := range t.pending {
		timer.Stop()
	}
	t.pending = make(map[*time.Timer]struct{})
}

// Pending returns the number of timers that have not fired or been cancelled.
func (t *Timers) Pending() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.pending)
}
