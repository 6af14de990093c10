// Package scheduler runs the client's background work: a single worker goroutine that executes
// tasks one at a time in submission order, and groups of cancellable timers.
package scheduler

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// Worker executes tasks on one goroutine in FIFO order.
//
// Submitting never blocks the caller; the queue grows as needed.
type Worker struct {
	queue    []func()
	delayed  map[*time.Timer]func()
	wakeCh   chan struct{}
	doneCh   chan struct{}
	closed   bool
	loggers  ldlog.Loggers
	lock     sync.Mutex
	closeOne sync.Once
}

// NewWorker starts a Worker.
func NewWorker(loggers ldlog.Loggers) *Worker {
	w := &Worker{
		delayed: make(map[*time.Timer]func()),
		wakeCh:  make(chan struct{}, 1),
		doneCh:  make(chan struct{}),
		loggers: loggers,
	}
	go w.run()
	return w
}

// Submit queues a task. It returns false if the Worker has been closed, in which case the task will
// never run.
func (w *Worker) Submit(task func()) bool {
	w.lock.Lock()
	if w.closed {
		w.lock.Unlock()
		return false
	}
	w.queue = append(w.queue, task)
	w.lock.Unlock()
	w.wake()
	return true
}

// Schedule queues a task after the given delay. A task that is still waiting when Close is called
// is queued immediately instead, so that it runs before Close returns.
func (w *Worker) Schedule(delay time.Duration, task func()) bool {
	if delay <= 0 {
		return w.Submit(task)
	}
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.closed {
		return false
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		// Close empties delayed, so a task is either queued here or by Close, never both.
		w.lock.Lock()
		_, pending := w.delayed[timer]
		if pending {
			delete(w.delayed, timer)
			w.queue = append(w.queue, task)
		}
		w.lock.Unlock()
		if pending {
			w.wake()
		}
	})
	w.delayed[timer] = task
	return true
}

// SubmitAndWait queues a task and waits until it has run. It returns false without waiting if the
// Worker has been closed.
func (w *Worker) SubmitAndWait(task func()) bool {
	doneCh := make(chan struct{})
	if !w.Submit(func() {
		defer close(doneCh)
		task()
	}) {
		return false
	}
	<-doneCh
	return true
}

// Close stops accepting tasks, runs everything already queued or delayed, and waits for the worker
// goroutine to exit. It is safe to call more than once.
func (w *Worker) Close() {
	w.closeOne.Do(func() {
		w.lock.Lock()
		for timer, task := range w.delayed {
			timer.Stop()
			w.queue = append(w.queue, task)
		}
		w.delayed = nil
		w.closed = true
		w.lock.Unlock()
		w.wake()
	})
	<-w.doneCh
}

func (w *Worker) wake() {
	select {
	case w.wakeCh <- struct{}{}:
	default:
	}
}

func (w *Worker) run() {
	defer close(w.doneCh)
	for {
		w.lock.Lock()
		if len(w.queue) == 0 {
			closed := w.closed
			w.lock.Unlock()
			if closed {
				return
			}
			<-w.wakeCh
			continue
		}
		task := w.queue[0]
		w.queue[0] = nil
		w.queue = w.queue[1:]
		w.lock.Unlock()
		w.runTask(task)
	}
}

func (w *Worker) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			w.loggers.Errorf("Background task failed: %s", fmt.Sprint(r))
			w.loggers.Debugf("Stack trace: %s", debug.Stack())
		}
	}()
	task()
}
