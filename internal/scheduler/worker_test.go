package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	th "github.com/launchdarkly/go-test-helpers/v3"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerRunsTasksInOrder(t *testing.T) {
	w := NewWorker(ldlog.NewDisabledLoggers())
	defer w.Close()

	ch := make(chan int, 10)
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, w.Submit(func() { ch <- i }))
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, th.RequireValue(t, ch, time.Second))
	}
}

func TestWorkerScheduleWaitsForDelay(t *testing.T) {
	w := NewWorker(ldlog.NewDisabledLoggers())
	defer w.Close()

	ch := make(chan string, 2)
	w.Schedule(50*time.Millisecond, func() { ch <- "delayed" })
	w.Submit(func() { ch <- "immediate" })

	assert.Equal(t, "immediate", th.RequireValue(t, ch, time.Second))
	assert.Equal(t, "delayed", th.RequireValue(t, ch, time.Second))
}

func TestWorkerSubmitAndWait(t *testing.T) {
	w := NewWorker(ldlog.NewDisabledLoggers())
	defer w.Close()

	var ran atomic.Bool
	assert.True(t, w.SubmitAndWait(func() { ran.Store(true) }))
	assert.True(t, ran.Load())
}

func TestWorkerCloseRunsQueuedAndDelayedTasks(t *testing.T) {
	w := NewWorker(ldlog.NewDisabledLoggers())

	var count atomic.Int32
	w.Submit(func() {
		time.Sleep(20 * time.Millisecond)
		count.Add(1)
	})
	w.Submit(func() { count.Add(1) })
	w.Schedule(time.Hour, func() { count.Add(1) })

	w.Close()
	assert.Equal(t, int32(3), count.Load())
}

func TestWorkerCloseRunsDelayedTaskWhoseTimerIsFiring(t *testing.T) {
	// Close lands before, during or after the timer callback, depending on the iteration.
	for i := 0; i < 500; i++ {
		w := NewWorker(ldlog.NewDisabledLoggers())
		var count atomic.Int32
		w.Schedule(200*time.Microsecond, func() { count.Add(1) })
		time.Sleep(time.Duration(i%5) * 100 * time.Microsecond)
		w.Close()
		require.Equal(t, int32(1), count.Load(), "iteration %d", i)
	}
}

func TestWorkerRejectsTasksAfterClose(t *testing.T) {
	w := NewWorker(ldlog.NewDisabledLoggers())
	w.Close()
	w.Close()

	assert.False(t, w.Submit(func() {}))
	assert.False(t, w.Schedule(time.Millisecond, func() {}))
	assert.False(t, w.SubmitAndWait(func() {}))
}

func TestWorkerSurvivesPanickingTask(t *testing.T) {
	mockLog := ldlogtest.NewMockLog()
	w := NewWorker(mockLog.Loggers)
	defer w.Close()

	w.Submit(func() { panic("boom") })
	ch := make(chan struct{}, 1)
	w.Submit(func() { ch <- struct{}{} })

	th.RequireValue(t, ch, time.Second)
	mockLog.AssertMessageMatch(t, true, ldlog.Error, "Background task failed: boom")
}
