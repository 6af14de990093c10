package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/analyticskit/go-analytics/internal/sharedtest"
)

func TestLifecycle(t *testing.T) {
	t.Run("grace period has a floor", func(t *testing.T) {
		l := NewLifecycle(time.Second, sharedtest.NewFakeClock(startTime), nil)
		assert.Equal(t, MinBackgroundDuration, l.GracePeriod())
	})

	t.Run("foreground without background does nothing", func(t *testing.T) {
		calls := 0
		l := NewLifecycle(30*time.Second, sharedtest.NewFakeClock(startTime), func() { calls++ })
		assert.False(t, l.OnForeground())
		assert.Equal(t, 0, calls)
	})

	t.Run("short background keeps the session", func(t *testing.T) {
		calls := 0
		clock := sharedtest.NewFakeClock(startTime)
		l := NewLifecycle(30*time.Second, clock, func() { calls++ })
		l.OnBackground()
		clock.Advance(29 * time.Second)
		assert.False(t, l.OnForeground())
		assert.Equal(t, 0, calls)
	})

	t.Run("background of exactly the grace period expires the session", func(t *testing.T) {
		calls := 0
		clock := sharedtest.NewFakeClock(startTime)
		l := NewLifecycle(30*time.Second, clock, func() { calls++ })
		l.OnBackground()
		clock.Advance(30 * time.Second)
		assert.True(t, l.OnForeground())
		assert.Equal(t, 1, calls)

		clock.Advance(time.Hour)
		assert.False(t, l.OnForeground())
		assert.Equal(t, 1, calls)
	})
}
