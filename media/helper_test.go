package media

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyticskit/go-analytics/internal/sharedtest"
	"github.com/analyticskit/go-analytics/model"
)

var startTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingSender struct {
	events []model.Event
	lock   sync.Mutex
}

func (s *recordingSender) SendEvents(events ...model.Event) {
	s.lock.Lock()
	s.events = append(s.events, events...)
	s.lock.Unlock()
}

func (s *recordingSender) take() []model.Event {
	s.lock.Lock()
	defer s.lock.Unlock()
	ret := s.events
	s.events = nil
	return ret
}

type fakeTimer struct {
	delay time.Duration
	fn    func()
}

type fakeTimers struct {
	pending []fakeTimer
}

func (f *fakeTimers) Schedule(delay time.Duration, fn func()) {
	f.pending = append(f.pending, fakeTimer{delay, fn})
}

func (f *fakeTimers) CancelAll() { f.pending = nil }

func (f *fakeTimers) fire(t *testing.T) time.Duration {
	require.Len(t, f.pending, 1)
	next := f.pending[0]
	f.pending = nil
	next.fn()
	return next.delay
}

type helperFixture struct {
	helper *Helper
	sender *recordingSender
	clock  *sharedtest.FakeClock
	timers *fakeTimers
}

func newHelperFixture(t *testing.T) *helperFixture {
	f := &helperFixture{
		sender: &recordingSender{},
		clock:  sharedtest.NewFakeClock(startTime),
		timers: &fakeTimers{},
	}
	h, err := NewHelper(Params{ContentID: "content-1", Sender: f.sender, Clock: f.clock})
	require.NoError(t, err)
	h.timers = f.timers
	f.helper = h
	return f
}

func (f *helperFixture) single(t *testing.T) model.Event {
	events := f.sender.take()
	require.Len(t, events, 1)
	return events[0]
}

func intProp(t *testing.T, e model.Event, name model.PropertyName) int64 {
	p, ok := e.Property(name)
	require.True(t, ok, "missing %s", name)
	return p.Value().Int64Value()
}

func stringProp(t *testing.T, e model.Event, name model.PropertyName) string {
	p, ok := e.Property(name)
	require.True(t, ok, "missing %s", name)
	return p.Value().StringValue()
}

func TestNewHelperRequiresContentID(t *testing.T) {
	_, err := NewHelper(Params{Sender: &recordingSender{}})
	assert.Equal(t, ErrEmptyContentID, err)
}

func TestNewHelperSessionID(t *testing.T) {
	h, err := NewHelper(Params{ContentID: "c", SessionID: "resumed", Sender: &recordingSender{}})
	require.NoError(t, err)
	assert.Equal(t, "resumed", h.SessionID())

	h, err = NewHelper(Params{ContentID: "c", Sender: &recordingSender{}})
	require.NoError(t, err)
	assert.NotEmpty(t, h.SessionID())
}

func TestPlayEvent(t *testing.T) {
	f := newHelperFixture(t)
	f.helper.Play(-10, model.NewProperty(model.MustPropertyName("av_show"), model.String("news")))

	e := f.single(t)
	assert.Equal(t, EventPlay, e.Name())
	assert.Equal(t, int64(0), intProp(t, e, Position))
	assert.Equal(t, int64(0), intProp(t, e, PreviousPosition))
	assert.Equal(t, int64(0), intProp(t, e, Duration))
	assert.Equal(t, "", stringProp(t, e, PreviousEvent))
	assert.Equal(t, "content-1", stringProp(t, e, ContentID))
	assert.Equal(t, f.helper.SessionID(), stringProp(t, e, SessionID))
	assert.Equal(t, "news", stringProp(t, e, model.MustPropertyName("av_show")))
}

func TestPlaybackSequence(t *testing.T) {
	f := newHelperFixture(t)
	f.helper.Play(0)
	f.helper.BufferStart(0)
	f.clock.Advance(2 * time.Second)
	f.helper.PlaybackStart(0)
	f.clock.Advance(10 * time.Second)
	f.helper.PlaybackPaused(10000)

	events := f.sender.take()
	require.Len(t, events, 4)
	assert.Equal(t, EventBufferStart, events[1].Name())
	assert.Equal(t, EventPlay, stringProp(t, events[1], PreviousEvent))

	start := events[2]
	assert.Equal(t, EventStart, start.Name())
	assert.Equal(t, int64(2000), intProp(t, start, Duration))
	assert.Equal(t, EventBufferStart, stringProp(t, start, PreviousEvent))

	pause := events[3]
	assert.Equal(t, EventPause, pause.Name())
	assert.Equal(t, int64(10000), intProp(t, pause, Duration))
	assert.Equal(t, int64(0), intProp(t, pause, PreviousPosition))
	assert.Equal(t, int64(10000), intProp(t, pause, Position))
}

func TestBufferStartAfterPlaybackIsRebuffer(t *testing.T) {
	f := newHelperFixture(t)
	f.helper.PlaybackStart(0)
	f.helper.BufferStart(500)

	events := f.sender.take()
	require.Len(t, events, 2)
	assert.Equal(t, EventRebufferStart, events[1].Name())
}

func TestPlaybackStoppedStartsNewSession(t *testing.T) {
	f := newHelperFixture(t)
	f.helper.PlaybackStart(0)
	oldSession := f.helper.SessionID()
	f.helper.PlaybackStopped(3000)

	events := f.sender.take()
	require.Len(t, events, 2)
	assert.Equal(t, oldSession, stringProp(t, events[1], SessionID))
	assert.NotEqual(t, oldSession, f.helper.SessionID())

	f.helper.Play(0)
	assert.Equal(t, "", stringProp(t, f.single(t), PreviousEvent))
}

func TestSeekSendsSeekStartThenDirection(t *testing.T) {
	f := newHelperFixture(t)
	f.helper.PlaybackStart(1000)
	f.sender.take()
	f.clock.Advance(4 * time.Second)

	f.helper.Seek(5000, 2000)
	events := f.sender.take()
	require.Len(t, events, 2)
	assert.Equal(t, EventSeekStart, events[0].Name())
	assert.Equal(t, int64(4000), intProp(t, events[0], Duration))
	assert.Equal(t, int64(5000), intProp(t, events[0], Position))
	assert.Equal(t, EventBackward, events[1].Name())
	assert.Equal(t, int64(5000), intProp(t, events[1], PreviousPosition))
	assert.Equal(t, int64(2000), intProp(t, events[1], Position))
	assert.Equal(t, int64(0), intProp(t, events[1], Duration))
	assert.Equal(t, EventSeekStart, stringProp(t, events[1], PreviousEvent))

	f.helper.Seek(2000, 8000)
	events = f.sender.take()
	require.Len(t, events, 2)
	assert.Equal(t, EventForward, events[1].Name())
}

func TestSimpleEventsHaveNoPlaybackProperties(t *testing.T) {
	f := newHelperFixture(t)
	f.helper.Volume()
	e := f.single(t)
	assert.Equal(t, EventVolume, e.Name())
	assert.False(t, e.HasProperty(Position))
	assert.True(t, e.HasProperty(ContentID))

	f.helper.Error("decoder failure")
	e = f.single(t)
	assert.Equal(t, EventError, e.Name())
	assert.Equal(t, "decoder failure", stringProp(t, e, PlayerError))
}

func TestTrackRejectsBuiltInEvents(t *testing.T) {
	f := newHelperFixture(t)
	err := f.helper.Track(EventPlay)
	assert.True(t, errors.Is(err, ErrBuiltInEvent))
	assert.Len(t, f.sender.take(), 0)

	require.NoError(t, f.helper.Track("av.custom"))
	assert.Equal(t, "av.custom", f.single(t).Name())

	assert.Error(t, f.helper.Track(" "))
}

func TestExtraPropsAreAddedToEveryEvent(t *testing.T) {
	f := newHelperFixture(t)
	title := model.MustPropertyName("av_content")
	f.helper.SetExtraProps(model.NewProperty(title, model.String("Episode")))
	f.helper.Share()
	f.helper.Play(0)
	for _, e := range f.sender.take() {
		assert.Equal(t, "Episode", stringProp(t, e, title))
	}
}

func TestAutomaticHeartbeat(t *testing.T) {
	f := newHelperFixture(t)
	require.NoError(t, f.helper.SetHeartbeat(map[int]time.Duration{0: time.Second, 1: 20 * time.Second}))
	f.helper.PlaybackStart(0)
	f.sender.take()

	f.clock.Advance(MinHeartbeatDuration)
	assert.Equal(t, MinHeartbeatDuration, f.timers.fire(t))
	hb := f.single(t)
	assert.Equal(t, EventHeartbeat, hb.Name())
	assert.Equal(t, int64(5000), intProp(t, hb, Position))

	f.clock.Advance(MinHeartbeatDuration)
	assert.Equal(t, MinHeartbeatDuration, f.timers.fire(t))
	f.sender.take()

	f.clock.Advance(time.Minute)
	assert.Equal(t, MinHeartbeatDuration, f.timers.fire(t))
	f.sender.take()
	assert.Equal(t, 20*time.Second, f.timers.pending[0].delay)
}

func TestPauseCancelsHeartbeat(t *testing.T) {
	f := newHelperFixture(t)
	require.NoError(t, f.helper.SetHeartbeat(map[int]time.Duration{0: 10 * time.Second}))
	f.helper.PlaybackStart(0)
	assert.Len(t, f.timers.pending, 1)
	f.helper.PlaybackPaused(100)
	assert.Len(t, f.timers.pending, 0)
}

func TestAutomaticBufferHeartbeat(t *testing.T) {
	f := newHelperFixture(t)
	require.NoError(t, f.helper.SetBufferHeartbeat(map[int]time.Duration{0: 0}))
	f.helper.BufferStart(0)
	f.sender.take()

	assert.Equal(t, MinBufferHeartbeatDuration, f.timers.fire(t))
	assert.Equal(t, EventBufferHeartbeat, f.single(t).Name())

	f.helper.PlaybackStart(0)
	f.helper.BufferStart(0)
	f.sender.take()
	f.timers.fire(t)
	assert.Equal(t, EventRebufferHeartbeat, f.single(t).Name())
}

func TestEmptyHeartbeatIsRejected(t *testing.T) {
	f := newHelperFixture(t)
	assert.Equal(t, ErrEmptyHeartbeat, f.helper.SetHeartbeat(nil))
	assert.Equal(t, ErrEmptyHeartbeat, f.helper.SetBufferHeartbeat(map[int]time.Duration{}))
}

func TestPlaybackSpeed(t *testing.T) {
	f := newHelperFixture(t)
	assert.True(t, errors.Is(f.helper.SetPlaybackSpeed(0), ErrInvalidPlaybackSpeed))
	assert.Equal(t, 1.0, f.helper.PlaybackSpeed())

	require.NoError(t, f.helper.SetPlaybackSpeed(2))
	assert.Len(t, f.sender.take(), 0)

	f.helper.PlaybackStart(0)
	f.sender.take()
	f.clock.Advance(3 * time.Second)
	f.helper.Heartbeat(-1)
	assert.Equal(t, int64(6000), intProp(t, f.single(t), Position))

	f.clock.Advance(time.Second)
	require.NoError(t, f.helper.SetPlaybackSpeed(1))
	hb := f.single(t)
	assert.Equal(t, EventHeartbeat, hb.Name())
	assert.Equal(t, int64(8000), intProp(t, hb, Position))
	assert.Equal(t, 1.0, f.helper.PlaybackSpeed())
}

func TestIsBuiltInEvent(t *testing.T) {
	assert.True(t, IsBuiltInEvent(EventRebufferHeartbeat))
	assert.False(t, IsBuiltInEvent("page.display"))
}
