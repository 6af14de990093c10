package media

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal/scheduler"
	"github.com/analyticskit/go-analytics/model"
)

var (
	// ErrEmptyContentID is returned by NewHelper for a blank content ID.
	ErrEmptyContentID = errors.New("media content ID must not be empty")
	// ErrInvalidPlaybackSpeed is returned by SetPlaybackSpeed for a speed that is not positive.
	ErrInvalidPlaybackSpeed = errors.New("playback speed must be greater than 0")
	// ErrEmptyHeartbeat is returned when heartbeat durations are set to an empty map.
	ErrEmptyHeartbeat = errors.New("heartbeat durations must not be empty")
	// ErrBuiltInEvent is returned by Track for the name of an event that the Helper sends itself.
	ErrBuiltInEvent = errors.New("built-in media events cannot be tracked as custom events")
)

// Sender receives the events built by a Helper. *analytics.Client implements it.
type Sender interface {
	SendEvents(events ...model.Event)
}

type timerService interface {
	Schedule(delay time.Duration, fn func())
	CancelAll()
}

// Params contains the dependencies of a Helper.
type Params struct {
	ContentID string
	// SessionID continues an existing media session, for instance one started on another device.
	// If empty, a new ID is generated.
	SessionID string
	Sender    Sender
	// Clock defaults to the system clock.
	Clock interfaces.Clock
}

// Helper tracks the playback of one media content. Its methods are safe for concurrent use, and
// automatic heartbeats are sent from timer goroutines.
//
// Cursor positions are in milliseconds; negative positions are treated as 0.
type Helper struct {
	contentID string
	sender    Sender
	clock     interfaces.Clock
	timers    timerService

	sessionID     string
	playbackSpeed float64
	extraProps    []model.Property

	heartbeatDurations       map[int]time.Duration
	bufferHeartbeatDurations map[int]time.Duration
	autoHeartbeat            bool
	autoBufferHeartbeat      bool
	previousHeartbeatDelay   time.Duration
	previousBufferDelay      time.Duration

	isPlaying           bool
	isPlaybackActivated bool
	previousEventName   string
	previousPosition    int
	currentPosition     int
	// Milliseconds. The two start times are 0 when unset and take the current time when first read.
	sessionDuration  int64
	eventDuration    int64
	sessionStartTime int64
	bufferStartTime  int64

	lock sync.Mutex
}

// NewHelper creates a Helper.
func NewHelper(params Params) (*Helper, error) {
	if params.ContentID == "" {
		return nil, ErrEmptyContentID
	}
	if params.Clock == nil {
		params.Clock = interfaces.SystemClock{}
	}
	if params.SessionID == "" {
		params.SessionID = uuid.NewString()
	}
	return &Helper{
		contentID:                params.ContentID,
		sender:                   params.Sender,
		clock:                    params.Clock,
		timers:                   scheduler.NewTimers(),
		sessionID:                params.SessionID,
		playbackSpeed:            1,
		heartbeatDurations:       map[int]time.Duration{},
		bufferHeartbeatDurations: map[int]time.Duration{},
	}, nil
}

// SessionID returns the current media session ID. A new one is generated by PlaybackStopped.
func (h *Helper) SessionID() string {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.sessionID
}

// PlaybackSpeed returns the current playback speed.
func (h *Helper) PlaybackSpeed() float64 {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.playbackSpeed
}

// SetPlaybackSpeed changes the playback speed used to estimate the cursor position of automatic
// heartbeats. During playback, a heartbeat is sent at the old speed first.
func (h *Helper) SetPlaybackSpeed(speed float64) error {
	if speed <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPlaybackSpeed, speed)
	}
	h.send(func() []model.Event {
		h.timers.CancelAll()
		var events []model.Event
		if h.isPlaying {
			events = append(events, h.heartbeatLocked(-1, false, nil))
			if h.autoHeartbeat {
				h.scheduleHeartbeatLocked()
			}
		}
		h.playbackSpeed = speed
		return events
	})
	return nil
}

// SetHeartbeat enables automatic heartbeats during playback. Each key is a number of minutes since
// the start of the media session, and its value is the interval used from that minute on until
// another key matches. Intervals are raised to MinHeartbeatDuration, and minute 0 defaults to it.
func (h *Helper) SetHeartbeat(durations map[int]time.Duration) error {
	if len(durations) == 0 {
		return ErrEmptyHeartbeat
	}
	h.lock.Lock()
	defer h.lock.Unlock()
	h.autoHeartbeat = true
	h.heartbeatDurations = normalizeDurations(durations, MinHeartbeatDuration)
	return nil
}

// SetBufferHeartbeat enables automatic heartbeats during buffering, like SetHeartbeat. Minutes are
// counted from the start of buffering and the minimum is MinBufferHeartbeatDuration.
func (h *Helper) SetBufferHeartbeat(durations map[int]time.Duration) error {
	if len(durations) == 0 {
		return ErrEmptyHeartbeat
	}
	h.lock.Lock()
	defer h.lock.Unlock()
	h.autoBufferHeartbeat = true
	h.bufferHeartbeatDurations = normalizeDurations(durations, MinBufferHeartbeatDuration)
	return nil
}

// SetExtraProps sets properties that are added to every event, such as av_content_* metadata.
func (h *Helper) SetExtraProps(props ...model.Property) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.extraProps = append([]model.Property(nil), props...)
}

// Heartbeat sends a heartbeat at the given cursor position. A negative position is estimated from
// the time elapsed and the playback speed.
func (h *Helper) Heartbeat(cursorPosition int, props ...model.Property) {
	h.send(func() []model.Event {
		return []model.Event{h.heartbeatLocked(cursorPosition, false, props)}
	})
}

// BufferHeartbeat sends a heartbeat during initial buffering.
func (h *Helper) BufferHeartbeat(props ...model.Property) {
	h.send(func() []model.Event {
		return []model.Event{h.bufferHeartbeatLocked(false, props)}
	})
}

// RebufferHeartbeat sends a heartbeat during buffering after playback has started.
func (h *Helper) RebufferHeartbeat(props ...model.Property) {
	h.send(func() []model.Event {
		return []model.Event{h.rebufferHeartbeatLocked(false, props)}
	})
}

// Play records a play attempt.
func (h *Helper) Play(cursorPosition int, props ...model.Property) {
	h.send(func() []model.Event {
		h.eventDuration = 0
		h.previousPosition = nonNegative(cursorPosition)
		h.currentPosition = h.previousPosition
		h.bufferStartTime = 0
		h.isPlaying = false
		h.isPlaybackActivated = false
		h.timers.CancelAll()
		return []model.Event{h.buildEventLocked(EventPlay, true, props)}
	})
}

// BufferStart records the start of buffering; before playback has started this is initial
// buffering, afterwards it is rebuffering.
func (h *Helper) BufferStart(cursorPosition int, props ...model.Property) {
	h.send(func() []model.Event {
		name, tick := EventBufferStart, h.autoBufferHeartbeatTick
		if h.isPlaybackActivated {
			name, tick = EventRebufferStart, h.autoRebufferHeartbeatTick
		}
		return []model.Event{h.processEventLocked(name, props, func() {
			h.previousPosition = h.currentPosition
			h.currentPosition = nonNegative(cursorPosition)
			h.timers.CancelAll()
			if h.autoBufferHeartbeat {
				h.previousBufferDelay = h.rescheduleLocked(h.previousBufferDelay, h.bufferStartLocked,
					MinBufferHeartbeatDuration, h.bufferHeartbeatDurations, tick)
			}
		})}
	})
}

// PlaybackStart records the first frame of the media.
func (h *Helper) PlaybackStart(cursorPosition int, props ...model.Property) {
	h.send(func() []model.Event {
		return []model.Event{h.processEventLocked(EventStart, props, func() {
			h.previousPosition = nonNegative(cursorPosition)
			h.currentPosition = h.previousPosition
			h.startPlayingLocked()
		})}
	})
}

// PlaybackPaused records a pause.
func (h *Helper) PlaybackPaused(cursorPosition int, props ...model.Property) {
	h.send(func() []model.Event {
		return []model.Event{h.processEventLocked(EventPause, props, func() {
			h.moveCursorLocked(cursorPosition)
			h.bufferStartTime = 0
			h.isPlaying = false
			h.isPlaybackActivated = true
			h.timers.CancelAll()
		})}
	})
}

// PlaybackResumed records a restart after a pause.
func (h *Helper) PlaybackResumed(cursorPosition int, props ...model.Property) {
	h.send(func() []model.Event {
		return []model.Event{h.processEventLocked(EventResume, props, func() {
			h.moveCursorLocked(cursorPosition)
			h.startPlayingLocked()
		})}
	})
}

// PlaybackStopped records the end of playback and starts a new media session.
func (h *Helper) PlaybackStopped(cursorPosition int, props ...model.Property) {
	h.send(func() []model.Event {
		e := h.processEventLocked(EventStop, props, func() {
			h.moveCursorLocked(cursorPosition)
			h.isPlaying = false
			h.isPlaybackActivated = false
			h.timers.CancelAll()
			h.sessionStartTime = 0
			h.sessionDuration = 0
			h.bufferStartTime = 0
			h.previousHeartbeatDelay = 0
			h.previousBufferDelay = 0
		})
		h.sessionID = uuid.NewString()
		h.previousEventName = ""
		h.previousPosition = 0
		h.currentPosition = 0
		h.eventDuration = 0
		return []model.Event{e}
	})
}

// Seek records a seek, forward or backward depending on the positions.
func (h *Helper) Seek(oldCursorPosition, newCursorPosition int, props ...model.Property) {
	if oldCursorPosition > newCursorPosition {
		h.SeekBackward(oldCursorPosition, newCursorPosition, props...)
	} else {
		h.SeekForward(oldCursorPosition, newCursorPosition, props...)
	}
}

// SeekBackward sends av.seek.start followed by av.backward.
func (h *Helper) SeekBackward(oldCursorPosition, newCursorPosition int, props ...model.Property) {
	h.seek(EventBackward, oldCursorPosition, newCursorPosition, props)
}

// SeekForward sends av.seek.start followed by av.forward.
func (h *Helper) SeekForward(oldCursorPosition, newCursorPosition int, props ...model.Property) {
	h.seek(EventForward, oldCursorPosition, newCursorPosition, props)
}

// SeekStart records the start of a seek.
func (h *Helper) SeekStart(oldCursorPosition int, props ...model.Property) {
	h.send(func() []model.Event {
		return []model.Event{h.seekStartLocked(oldCursorPosition, props)}
	})
}

// AdClick records a click, typically on an ad.
func (h *Helper) AdClick(props ...model.Property) { h.simple(EventAdClick, props) }

// AdSkip records a skipped ad.
func (h *Helper) AdSkip(props ...model.Property) { h.simple(EventAdSkip, props) }

// Display records the display of a recommendation or an ad.
func (h *Helper) Display(props ...model.Property) { h.simple(EventDisplay, props) }

// Close records that the player was closed.
func (h *Helper) Close(props ...model.Property) { h.simple(EventClose, props) }

// Volume records a volume change.
func (h *Helper) Volume(props ...model.Property) { h.simple(EventVolume, props) }

// SubtitleOn records that subtitles were turned on.
func (h *Helper) SubtitleOn(props ...model.Property) { h.simple(EventSubtitleOn, props) }

// SubtitleOff records that subtitles were turned off.
func (h *Helper) SubtitleOff(props ...model.Property) { h.simple(EventSubtitleOff, props) }

// FullscreenOn records a switch to full screen.
func (h *Helper) FullscreenOn(props ...model.Property) { h.simple(EventFullscreenOn, props) }

// FullscreenOff records a switch out of full screen.
func (h *Helper) FullscreenOff(props ...model.Property) { h.simple(EventFullscreenOff, props) }

// Quality records a quality change.
func (h *Helper) Quality(props ...model.Property) { h.simple(EventQuality, props) }

// Speed records a speed change made by the viewer. See also SetPlaybackSpeed.
func (h *Helper) Speed(props ...model.Property) { h.simple(EventSpeed, props) }

// Share records a share action.
func (h *Helper) Share(props ...model.Property) { h.simple(EventShare, props) }

// Error records an error that stops playback.
func (h *Helper) Error(message string, props ...model.Property) {
	all := append([]model.Property{model.NewProperty(PlayerError, model.String(message))}, props...)
	h.simple(EventError, all)
}

// Track sends a custom media event. Built-in event names are rejected.
func (h *Helper) Track(eventName string, props ...model.Property) error {
	if IsBuiltInEvent(eventName) {
		return fmt.Errorf("%w: %q", ErrBuiltInEvent, eventName)
	}
	h.lock.Lock()
	e, err := h.eventBuilderLocked(eventName, props).Build()
	h.lock.Unlock()
	if err != nil {
		return err
	}
	h.sender.SendEvents(e)
	return nil
}

func (h *Helper) send(build func() []model.Event) {
	h.lock.Lock()
	events := build()
	h.lock.Unlock()
	if len(events) > 0 {
		h.sender.SendEvents(events...)
	}
}

func (h *Helper) simple(name string, props []model.Property) {
	h.send(func() []model.Event {
		return []model.Event{h.buildEventLocked(name, false, props)}
	})
}

func (h *Helper) seek(name string, oldCursorPosition, newCursorPosition int, props []model.Property) {
	h.send(func() []model.Event {
		start := h.seekStartLocked(oldCursorPosition, props)
		h.eventDuration = 0
		h.previousPosition = nonNegative(oldCursorPosition)
		h.currentPosition = nonNegative(newCursorPosition)
		return []model.Event{start, h.buildEventLocked(name, true, props)}
	})
}

func (h *Helper) seekStartLocked(oldCursorPosition int, props []model.Property) model.Event {
	h.moveCursorLocked(oldCursorPosition)
	if h.isPlaying {
		h.eventDuration = h.now() - h.sessionStartLocked() - h.sessionDuration
		h.sessionDuration += h.eventDuration
	} else {
		h.eventDuration = 0
	}
	return h.buildEventLocked(EventSeekStart, true, props)
}

func (h *Helper) startPlayingLocked() {
	h.bufferStartTime = 0
	h.isPlaying = true
	h.isPlaybackActivated = true
	h.timers.CancelAll()
	if h.autoHeartbeat {
		h.scheduleHeartbeatLocked()
	}
}

func (h *Helper) moveCursorLocked(cursorPosition int) {
	h.previousPosition = h.currentPosition
	h.currentPosition = nonNegative(cursorPosition)
}

func (h *Helper) processEventLocked(name string, props []model.Property, update func()) model.Event {
	h.eventDuration = h.now() - h.sessionStartLocked() - h.sessionDuration
	h.sessionDuration += h.eventDuration
	update()
	return h.buildEventLocked(name, true, props)
}

func (h *Helper) heartbeatLocked(cursorPosition int, automatic bool, props []model.Property) model.Event {
	return h.processEventLocked(EventHeartbeat, props, func() {
		h.previousPosition = h.currentPosition
		if cursorPosition < 0 {
			h.currentPosition += int(float64(h.eventDuration) * h.playbackSpeed)
		} else {
			h.currentPosition = cursorPosition
		}
		if automatic {
			h.scheduleHeartbeatLocked()
		}
	})
}

func (h *Helper) bufferHeartbeatLocked(automatic bool, props []model.Property) model.Event {
	return h.processEventLocked(EventBufferHeartbeat, props, func() {
		if automatic {
			h.previousBufferDelay = h.rescheduleLocked(h.previousBufferDelay, h.bufferStartLocked,
				MinBufferHeartbeatDuration, h.bufferHeartbeatDurations, h.autoBufferHeartbeatTick)
		}
	})
}

func (h *Helper) rebufferHeartbeatLocked(automatic bool, props []model.Property) model.Event {
	return h.processEventLocked(EventRebufferHeartbeat, props, func() {
		h.previousPosition = h.currentPosition
		if automatic {
			h.previousBufferDelay = h.rescheduleLocked(h.previousBufferDelay, h.bufferStartLocked,
				MinBufferHeartbeatDuration, h.bufferHeartbeatDurations, h.autoRebufferHeartbeatTick)
		}
	})
}

func (h *Helper) autoHeartbeatTick() {
	h.send(func() []model.Event { return []model.Event{h.heartbeatLocked(-1, true, nil)} })
}

func (h *Helper) autoBufferHeartbeatTick() {
	h.send(func() []model.Event { return []model.Event{h.bufferHeartbeatLocked(true, nil)} })
}

func (h *Helper) autoRebufferHeartbeatTick() {
	h.send(func() []model.Event { return []model.Event{h.rebufferHeartbeatLocked(true, nil)} })
}

func (h *Helper) scheduleHeartbeatLocked() {
	h.previousHeartbeatDelay = h.rescheduleLocked(h.previousHeartbeatDelay, h.sessionStartLocked,
		MinHeartbeatDuration, h.heartbeatDurations, h.autoHeartbeatTick)
}

// rescheduleLocked picks the interval configured for the current minute since start, or keeps the
// previous interval if that minute has none, and schedules fn after it.
func (h *Helper) rescheduleLocked(previous time.Duration, start func() int64, minimum time.Duration,
	durations map[int]time.Duration, fn func()) time.Duration {
	minutes := int(time.Duration(h.now()-start()) * time.Millisecond / time.Minute)
	delay, ok := durations[minutes]
	if !ok {
		delay = previous
	}
	if delay < minimum {
		delay = minimum
	}
	h.timers.Schedule(delay, fn)
	return delay
}

func (h *Helper) buildEventLocked(name string, withPlayback bool, props []model.Property) model.Event {
	b := h.eventBuilderLocked(name, props)
	if withPlayback {
		b.Properties(
			model.NewProperty(PreviousPosition, model.Int(h.previousPosition)),
			model.NewProperty(Position, model.Int(h.currentPosition)),
			model.NewProperty(Duration, model.Long(h.eventDuration)),
			model.NewProperty(PreviousEvent, model.String(h.previousEventName)),
		)
		h.previousEventName = name
	}
	return b.MustBuild()
}

func (h *Helper) eventBuilderLocked(name string, props []model.Property) *model.EventBuilder {
	return model.NewEventBuilder(name).
		Properties(h.extraProps...).
		Properties(props...).
		Properties(
			model.NewProperty(SessionID, model.String(h.sessionID)),
			model.NewProperty(ContentID, model.String(h.contentID)),
		)
}

func (h *Helper) sessionStartLocked() int64 {
	if h.sessionStartTime == 0 {
		h.sessionStartTime = h.now()
	}
	return h.sessionStartTime
}

func (h *Helper) bufferStartLocked() int64 {
	if h.bufferStartTime == 0 {
		h.bufferStartTime = h.now()
	}
	return h.bufferStartTime
}

func (h *Helper) now() int64 {
	return h.clock.Now().UnixMilli()
}

func normalizeDurations(durations map[int]time.Duration, minimum time.Duration) map[int]time.Duration {
	ret := make(map[int]time.Duration, len(durations)+1)
	for minute, d := range durations {
		if d < minimum {
			d = minimum
		}
		ret[minute] = d
	}
	if _, ok := ret[0]; !ok {
		ret[0] = minimum
	}
	return ret
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
