package media

import (
	"time"

	"github.com/analyticskit/go-analytics/model"
)

// Names of the events sent by a Helper.
const (
	EventPlay              = "av.play"
	EventBufferStart       = "av.buffer.start"
	EventRebufferStart     = "av.rebuffer.start"
	EventStart             = "av.start"
	EventPause             = "av.pause"
	EventResume            = "av.resume"
	EventStop              = "av.stop"
	EventBackward          = "av.backward"
	EventForward           = "av.forward"
	EventSeekStart         = "av.seek.start"
	EventHeartbeat         = "av.heartbeat"
	EventBufferHeartbeat   = "av.buffer.heartbeat"
	EventRebufferHeartbeat = "av.rebuffer.heartbeat"
	EventAdClick           = "av.ad.click"
	EventAdSkip            = "av.ad.skip"
	EventDisplay           = "av.display"
	EventClose             = "av.close"
	EventVolume            = "av.volume"
	EventSubtitleOn        = "av.subtitle.on"
	EventSubtitleOff       = "av.subtitle.off"
	EventFullscreenOn      = "av.fullscreen.on"
	EventFullscreenOff     = "av.fullscreen.off"
	EventQuality           = "av.quality"
	EventSpeed             = "av.speed"
	EventShare             = "av.share"
	EventError             = "av.error"
)

const (
	// MinHeartbeatDuration is the shortest interval between automatic heartbeats during playback.
	MinHeartbeatDuration = 5 * time.Second
	// MinBufferHeartbeatDuration is the shortest interval between automatic buffering heartbeats.
	MinBufferHeartbeatDuration = time.Second
)

// Properties added by a Helper.
var (
	PreviousPosition = model.MustPropertyName("av_previous_position")
	Position         = model.MustPropertyName("av_position")
	Duration         = model.MustPropertyName("av_duration")
	PreviousEvent    = model.MustPropertyName("av_previous_event")
	SessionID        = model.MustPropertyName("av_session_id")
	ContentID        = model.MustPropertyName("av_content_id")
	PlayerError      = model.MustPropertyName("av_player_error")
)

var builtInEvents = map[string]struct{}{
	EventPlay: {}, EventBufferStart: {}, EventRebufferStart: {}, EventStart: {}, EventPause: {},
	EventResume: {}, EventStop: {}, EventBackward: {}, EventForward: {}, EventSeekStart: {},
	EventHeartbeat: {}, EventBufferHeartbeat: {}, EventRebufferHeartbeat: {}, EventAdClick: {},
	EventAdSkip: {}, EventDisplay: {}, EventClose: {}, EventVolume: {}, EventSubtitleOn: {},
	EventSubtitleOff: {}, EventFullscreenOn: {}, EventFullscreenOff: {}, EventQuality: {},
	EventSpeed: {}, EventShare: {}, EventError: {},
}

// IsBuiltInEvent returns true for the event names that a Helper sends itself.
func IsBuiltInEvent(name string) bool {
	_, ok := builtInEvents[name]
	return ok
}
