// Package media measures audio and video playback.
//
// A Helper tracks one media content for one viewer and turns player callbacks into "av.*" events
// with positions, durations and a media session ID. It can also send heartbeat events
// automatically while the content plays or buffers:
//
//	helper, err := client.NewMediaHelper("episode-42")
//	if err != nil {
//	    return err
//	}
//	_ = helper.SetHeartbeat(map[int]time.Duration{0: 5 * time.Second, 1: 15 * time.Second})
//	helper.Play(0)
//	helper.PlaybackStart(0)
package media
