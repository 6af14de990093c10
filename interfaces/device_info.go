package interfaces

import "github.com/analyticskit/go-analytics/model"

// ScreenSize is the size of the device display in pixels.
type ScreenSize struct {
	Width  int
	Height int
}

// AppInfo describes the host application package.
type AppInfo struct {
	ID      string
	Version string
	// VersionCode is a number that increases with each release. A change in this value starts
	// the "first session after update" counters.
	VersionCode int64
}

// DeviceInfoProvider supplies information about the device and its network state.
//
// Implementations are called from the client's worker goroutine and must be safe for concurrent
// use with the host application.
type DeviceInfoProvider interface {
	// ConnectionType returns the current network type, or model.ConnectionOffline if there is no
	// usable connection.
	ConnectionType() model.ConnectionType
	ScreenSize() ScreenSize
	// AppInfo returns the host application package information, if known.
	AppInfo() (AppInfo, bool)
	// Platform returns the OS group, such as "android" or "linux".
	Platform() string
	OSVersion() string
	Manufacturer() string
	Model() string
	// Locale returns the language and country codes of the current locale.
	Locale() (language, country string)
}
