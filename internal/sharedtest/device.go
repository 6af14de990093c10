package sharedtest

import (
	"sync"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/model"
)

// FakeDeviceInfo is a configurable interfaces.DeviceInfoProvider.
type FakeDeviceInfo struct {
	connection   model.ConnectionType
	app          *interfaces.AppInfo
	Screen       interfaces.ScreenSize
	PlatformName string
	Version      string
	Maker        string
	ModelName    string
	Language     string
	Country      string
	lock         sync.Mutex
}

// NewFakeDeviceInfo returns a FakeDeviceInfo with plausible values and a WiFi connection.
func NewFakeDeviceInfo() *FakeDeviceInfo {
	return &FakeDeviceInfo{
		connection:   model.ConnectionWiFi,
		app:          &interfaces.AppInfo{ID: "com.example.app", Version: "1.2.3", VersionCode: 10},
		Screen:       interfaces.ScreenSize{Width: 1080, Height: 1920},
		PlatformName: "android",
		Version:      "14",
		Maker:        "Acme",
		ModelName:    "Phone 1",
		Language:     "en",
		Country:      "US",
	}
}

// SetConnectionType changes the reported connection type.
func (d *FakeDeviceInfo) SetConnectionType(c model.ConnectionType) {
	d.lock.Lock()
	d.connection = c
	d.lock.Unlock()
}

// SetAppInfo changes the reported application info; nil means unknown.
func (d *FakeDeviceInfo) SetAppInfo(app *interfaces.AppInfo) {
	d.lock.Lock()
	d.app = app
	d.lock.Unlock()
}

func (d *FakeDeviceInfo) ConnectionType() model.ConnectionType {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.connection
}

func (d *FakeDeviceInfo) ScreenSize() interfaces.ScreenSize { return d.Screen }

func (d *FakeDeviceInfo) AppInfo() (interfaces.AppInfo, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.app == nil {
		return interfaces.AppInfo{}, false
	}
	return *d.app, true
}

func (d *FakeDeviceInfo) Platform() string { return d.PlatformName }

func (d *FakeDeviceInfo) OSVersion() string { return d.Version }

func (d *FakeDeviceInfo) Manufacturer() string { return d.Maker }

func (d *FakeDeviceInfo) Model() string { return d.ModelName }

func (d *FakeDeviceInfo) Locale() (string, string) { return d.Language, d.Country }
