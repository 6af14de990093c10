package processors

import (
	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal"
	"github.com/analyticskit/go-analytics/model"
)

// InternalProperties adds device, application and network properties.
type InternalProperties struct {
	device      interfaces.DeviceInfoProvider
	clock       interfaces.Clock
	storageMode model.OfflineStorageMode
}

// NewInternalProperties creates an InternalProperties processor. When storageMode is
// model.OfflineStorageAlways, the connection type is always reported as offline, since the
// events will not be sent now.
func NewInternalProperties(device interfaces.DeviceInfoProvider, clock interfaces.Clock,
	storageMode model.OfflineStorageMode) *InternalProperties {
	return &InternalProperties{device: device, clock: clock, storageMode: storageMode}
}

func (p *InternalProperties) Process(events []model.Event) []model.Event {
	screen := p.device.ScreenSize()
	platform := p.device.Platform()
	osVersion := p.device.OSVersion()
	language, country := p.device.Locale()
	connection := model.ConnectionOffline
	if p.storageMode != model.OfflineStorageAlways {
		connection = p.device.ConnectionType()
	}
	props := []model.Property{
		model.NewProperty(model.DeviceScreenWidth, model.Int(screen.Width)),
		model.NewProperty(model.DeviceScreenHeight, model.Int(screen.Height)),
		model.NewProperty(model.OSGroup, model.String(platform)),
		model.NewProperty(model.OSVersion, model.String(osVersion)),
		model.NewProperty(model.OS, model.String(platform+" "+osVersion)),
		model.NewProperty(model.DeviceManufacturer, model.String(p.device.Manufacturer())),
		model.NewProperty(model.DeviceModel, model.String(p.device.Model())),
		model.NewProperty(model.DeviceTimestampUTC, model.Long(p.clock.Now().Unix())),
		model.NewProperty(model.BrowserLanguage, model.String(language)),
		model.NewProperty(model.BrowserLanguageLocal, model.String(country)),
		model.NewProperty(model.ConnectionTypeName, model.String(string(connection))),
		model.NewProperty(model.EventCollectionPlatform, model.String(platform)),
		model.NewProperty(model.EventCollectionVersion, model.String(internal.SDKVersion)),
	}
	if app, ok := p.device.AppInfo(); ok {
		props = append(props,
			model.NewProperty(model.AppID, model.String(app.ID)),
			model.NewProperty(model.AppVersion, model.String(app.Version)),
		)
	}
	return mapEvents(events, func(e model.Event) model.Event {
		return withProperties(e, props...)
	})
}
