package analytics

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"gopkg.in/ghodss/yaml.v1"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal/privacy"
	"github.com/analyticskit/go-analytics/model"
)

// Defaults for the Config fields whose zero value means "use the default".
const (
	DefaultPath                             = "event"
	DefaultEventsOfflineStorageLifetimeDays = 30
	DefaultPrivacyStorageLifetimeDays       = 395
	DefaultVisitorStorageLifetimeDays       = 395
	DefaultUserStorageLifetimeDays          = 395
	DefaultSessionBackgroundDuration        = 30 * time.Second
	DefaultSendDelay                        = time.Second
)

// ErrMissingCollectDomain is returned by NewClient when neither Config.CollectDomain nor
// Config.URLProvider is set.
var ErrMissingCollectDomain = errors.New("collect domain is required")

// ErrUnknownPrivacyMode is returned by Client.SetPrivacyMode, and by NewClient for an unknown
// Config.DefaultPrivacyMode.
var ErrUnknownPrivacyMode = privacy.ErrUnknownPrivacyMode

// Config contains the client settings.
//
// Apart from CollectDomain and Site, every field is optional and its zero value selects the
// default described on the field. Fields whose type is an interface ending in "Factory" are set with
// the builders of the components package:
//
//	config := analytics.Config{
//	    CollectDomain: "logs.example.com",
//	    Site:          123456,
//	    Logging:       components.Logging().MinLevel(ldlog.Warn),
//	}
type Config struct {
	// CollectDomain is the host events are sent to. A value with a scheme, such as
	// "http://localhost:8080", is used as is; otherwise HTTPS is used.
	CollectDomain string
	// Site is the numeric site identifier.
	Site int
	// Path is the endpoint path. The default is DefaultPath.
	Path string
	// URLProvider, if set, is asked for the endpoint every time events are sent, and CollectDomain,
	// Site and Path are ignored.
	URLProvider interfaces.ReportURLProvider

	// DefaultPrivacyMode is the name of the mode that applies until the application sets another one.
	// The default is model.PrivacyModeOptInName.
	DefaultPrivacyMode string
	// CustomPrivacyModes are registered in addition to the built-in modes. Their names must differ
	// from the built-in names.
	CustomPrivacyModes []model.PrivacyMode
	// SuppressEventsWhenOptOut drops every event while the opt-out mode is current, instead of
	// sending them with an opt-out visitor ID.
	SuppressEventsWhenOptOut bool

	// VisitorIDType selects the visitor identifier. The default, and the fallback for unknown values,
	// is model.VisitorIDUUID.
	VisitorIDType model.VisitorIDType
	// VisitorStorageMode controls how the lifetime of a generated UUID is measured. The default is
	// model.VisitorStorageFixed.
	VisitorStorageMode model.VisitorStorageMode
	// IgnoreLimitedAdTracking uses a generated UUID, instead of the opt-out ID, when the advertising
	// identifier source reports that the user limited ad tracking.
	IgnoreLimitedAdTracking bool

	// OfflineStorageMode controls when stored events are sent. The default is
	// model.OfflineStorageRequired.
	OfflineStorageMode model.OfflineStorageMode

	EventsOfflineStorageLifetimeDays int
	PrivacyStorageLifetimeDays       int
	VisitorStorageLifetimeDays       int
	UserStorageLifetimeDays          int

	// SessionBackgroundDuration is how long the application may stay in the background before a new
	// session starts. The default is DefaultSessionBackgroundDuration; the minimum is 2 seconds.
	SessionBackgroundDuration time.Duration

	// DisableCrashDetection turns off Client.CapturePanic.
	DisableCrashDetection bool
	// AppPackagePrefix is the import path prefix of the application's own code. The first stack frame
	// under this prefix is reported as app_crash_class.
	AppPackagePrefix string

	// DatabasePath is the file of the local event queue. If empty, events are kept in memory only.
	DatabasePath string
	// DataEncoder transforms stored event data, for instance to encrypt it. See the dataencoding
	// package.
	DataEncoder interfaces.DataEncoder
	// Preferences stores the visitor, session, user and privacy state. If nil and PreferencesFile is
	// set, a prefstore.FileStore on that file is used; otherwise the state is kept in memory.
	Preferences     interfaces.PreferenceStore
	PreferencesFile string

	// SendDelay is how long SendEvents waits before processing. The default is DefaultSendDelay; a
	// negative value processes events without delay.
	SendDelay time.Duration

	// Logging configures logging. The default is components.Logging().
	Logging interfaces.LoggingConfigurationFactory
	// HTTP configures the delivery requests. The default is components.HTTPConfiguration().
	HTTP interfaces.HTTPConfigurationFactory
	// CustomHTTPData adds query parameters and headers to each delivery request.
	CustomHTTPData interfaces.CustomHTTPDataProvider

	// DeviceInfo describes the device. The default is components.HostDeviceInfo(nil).
	DeviceInfo interfaces.DeviceInfoProvider
	// AdvertisingID is the platform's primary advertising identifier service.
	AdvertisingID interfaces.AdvertisingIDSource
	// HuaweiAdvertisingID is the alternative advertising identifier service, used by
	// model.VisitorIDHuaweiAdvertising and as the second choice of model.VisitorIDAdvertising.
	HuaweiAdvertisingID interfaces.AdvertisingIDSource
	// PlatformHooks gives access to platform system properties.
	PlatformHooks interfaces.PlatformHooks
	// Clock is used for all timestamps. The default is the system clock.
	Clock interfaces.Clock

	// CustomEventProcessors run after the built-in enrichment and before privacy filtering.
	CustomEventProcessors []interfaces.EventProcessor
}

func daysOr(days, fallback int) int {
	if days <= 0 {
		return fallback
	}
	return days
}

func lifetime(days, fallback int) time.Duration {
	return time.Duration(daysOr(days, fallback)) * 24 * time.Hour
}

func (c Config) reportURL() interfaces.ReportURL {
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	return interfaces.ReportURL{CollectDomain: c.CollectDomain, Site: c.Site, Path: path}
}

func (c Config) visitorIDType() model.VisitorIDType {
	switch c.VisitorIDType {
	case model.VisitorIDAdvertising, model.VisitorIDGoogleAdvertising, model.VisitorIDHuaweiAdvertising,
		model.VisitorIDCustom:
		return c.VisitorIDType
	}
	return model.VisitorIDUUID
}

func (c Config) offlineStorageMode() model.OfflineStorageMode {
	switch c.OfflineStorageMode {
	case model.OfflineStorageAlways, model.OfflineStorageNever:
		return c.OfflineStorageMode
	}
	return model.OfflineStorageRequired
}

func (c Config) visitorStorageMode() model.VisitorStorageMode {
	if c.VisitorStorageMode == model.VisitorStorageRelative {
		return c.VisitorStorageMode
	}
	return model.VisitorStorageFixed
}

func (c Config) sessionBackgroundDuration() time.Duration {
	if c.SessionBackgroundDuration <= 0 {
		return DefaultSessionBackgroundDuration
	}
	return c.SessionBackgroundDuration
}

func (c Config) sendDelay() time.Duration {
	switch {
	case c.SendDelay < 0:
		return 0
	case c.SendDelay == 0:
		return DefaultSendDelay
	}
	return c.SendDelay
}

// Describe summarizes the effective settings. The client logs it at startup.
func (c Config) Describe() ldvalue.Value {
	b := ldvalue.ObjectBuild()
	if c.URLProvider != nil {
		b.Set("customURLProvider", ldvalue.Bool(true))
	} else {
		u := c.reportURL()
		b.Set("collectDomain", ldvalue.String(u.CollectDomain))
		b.Set("site", ldvalue.Int(u.Site))
		b.Set("path", ldvalue.String(u.Path))
	}
	defaultMode := c.DefaultPrivacyMode
	if defaultMode == "" {
		defaultMode = model.PrivacyModeOptInName
	}
	b.Set("defaultPrivacyMode", ldvalue.String(defaultMode))
	b.Set("customPrivacyModes", ldvalue.Int(len(c.CustomPrivacyModes)))
	b.Set("visitorIDType", ldvalue.String(string(c.visitorIDType())))
	b.Set("visitorStorageMode", ldvalue.String(string(c.visitorStorageMode())))
	b.Set("offlineStorageMode", ldvalue.String(string(c.offlineStorageMode())))
	b.Set("eventsOfflineStorageLifetimeDays",
		ldvalue.Int(daysOr(c.EventsOfflineStorageLifetimeDays, DefaultEventsOfflineStorageLifetimeDays)))
	b.Set("privacyStorageLifetimeDays",
		ldvalue.Int(daysOr(c.PrivacyStorageLifetimeDays, DefaultPrivacyStorageLifetimeDays)))
	b.Set("visitorStorageLifetimeDays",
		ldvalue.Int(daysOr(c.VisitorStorageLifetimeDays, DefaultVisitorStorageLifetimeDays)))
	b.Set("userStorageLifetimeDays", ldvalue.Int(daysOr(c.UserStorageLifetimeDays, DefaultUserStorageLifetimeDays)))
	b.Set("sessionBackgroundDurationMillis", ldvalue.Int(int(c.sessionBackgroundDuration().Milliseconds())))
	b.Set("crashDetection", ldvalue.Bool(!c.DisableCrashDetection))
	b.Set("ignoreLimitedAdTracking", ldvalue.Bool(c.IgnoreLimitedAdTracking))
	b.Set("suppressEventsWhenOptOut", ldvalue.Bool(c.SuppressEventsWhenOptOut))
	b.Set("persistentEventQueue", ldvalue.Bool(c.DatabasePath != ""))
	b.Set("customDataEncoder", ldvalue.Bool(c.DataEncoder != nil))
	b.Set("customEventProcessors", ldvalue.Int(len(c.CustomEventProcessors)))
	return b.Build()
}

// fileConfig is the subset of Config that can be read from a file.
type fileConfig struct {
	CollectDomain                    string `json:"collectDomain"`
	Site                             int    `json:"site"`
	Path                             string `json:"path"`
	DefaultPrivacyMode               string `json:"defaultPrivacyMode"`
	SuppressEventsWhenOptOut         bool   `json:"suppressEventsWhenOptOut"`
	VisitorIDType                    string `json:"visitorIDType"`
	VisitorStorageMode               string `json:"visitorStorageMode"`
	IgnoreLimitedAdTracking          bool   `json:"ignoreLimitedAdTracking"`
	OfflineStorageMode               string `json:"offlineStorageMode"`
	EventsOfflineStorageLifetimeDays int    `json:"eventsOfflineStorageLifetimeDays"`
	PrivacyStorageLifetimeDays       int    `json:"privacyStorageLifetimeDays"`
	VisitorStorageLifetimeDays       int    `json:"visitorStorageLifetimeDays"`
	UserStorageLifetimeDays          int    `json:"userStorageLifetimeDays"`
	SessionBackgroundDuration        string `json:"sessionBackgroundDuration"`
	DisableCrashDetection            bool   `json:"disableCrashDetection"`
	AppPackagePrefix                 string `json:"appPackagePrefix"`
	DatabasePath                     string `json:"databasePath"`
	PreferencesFile                  string `json:"preferencesFile"`
}

// LoadConfigFile reads the declarative settings of a Config from a YAML or JSON file. Durations are
// strings such as "45s". Fields that hold components, like Logging, are left unset.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("can't read configuration file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig is like LoadConfigFile but takes the file content.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	config := Config{
		CollectDomain:                    fc.CollectDomain,
		Site:                             fc.Site,
		Path:                             fc.Path,
		DefaultPrivacyMode:               fc.DefaultPrivacyMode,
		SuppressEventsWhenOptOut:         fc.SuppressEventsWhenOptOut,
		VisitorIDType:                    model.VisitorIDType(fc.VisitorIDType),
		VisitorStorageMode:               model.VisitorStorageMode(fc.VisitorStorageMode),
		IgnoreLimitedAdTracking:          fc.IgnoreLimitedAdTracking,
		OfflineStorageMode:               model.OfflineStorageMode(fc.OfflineStorageMode),
		EventsOfflineStorageLifetimeDays: fc.EventsOfflineStorageLifetimeDays,
		PrivacyStorageLifetimeDays:       fc.PrivacyStorageLifetimeDays,
		VisitorStorageLifetimeDays:       fc.VisitorStorageLifetimeDays,
		UserStorageLifetimeDays:          fc.UserStorageLifetimeDays,
		DisableCrashDetection:            fc.DisableCrashDetection,
		AppPackagePrefix:                 fc.AppPackagePrefix,
		DatabasePath:                     fc.DatabasePath,
		PreferencesFile:                  fc.PreferencesFile,
	}
	if fc.SessionBackgroundDuration != "" {
		d, err := time.ParseDuration(fc.SessionBackgroundDuration)
		if err != nil {
			return Config{}, fmt.Errorf("invalid sessionBackgroundDuration: %w", err)
		}
		config.SessionBackgroundDuration = d
	}
	return config, nil
}
