package components

import (
	"os"
	"runtime"
	"strings"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/model"
)

// HostDeviceInfo returns a DeviceInfoProvider for processes that have no platform integration,
// such as command-line tools and services. It reports the Go runtime's OS, an unknown connection
// type, the locale from the LANG environment variable, and the given application info if any.
func HostDeviceInfo(app *interfaces.AppInfo) interfaces.DeviceInfoProvider {
	ret := hostDeviceInfo{}
	if app != nil {
		ret.app = *app
		ret.hasApp = true
	}
	ret.language, ret.country = parseLocale(os.Getenv("LANG"))
	return ret
}

type hostDeviceInfo struct {
	app               interfaces.AppInfo
	hasApp            bool
	language, country string
}

func (h hostDeviceInfo) ConnectionType() model.ConnectionType { return model.ConnectionUnknown }
func (h hostDeviceInfo) ScreenSize() interfaces.ScreenSize    { return interfaces.ScreenSize{} }
func (h hostDeviceInfo) AppInfo() (interfaces.AppInfo, bool)  { return h.app, h.hasApp }
func (h hostDeviceInfo) Platform() string                     { return runtime.GOOS }
func (h hostDeviceInfo) OSVersion() string                    { return "" }
func (h hostDeviceInfo) Manufacturer() string                 { return "" }
func (h hostDeviceInfo) Model() string                        { return runtime.GOARCH }
func (h hostDeviceInfo) Locale() (string, string)             { return h.language, h.country }

// parseLocale splits values like "en_US.UTF-8" into "en" and "US".
func parseLocale(lang string) (string, string) {
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" || lang == "C" || lang == "POSIX" {
		return "", ""
	}
	language, country, _ := strings.Cut(lang, "_")
	return language, country
}
