// Package crash records panics of the host application so that they can be reported with the first
// event of the next run.
package crash

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/analyticskit/go-analytics/internal/contextprops"
	"github.com/analyticskit/go-analytics/internal/prefs"
	"github.com/analyticskit/go-analytics/internal/wire"
	"github.com/analyticskit/go-analytics/model"
)

// ReporterParams contains the dependencies of a Reporter.
type ReporterParams struct {
	Prefs   *prefs.Storage
	Context *contextprops.Storage
	// ScreenName returns the name of the screen the user is looking at.
	ScreenName func() string
	// PackagePrefix selects the first stack frame of the application, reported as app_crash_class.
	PackagePrefix string
	Enabled       bool
	Loggers       ldlog.Loggers
}

// Reporter saves crash information and restores it on the next start.
type Reporter struct {
	params ReporterParams
}

// NewReporter creates a Reporter.
func NewReporter(params ReporterParams) *Reporter {
	if params.ScreenName == nil {
		params.ScreenName = func() string { return "" }
	}
	return &Reporter{params: params}
}

// LoadPrevious attaches the crash saved by a previous run, if any, to the next event. The saved
// information is removed so that the crash is reported once.
func (r *Reporter) LoadPrevious() {
	raw, ok := r.params.Prefs.String(prefs.KeyCrashInfo)
	if !ok {
		return
	}
	r.params.Prefs.Remove(prefs.KeyCrashInfo)
	props, err := wire.UnmarshalProperties([]byte(raw))
	if err != nil {
		r.params.Loggers.Warnf("Ignoring malformed crash information: %s", err)
		return
	}
	if len(props) > 0 {
		r.params.Context.Add(model.NewContextProperty(props, nil, false))
	}
}

// Record saves a panic value. pcs are the program counters of the panicking goroutine, as returned
// by runtime.Callers.
func (r *Reporter) Record(value interface{}, pcs []uintptr) {
	if !r.params.Enabled {
		return
	}
	props := []model.Property{
		model.NewProperty(model.AppCrash, model.String(panicType(value))),
		model.NewProperty(model.AppCrashScreen, model.String(r.params.ScreenName())),
		model.NewProperty(model.AppCrashClass, model.String(r.firstAppFrame(pcs))),
	}
	r.params.Prefs.SetString(prefs.KeyCrashInfo, string(wire.MarshalProperties(props)))
	r.params.Context.Add(model.NewContextProperty(props, nil, false))
	r.params.Loggers.Debugf("Recorded crash: %s", panicType(value))
}

func (r *Reporter) firstAppFrame(pcs []uintptr) string {
	if r.params.PackagePrefix == "" || len(pcs) == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		if strings.HasPrefix(frame.Function, r.params.PackagePrefix) {
			return frame.Function
		}
		if !more {
			return ""
		}
	}
}

// panicType names the type of a panic value; for a wrapped error, the type of the cause.
func panicType(value interface{}) string {
	if err, ok := value.(error); ok {
		if cause := errors.Unwrap(err); cause != nil {
			return fmt.Sprintf("%T", cause)
		}
	}
	return fmt.Sprintf("%T", value)
}
