package sharedtest

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// Raise to ldlog.Debug to see component logs while debugging a test.
var testLogLevel = ldlog.None

// NewTestLoggers returns loggers for tests that do not assert on log output.
func NewTestLoggers() ldlog.Loggers {
	loggers := ldlog.NewDefaultLoggers()
	loggers.SetMinLevel(testLogLevel)
	loggers.SetPrefix("test:")
	return loggers
}
