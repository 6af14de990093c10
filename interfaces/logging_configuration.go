package interfaces

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// LoggingConfiguration encapsulates the client's general logging configuration.
//
// See components.LoggingConfigurationBuilder for more details on these properties.
type LoggingConfiguration struct {
	// Loggers is a configured ldlog.Loggers instance for general logging.
	Loggers ldlog.Loggers

	// LogEventPayloads is true if the JSON body of each delivery request should be logged at
	// Debug level.
	LogEventPayloads bool
}

// LoggingConfigurationFactory is an interface for a factory that creates a LoggingConfiguration.
type LoggingConfigurationFactory interface {
	CreateLoggingConfiguration() LoggingConfiguration
}
