package components

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/analyticskit/go-analytics/interfaces"
)

// LoggingConfigurationBuilder contains methods for configuring the client's logging behavior.
//
// If you want to set non-default values for any of these properties, create a builder with
// components.Logging(), change its properties with the LoggingConfigurationBuilder methods, and
// store it in Config.Logging:
//
//	config := analytics.Config{
//	    Logging: components.Logging().MinLevel(ldlog.Warn),
//	}
type LoggingConfigurationBuilder struct {
	config interfaces.LoggingConfiguration
}

// Logging returns a configuration builder for the client's logging configuration.
//
// The default configuration has logging enabled at Info level, writing to the standard logger.
func Logging() *LoggingConfigurationBuilder {
	return &LoggingConfigurationBuilder{config: interfaces.LoggingConfiguration{Loggers: ldlog.NewDefaultLoggers()}}
}

// Loggers specifies an instance of ldlog.Loggers to use for logging. The ldlog package contains
// methods for customizing the destination and level filtering of log output.
func (b *LoggingConfigurationBuilder) Loggers(loggers ldlog.Loggers) *LoggingConfigurationBuilder {
	b.config.Loggers = loggers
	return b
}

// MinLevel specifies the minimum level for log output, where ldlog.Debug is the lowest and ldlog.Error
// is the highest. Log messages at a level lower than this will be suppressed. The default is
// ldlog.Info.
func (b *LoggingConfigurationBuilder) MinLevel(level ldlog.LogLevel) *LoggingConfigurationBuilder {
	b.config.Loggers.SetMinLevel(level)
	return b
}

// LogEventPayloads sets whether the JSON body of each delivery request is logged at Debug level.
// The default is false. It can also be turned on at runtime by setting the platform system
// property "debug.analytics.http" to "true".
func (b *LoggingConfigurationBuilder) LogEventPayloads(logPayloads bool) *LoggingConfigurationBuilder {
	b.config.LogEventPayloads = logPayloads
	return b
}

// CreateLoggingConfiguration is called internally by the client.
func (b *LoggingConfigurationBuilder) CreateLoggingConfiguration() interfaces.LoggingConfiguration {
	return b.config
}

// NoLogging returns a configuration object that disables logging.
//
//	config := analytics.Config{
//	    Logging: components.NoLogging(),
//	}
func NoLogging() interfaces.LoggingConfigurationFactory {
	return noLoggingConfigurationFactory{}
}

type noLoggingConfigurationFactory struct{}

func (f noLoggingConfigurationFactory) CreateLoggingConfiguration() interfaces.LoggingConfiguration {
	return interfaces.LoggingConfiguration{Loggers: ldlog.NewDisabledLoggers()}
}
