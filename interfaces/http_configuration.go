package interfaces

import (
	"net/http"
)

// HTTPConfiguration encapsulates the HTTP settings used when delivering events.
//
// See components.HTTPConfigurationBuilder for more details on these properties.
type HTTPConfiguration struct {
	// DefaultHeaders contains headers that are added to every delivery request. This map is never
	// modified once created.
	DefaultHeaders http.Header

	// CreateHTTPClient returns a new HTTP client instance based on the configuration.
	//
	// The client will ensure that this field is non-nil before passing it to any component.
	CreateHTTPClient func() *http.Client
}

// HTTPConfigurationFactory is an interface for a factory that creates an HTTPConfiguration.
type HTTPConfigurationFactory interface {
	CreateHTTPConfiguration() (HTTPConfiguration, error)
}
