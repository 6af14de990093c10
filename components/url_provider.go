package components

import "github.com/analyticskit/go-analytics/interfaces"

// StaticURLProvider is a ReportURLProvider that always returns the same endpoint.
type StaticURLProvider interfaces.ReportURL

// ReportURL returns the endpoint.
func (p StaticURLProvider) ReportURL() interfaces.ReportURL {
	return interfaces.ReportURL(p)
}

// StaticHTTPData is a CustomHTTPDataProvider that returns fixed parameters and headers.
type StaticHTTPData struct {
	Params map[string]string
	Header map[string]string
}

// Parameters returns the configured query parameters.
func (d StaticHTTPData) Parameters() map[string]string { return d.Params }

// Headers returns the configured headers.
func (d StaticHTTPData) Headers() map[string]string { return d.Header }
