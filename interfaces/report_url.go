package interfaces

// ReportURL contains the parts of the collection endpoint address.
type ReportURL struct {
	CollectDomain string
	Site          int
	Path          string
}

// ReportURLProvider computes the collection endpoint each time events are sent, for applications
// that switch endpoints at runtime.
type ReportURLProvider interface {
	ReportURL() ReportURL
}

// CustomHTTPDataProvider supplies extra query parameters and headers for delivery requests.
type CustomHTTPDataProvider interface {
	Parameters() map[string]string
	Headers() map[string]string
}
