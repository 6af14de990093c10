package components

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal"
	"github.com/analyticskit/go-analytics/internal/httpconfig"
)

const (
	// DefaultConnectTimeout is the HTTP connection timeout that is used if
	// HTTPConfigurationBuilder.ConnectTimeout is not set.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultRequestTimeout is the overall read/write timeout of a delivery request that is used if
	// HTTPConfigurationBuilder.RequestTimeout is not set.
	DefaultRequestTimeout = 30 * time.Second
)

// HTTPConfigurationBuilder contains methods for configuring the client's networking behavior.
//
// If you want to set non-default values for any of these properties, create a builder with
// components.HTTPConfiguration(), change its properties with the methods of this class, and
// store it in Config.HTTP:
//
//	config := analytics.Config{
//	    HTTP: components.HTTPConfiguration().
//	        ConnectTimeout(3 * time.Second).
//	        ProxyURL(proxyUrl),
//	}
type HTTPConfigurationBuilder struct {
	inited         bool
	connectTimeout time.Duration
	requestTimeout time.Duration
	params         httpconfig.TransportParams
	headers        http.Header
	userAgent      string
	errs           []error
}

// HTTPConfiguration returns a configuration builder for the client's HTTP configuration.
func HTTPConfiguration() *HTTPConfigurationBuilder {
	return &HTTPConfigurationBuilder{}
}

func (b *HTTPConfigurationBuilder) checkValid() bool {
	if b == nil {
		internal.LogErrorNilPointerMethod("HTTPConfigurationBuilder")
		return false
	}
	if !b.inited {
		b.connectTimeout = DefaultConnectTimeout
		b.requestTimeout = DefaultRequestTimeout
		b.headers = make(http.Header)
		b.inited = true
	}
	return true
}

// CACert specifies a CA certificate to be added to the trusted root CA list for HTTPS requests.
//
// If the certificate data is invalid, the client will report an error when it is created.
func (b *HTTPConfigurationBuilder) CACert(certData []byte) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.params.CACerts = append(b.params.CACerts, certData)
	}
	return b
}

// CACertFile specifies a CA certificate to be added to the trusted root CA list for HTTPS requests,
// reading the certificate data from a file in PEM format.
func (b *HTTPConfigurationBuilder) CACertFile(filePath string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		data, err := os.ReadFile(filePath)
		if err != nil {
			b.errs = append(b.errs, fmt.Errorf("can't read CA certificate file: %w", err))
			return b
		}
		b.params.CACerts = append(b.params.CACerts, data)
	}
	return b
}

// ConnectTimeout sets the connection timeout. The default is DefaultConnectTimeout.
func (b *HTTPConfigurationBuilder) ConnectTimeout(connectTimeout time.Duration) *HTTPConfigurationBuilder {
	if b.checkValid() {
		if connectTimeout <= 0 {
			b.connectTimeout = DefaultConnectTimeout
		} else {
			b.connectTimeout = connectTimeout
		}
	}
	return b
}

// RequestTimeout sets the overall timeout of one delivery attempt. The default is
// DefaultRequestTimeout.
func (b *HTTPConfigurationBuilder) RequestTimeout(requestTimeout time.Duration) *HTTPConfigurationBuilder {
	if b.checkValid() {
		if requestTimeout <= 0 {
			b.requestTimeout = DefaultRequestTimeout
		} else {
			b.requestTimeout = requestTimeout
		}
	}
	return b
}

// Header specifies a custom HTTP header that should be added to all delivery requests. Any value
// set here replaces a previously set header of the same name.
func (b *HTTPConfigurationBuilder) Header(name string, value string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.headers.Set(name, value)
	}
	return b
}

// ProxyURL specifies a proxy URL to be used for all requests. This overrides any setting of the
// HTTP_PROXY, HTTPS_PROXY, or NO_PROXY environment variables.
func (b *HTTPConfigurationBuilder) ProxyURL(proxyURL string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		if proxyURL == "" {
			b.params.ProxyURL = nil
			return b
		}
		u, err := url.Parse(proxyURL)
		if err != nil {
			b.errs = append(b.errs, fmt.Errorf("invalid proxy URL %q: %w", proxyURL, err))
			return b
		}
		b.params.ProxyURL = u
	}
	return b
}

// NTLMProxyAuth enables NTLM authentication with the proxy set by ProxyURL.
func (b *HTTPConfigurationBuilder) NTLMProxyAuth(username, password, domain string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.params.NTLM = &httpconfig.NTLMCredentials{Username: username, Password: password, Domain: domain}
	}
	return b
}

// UserAgent sets a custom product token that is prepended to the library's own User-Agent value.
func (b *HTTPConfigurationBuilder) UserAgent(userAgent string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.userAgent = userAgent
	}
	return b
}

// CreateHTTPConfiguration is called internally by the client.
func (b *HTTPConfigurationBuilder) CreateHTTPConfiguration() (interfaces.HTTPConfiguration, error) {
	if !b.checkValid() {
		return HTTPConfiguration().CreateHTTPConfiguration()
	}
	if len(b.errs) > 0 {
		return interfaces.HTTPConfiguration{}, errors.Join(b.errs...)
	}
	if b.params.NTLM != nil && b.params.ProxyURL == nil {
		return interfaces.HTTPConfiguration{}, errors.New("NTLM proxy authentication requires a proxy URL")
	}

	headers := make(http.Header)
	for k, vv := range b.headers {
		headers[k] = append([]string(nil), vv...)
	}
	userAgent := internal.SDKName + "/" + internal.SDKVersion
	if b.userAgent != "" {
		userAgent = b.userAgent + " " + userAgent
	}
	headers.Set("User-Agent", userAgent)

	params := b.params
	params.ConnectTimeout = b.connectTimeout
	transport, err := httpconfig.NewTransport(params)
	if err != nil {
		return interfaces.HTTPConfiguration{}, err
	}
	requestTimeout := b.requestTimeout

	return interfaces.HTTPConfiguration{
		DefaultHeaders: headers,
		CreateHTTPClient: func() *http.Client {
			return &http.Client{Transport: transport, Timeout: requestTimeout}
		},
	}, nil
}
