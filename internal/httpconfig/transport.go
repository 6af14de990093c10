// Package httpconfig builds the HTTP transports used for event delivery.
package httpconfig

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	ntlm "github.com/launchdarkly/go-ntlm-proxy-auth"
)

// DefaultConnectTimeout is the dial timeout used when none is configured.
const DefaultConnectTimeout = 3 * time.Second

var errInvalidCACert = errors.New("invalid CA certificate data")

// TransportParams describes the transport to build.
type TransportParams struct {
	ConnectTimeout time.Duration
	CACerts        [][]byte
	ProxyURL       *url.URL
	NTLM           *NTLMCredentials
}

// NTLMCredentials are used to authenticate with an NTLM proxy. ProxyURL must also be set.
type NTLMCredentials struct {
	Username string
	Password string
	Domain   string
}

// NewTransport creates an *http.Transport from params.
func NewTransport(params TransportParams) (*http.Transport, error) {
	timeout := params.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 1 * time.Minute,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if len(params.CACerts) > 0 {
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		for _, data := range params.CACerts {
			if !pool.AppendCertsFromPEM(data) {
				return nil, errInvalidCACert
			}
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	}
	if params.ProxyURL != nil {
		transport.Proxy = http.ProxyURL(params.ProxyURL)
		if params.NTLM != nil {
			transport.Proxy = nil
			transport.DialContext = ntlm.NewNTLMProxyDialContext(dialer, *params.ProxyURL,
				params.NTLM.Username, params.NTLM.Password, params.NTLM.Domain, transport.TLSClientConfig)
		}
	}
	return transport, nil
}
