package output

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"

	"github.com/eventum-project/eventum-core/pkg/config"
)

// buildHTTPClient builds an *http.Client from a TLSSpec/TimeoutSpec pair
// shared by the http and opensearch outputs (clickhouse uses only
// buildTLSConfig) — generalized from
// tarsy's pkg/mcp/transport.go buildHTTPClient (TLS config clone, proxy,
// connect/request timeouts), extended with CA/client-cert loading since
// those outputs need mutual TLS where tarsy's MCP transport only needed
// optional verification skipping.
func buildHTTPClient(tlsSpec config.TLSSpec, timeouts config.TimeoutSpec, proxyURL string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	tlsConfig, err := buildTLSConfig(tlsSpec)
	if err != nil {
		return nil, err
	}
	transport.TLSClientConfig = tlsConfig

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("output: invalid proxy_url %q: %w", proxyURL, err)
		}
		transport.Proxy = http.ProxyURL(parsed)
	}

	connectTimeout := timeouts.ConnectTimeout.Duration()
	if connectTimeout > 0 {
		transport.DialContext = (&net.Dialer{Timeout: connectTimeout}).DialContext
	}

	requestTimeout := timeouts.RequestTimeout.Duration()

	return &http.Client{Transport: transport, Timeout: requestTimeout}, nil
}

// buildTLSConfig turns a TLSSpec into a *tls.Config: CA-pinned verification
// by default, InsecureSkipVerify when Verify is false, and a client
// certificate loaded when both ClientCert and ClientCertKey are set (mutual
// TLS, per the clickhouse "tls_mode: mutual" resolution in DESIGN.md).
func buildTLSConfig(spec config.TLSSpec) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if !spec.Verify {
		cfg.InsecureSkipVerify = true //nolint:gosec // user-configured per spec.md §6 `verify`
		return cfg, nil
	}

	if spec.ServerHostName != "" {
		cfg.ServerName = spec.ServerHostName
	}

	if spec.CACert != "" {
		pem, err := os.ReadFile(spec.CACert)
		if err != nil {
			return nil, fmt.Errorf("output: read ca_cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("output: ca_cert %q contains no usable certificates", spec.CACert)
		}
		cfg.RootCAs = pool
	}

	if spec.ClientCert != "" && spec.ClientCertKey != "" {
		cert, err := tls.LoadX509KeyPair(spec.ClientCert, spec.ClientCertKey)
		if err != nil {
			return nil, fmt.Errorf("output: load client cert/key: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

// basicAuthTransport wraps an http.RoundTripper to add a Basic Authorization
// header and any static headers, mirroring tarsy's bearerTokenTransport
// (pkg/mcp/transport.go) generalized from bearer-only to basic auth plus
// arbitrary headers.
type basicAuthTransport struct {
	base     http.RoundTripper
	username string
	password string
	headers  map[string]string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.username != "" || t.password != "" {
		req.SetBasicAuth(t.username, t.password)
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

// withAuth wraps client's transport with basicAuthTransport when username,
// password or headers are configured.
func withAuth(client *http.Client, username, password string, headers map[string]string) *http.Client {
	if username == "" && password == "" && len(headers) == 0 {
		return client
	}
	wrapped := *client
	wrapped.Transport = &basicAuthTransport{base: client.Transport, username: username, password: password, headers: headers}
	return &wrapped
}
