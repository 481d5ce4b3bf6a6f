package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/proxy"
)

// ErrUnsupportedProxyScheme indicates a proxy URL with a scheme other than http, https or socks5.
var ErrUnsupportedProxyScheme = errors.New("unsupported proxy scheme")

// DialContextFunc is the dial function of transports and WebSocket dialers.
type DialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Proxy routes connections through an HTTP or SOCKS5 proxy.
// Exactly one of ProxyURL and DialContext is set.
type Proxy struct {
	// ProxyURL selects the HTTP proxy for a request.
	ProxyURL func(*http.Request) (*url.URL, error)
	// DialContext opens connections through a SOCKS5 proxy.
	DialContext DialContextFunc
}

// ParseProxy parses "http://host:port", "https://host:port" or "socks5://[user:password@]host:port".
// An empty URL returns nil: connections go direct or follow the environment.
func ParseProxy(rawURL string) (*Proxy, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, nil //nolint:nilnil // No proxy is a valid configuration.
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch parsedURL.Scheme {
	case "http", "https":
		return &Proxy{ProxyURL: http.ProxyURL(parsedURL)}, nil
	case "socks5", "socks5h":
		var auth *proxy.Auth

		if parsedURL.User != nil {
			password, _ := parsedURL.User.Password()
			auth = &proxy.Auth{User: parsedURL.User.Username(), Password: password}
		}

		dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 proxy: %w", err)
		}

		return &Proxy{DialContext: contextDialer(dialer)}, nil
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedProxyScheme, parsedURL.Scheme)
	}
}

// NewProxyTransport returns a copy of http.DefaultTransport routed through the proxy.
// A nil proxy returns http.DefaultTransport itself.
func NewProxyTransport(p *Proxy) http.RoundTripper {
	if p == nil {
		return http.DefaultTransport
	}

	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // Standard library type.

	if p.ProxyURL != nil {
		transport.Proxy = p.ProxyURL
	}

	if p.DialContext != nil {
		transport.Proxy = nil
		transport.DialContext = p.DialContext
	}

	return transport
}

func contextDialer(dialer proxy.Dialer) DialContextFunc {
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext
	}

	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(network, addr)
	}
}
