package http

import (
	"net/http"

	"github.com/oshokin/yamusic/internal/utils"
)

// UserAgentInjector sets the User-Agent header on requests that don't carry one.
type UserAgentInjector struct {
	next              http.RoundTripper
	userAgentProvider utils.UserAgentProvider
}

const userAgentHeader = "User-Agent"

// NewUserAgentInjector wraps next so every request leaves with a User-Agent.
func NewUserAgentInjector(next http.RoundTripper, userAgentProvider utils.UserAgentProvider) http.RoundTripper {
	return &UserAgentInjector{
		next:              next,
		userAgentProvider: userAgentProvider,
	}
}

// RoundTrip injects the User-Agent header if it is missing.
// The request is cloned, RoundTrippers must not modify the caller's request.
func (t *UserAgentInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(userAgentHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(userAgentHeader, t.userAgentProvider.GetUserAgent())
	}

	return t.next.RoundTrip(req)
}
