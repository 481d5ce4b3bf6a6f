package http

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitTransport delays requests so that no more than the configured
// number of requests per second reach the service.
type RateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

// NewRateLimitTransport wraps next with a token bucket limiter.
// A non-positive requestsPerSecond disables limiting and returns next unchanged.
func NewRateLimitTransport(next http.RoundTripper, requestsPerSecond float64, burst int) http.RoundTripper {
	if requestsPerSecond <= 0 {
		return next
	}

	if burst < 1 {
		burst = 1
	}

	return &RateLimitTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// RoundTrip waits for a token and forwards the request.
// It fails with the request context error if the context ends while waiting.
func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	return t.next.RoundTrip(req)
}
