package utils

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

// UserAgentProvider supplies the User-Agent header for outgoing requests.
type UserAgentProvider interface {
	// GetUserAgent returns a User-Agent string.
	GetUserAgent() string
}

// StaticUserAgentProvider always returns the same User-Agent string.
type StaticUserAgentProvider struct {
	userAgent string
}

// NewStaticUserAgentProvider creates a provider returning userAgent,
// or fallback when userAgent is blank.
func NewStaticUserAgentProvider(userAgent, fallback string) UserAgentProvider {
	if userAgent == "" {
		userAgent = fallback
	}

	return &StaticUserAgentProvider{userAgent: userAgent}
}

// GetUserAgent returns a User-Agent string.
func (p *StaticUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}
