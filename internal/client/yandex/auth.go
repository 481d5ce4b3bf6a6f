package yandex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/oshokin/yamusic/internal/logger"
)

// Authorize logs in with the passport form and loads the user profile.
// A network failure or a redirect back to the login page yields {Authorized: false}
// and an error matching ErrAuthenticationFailed; the client stays unauthenticated.
// A failure of the profile requests is returned as is and nothing is cached.
func (c *ClientImpl) Authorize(ctx context.Context, login, password string) (*AuthorizeResult, error) {
	if err := c.beginAuthentication(); err != nil {
		return &AuthorizeResult{}, err
	}

	request, err := c.builder.Build(ctx, endpointPassportLogin, map[string]string{
		"login":    login,
		"password": password,
		"retpath":  c.cfg.MusicBaseURL,
	}, nil)
	if err != nil {
		c.abortAuthentication()

		return &AuthorizeResult{}, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		c.abortAuthentication()

		return &AuthorizeResult{}, fmt.Errorf("%w: %w",
			ErrAuthenticationFailed, &TransportError{Endpoint: endpointPassportLogin.Name, Err: err})
	}

	c.jar.Absorb(response)
	_, _ = io.Copy(io.Discard, response.Body) //nolint:errcheck // The page itself is not used.
	response.Body.Close()

	if response.Request != nil && response.Request.URL.String() == c.loginPageURL {
		c.abortAuthentication()
		logger.Debugf(ctx, "Passport returned the login page for '%s'", login)

		return &AuthorizeResult{}, fmt.Errorf("%w: redirected to the login page", ErrAuthenticationFailed)
	}

	if response.StatusCode >= http.StatusBadRequest {
		c.abortAuthentication()

		return &AuthorizeResult{}, fmt.Errorf("%w: %w",
			ErrAuthenticationFailed, newStatusError(endpointPassportLogin.Name, response.StatusCode))
	}

	return c.completeAuthentication(ctx, AuthSnapshot{
		DeviceID: c.cfg.DeviceID,
		Login:    login,
	})
}

// AuthorizeWithToken establishes a session from an OAuth token and loads the user profile.
func (c *ClientImpl) AuthorizeWithToken(ctx context.Context, token string) (*AuthorizeResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return &AuthorizeResult{}, fmt.Errorf("%w: empty token", ErrAuthenticationFailed)
	}

	if err := c.beginAuthentication(); err != nil {
		return &AuthorizeResult{}, err
	}

	return c.completeAuthentication(ctx, AuthSnapshot{
		DeviceID: c.cfg.DeviceID,
		Token:    token,
	})
}

// GetUserAuth retrieves the short authorization state.
func (c *ClientImpl) GetUserAuth(ctx context.Context) (*AuthInfo, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	return c.fetchAuthInfo(ctx, auth)
}

// GetUserAuthDetails retrieves the profile of the session owner.
func (c *ClientImpl) GetUserAuthDetails(ctx context.Context) (*AuthUserDetails, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	return c.fetchAuthUserDetails(ctx, auth)
}

// GetAccounts retrieves the accounts logged in on this device.
func (c *ClientImpl) GetAccounts(ctx context.Context) (*Accounts, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	return fetchJSON[Accounts](c, ctx, endpointAccounts, c.sessionParams(auth, nil), auth)
}

// GetYandexCookie performs cookie matching. The received cookies are stored in the jar.
func (c *ClientImpl) GetYandexCookie(ctx context.Context) (*AdfoxCookie, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	return fetchJSON[AdfoxCookie](c, ctx, endpointAdfoxCookie, c.sessionParams(auth, nil), auth)
}

func (c *ClientImpl) fetchAuthInfo(ctx context.Context, auth *AuthStorage) (*AuthInfo, error) {
	return fetchJSON[AuthInfo](c, ctx, endpointAuthInfo, c.sessionParams(auth, nil), auth)
}

func (c *ClientImpl) fetchAuthUserDetails(ctx context.Context, auth *AuthStorage) (*AuthUserDetails, error) {
	return fetchJSON[AuthUserDetails](c, ctx, endpointAuthUserDetails, c.sessionParams(auth, nil), auth)
}

// completeAuthentication runs the two profile requests and commits the session.
func (c *ClientImpl) completeAuthentication(ctx context.Context, pending AuthSnapshot) (*AuthorizeResult, error) {
	pendingAuth := NewAuthStorage(pending)

	authInfo, err := c.fetchAuthInfo(ctx, pendingAuth)
	if err != nil {
		c.abortAuthentication()

		return &AuthorizeResult{}, fmt.Errorf("failed to get auth info: %w", err)
	}

	if authInfo.Lang != "" {
		pending.Lang = authInfo.Lang
		pendingAuth = NewAuthStorage(pending)
	}

	details, err := c.fetchAuthUserDetails(ctx, pendingAuth)
	if err != nil {
		c.abortAuthentication()

		return &AuthorizeResult{}, fmt.Errorf("failed to get auth user details: %w", err)
	}

	uid, err := strconv.ParseInt(string(details.User.UID), 10, 64)
	if err != nil {
		c.abortAuthentication()

		return &AuthorizeResult{}, &DecodeError{Path: "user.uid", Err: err}
	}

	deviceID := details.User.DeviceID
	if deviceID == "" {
		deviceID = pending.DeviceID
	}

	login := details.User.Login
	if login == "" {
		login = pending.Login
	}

	auth := NewAuthStorage(AuthSnapshot{
		DeviceID:    deviceID,
		Token:       pending.Token,
		UID:         uid,
		Login:       login,
		Sign:        details.User.Sign,
		Experiments: details.Experiments,
		Lang:        pending.Lang,
	})

	user := *details.User

	c.mu.Lock()
	c.state = StateAuthenticated
	c.auth = auth
	c.user = &user
	c.mu.Unlock()

	logger.Debugf(ctx, "Authorized as '%s' (uid %d)", login, uid)

	return &AuthorizeResult{
		Authorized: true,
		User:       details.User,
		AuthInfo:   authInfo,
	}, nil
}

// beginAuthentication moves the client into the authenticating state.
// A previous session is dropped.
func (c *ClientImpl) beginAuthentication() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateAuthenticating {
		return ErrAuthorizationInProgress
	}

	c.state = StateAuthenticating
	c.auth = nil
	c.user = nil

	return nil
}

func (c *ClientImpl) abortAuthentication() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateUnauthenticated
	c.auth = nil
	c.user = nil
}
