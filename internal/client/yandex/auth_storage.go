package yandex

import (
	"encoding/json"
	"sync"
)

// AuthSnapshot is a point-in-time copy of the session credentials.
type AuthSnapshot struct {
	DeviceID    string
	Token       string
	UID         int64
	Login       string
	Sign        string
	Experiments json.RawMessage
	Lang        string
}

// AuthStorage holds the credentials of an established session.
// Everything except the token is fixed once authorization succeeds.
// A nil *AuthStorage behaves as empty storage.
type AuthStorage struct {
	mu   sync.RWMutex
	data AuthSnapshot
}

// NewAuthStorage creates storage from the given credentials.
func NewAuthStorage(snapshot AuthSnapshot) *AuthStorage {
	snapshot.Experiments = cloneRaw(snapshot.Experiments)

	return &AuthStorage{data: snapshot}
}

// Snapshot returns a copy of the credentials.
func (a *AuthStorage) Snapshot() AuthSnapshot {
	if a == nil {
		return AuthSnapshot{}
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	snapshot := a.data
	snapshot.Experiments = cloneRaw(a.data.Experiments)

	return snapshot
}

// DeviceID returns the device identifier.
func (a *AuthStorage) DeviceID() string {
	return a.Snapshot().DeviceID
}

// Token returns the OAuth token, empty for cookie-only sessions.
func (a *AuthStorage) Token() string {
	if a == nil {
		return ""
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.data.Token
}

// UID returns the numeric user id.
func (a *AuthStorage) UID() int64 {
	return a.Snapshot().UID
}

// Login returns the account login.
func (a *AuthStorage) Login() string {
	return a.Snapshot().Login
}

// SetToken replaces the OAuth token after a refresh.
func (a *AuthStorage) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.data.Token = token
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}

	return append(json.RawMessage(nil), raw...)
}
