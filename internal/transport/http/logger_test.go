package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/yamusic/internal/logger"
)

// TestLogTransport_NilRequest tests that a nil request is rejected.
func TestLogTransport_NilRequest(t *testing.T) {
	t.Parallel()

	transport := NewLogTransport(http.DefaultTransport, 0)

	resp, err := transport.RoundTrip(nil) //nolint:bodyclose // Response is nil on error.
	require.ErrorIs(t, err, ErrNilRequest)
	assert.Nil(t, resp)
}

// TestNewLogTransport_DefaultLength tests that zero length falls back to the default.
func TestNewLogTransport_DefaultLength(t *testing.T) {
	t.Parallel()

	transport, ok := NewLogTransport(http.DefaultTransport, 0).(*LogTransport)
	require.True(t, ok)
	assert.Equal(t, uint64(DefaultMaxLogLength), transport.maxLogLength)
}

// TestLogTransport_RedactsCredentials tests that debug dumps never contain secrets.
//
//nolint:paralleltest // Changes the global logger and level.
func TestLogTransport_RedactsCredentials(t *testing.T) {
	originalLogger := logger.Logger()
	originalLevel := logger.Level()

	defer func() {
		logger.SetLogger(originalLogger)
		logger.SetLevel(originalLevel)
	}()

	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetLogger(zap.New(core).Sugar())
	logger.SetLevel(zapcore.DebugLevel)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "Session_id", Value: "very-secret-session"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	form := url.Values{"login": {"listener"}, "passwd": {"hunter2"}}

	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader(form.Encode())) //nolint:noctx // Test code.
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "OAuth AQAAAA-secret-token")
	req.Header.Set("Cookie", "yandexuid=12345")

	resp, err := NewLogTransport(http.DefaultTransport, 0).RoundTrip(req)
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body), "dumping must not consume the body")

	entries := logs.All()
	require.Len(t, entries, 1)

	message := entries[0].Message
	assert.Contains(t, message, "login=listener")
	assert.NotContains(t, message, "hunter2")
	assert.NotContains(t, message, "AQAAAA-secret-token")
	assert.NotContains(t, message, "yandexuid=12345")
	assert.NotContains(t, message, "very-secret-session")
}

// TestLogTransport_Truncate tests the truncate helper.
func TestLogTransport_Truncate(t *testing.T) {
	t.Parallel()

	transport := &LogTransport{maxLogLength: 4}

	assert.Equal(t, "abc", transport.truncate([]byte("abc")))
	assert.Equal(t, "abcd... [truncated]", transport.truncate([]byte("abcdef")))
}
