package ynison

import (
	"context"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedirect tests asking the redirector for a state service host.
func TestRedirect(t *testing.T) {
	t.Parallel()

	url, handshakes := newSocketServer(t, nil, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"host":"ynison-7.music.yandex.net","redirectTicket":"t-1","sessionId":981273}`))
		drain(conn)
	})

	info, err := Redirect(context.Background(), testCredentials, Config{URL: url})
	require.NoError(t, err)

	assert.Equal(t, "ynison-7.music.yandex.net", info.Host)
	assert.Equal(t, "t-1", info.RedirectTicket)
	assert.Equal(t, flexString("981273"), info.SessionID)

	stateURL, err := info.StateURL()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stateURL, "wss://ynison-7.music.yandex.net/"))

	h := <-handshakes
	require.NoError(t, h.headerErr)
	assert.Empty(t, h.header.RedirectTicket)
}

// TestRedirect_Failures tests unusable redirector answers.
func TestRedirect_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		answer   string
		expected error
	}{
		{name: "no host", answer: `{"redirectTicket":"t-1"}`, expected: ErrNoRedirectHost},
		{name: "not json", answer: `<html>`, expected: ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			url, _ := newSocketServer(t, nil, func(conn *websocket.Conn) {
				_ = conn.WriteMessage(websocket.TextMessage, []byte(tt.answer))
				drain(conn)
			})

			_, err := Redirect(context.Background(), testCredentials, Config{URL: url})
			require.ErrorIs(t, err, tt.expected)
		})
	}

	rejecting, _ := newSocketServer(t, func(handshake) bool { return false }, func(*websocket.Conn) {})

	_, err := Redirect(context.Background(), testCredentials, Config{URL: rejecting})
	require.ErrorIs(t, err, ErrConnectionRejected)
}
