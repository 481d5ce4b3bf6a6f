package ynison

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProtocolHeader_RoundTrip tests that parsing an encoded header restores it.
func TestProtocolHeader_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header ProtocolHeader
	}{
		{
			name:   "without ticket",
			header: ProtocolHeader{DeviceID: "dev-1", DeviceInfo: DefaultDeviceInfo()},
		},
		{
			name: "with ticket",
			header: ProtocolHeader{
				DeviceID:       "4f8e0a52-9a0e-4f7b-9a71-3d9f0c1a7b55",
				DeviceInfo:     DeviceInfo{AppName: "yamusic", Type: 3},
				RedirectTicket: "ticket, with \"quotes\" & commas",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			blob, err := tt.header.Encode()
			require.NoError(t, err)

			parsed, err := ParseProtocolHeader(blob)
			require.NoError(t, err)
			assert.Equal(t, tt.header, *parsed)

			value, err := tt.header.Subprotocol()
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(value, "Bearer, v2, {"))

			parsed, err = ParseSubprotocol(value)
			require.NoError(t, err)
			assert.Equal(t, tt.header, *parsed)
		})
	}
}

// TestProtocolHeader_Encode tests the wire shape of the blob.
func TestProtocolHeader_Encode(t *testing.T) {
	t.Parallel()

	blob, err := ProtocolHeader{DeviceID: "dev-1", DeviceInfo: DefaultDeviceInfo()}.Encode()
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(blob), &fields))

	assert.Equal(t, "dev-1", fields["Ynison-Device-Id"])
	assert.NotContains(t, fields, "Ynison-Redirect-Ticket")

	// The device info is a JSON document inside a JSON string.
	info, ok := fields["Ynison-Device-Info"].(string)
	require.True(t, ok)
	assert.JSONEq(t, `{"app_name":"Chrome","type":1}`, info)
}

// TestParseProtocolHeader_Malformed tests rejected headers.
func TestParseProtocolHeader_Malformed(t *testing.T) {
	t.Parallel()

	blobs := []string{
		``,
		`[]`,
		`{"Ynison-Device-Info":"{}"}`,
		`{"Ynison-Device-Id":"dev-1","Ynison-Device-Info":"not json"}`,
	}

	for _, blob := range blobs {
		_, err := ParseProtocolHeader(blob)
		require.ErrorIs(t, err, ErrMalformedHeader, blob)
	}

	for _, value := range []string{"", "Bearer", "Basic, v2, {}", "Bearer, v1, {}"} {
		_, err := ParseSubprotocol(value)
		require.ErrorIs(t, err, ErrMalformedHeader, value)
	}
}

// TestStateURL tests building the state service URL.
func TestStateURL(t *testing.T) {
	t.Parallel()

	stateURL, err := StateURL("ynison-12.music.yandex.net")
	require.NoError(t, err)
	assert.Equal(t, "wss://ynison-12.music.yandex.net/ynison_state.YnisonStateService/PutYnisonState", stateURL)

	stateURL, err = StateURL("ws://127.0.0.1:8080")
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:8080/ynison_state.YnisonStateService/PutYnisonState", stateURL)

	_, err = StateURL("  ")
	require.ErrorIs(t, err, ErrNoRedirectHost)
}
