package ynison

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnums_Text tests that enums are written lowercase-first and read in any case.
func TestEnums_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    interface{ MarshalText() ([]byte, error) }
		expected string
	}{
		{value: RepeatNone, expected: "none"},
		{value: RepeatAll, expected: "all"},
		{value: EntityPlaylist, expected: "playlist"},
		{value: PlayableLocalTrack, expected: "localTrack"},
		{value: DeviceIOS, expected: "ios"},
		{value: DeviceSmartSpeaker, expected: "smartSpeaker"},
		{value: InterceptIfNoOneActiveBefore, expected: "interceptIfNoOneActiveBefore"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()

			text, err := tt.value.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(text))
		})
	}

	_, err := RepeatMode(9).MarshalText()
	require.Error(t, err)

	var kind DeviceKind
	require.NoError(t, kind.UnmarshalText([]byte("SMART_SPEAKER")))
	assert.Equal(t, DeviceSmartSpeaker, kind)

	for _, text := range []string{"ios", "IOS"} {
		require.NoError(t, kind.UnmarshalText([]byte(text)))
		assert.Equal(t, DeviceIOS, kind, text)
	}

	var entity EntityType
	require.ErrorIs(t, entity.UnmarshalText([]byte("podcast")), ErrDecode)
}

// TestStateRequest_JSON tests camelCase names and omitted empty updates.
func TestStateRequest_JSON(t *testing.T) {
	t.Parallel()

	request := NewStateRequest(time.UnixMilli(1700000000000))
	request.UpdatePlayingStatus = &UpdatePlayingStatus{PlayingStatus: &PlayingStatus{
		ProgressMs:    1500,
		DurationMs:    215000,
		PlaybackSpeed: 1,
	}}

	data, err := json.Marshal(request)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"updatePlayingStatus": {"playingStatus": {"progressMs": 1500, "durationMs": 215000, "paused": false, "playbackSpeed": 1}},
		"rid": "`+request.RID+`",
		"playerActionTimestampMs": 1700000000000,
		"activityInterceptionType": "doNotInterceptByDefault"
	}`, string(data))
}

// TestNewFullStateRequest tests the announcement of a device.
func TestNewFullStateRequest(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000000)
	request := NewFullStateRequest("dev-1", DefaultDeviceInfo(), now)

	require.NotNil(t, request.UpdateFullState)
	assert.NotEmpty(t, request.RID)
	assert.NotEqual(t, request.RID, NewFullStateRequest("dev-1", DefaultDeviceInfo(), now).RID)

	data, err := json.Marshal(request)
	require.NoError(t, err)

	var decoded struct {
		UpdateFullState struct {
			Device map[string]any `json:"device"`
		} `json:"updateFullState"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	device := decoded.UpdateFullState.Device

	info, ok := device["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "web", info["type"])
	assert.Equal(t, "dev-1", info["deviceId"])
	assert.Equal(t, DefaultAppName, info["appName"])
}

// TestDecodeStateUpdate tests decoding inbound state.
func TestDecodeStateUpdate(t *testing.T) {
	t.Parallel()

	update, err := DecodeStateUpdate(Message{Data: []byte(`{
		"playerState": {
			"status": {"progressMs": 42000, "durationMs": 180000, "paused": false, "playbackSpeed": 1},
			"playerQueue": {
				"currentPlayableIndex": 0,
				"entityId": "1193829",
				"entityType": "ALBUM",
				"playableList": [{"playableId": "10994777", "playableType": "TRACK", "from": "web-album"}],
				"options": {"repeatMode": "ONE"}
			}
		},
		"devices": [{"info": {"deviceId": "phone", "title": "Phone", "type": "ANDROID", "appName": "Music"}, "volume": 0.5}],
		"activeDeviceIdOptional": "phone",
		"timestampMs": 1700000000000
	}`)})
	require.NoError(t, err)

	queue := update.PlayerState.PlayerQueue
	assert.Equal(t, EntityAlbum, queue.EntityType)
	assert.Equal(t, RepeatOne, queue.Options.RepeatMode)
	require.Len(t, queue.PlayableList, 1)
	assert.Equal(t, PlayableTrack, queue.PlayableList[0].PlayableType)
	assert.Equal(t, int64(42000), update.PlayerState.Status.ProgressMs)
	require.Len(t, update.Devices, 1)
	assert.Equal(t, DeviceAndroid, update.Devices[0].Info.Type)
	assert.Equal(t, "phone", update.ActiveDeviceIDOptional)

	_, err = DecodeStateUpdate(Message{Data: []byte(`{"devices": {}}`)})
	require.ErrorIs(t, err, ErrDecode)
}
