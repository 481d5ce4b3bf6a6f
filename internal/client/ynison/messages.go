package ynison

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// RepeatMode is the repeat setting of a queue.
type RepeatMode int

// Repeat modes.
const (
	RepeatNone RepeatMode = iota
	RepeatOne
	RepeatAll
)

// EntityType is the kind of entity a queue was started from.
type EntityType int

// Entity types.
const (
	EntityUnknown EntityType = iota
	EntityArtist
	EntityPlaylist
	EntityAlbum
	EntityRadio
	EntityVarious
)

// PlayableType is the kind of a queue item.
type PlayableType int

// Playable types.
const (
	PlayableTrack PlayableType = iota
	PlayableLocalTrack
	PlayableInfinite
)

// DeviceKind is the platform of a device.
type DeviceKind int

// Device kinds.
const (
	DeviceUnknown DeviceKind = iota
	DeviceWeb
	DeviceAndroid
	DeviceIOS
	DeviceSmartSpeaker
)

// InterceptionType tells the server whether the sender takes over playback.
type InterceptionType int

// Interception types.
const (
	DoNotInterceptByDefault InterceptionType = iota
	InterceptIfNoOneActiveBefore
	InterceptEagerly
)

//nolint:gochecknoglobals // Enum name tables, never modified.
var (
	repeatModeNames       = []string{"None", "One", "All"}
	entityTypeNames       = []string{"Unknown", "Artist", "Playlist", "Album", "Radio", "Various"}
	playableTypeNames     = []string{"Track", "LocalTrack", "Infinite"}
	deviceKindNames       = []string{"Unknown", "Web", "Android", "Ios", "SmartSpeaker"}
	interceptionTypeNames = []string{"DoNotInterceptByDefault", "InterceptIfNoOneActiveBefore", "InterceptEagerly"}
)

// MarshalText implements encoding.TextMarshaler.
func (m RepeatMode) MarshalText() ([]byte, error) {
	return marshalEnum(repeatModeNames, int(m), "repeat mode")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *RepeatMode) UnmarshalText(text []byte) error {
	return unmarshalEnum(repeatModeNames, text, "repeat mode", (*int)(m))
}

// MarshalText implements encoding.TextMarshaler.
func (t EntityType) MarshalText() ([]byte, error) {
	return marshalEnum(entityTypeNames, int(t), "entity type")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EntityType) UnmarshalText(text []byte) error {
	return unmarshalEnum(entityTypeNames, text, "entity type", (*int)(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t PlayableType) MarshalText() ([]byte, error) {
	return marshalEnum(playableTypeNames, int(t), "playable type")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *PlayableType) UnmarshalText(text []byte) error {
	return unmarshalEnum(playableTypeNames, text, "playable type", (*int)(t))
}

// MarshalText implements encoding.TextMarshaler.
func (k DeviceKind) MarshalText() ([]byte, error) {
	return marshalEnum(deviceKindNames, int(k), "device kind")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *DeviceKind) UnmarshalText(text []byte) error {
	return unmarshalEnum(deviceKindNames, text, "device kind", (*int)(k))
}

// MarshalText implements encoding.TextMarshaler.
func (t InterceptionType) MarshalText() ([]byte, error) {
	return marshalEnum(interceptionTypeNames, int(t), "interception type")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *InterceptionType) UnmarshalText(text []byte) error {
	return unmarshalEnum(interceptionTypeNames, text, "interception type", (*int)(t))
}

// marshalEnum writes the name with a lowercase first letter, e.g. "smartSpeaker".
func marshalEnum(names []string, value int, kind string) ([]byte, error) {
	if value < 0 || value >= len(names) {
		return nil, fmt.Errorf("unknown %s %d", kind, value)
	}

	name := names[value]
	first, size := utf8.DecodeRuneInString(name)

	return []byte(string(unicode.ToLower(first)) + name[size:]), nil
}

// unmarshalEnum accepts any letter case with or without underscores: "smartSpeaker", "SMART_SPEAKER".
func unmarshalEnum(names []string, text []byte, kind string, target *int) error {
	normalized := strings.ReplaceAll(string(text), "_", "")

	for i, name := range names {
		if strings.EqualFold(name, normalized) {
			*target = i

			return nil
		}
	}

	return fmt.Errorf("%w: unknown %s '%s'", ErrDecode, kind, text)
}

// Version stamps a piece of state with its author.
type Version struct {
	DeviceID    string `json:"deviceId"`
	Version     int64  `json:"version"`
	TimestampMs int64  `json:"timestampMs"`
}

// PlayingStatus is the playback position of the active device.
type PlayingStatus struct {
	ProgressMs    int64    `json:"progressMs"`
	DurationMs    int64    `json:"durationMs"`
	Paused        bool     `json:"paused"`
	PlaybackSpeed float64  `json:"playbackSpeed"`
	Version       *Version `json:"version,omitempty"`
}

// Playable is one queue item.
type Playable struct {
	PlayableID       string       `json:"playableId"`
	AlbumIDOptional  string       `json:"albumIdOptional,omitempty"`
	PlayableType     PlayableType `json:"playableType"`
	From             string       `json:"from"`
	Title            string       `json:"title,omitempty"`
	CoverURLOptional string       `json:"coverUrlOptional,omitempty"`
}

// QueueOptions are the playback options of a queue.
type QueueOptions struct {
	RepeatMode RepeatMode `json:"repeatMode"`
}

// PlayerQueue is the shared playback queue.
type PlayerQueue struct {
	CurrentPlayableIndex int           `json:"currentPlayableIndex"`
	EntityID             string        `json:"entityId"`
	EntityType           EntityType    `json:"entityType"`
	EntityContext        string        `json:"entityContext,omitempty"`
	PlayableList         []*Playable   `json:"playableList"`
	Options              *QueueOptions `json:"options,omitempty"`
	FromOptional         string        `json:"fromOptional,omitempty"`
	Version              *Version      `json:"version,omitempty"`
}

// PlayerState combines the queue and the playing status.
type PlayerState struct {
	Status      *PlayingStatus `json:"status,omitempty"`
	PlayerQueue *PlayerQueue   `json:"playerQueue,omitempty"`
}

// DeviceDescriptor identifies a device.
type DeviceDescriptor struct {
	DeviceID   string     `json:"deviceId"`
	Title      string     `json:"title"`
	Type       DeviceKind `json:"type"`
	AppName    string     `json:"appName"`
	AppVersion string     `json:"appVersion,omitempty"`
}

// DeviceCapabilities tells other devices what this one can do.
type DeviceCapabilities struct {
	CanBePlayer           bool `json:"canBePlayer"`
	CanBeRemoteController bool `json:"canBeRemoteController"`
	VolumeGranularity     int  `json:"volumeGranularity"`
}

// Device is a participant of the shared session.
type Device struct {
	Info         *DeviceDescriptor   `json:"info,omitempty"`
	Volume       float64             `json:"volume"`
	Capabilities *DeviceCapabilities `json:"capabilities,omitempty"`
	IsOffline    bool                `json:"isOffline,omitempty"`
}

// UpdateFullState replaces the state announced by the sender.
type UpdateFullState struct {
	PlayerState       *PlayerState `json:"playerState,omitempty"`
	Device            *Device      `json:"device,omitempty"`
	IsCurrentlyActive bool         `json:"isCurrentlyActive"`
}

// UpdatePlayingStatus moves the playback position.
type UpdatePlayingStatus struct {
	PlayingStatus *PlayingStatus `json:"playingStatus,omitempty"`
}

// UpdateActiveDevice hands playback over to another device.
type UpdateActiveDevice struct {
	DeviceIDOptional string `json:"deviceIdOptional,omitempty"`
}

// StateRequest is an outbound message. Exactly one update is expected to be set.
type StateRequest struct {
	UpdateFullState          *UpdateFullState     `json:"updateFullState,omitempty"`
	UpdatePlayingStatus      *UpdatePlayingStatus `json:"updatePlayingStatus,omitempty"`
	UpdateActiveDevice       *UpdateActiveDevice  `json:"updateActiveDevice,omitempty"`
	RID                      string               `json:"rid"`
	PlayerActionTimestampMs  int64                `json:"playerActionTimestampMs"`
	ActivityInterceptionType InterceptionType     `json:"activityInterceptionType"`
}

// StateUpdate is an inbound message with the state of the shared session.
type StateUpdate struct {
	PlayerState            *PlayerState `json:"playerState,omitempty"`
	Devices                []*Device    `json:"devices,omitempty"`
	ActiveDeviceIDOptional string       `json:"activeDeviceIdOptional,omitempty"`
	TimestampMs            int64        `json:"timestampMs,omitempty"`
	RID                    string       `json:"rid,omitempty"`
}

// NewStateRequest creates a request with a fresh request id.
func NewStateRequest(now time.Time) *StateRequest {
	return &StateRequest{
		RID:                      uuid.NewString(),
		PlayerActionTimestampMs:  now.UnixMilli(),
		ActivityInterceptionType: DoNotInterceptByDefault,
	}
}

// NewFullStateRequest announces an idle remote-control device with an empty queue.
// It is the first message a device sends after connecting to the state service.
func NewFullStateRequest(deviceID string, info DeviceInfo, now time.Time) *StateRequest {
	version := &Version{
		DeviceID:    deviceID,
		TimestampMs: now.UnixMilli(),
	}

	request := NewStateRequest(now)
	request.UpdateFullState = &UpdateFullState{
		PlayerState: &PlayerState{
			Status: &PlayingStatus{
				Paused:        true,
				PlaybackSpeed: 1,
				Version:       version,
			},
			PlayerQueue: &PlayerQueue{
				CurrentPlayableIndex: -1,
				EntityType:           EntityVarious,
				PlayableList:         []*Playable{},
				Options:              &QueueOptions{RepeatMode: RepeatNone},
				Version:              version,
			},
		},
		Device: &Device{
			Info: &DeviceDescriptor{
				DeviceID: deviceID,
				Title:    info.AppName,
				Type:     DeviceWeb,
				AppName:  info.AppName,
			},
			Capabilities: &DeviceCapabilities{
				CanBeRemoteController: true,
			},
		},
	}

	return request
}

// DecodeStateUpdate decodes an inbound message.
func DecodeStateUpdate(msg Message) (*StateUpdate, error) {
	var update StateUpdate
	if err := json.Unmarshal(msg.Data, &update); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return &update, nil
}
