package ynison

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	headerDeviceID       = "Ynison-Device-Id"
	headerDeviceInfo     = "Ynison-Device-Info"
	headerRedirectTicket = "Ynison-Redirect-Ticket"

	subprotocolBearer  = "Bearer"
	subprotocolVersion = "v2"
	subprotocolSep     = ", "

	// StatePath is the path of the state service on the host returned by the redirector.
	StatePath = "/ynison_state.YnisonStateService/PutYnisonState"
)

// DeviceInfo describes the client application to the state service.
type DeviceInfo struct {
	AppName string `json:"app_name"`
	Type    int    `json:"type"`
}

// ProtocolHeader is the device identity carried in Sec-WebSocket-Protocol.
type ProtocolHeader struct {
	DeviceID       string
	DeviceInfo     DeviceInfo
	RedirectTicket string
}

// Encode serializes the header into its JSON blob.
// The device info is embedded as a JSON string, the ticket only when present.
func (h ProtocolHeader) Encode() (string, error) {
	info, err := json.Marshal(h.DeviceInfo)
	if err != nil {
		return "", fmt.Errorf("failed to encode device info: %w", err)
	}

	fields := map[string]string{
		headerDeviceID:   h.DeviceID,
		headerDeviceInfo: string(info),
	}

	if h.RedirectTicket != "" {
		fields[headerRedirectTicket] = h.RedirectTicket
	}

	blob, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode protocol header: %w", err)
	}

	return string(blob), nil
}

// Subprotocol returns the full Sec-WebSocket-Protocol value: "Bearer, v2, <blob>".
func (h ProtocolHeader) Subprotocol() (string, error) {
	blob, err := h.Encode()
	if err != nil {
		return "", err
	}

	return strings.Join([]string{subprotocolBearer, subprotocolVersion, blob}, subprotocolSep), nil
}

// ParseProtocolHeader parses a JSON blob produced by Encode.
func ParseProtocolHeader(blob string) (*ProtocolHeader, error) {
	var fields map[string]string
	if err := json.Unmarshal([]byte(blob), &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}

	deviceID := fields[headerDeviceID]
	if deviceID == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedHeader, headerDeviceID)
	}

	header := &ProtocolHeader{
		DeviceID:       deviceID,
		RedirectTicket: fields[headerRedirectTicket],
	}

	if info := fields[headerDeviceInfo]; info != "" {
		if err := json.Unmarshal([]byte(info), &header.DeviceInfo); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedHeader, headerDeviceInfo, err)
		}
	}

	return header, nil
}

// ParseSubprotocol parses a full Sec-WebSocket-Protocol value produced by Subprotocol.
func ParseSubprotocol(value string) (*ProtocolHeader, error) {
	parts := strings.SplitN(value, subprotocolSep, 3)
	if len(parts) != 3 || parts[0] != subprotocolBearer || parts[1] != subprotocolVersion {
		return nil, fmt.Errorf("%w: unexpected subprotocol '%s'", ErrMalformedHeader, value)
	}

	return ParseProtocolHeader(parts[2])
}

// StateURL builds the state service URL on a host returned by the redirector.
func StateURL(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", ErrNoRedirectHost
	}

	if strings.Contains(host, "://") {
		parsed, err := url.Parse(host)
		if err != nil {
			return "", fmt.Errorf("invalid ynison host '%s': %w", host, err)
		}

		return parsed.JoinPath(StatePath).String(), nil
	}

	return (&url.URL{Scheme: "wss", Host: host, Path: StatePath}).String(), nil
}
