package ynison

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// RedirectInfo is the answer of the redirector: the state service host
// to connect to and the ticket that admits this device there.
type RedirectInfo struct {
	Host           string     `json:"host"`
	RedirectTicket string     `json:"redirectTicket"`
	SessionID      flexString `json:"sessionId"`
}

// flexString accepts both JSON strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""

		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*f = flexString(text)

		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}

	*f = flexString(number.String())

	return nil
}

// StateURL returns the state service URL of the redirect.
func (r *RedirectInfo) StateURL() (string, error) {
	return StateURL(r.Host)
}

// Redirect asks the redirector at cfg.URL which state service host to use.
// The redirector answers with a single message and is disconnected afterwards.
func Redirect(ctx context.Context, creds Credentials, cfg Config) (*RedirectInfo, error) {
	session := NewSession(creds, cfg)
	defer session.Close()

	if err := session.Connect(ctx, ""); err != nil {
		return nil, err
	}

	msg, err := session.readOne(ctx)
	if err != nil {
		return nil, err
	}

	var info RedirectInfo
	if err = json.Unmarshal(msg.Data, &info); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if strings.TrimSpace(info.Host) == "" {
		return nil, ErrNoRedirectHost
	}

	return &info, nil
}
