package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oshokin/yamusic/internal/client/ynison"
	"github.com/oshokin/yamusic/internal/config"
	"github.com/oshokin/yamusic/internal/logger"
	http_transport "github.com/oshokin/yamusic/internal/transport/http"
)

const ynisonSubscriptionBuffer = 16

// ExecuteYnisonCommand joins the shared playback session as an idle remote control
// and prints every state update until interrupted.
//
//nolint:funlen // Linear connect, announce and watch sequence.
func ExecuteYnisonCommand(ctx context.Context, cfg *config.Config) {
	client := mustAuthorize(ctx, cfg)

	creds := client.Storage()
	if creds.Token() == "" {
		logger.Fatal(ctx, "Ynison requires an OAuth token, set 'token' in the configuration")
	}

	ctx = logger.WithName(ctx, "ynison")

	dialer, err := newYnisonDialer(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to configure proxy: %v", err)
	}

	sessionCfg := ynison.Config{
		URL:    cfg.YnisonRedirectURL,
		Origin: cfg.Origin,
		DeviceInfo: ynison.DeviceInfo{
			AppName: cfg.DeviceAppName,
			Type:    cfg.DeviceType,
		},
		Dialer: dialer,
	}

	redirect, err := ynison.Redirect(ctx, creds, sessionCfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to get Ynison redirect: %v", err)
	}

	sessionCfg.URL, err = redirect.StateURL()
	if err != nil {
		logger.Fatalf(ctx, "Invalid Ynison state host: %v", err)
	}

	logger.Debugf(ctx, "Redirected to %s, session %s", sessionCfg.URL, redirect.SessionID)

	session := ynison.NewSession(creds, sessionCfg)
	defer session.Close()

	if err = session.Connect(ctx, redirect.RedirectTicket); err != nil {
		logger.Errorf(ctx, "Failed to connect to Ynison: %v", err)

		return
	}

	sub := session.Subscribe(ynisonSubscriptionBuffer)
	defer sub.Unsubscribe()

	receiveResult := make(chan error, 1)

	go func() {
		receiveResult <- session.BeginReceive(ctx)
	}()

	request := ynison.NewFullStateRequest(creds.DeviceID(), sessionCfg.DeviceInfo, time.Now())
	if err = session.SendJSON(ctx, request); err != nil {
		logger.Errorf(ctx, "Failed to announce device: %v", err)

		return
	}

	logger.Info(ctx, "Connected to Ynison, waiting for updates (press Ctrl+C to stop)")

	for {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				return
			}

			update, decodeErr := ynison.DecodeStateUpdate(msg)
			if decodeErr != nil {
				logger.Warnf(ctx, "Skipping message: %v", decodeErr)

				continue
			}

			logger.Info(ctx, describeStateUpdate(update))
		case err = <-receiveResult:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf(ctx, "Ynison session ended: %v", err)
			}

			return
		case <-ctx.Done():
			session.StopReceive()
			logger.Info(ctx, "Disconnecting from Ynison")

			return
		}
	}
}

// newYnisonDialer creates a WebSocket dialer that honors the configured proxy.
func newYnisonDialer(cfg *config.Config) (*websocket.Dialer, error) {
	proxy, err := http_transport.ParseProxy(cfg.Proxy)
	if err != nil {
		return nil, err
	}

	handshakeTimeout := cfg.ParsedRequestTimeout
	if handshakeTimeout <= 0 {
		handshakeTimeout = ynison.DefaultHandshakeTimeout
	}

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}

	switch {
	case proxy == nil:
	case proxy.DialContext != nil:
		dialer.Proxy = nil
		dialer.NetDialContext = proxy.DialContext
	default:
		dialer.Proxy = proxy.ProxyURL
	}

	return dialer, nil
}

// describeStateUpdate summarizes an update: the active device, the current track and the queue size.
func describeStateUpdate(update *ynison.StateUpdate) string {
	parts := make([]string, 0, 3) //nolint:mnd // Device, track and queue.

	if device := activeDevice(update); device != "" {
		parts = append(parts, "active device: "+device)
	} else {
		parts = append(parts, "no active device")
	}

	if update.PlayerState == nil || update.PlayerState.PlayerQueue == nil {
		return strings.Join(parts, ", ")
	}

	queue := update.PlayerState.PlayerQueue
	index := queue.CurrentPlayableIndex

	if index >= 0 && index < len(queue.PlayableList) && queue.PlayableList[index] != nil {
		parts = append(parts, describePlayable(queue.PlayableList[index], update.PlayerState.Status))
	} else {
		parts = append(parts, "nothing playing")
	}

	parts = append(parts, fmt.Sprintf("queue: %d", len(queue.PlayableList)))

	return strings.Join(parts, ", ")
}

func activeDevice(update *ynison.StateUpdate) string {
	if update.ActiveDeviceIDOptional == "" {
		return ""
	}

	for _, device := range update.Devices {
		if device == nil || device.Info == nil || device.Info.DeviceID != update.ActiveDeviceIDOptional {
			continue
		}

		if device.Info.Title != "" {
			return device.Info.Title
		}

		break
	}

	return update.ActiveDeviceIDOptional
}

func describePlayable(playable *ynison.Playable, status *ynison.PlayingStatus) string {
	title := playable.Title
	if title == "" {
		title = playable.PlayableID
	}

	if status == nil {
		return "track: " + title
	}

	verb := "playing"
	if status.Paused {
		verb = "paused"
	}

	return fmt.Sprintf("%s: %s %s/%s", verb, title,
		formatPosition(status.ProgressMs), formatPosition(status.DurationMs))
}

// formatPosition renders milliseconds as m:ss.
func formatPosition(ms int64) string {
	if ms < 0 {
		ms = 0
	}

	seconds := ms / int64(time.Second/time.Millisecond)

	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60) //nolint:mnd // Seconds per minute.
}
