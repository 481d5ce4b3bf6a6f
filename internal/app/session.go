package app

import (
	"context"
	"fmt"

	"github.com/oshokin/yamusic/internal/client/yandex"
	"github.com/oshokin/yamusic/internal/config"
	"github.com/oshokin/yamusic/internal/logger"
)

// authorize creates a client and establishes a session.
// A token takes precedence over the login and password pair.
func authorize(ctx context.Context, cfg *config.Config) (yandex.Client, *yandex.AuthorizeResult, error) {
	client, err := yandex.NewClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize yandex music client: %w", err)
	}

	var result *yandex.AuthorizeResult

	if cfg.Token != "" {
		logger.Debug(ctx, "Authorizing with OAuth token")

		result, err = client.AuthorizeWithToken(ctx, cfg.Token)
	} else {
		logger.Debugf(ctx, "Authorizing as %s", cfg.Login)

		result, err = client.Authorize(ctx, cfg.Login, cfg.Password)
	}

	if err != nil {
		return nil, nil, err
	}

	persistDeviceID(ctx, cfg)

	return client, result, nil
}

// persistDeviceID saves a freshly generated device id, so the service keeps seeing the same device.
func persistDeviceID(ctx context.Context, cfg *config.Config) {
	if !cfg.DeviceIDGenerated {
		return
	}

	if err := config.SaveConfig(cfg); err != nil {
		logger.Warnf(ctx, "Failed to save device id: %v", err)

		return
	}

	cfg.DeviceIDGenerated = false
}

// mustAuthorize is authorize for executors that can't continue without a session.
func mustAuthorize(ctx context.Context, cfg *config.Config) yandex.Client {
	client, result, err := authorize(ctx, cfg)
	if err != nil {
		logger.Fatalf(ctx, "Authorization failed: %v", err)
	}

	if result.User != nil {
		logger.Infof(ctx, "Logged in as %s", describeUser(result.User))
	}

	return client
}

func describeUser(user *yandex.User) string {
	name := user.DisplayName
	if name == "" {
		name = user.Name
	}

	if name == "" || name == user.Login {
		return fmt.Sprintf("%s (uid %s)", user.Login, user.UID)
	}

	return fmt.Sprintf("%s, %s (uid %s)", name, user.Login, user.UID)
}
