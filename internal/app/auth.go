package app

import (
	"context"

	"github.com/oshokin/yamusic/internal/config"
	"github.com/oshokin/yamusic/internal/logger"
)

// ExecuteAuthLoginCommand executes the auth login command.
// It authorizes with the configured credentials and saves the session token
// and device id to the configuration file.
func ExecuteAuthLoginCommand(ctx context.Context, cfg *config.Config) {
	logger.Info(ctx, "Starting authentication process")

	client := mustAuthorize(ctx, cfg)

	if token := client.Storage().Token(); token != "" {
		cfg.Token = token
	}

	if err := config.SaveConfig(cfg); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration: %v", err)
	}

	logger.Info(ctx, "Configuration updated successfully!")
	logger.Info(ctx, "Authentication complete! You can now download music.")
	logger.Info(ctx, "")
	logger.Info(ctx, "Try downloading an album:")
	logger.Info(ctx, "yamusic download https://music.yandex.ru/album/1193829")
	logger.Info(ctx, "")
	logger.Info(ctx, "Or your liked tracks:")
	logger.Info(ctx, "yamusic download favorites")
}
