package app

import (
	"context"

	"github.com/oshokin/yamusic/internal/config"
	"github.com/oshokin/yamusic/internal/logger"
)

// ExecutePlaylistCreateCommand creates a playlist owned by the session owner.
func ExecutePlaylistCreateCommand(ctx context.Context, cfg *config.Config, title string) {
	client := mustAuthorize(ctx, cfg)

	result, err := client.CreatePlaylist(ctx, title)
	if err != nil {
		logger.Fatalf(ctx, "Failed to create playlist: %v", err)
	}

	if !result.Success || result.Playlist == nil {
		logger.Fatalf(ctx, "Service declined to create playlist '%s'", title)
	}

	logger.Infof(ctx, "Created playlist '%s' with kind %s", result.Playlist.Title, result.Playlist.Kind)
}

// ExecutePlaylistRemoveCommand removes a playlist of the session owner by its kind.
func ExecutePlaylistRemoveCommand(ctx context.Context, cfg *config.Config, kind int64) {
	client := mustAuthorize(ctx, cfg)

	removed, err := client.RemovePlaylist(ctx, kind)
	if err != nil {
		logger.Fatalf(ctx, "Failed to remove playlist %d: %v", kind, err)
	}

	if !removed {
		logger.Fatalf(ctx, "Service declined to remove playlist %d", kind)
	}

	logger.Infof(ctx, "Removed playlist %d", kind)
}
