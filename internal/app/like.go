package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/yamusic/internal/config"
	"github.com/oshokin/yamusic/internal/logger"
	"github.com/oshokin/yamusic/internal/service/download"
)

// ErrNotATrackLink indicates that a link doesn't point to a single track.
var ErrNotATrackLink = errors.New("link does not point to a track")

// ExecuteLikeCommand likes or unlikes every track the links point to.
func ExecuteLikeCommand(ctx context.Context, cfg *config.Config, links []string, liked bool) {
	action := "Liked"
	if !liked {
		action = "Unliked"
	}

	client := mustAuthorize(ctx, cfg)

	for _, link := range links {
		trackKey, err := trackKeyFromLink(link)
		if err != nil {
			logger.Errorf(ctx, "Skipping '%s': %v", link, err)

			continue
		}

		result, err := client.SetLikedTrack(ctx, trackKey, liked)
		if err != nil {
			logger.Errorf(ctx, "Failed to update like of track %s: %v", trackKey, err)

			continue
		}

		if !result.Success {
			logger.Warnf(ctx, "Service declined to update like of track %s", trackKey)

			continue
		}

		logger.Infof(ctx, "%s track %s", action, trackKey)
	}
}

// trackKeyFromLink accepts track URLs and "trackId[:albumId]" keys.
func trackKeyFromLink(link string) (string, error) {
	item := download.ParseLink(link)
	if item.Category != download.DownloadCategoryTrack {
		return "", fmt.Errorf("%w: '%s'", ErrNotATrackLink, link)
	}

	if item.AlbumID == "" {
		return item.TrackID, nil
	}

	return item.TrackID + ":" + item.AlbumID, nil
}
