package app

import (
	"context"

	"github.com/oshokin/yamusic/internal/config"
	"github.com/oshokin/yamusic/internal/logger"
	"github.com/oshokin/yamusic/internal/service/download"
)

// ExecuteDownloadCommand authorizes the client, sets up the download service components
// and downloads the provided links.
func ExecuteDownloadCommand(ctx context.Context, cfg *config.Config, links []string) {
	client := mustAuthorize(ctx, cfg)

	urlProcessor := download.NewURLProcessor()
	templateManager := download.NewTemplateManager(ctx, cfg)
	tagProcessor := download.NewTagProcessor()

	s := download.NewService(cfg, client, urlProcessor, templateManager, tagProcessor)

	// Statistics are printed even when a download panics.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		s.PrintDownloadSummary(ctx)
	}()

	s.DownloadLinks(ctx, links)
}
