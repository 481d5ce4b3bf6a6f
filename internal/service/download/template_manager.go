package download

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/oshokin/yamusic/internal/config"
	"github.com/oshokin/yamusic/internal/logger"
	"github.com/oshokin/yamusic/internal/utils"
)

// TemplateManager builds file and folder names from track tags.
type TemplateManager interface {
	// GetTrackFilename returns a sanitized file name without extension.
	GetTrackFilename(ctx context.Context, trackTags map[string]string) string
	// GetAlbumFolderName returns a sanitized folder name for album downloads.
	GetAlbumFolderName(ctx context.Context, albumTags map[string]string) string
}

// TemplateManagerImpl implements the TemplateManager interface.
type TemplateManagerImpl struct {
	// trackFilenameTemplate is the configured template, nil when it doesn't parse.
	trackFilenameTemplate *template.Template
	// defaultTrackFilenameTemplate is the fallback template for track filenames.
	defaultTrackFilenameTemplate *template.Template
	// albumFolderTemplate names album folders.
	albumFolderTemplate *template.Template
}

const (
	defaultAlbumFolderTemplate = "{{.albumArtist}} - {{.albumTitle}}"

	// Missing keys render as empty strings instead of "<no value>".
	templateMissingKeyOption = "missingkey=zero"
)

// NewTemplateManager parses the configured track filename template.
// Parse errors are logged and the default template is used instead.
func NewTemplateManager(ctx context.Context, cfg *config.Config) TemplateManager {
	defaultTrackFilenameTemplate := template.Must(
		template.New("defaultTrackFilenameTemplate").
			Option(templateMissingKeyOption).
			Parse(config.DefaultTrackFilenameTemplate))

	albumFolderTemplate := template.Must(
		template.New("albumFolderTemplate").
			Option(templateMissingKeyOption).
			Parse(defaultAlbumFolderTemplate))

	trackFilenameTemplate, err := template.New("trackFilenameTemplate").
		Option(templateMissingKeyOption).
		Parse(cfg.TrackFilenameTemplate)
	if err != nil {
		logger.Errorf(ctx, "Failed to parse track filename template, using default: %v", err)

		trackFilenameTemplate = nil
	}

	return &TemplateManagerImpl{
		trackFilenameTemplate:        trackFilenameTemplate,
		defaultTrackFilenameTemplate: defaultTrackFilenameTemplate,
		albumFolderTemplate:          albumFolderTemplate,
	}
}

// GetTrackFilename returns a sanitized file name without extension.
// Falls back to the track id when the template renders nothing.
func (tm *TemplateManagerImpl) GetTrackFilename(ctx context.Context, trackTags map[string]string) string {
	name := tm.execute(ctx, tm.trackFilenameTemplate, tm.defaultTrackFilenameTemplate, trackTags)
	if name == "" {
		name = trackTags[tagTrackID]
	}

	return utils.SanitizeFilename(name)
}

// GetAlbumFolderName returns a sanitized folder name for album downloads.
func (tm *TemplateManagerImpl) GetAlbumFolderName(ctx context.Context, albumTags map[string]string) string {
	name := tm.execute(ctx, tm.albumFolderTemplate, tm.albumFolderTemplate, albumTags)
	if name == "" {
		name = albumTags[tagAlbumID]
	}

	return utils.SanitizeFilename(name)
}

func (tm *TemplateManagerImpl) execute(
	ctx context.Context,
	textBuilder, defaultTextBuilder *template.Template,
	tags map[string]string,
) string {
	var buffer bytes.Buffer

	if textBuilder != nil {
		err := textBuilder.Execute(&buffer, tags)
		if err == nil {
			return cleanRendered(buffer.String())
		}

		logger.Errorf(ctx, "Failed to execute template, using default: %v", err)
		buffer.Reset()
	}

	_ = defaultTextBuilder.Execute(&buffer, tags) //nolint:errcheck // Default template is always valid.

	return cleanRendered(buffer.String())
}

// cleanRendered trims separators left over by empty tags, e.g. " - Title".
func cleanRendered(name string) string {
	return strings.Trim(strings.TrimSpace(name), "- ")
}
