package download

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oshokin/yamusic/internal/config"
)

// TestGetTrackFilename tests filename generation with custom, broken and default templates.
func TestGetTrackFilename(t *testing.T) {
	t.Parallel()

	tags := map[string]string{
		tagTrackID:     "10994777",
		tagTrackArtist: "Кино",
		tagTrackTitle:  "Группа крови",
		tagTrackNumber: "1",
		tagAlbumTitle:  "Группа крови",
	}

	tests := []struct {
		name     string
		template string
		tags     map[string]string
		expected string
	}{
		{
			name:     "default",
			template: config.DefaultTrackFilenameTemplate,
			tags:     tags,
			expected: "Кино - Группа крови",
		},
		{
			name:     "custom",
			template: "{{.trackNumber}}. {{.trackTitle}} [{{.albumTitle}}]",
			tags:     tags,
			expected: "1. Группа крови [Группа крови]",
		},
		{
			name:     "broken template falls back to default",
			template: "{{.trackTitle",
			tags:     tags,
			expected: "Кино - Группа крови",
		},
		{
			name:     "missing artist",
			template: config.DefaultTrackFilenameTemplate,
			tags:     map[string]string{tagTrackID: "1", tagTrackTitle: "Intro"},
			expected: "Intro",
		},
		{
			name:     "nothing rendered",
			template: "{{.releaseYear}}",
			tags:     map[string]string{tagTrackID: "10994777"},
			expected: "10994777",
		},
		{
			name:     "unsafe characters",
			template: config.DefaultTrackFilenameTemplate,
			tags:     map[string]string{tagTrackArtist: "AC/DC", tagTrackTitle: "What?"},
			expected: "AC_DC - What_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			manager := NewTemplateManager(context.Background(), &config.Config{TrackFilenameTemplate: tt.template})
			assert.Equal(t, tt.expected, manager.GetTrackFilename(context.Background(), tt.tags))
		})
	}
}

// TestGetAlbumFolderName tests album folder naming.
func TestGetAlbumFolderName(t *testing.T) {
	t.Parallel()

	manager := NewTemplateManager(context.Background(), &config.Config{
		TrackFilenameTemplate: config.DefaultTrackFilenameTemplate,
	})

	assert.Equal(t, "Кино - Группа крови", manager.GetAlbumFolderName(context.Background(), map[string]string{
		tagAlbumID:     "1193829",
		tagAlbumArtist: "Кино",
		tagAlbumTitle:  "Группа крови",
	}))

	assert.Equal(t, "1193829", manager.GetAlbumFolderName(context.Background(), map[string]string{
		tagAlbumID: "1193829",
	}))
}
