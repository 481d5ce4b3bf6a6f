package download

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/oshokin/yamusic/internal/logger"
	"github.com/oshokin/yamusic/internal/utils"
)

// URLProcessor turns user supplied links into download items.
type URLProcessor interface {
	// ExtractDownloadItems parses links, expanding text files with one link per line.
	// Unknown links are logged and skipped, duplicates are dropped.
	ExtractDownloadItems(ctx context.Context, links []string) ([]*DownloadItem, error)
}

// URLProcessorImpl implements the URLProcessor interface.
type URLProcessorImpl struct{}

const (
	defaultTextExtension = ".txt"

	groupTrack = "track"
	groupAlbum = "album"

	aliasFavorites     = "favorites"
	aliasPlaylistOfDay = "playlist-of-day"
	aliasDejaVu        = "deja-vu"
)

// linkPatterns maps link patterns to download categories. The first match wins.
//
//nolint:gochecknoglobals // Immutable compiled patterns.
var linkPatterns = []struct {
	Pattern  *regexp.Regexp
	Category DownloadCategory
}{
	{regexp.MustCompile(`/album/(?P<album>\d+)/track/(?P<track>\d+)/?(?:[?#].*)?$`), DownloadCategoryTrack},
	{regexp.MustCompile(`/track/(?P<track>\d+)/?(?:[?#].*)?$`), DownloadCategoryTrack},
	{regexp.MustCompile(`/album/(?P<album>\d+)/?(?:[?#].*)?$`), DownloadCategoryAlbum},
	{regexp.MustCompile(`^(?P<track>\d+)(?::(?P<album>\d+))?$`), DownloadCategoryTrack},
}

//nolint:gochecknoglobals // Immutable lookup table.
var aliases = map[string]DownloadCategory{
	aliasFavorites:     DownloadCategoryFavorites,
	aliasPlaylistOfDay: DownloadCategoryPlaylistOfDay,
	aliasDejaVu:        DownloadCategoryDejaVu,
}

// NewURLProcessor creates and returns a new instance of URLProcessorImpl.
func NewURLProcessor() URLProcessor {
	return new(URLProcessorImpl)
}

// ExtractDownloadItems parses links, expanding text files with one link per line.
func (up *URLProcessorImpl) ExtractDownloadItems(ctx context.Context, links []string) ([]*DownloadItem, error) {
	links, err := up.flattenLinks(links)
	if err != nil {
		return nil, err
	}

	var (
		items = make([]*DownloadItem, 0, len(links))
		seen  = make(map[DownloadItem]struct{}, len(links))
	)

	for _, link := range links {
		item := ParseLink(link)
		if item.Category == DownloadCategoryUnknown {
			logger.Warnf(ctx, "Unknown link: %s", link)

			continue
		}

		key := DownloadItem{Category: item.Category, TrackID: item.TrackID, AlbumID: item.AlbumID}
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}

		items = append(items, item)
	}

	return items, nil
}

// ParseLink recognizes album and track URLs, "trackId[:albumId]" keys and the
// favorites, playlist-of-day and deja-vu aliases.
func ParseLink(link string) *DownloadItem {
	link = strings.TrimSpace(link)

	if category, ok := aliases[strings.ToLower(link)]; ok {
		return &DownloadItem{Category: category, Link: link}
	}

	for _, p := range linkPatterns {
		if !p.Pattern.MatchString(link) {
			continue
		}

		return &DownloadItem{
			Category: p.Category,
			Link:     link,
			TrackID:  utils.ExtractNamedGroup(p.Pattern, groupTrack, link),
			AlbumID:  utils.ExtractNamedGroup(p.Pattern, groupAlbum, link),
		}
	}

	return &DownloadItem{Category: DownloadCategoryUnknown, Link: link}
}

func (up *URLProcessorImpl) flattenLinks(links []string) ([]string, error) {
	result := make([]string, 0, len(links))

	for _, link := range links {
		if !strings.EqualFold(filepath.Ext(link), defaultTextExtension) {
			result = append(result, link)

			continue
		}

		lines, err := utils.ReadUniqueLinesFromFile(link)
		if err != nil {
			return nil, err
		}

		result = append(result, lines...)
	}

	return result, nil
}
