package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/oshokin/yamusic/internal/client/yandex"
	"github.com/oshokin/yamusic/internal/config"
	"github.com/oshokin/yamusic/internal/logger"
)

// ExecuteSearchCommand searches for entities of one type and prints one line per hit.
func ExecuteSearchCommand(
	ctx context.Context,
	cfg *config.Config,
	query string,
	searchType yandex.SearchType,
	page int,
) {
	client := mustAuthorize(ctx, cfg)

	result, err := client.Search(ctx, query, searchType, page)
	if err != nil {
		logger.Fatalf(ctx, "Search failed: %v", err)
	}

	if len(result.Items) == 0 {
		logger.Infof(ctx, "Nothing found for '%s' among %s", query, searchType)

		return
	}

	logger.Infof(ctx, "Found %d %s, page %d:", result.Total, result.Type, result.Page+1)

	for i, item := range result.Items {
		logger.Infof(ctx, "%3d. %s", result.Page*result.PerPage+i+1, describeSearchItem(item))
	}
}

// describeSearchItem renders a search hit together with the id other commands accept.
func describeSearchItem(item yandex.SearchItem) string {
	switch v := item.(type) {
	case *yandex.Track:
		return fmt.Sprintf("%s - %s [%s]", v.ArtistNames(), v.FullTitle(), v.Key())
	case *yandex.Artist:
		return fmt.Sprintf("%s [%s]", v.Name, v.ID)
	case *yandex.Album:
		return describeAlbum(v)
	case *yandex.Playlist:
		owner := ""
		if v.Owner != nil && v.Owner.Login != "" {
			owner = " by " + v.Owner.Login
		}

		return fmt.Sprintf("%s%s [%s]", v.Title, owner, v.Kind)
	case *yandex.User:
		return describeUser(v)
	default:
		return fmt.Sprintf("%v", item)
	}
}

func describeAlbum(album *yandex.Album) string {
	names := make([]string, 0, len(album.Artists))

	for _, artist := range album.Artists {
		if artist != nil && artist.Name != "" {
			names = append(names, artist.Name)
		}
	}

	var builder strings.Builder

	if len(names) > 0 {
		builder.WriteString(strings.Join(names, ", "))
		builder.WriteString(" - ")
	}

	builder.WriteString(album.Title)

	if album.Version != "" {
		builder.WriteString(" (" + album.Version + ")")
	}

	if album.Year != nil {
		builder.WriteString(", " + strconv.Itoa(*album.Year))
	}

	builder.WriteString(" [" + album.ID.String() + "]")

	return builder.String()
}
