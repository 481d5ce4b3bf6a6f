package yandex

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SearchType selects the kind of entities a search returns.
// It also names the response section holding the results.
type SearchType string

const (
	// SearchTracks searches for tracks.
	SearchTracks SearchType = "tracks"
	// SearchArtists searches for artists.
	SearchArtists SearchType = "artists"
	// SearchAlbums searches for albums.
	SearchAlbums SearchType = "albums"
	// SearchPlaylists searches for playlists.
	SearchPlaylists SearchType = "playlists"
	// SearchUsers searches for users.
	SearchUsers SearchType = "users"
)

// SearchItem is one search hit: *Track, *Artist, *Album, *Playlist or *User.
type SearchItem interface {
	SearchType() SearchType
}

// SearchResult is the hits of one search page together with their type.
type SearchResult struct {
	Type    SearchType
	Page    int
	Total   int
	PerPage int
	Items   []SearchItem
}

// SearchType implements SearchItem.
func (*Track) SearchType() SearchType { return SearchTracks }

// SearchType implements SearchItem.
func (*Artist) SearchType() SearchType { return SearchArtists }

// SearchType implements SearchItem.
func (*Album) SearchType() SearchType { return SearchAlbums }

// SearchType implements SearchItem.
func (*Playlist) SearchType() SearchType { return SearchPlaylists }

// SearchType implements SearchItem.
func (*User) SearchType() SearchType { return SearchUsers }

// Valid reports whether the search type is known.
func (t SearchType) Valid() bool {
	switch t {
	case SearchTracks, SearchArtists, SearchAlbums, SearchPlaylists, SearchUsers:
		return true
	default:
		return false
	}
}

// ParseSearchType converts user input like "track" or "Albums" into a SearchType.
func ParseSearchType(text string) (SearchType, error) {
	normalized := SearchType(strings.ToLower(strings.TrimSpace(text)))
	if normalized.Valid() {
		return normalized, nil
	}

	if plural := normalized + "s"; plural.Valid() {
		return plural, nil
	}

	return "", fmt.Errorf("%w: '%s'", ErrUnknownSearchType, text)
}

type searchSection struct {
	Total   int               `json:"total"`
	PerPage int               `json:"perPage"`
	Items   []json.RawMessage `json:"items"`
}

// decodeSearch decodes the section named after the search type.
// Unknown types and absent sections produce an empty result.
func decodeSearch(raw []byte, searchType SearchType, page int) (*SearchResult, error) {
	result := &SearchResult{
		Type:  searchType,
		Page:  page,
		Items: []SearchItem{},
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, &DecodeError{Err: err}
	}

	if !searchType.Valid() {
		return result, nil
	}

	rawSection, ok := sections[string(searchType)]
	if !ok || string(rawSection) == "null" {
		return result, nil
	}

	var section searchSection
	if err := json.Unmarshal(rawSection, &section); err != nil {
		return nil, &DecodeError{Path: string(searchType), Err: err}
	}

	result.Total = section.Total
	result.PerPage = section.PerPage

	for i, rawItem := range section.Items {
		item, err := decodeSearchItem(rawItem, searchType)
		if err != nil {
			return nil, &DecodeError{Path: fmt.Sprintf("%s.items.%d", searchType, i), Err: err}
		}

		result.Items = append(result.Items, item)
	}

	return result, nil
}

func decodeSearchItem(raw json.RawMessage, searchType SearchType) (SearchItem, error) {
	switch searchType {
	case SearchTracks:
		return decodeItem[Track](raw)
	case SearchArtists:
		return decodeItem[Artist](raw)
	case SearchAlbums:
		return decodeItem[Album](raw)
	case SearchPlaylists:
		return decodeItem[Playlist](raw)
	case SearchUsers:
		return decodeItem[User](raw)
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownSearchType, searchType)
	}
}

// decodeItem decodes one entity and returns it as a SearchItem.
func decodeItem[T any, PT interface {
	*T
	SearchItem
	validator
}](raw json.RawMessage) (SearchItem, error) {
	item := PT(new(T))
	if err := json.Unmarshal(raw, item); err != nil {
		return nil, err
	}

	if err := item.validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// itemsOf narrows search hits to one entity type.
func itemsOf[T SearchItem](result *SearchResult) []T {
	items := make([]T, 0, len(result.Items))

	for _, item := range result.Items {
		if typed, ok := item.(T); ok {
			items = append(items, typed)
		}
	}

	return items
}
