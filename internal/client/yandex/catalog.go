package yandex

import (
	"context"
	"strconv"

	"github.com/oshokin/yamusic/internal/logger"
)

const (
	autoPlaylistOfDay  = "playlistOfTheDay"
	autoPlaylistDejaVu = "neverHeard"
)

// GetAlbum retrieves an album with its tracks.
// Uses an LRU cache to avoid redundant API calls for the same albums.
func (c *ClientImpl) GetAlbum(ctx context.Context, albumID string) (*Album, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	if cached, ok := c.albumsCache.Get(albumID); ok {
		logger.Debugf(ctx, "Album cache hit for ID: %s", albumID)

		return cached, nil
	}

	album, err := fetchJSON[Album](c, ctx, endpointAlbum, c.sessionParams(auth, map[string]string{
		"albumId": albumID,
	}), auth)
	if err != nil {
		return nil, err
	}

	c.albumsCache.Add(albumID, album)

	return album, nil
}

// GetTrack retrieves a track. The payload is nested under "track".
// Uses an LRU cache to avoid redundant API calls for the same tracks.
func (c *ClientImpl) GetTrack(ctx context.Context, trackID string) (*Track, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	if cached, ok := c.tracksCache.Get(trackID); ok {
		logger.Debugf(ctx, "Track cache hit for ID: %s", trackID)

		return cached, nil
	}

	track, err := fetchJSON[Track](c, ctx, endpointTrack, c.sessionParams(auth, map[string]string{
		"trackId": trackID,
	}), auth, "track")
	if err != nil {
		return nil, err
	}

	c.tracksCache.Add(trackID, track)

	return track, nil
}

// GetFavorites retrieves liked tracks of the user, the session owner if login is empty.
func (c *ClientImpl) GetFavorites(ctx context.Context, login string) ([]*Track, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	if login == "" {
		login = auth.Login()
	}

	return fetchList[*Track](c, ctx, endpointFavorites, c.sessionParams(auth, map[string]string{
		"owner": login,
	}), auth, "tracks")
}

// GetPlaylistOfDay retrieves the generated playlist of the day.
func (c *ClientImpl) GetPlaylistOfDay(ctx context.Context) (*Playlist, error) {
	return c.getAutoPlaylist(ctx, autoPlaylistOfDay)
}

// GetPlaylistDejaVu retrieves the generated playlist of tracks the user has never heard.
func (c *ClientImpl) GetPlaylistDejaVu(ctx context.Context) (*Playlist, error) {
	return c.getAutoPlaylist(ctx, autoPlaylistDejaVu)
}

func (c *ClientImpl) getAutoPlaylist(ctx context.Context, playlistType string) (*Playlist, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	return fetchJSON[Playlist](c, ctx, endpointAutoPlaylist, c.sessionParams(auth, map[string]string{
		"type": playlistType,
	}), auth, "playlist")
}

// GetLibrary retrieves the library of the user, the session owner if ownerUID is empty.
func (c *ClientImpl) GetLibrary(ctx context.Context, ownerUID string) (*Library, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	if ownerUID == "" {
		ownerUID = strconv.FormatInt(auth.UID(), 10)
	}

	return fetchJSON[Library](c, ctx, endpointLibrary, c.sessionParams(auth, map[string]string{
		"owner": ownerUID,
	}), auth)
}

// Search performs a search of one entity type. Pages start at zero.
func (c *ClientImpl) Search(
	ctx context.Context,
	text string,
	searchType SearchType,
	page int,
) (*SearchResult, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	body, err := c.execute(ctx, endpointSearch, c.sessionParams(auth, map[string]string{
		"text": text,
		"type": string(searchType),
		"page": strconv.Itoa(page),
	}), auth)
	if err != nil {
		return nil, err
	}

	return decodeSearch(body, searchType, page)
}

// SearchTrack searches for tracks.
func (c *ClientImpl) SearchTrack(ctx context.Context, text string, page int) ([]*Track, error) {
	return searchOf[*Track](c, ctx, text, SearchTracks, page)
}

// SearchArtist searches for artists.
func (c *ClientImpl) SearchArtist(ctx context.Context, text string, page int) ([]*Artist, error) {
	return searchOf[*Artist](c, ctx, text, SearchArtists, page)
}

// SearchAlbum searches for albums.
func (c *ClientImpl) SearchAlbum(ctx context.Context, text string, page int) ([]*Album, error) {
	return searchOf[*Album](c, ctx, text, SearchAlbums, page)
}

// SearchPlaylist searches for playlists.
func (c *ClientImpl) SearchPlaylist(ctx context.Context, text string, page int) ([]*Playlist, error) {
	return searchOf[*Playlist](c, ctx, text, SearchPlaylists, page)
}

// SearchUsers searches for users.
func (c *ClientImpl) SearchUsers(ctx context.Context, text string, page int) ([]*User, error) {
	return searchOf[*User](c, ctx, text, SearchUsers, page)
}

//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func searchOf[T SearchItem](
	c *ClientImpl,
	ctx context.Context,
	text string,
	searchType SearchType,
	page int,
) ([]T, error) {
	result, err := c.Search(ctx, text, searchType, page)
	if err != nil {
		return nil, err
	}

	return itemsOf[T](result), nil
}
