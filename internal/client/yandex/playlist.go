package yandex

import (
	"context"
	"strconv"
)

const (
	playlistActionAdd    = "add"
	playlistActionDelete = "delete"

	likeActionAdd    = "add"
	likeActionRemove = "remove"
)

// CreatePlaylist creates a playlist owned by the session owner.
func (c *ClientImpl) CreatePlaylist(ctx context.Context, title string) (*PlaylistChangeResult, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	return fetchJSON[PlaylistChangeResult](c, ctx, endpointChangePlaylist, c.sessionParams(auth, map[string]string{
		"action": playlistActionAdd,
		"title":  title,
		"kind":   "",
	}), auth)
}

// RemovePlaylist removes a playlist of the session owner and reports whether the service accepted it.
func (c *ClientImpl) RemovePlaylist(ctx context.Context, kind int64) (bool, error) {
	auth, err := c.session()
	if err != nil {
		return false, err
	}

	result, err := fetchJSON[PlaylistChangeResult](c, ctx, endpointChangePlaylist, c.sessionParams(auth, map[string]string{
		"action": playlistActionDelete,
		"title":  "",
		"kind":   strconv.FormatInt(kind, 10),
	}), auth)
	if err != nil {
		return false, err
	}

	return result.Success, nil
}

// SetLikedTrack likes or unlikes a track identified by its "trackId:albumId" key.
func (c *ClientImpl) SetLikedTrack(ctx context.Context, trackKey string, liked bool) (*LikeResult, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	act := likeActionRemove
	if liked {
		act = likeActionAdd
	}

	return fetchJSON[LikeResult](c, ctx, endpointLikeTrack, c.sessionParams(auth, map[string]string{
		"trackKey": trackKey,
		"act":      act,
	}), auth)
}
