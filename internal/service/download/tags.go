package download

import (
	"strconv"
	"strings"

	"github.com/oshokin/yamusic/internal/client/yandex"
)

// Track tag keys. They are also the names available to filename templates.
const (
	tagTrackID     = "trackID"
	tagTrackTitle  = "trackTitle"
	tagTrackArtist = "trackArtist"
	tagTrackNumber = "trackNumber"
	tagTrackCount  = "trackCount"
	tagTrackGenre  = "trackGenre"
	tagAlbumID     = "albumID"
	tagAlbumTitle  = "albumTitle"
	tagAlbumArtist = "albumArtist"
	tagReleaseYear = "releaseYear"
	tagReleaseDate = "releaseDate"
)

// buildTrackTags collects the metadata of a track.
// The album is optional, the first album embedded into the track is used when it's nil.
func buildTrackTags(track *yandex.Track, album *yandex.Album) map[string]string {
	tags := map[string]string{
		tagTrackID:     track.ID.String(),
		tagTrackTitle:  track.FullTitle(),
		tagTrackArtist: track.ArtistNames(),
	}

	var position *yandex.TrackPosition

	if len(track.Albums) > 0 && track.Albums[0] != nil {
		position = track.Albums[0].TrackPosition

		if album == nil {
			album = &track.Albums[0].Album
		}
	}

	if album == nil {
		return tags
	}

	tags[tagAlbumID] = album.ID.String()
	tags[tagAlbumTitle] = albumFullTitle(album)
	tags[tagAlbumArtist] = artistNames(album.Artists)
	tags[tagTrackGenre] = album.Genre

	if album.Year != nil {
		tags[tagReleaseYear] = strconv.Itoa(*album.Year)
	}

	if album.ReleaseDate != "" {
		tags[tagReleaseDate] = album.ReleaseDate
	}

	if album.TrackCount != nil {
		tags[tagTrackCount] = strconv.Itoa(*album.TrackCount)
	}

	if position != nil && position.Index > 0 {
		tags[tagTrackNumber] = strconv.Itoa(position.Index)
	}

	return tags
}

// albumTracks flattens the volumes of an album, filling in the missing album references.
// Tracks are copied, the album may be shared with the client cache.
func albumTracks(album *yandex.Album) []*yandex.Track {
	var tracks []*yandex.Track

	for volumeIndex, volume := range album.Volumes {
		for trackIndex, track := range volume {
			if track == nil {
				continue
			}

			trackCopy := *track

			if len(trackCopy.Albums) == 0 {
				trackCopy.Albums = []*yandex.TrackAlbum{{
					Album: yandex.Album{ID: album.ID, Title: album.Title},
					TrackPosition: &yandex.TrackPosition{
						Volume: volumeIndex + 1,
						Index:  trackIndex + 1,
					},
				}}
			}

			tracks = append(tracks, &trackCopy)
		}
	}

	return tracks
}

func albumFullTitle(album *yandex.Album) string {
	if album.Version == "" {
		return album.Title
	}

	return album.Title + " (" + album.Version + ")"
}

func artistNames(artists []*yandex.Artist) string {
	names := make([]string, 0, len(artists))

	for _, artist := range artists {
		if artist != nil && artist.Name != "" {
			names = append(names, artist.Name)
		}
	}

	return strings.Join(names, ", ")
}
