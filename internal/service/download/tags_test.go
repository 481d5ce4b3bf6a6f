package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/yamusic/internal/client/yandex"
)

func intPtr(v int) *int {
	return &v
}

func testAlbum() *yandex.Album {
	return &yandex.Album{
		ID:          "1193829",
		Title:       "Группа крови",
		Year:        intPtr(1988),
		ReleaseDate: "1988-01-04T00:00:00+03:00",
		Genre:       "rusrock",
		CoverURI:    "avatars.yandex.net/get-music-content/%%",
		TrackCount:  intPtr(11),
		Artists:     []*yandex.Artist{{ID: "3121", Name: "Кино"}},
	}
}

// TestBuildTrackTags tests tag extraction from a track and its album.
func TestBuildTrackTags(t *testing.T) {
	t.Parallel()

	album := testAlbum()
	track := &yandex.Track{
		ID:      "10994777",
		Title:   "Группа крови",
		Version: "Remastered",
		Artists: []*yandex.Artist{{ID: "3121", Name: "Кино"}, {ID: "1", Name: "Виктор Цой"}},
		Albums: []*yandex.TrackAlbum{{
			Album:         yandex.Album{ID: "1193829", Title: "Группа крови"},
			TrackPosition: &yandex.TrackPosition{Volume: 1, Index: 1},
		}},
	}

	tags := buildTrackTags(track, album)

	assert.Equal(t, map[string]string{
		tagTrackID:     "10994777",
		tagTrackTitle:  "Группа крови (Remastered)",
		tagTrackArtist: "Кино, Виктор Цой",
		tagTrackNumber: "1",
		tagTrackCount:  "11",
		tagTrackGenre:  "rusrock",
		tagAlbumID:     "1193829",
		tagAlbumTitle:  "Группа крови",
		tagAlbumArtist: "Кино",
		tagReleaseYear: "1988",
		tagReleaseDate: "1988-01-04T00:00:00+03:00",
	}, tags)
}

// TestBuildTrackTagsEmbeddedAlbum tests that the embedded album is used without a full one.
func TestBuildTrackTagsEmbeddedAlbum(t *testing.T) {
	t.Parallel()

	track := &yandex.Track{
		ID:    "1",
		Title: "Intro",
		Albums: []*yandex.TrackAlbum{{
			Album: yandex.Album{ID: "2", Title: "Demo", Year: intPtr(2001)},
		}},
	}

	tags := buildTrackTags(track, nil)
	assert.Equal(t, "Demo", tags[tagAlbumTitle])
	assert.Equal(t, "2001", tags[tagReleaseYear])
	assert.NotContains(t, tags, tagTrackNumber)

	bare := buildTrackTags(&yandex.Track{ID: "3", Title: "Single"}, nil)
	assert.Equal(t, map[string]string{tagTrackID: "3", tagTrackTitle: "Single", tagTrackArtist: ""}, bare)
}

// TestAlbumTracks tests that volumes are flattened and positions filled in.
func TestAlbumTracks(t *testing.T) {
	t.Parallel()

	album := testAlbum()
	withAlbum := &yandex.Track{ID: "10", Albums: []*yandex.TrackAlbum{{Album: yandex.Album{ID: "1193829"}}}}
	album.Volumes = [][]*yandex.Track{
		{withAlbum, {ID: "11"}},
		{nil, {ID: "20"}},
	}

	tracks := albumTracks(album)
	require.Len(t, tracks, 3)

	assert.Equal(t, yandex.ID("10"), tracks[0].ID)
	assert.Nil(t, tracks[0].Albums[0].TrackPosition)

	assert.Equal(t, "11:1193829", tracks[1].Key())
	assert.Equal(t, 2, tracks[1].Albums[0].TrackPosition.Index)

	assert.Equal(t, "20:1193829", tracks[2].Key())
	assert.Equal(t, 2, tracks[2].Albums[0].TrackPosition.Volume)
	assert.Equal(t, 2, tracks[2].Albums[0].TrackPosition.Index)

	// The album itself is left untouched.
	assert.Empty(t, album.Volumes[0][1].Albums)
}

// TestCoverURI tests the cover lookup order.
func TestCoverURI(t *testing.T) {
	t.Parallel()

	album := testAlbum()
	track := &yandex.Track{
		ID:     "1",
		Albums: []*yandex.TrackAlbum{{Album: yandex.Album{ID: "2", CoverURI: "embedded/%%"}}},
	}

	assert.Equal(t, album.CoverURI, coverURI(track, album))
	assert.Equal(t, "embedded/%%", coverURI(track, nil))

	track.CoverURI = "own/%%"
	assert.Equal(t, "own/%%", coverURI(track, album))

	assert.Empty(t, coverURI(&yandex.Track{ID: "3"}, nil))
}
