package download

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/oshokin/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/yamusic/internal/constants"
)

//nolint:gochecknoglobals // Shared read-only fixture.
var testTrackTags = map[string]string{
	tagTrackID:     "10994777",
	tagTrackTitle:  "Группа крови",
	tagTrackArtist: "Кино",
	tagTrackNumber: "1",
	tagTrackCount:  "11",
	tagTrackGenre:  "rusrock",
	tagAlbumID:     "1193829",
	tagAlbumTitle:  "Группа крови",
	tagAlbumArtist: "Кино",
	tagReleaseYear: "1988",
}

func testCover(t *testing.T) *CoverImage {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})

	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, img))

	return &CoverImage{Data: buffer.Bytes(), MIMEType: "image/png"}
}

// minimalFLAC is a stream marker, an empty STREAMINFO block and fake frames.
func minimalFLAC(frames []byte) []byte {
	data := []byte("fLaC")
	// Last metadata block, type STREAMINFO, 34 bytes long.
	data = append(data, 0x80, 0x00, 0x00, 0x22)
	data = append(data, make([]byte, 34)...)

	return append(data, frames...)
}

// TestWriteTagsMP3 tests ID3v2 tagging with an embedded cover.
func TestWriteTagsMP3(t *testing.T) {
	t.Parallel()

	audio := []byte("\xff\xfbfake mpeg frames")
	path := filepath.Join(t.TempDir(), "track.mp3")
	require.NoError(t, os.WriteFile(path, audio, constants.DefaultFilePermissions))

	err := NewTagProcessor().WriteTags(context.Background(), &WriteTagsRequest{
		TrackPath: path,
		Codec:     "MP3",
		TrackTags: testTrackTags,
		Cover:     testCover(t),
	})
	require.NoError(t, err)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)

	defer tag.Close()

	assert.Equal(t, "Группа крови", tag.Title())
	assert.Equal(t, "Кино", tag.Artist())
	assert.Equal(t, "Группа крови", tag.Album())
	assert.Equal(t, "1988", tag.Year())
	assert.Equal(t, "rusrock", tag.Genre())
	assert.Equal(t, "1/11", tag.GetTextFrame(tag.CommonID("Track number/Position in set")).Text)
	assert.Len(t, tag.GetFrames(tag.CommonID("Attached picture")), 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, audio), "audio must follow the tag")
}

// TestWriteTagsFLAC tests Vorbis comment tagging with an embedded cover.
func TestWriteTagsFLAC(t *testing.T) {
	t.Parallel()

	frames := []byte("fake flac frames")
	path := filepath.Join(t.TempDir(), "track.flac")
	require.NoError(t, os.WriteFile(path, minimalFLAC(frames), constants.DefaultFilePermissions))

	err := NewTagProcessor().WriteTags(context.Background(), &WriteTagsRequest{
		TrackPath: path,
		Codec:     "flac",
		TrackTags: testTrackTags,
		Cover:     testCover(t),
	})
	require.NoError(t, err)

	file, err := flac.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, frames, file.Frames)

	var (
		comment  *flacvorbis.MetaDataBlockVorbisComment
		pictures int
	)

	for _, meta := range file.Meta {
		switch meta.Type {
		case flac.VorbisComment:
			comment, err = flacvorbis.ParseFromMetaDataBlock(*meta)
			require.NoError(t, err)
		case flac.Picture:
			pictures++
		default:
		}
	}

	require.NotNil(t, comment)
	assert.Equal(t, 1, pictures)

	for key, expected := range map[string]string{
		"TITLE":       "Группа крови",
		"ARTIST":      "Кино",
		"ALBUMARTIST": "Кино",
		"TRACKNUMBER": "1",
		"TRACK_ID":    "10994777",
	} {
		values, getErr := comment.Get(key)
		require.NoError(t, getErr)
		assert.Equal(t, []string{expected}, values, key)
	}
}

// TestWriteTagsFailures tests invalid requests.
func TestWriteTagsFailures(t *testing.T) {
	t.Parallel()

	processor := NewTagProcessor()

	err := processor.WriteTags(context.Background(), &WriteTagsRequest{Codec: "mp3"})
	require.ErrorIs(t, err, ErrEmptyTrackPath)

	err = processor.WriteTags(context.Background(), &WriteTagsRequest{TrackPath: "track.m4a", Codec: "aac"})
	require.ErrorIs(t, err, ErrUnsupportedCodec)

	path := filepath.Join(t.TempDir(), "broken.flac")
	require.NoError(t, os.WriteFile(path, []byte("not a flac"), constants.DefaultFilePermissions))

	err = processor.WriteTags(context.Background(), &WriteTagsRequest{TrackPath: path, Codec: "flac"})
	require.Error(t, err)
}

// TestIsTaggable tests the IsTaggable function.
func TestIsTaggable(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTaggable("mp3"))
	assert.True(t, IsTaggable("FLAC"))
	assert.False(t, IsTaggable("aac"))
	assert.False(t, IsTaggable(""))
}
