package download

//go:generate $MOCKGEN -source=tag_processor.go -destination=mocks/tag_processor_mock.go

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/oshokin/id3v2/v2"

	"github.com/oshokin/yamusic/internal/logger"
)

// TagProcessor defines the interface for writing metadata tags to audio files.
type TagProcessor interface {
	WriteTags(ctx context.Context, req *WriteTagsRequest) error
}

// WriteTagsRequest contains parameters for writing metadata to audio files.
type WriteTagsRequest struct {
	// TrackPath is the file path of the audio track.
	TrackPath string
	// Codec is the codec reported by the download metadata, e.g. "mp3" or "flac".
	Codec string
	// TrackTags contains metadata key-value pairs to write.
	TrackTags map[string]string
	// Cover is the front cover to embed, nil to skip embedding.
	Cover *CoverImage
}

// CoverImage is a downloaded album cover.
type CoverImage struct {
	// Data contains the raw image bytes.
	Data []byte
	// MIMEType specifies the image format (e.g., "image/jpeg").
	MIMEType string
}

// TagProcessorImpl provides the default implementation of TagProcessor.
type TagProcessorImpl struct{}

const (
	codecMP3  = "mp3"
	codecFLAC = "flac"
)

// NewTagProcessor creates a new TagProcessor instance.
func NewTagProcessor() TagProcessor {
	return new(TagProcessorImpl)
}

// IsTaggable reports whether tags can be written for the codec.
func IsTaggable(codec string) bool {
	switch strings.ToLower(codec) {
	case codecMP3, codecFLAC:
		return true
	default:
		return false
	}
}

// WriteTags writes ID3v2 tags to MP3 files and Vorbis comments to FLAC files.
func (tp *TagProcessorImpl) WriteTags(ctx context.Context, req *WriteTagsRequest) error {
	if req.TrackPath == "" {
		return ErrEmptyTrackPath
	}

	switch strings.ToLower(req.Codec) {
	case codecMP3:
		return tp.writeMP3Tags(req)
	case codecFLAC:
		return tp.writeFLACTags(ctx, req)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCodec, req.Codec)
	}
}

func (tp *TagProcessorImpl) writeFLACTags(ctx context.Context, req *WriteTagsRequest) error {
	f, err := flac.ParseFile(filepath.Clean(req.TrackPath))
	if err != nil {
		return fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	// Reuse the existing comment block so other tags survive.
	var (
		tag   *flacvorbis.MetaDataBlockVorbisComment
		index = -1
	)

	for idx, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}

		if comment, parseErr := flacvorbis.ParseFromMetaDataBlock(*meta); parseErr == nil {
			tag, index = comment, idx

			break
		}
	}

	if tag == nil {
		tag = flacvorbis.New()
	}

	if err = tp.addFLACTags(tag, req.TrackTags); err != nil {
		return err
	}

	tagMeta := tag.Marshal()
	if index >= 0 {
		f.Meta[index] = &tagMeta
	} else {
		f.Meta = append(f.Meta, &tagMeta)
	}

	if req.Cover != nil {
		picture, pictureErr := flacpicture.NewFromImageData(
			flacpicture.PictureTypeFrontCover,
			"",
			req.Cover.Data,
			req.Cover.MIMEType,
		)
		if pictureErr != nil {
			logger.Errorf(ctx, "Failed to embed image to FLAC: %v", pictureErr)
		} else {
			pictureMeta := picture.Marshal()
			f.Meta = append(f.Meta, &pictureMeta)
		}
	}

	return f.Save(req.TrackPath)
}

func (tp *TagProcessorImpl) addFLACTags(tag *flacvorbis.MetaDataBlockVorbisComment, tags map[string]string) error {
	flacTags := map[string]string{
		"ALBUM":       tags[tagAlbumTitle],
		"ALBUMARTIST": tags[tagAlbumArtist],
		"ARTIST":      tags[tagTrackArtist],
		"DATE":        tags[tagReleaseDate],
		"GENRE":       tags[tagTrackGenre],
		"RELEASE_ID":  tags[tagAlbumID],
		"TITLE":       tags[tagTrackTitle],
		"TOTALTRACKS": tags[tagTrackCount],
		"TRACK_ID":    tags[tagTrackID],
		"TRACKNUMBER": tags[tagTrackNumber],
		"YEAR":        tags[tagReleaseYear],
	}

	for k, v := range flacTags {
		if v == "" {
			continue
		}

		if err := tag.Add(k, v); err != nil {
			return fmt.Errorf("failed to add FLAC tag %s: %w", k, err)
		}
	}

	return nil
}

func (tp *TagProcessorImpl) writeMP3Tags(req *WriteTagsRequest) error {
	//nolint:exhaustruct // ParseFrames intentionally omitted when Parse=false (parsing disabled).
	tag, err := id3v2.Open(req.TrackPath, id3v2.Options{Parse: false})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file: %w", err)
	}

	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetAlbum(req.TrackTags[tagAlbumTitle])
	tag.SetArtist(req.TrackTags[tagTrackArtist])
	tag.SetGenre(req.TrackTags[tagTrackGenre])
	tag.SetTitle(req.TrackTags[tagTrackTitle])
	tag.SetYear(req.TrackTags[tagReleaseYear])

	if trackNumber := req.TrackTags[tagTrackNumber]; trackNumber != "" {
		if trackCount := req.TrackTags[tagTrackCount]; trackCount != "" {
			trackNumber += "/" + trackCount
		}

		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), tag.DefaultEncoding(), trackNumber)
	}

	if albumArtist := req.TrackTags[tagAlbumArtist]; albumArtist != "" {
		tag.AddTextFrame(tag.CommonID("Band/Orchestra/Accompaniment"), tag.DefaultEncoding(), albumArtist)
	}

	if req.Cover != nil {
		//nolint:exhaustruct // Description field intentionally empty for cover images.
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    req.Cover.MIMEType,
			PictureType: id3v2.PTFrontCover,
			Picture:     req.Cover.Data,
		})
	}

	return tag.Save()
}
