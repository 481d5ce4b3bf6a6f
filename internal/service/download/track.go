package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/yamusic/internal/client/yandex"
	"github.com/oshokin/yamusic/internal/constants"
	"github.com/oshokin/yamusic/internal/logger"
	"github.com/oshokin/yamusic/internal/utils"
)

const (
	// coverSize is the requested size of embedded covers.
	coverSize = "400x400"
	// maxCoverSize caps the cover download, real covers are well below it.
	maxCoverSize = 10 << 20
)

// knownExtensions are checked when looking for an already downloaded track,
// since the codec is only known after the download link is resolved.
//
//nolint:gochecknoglobals // Immutable lookup table.
var knownExtensions = []string{constants.ExtensionMP3, constants.ExtensionAAC, constants.ExtensionFLAC}

// downloadTracks downloads tracks one by one with a random pause between network downloads.
func (s *ServiceImpl) downloadTracks(
	ctx context.Context,
	tracks []*yandex.Track,
	album *yandex.Album,
	folder string,
) {
	for i, track := range tracks {
		if ctx.Err() != nil {
			return
		}

		if track == nil {
			continue
		}

		if !s.downloadTrack(ctx, track, album, folder) || i == len(tracks)-1 {
			continue
		}

		if err := utils.RandomPause(ctx, 0, s.cfg.ParsedMaxDownloadPause); err != nil {
			return
		}
	}
}

// downloadTrack saves a single track and reports whether the network was used.
func (s *ServiceImpl) downloadTrack(
	ctx context.Context,
	track *yandex.Track,
	album *yandex.Album,
	folder string,
) bool {
	tags := buildTrackTags(track, album)
	title := track.ArtistNames() + " - " + track.FullTitle()

	if track.Available != nil && !*track.Available {
		logger.Warnf(ctx, "Track '%s' is unavailable, skipping", title)
		s.incrementTrackSkipped(SkipReasonUnavailable)

		return false
	}

	basePath := filepath.Join(folder, s.templateManager.GetTrackFilename(ctx, tags))

	if !s.cfg.ReplaceTracks {
		if existing := findExistingTrack(basePath); existing != "" {
			logger.Infof(ctx, "Track '%s' already exists, skipping download", existing)
			s.incrementTrackSkipped(SkipReasonExists)

			return false
		}
	}

	stream, err := s.source.ExtractTrackStream(ctx, track.Key())
	if err != nil {
		s.recordFailure(ctx, trackFailure(track, title, phaseResolvingLink), err)

		return true
	}

	defer stream.Body.Close()

	trackPath := utils.SetFileExtension(basePath, codecExtension(stream.Codec), false)
	logger.Infof(ctx, "Downloading '%s'", trackPath)

	written, err := yandex.WriteStreamToFile(
		s.throttle(ctx, stream),
		trackPath,
		s.progressWriters(stream.TotalBytes)...,
	)
	if err != nil {
		s.recordFailure(ctx, trackFailure(track, title, phaseDownloading), err)

		return true
	}

	s.incrementTrackDownloaded(written)
	s.writeTags(ctx, &WriteTagsRequest{
		TrackPath: trackPath,
		Codec:     stream.Codec,
		TrackTags: tags,
	}, coverURI(track, album))

	return true
}

func trackFailure(track *yandex.Track, title, phase string) *DownloadError {
	return &DownloadError{
		Category:  DownloadCategoryTrack,
		ItemID:    track.ID.String(),
		ItemTitle: title,
		Link:      track.Key(),
		Phase:     phase,
	}
}

func (s *ServiceImpl) throttle(ctx context.Context, stream *yandex.TrackStream) *yandex.TrackStream {
	if s.cfg.ParsedDownloadSpeedLimit <= 0 {
		return stream
	}

	throttled := *stream
	throttled.Body = throttledBody{
		Reader: newThrottledReader(ctx, stream.Body, s.cfg.ParsedDownloadSpeedLimit),
		Closer: stream.Body,
	}

	return &throttled
}

// progressWriters returns a progress bar unless the log level hides info messages.
func (s *ServiceImpl) progressWriters(totalBytes int64) []io.Writer {
	if logger.Level() > zapcore.InfoLevel {
		return nil
	}

	return []io.Writer{progressbar.DefaultBytes(totalBytes, "Downloading")}
}

func (s *ServiceImpl) writeTags(ctx context.Context, req *WriteTagsRequest, coverURI string) {
	if !s.cfg.TagFiles {
		return
	}

	if !IsTaggable(req.Codec) {
		logger.Debugf(ctx, "Codec '%s' is not tagged, skipping '%s'", req.Codec, req.TrackPath)

		return
	}

	if s.cfg.EmbedCover {
		req.Cover = s.fetchCover(ctx, coverURI)
	}

	if err := s.tagProcessor.WriteTags(ctx, req); err != nil {
		logger.Errorf(ctx, "Failed to write tags to '%s': %v", req.TrackPath, err)

		return
	}

	s.incrementTagsWritten(req.Cover != nil)
}

// fetchCover downloads a cover, nil when there's none or it can't be fetched.
func (s *ServiceImpl) fetchCover(ctx context.Context, uri string) *CoverImage {
	url := yandex.CoverURL(uri, coverSize)
	if url == "" {
		return nil
	}

	if cached, ok := s.coversCache.Get(url); ok {
		return cached
	}

	cover, err := s.downloadCover(ctx, url)
	if err != nil {
		logger.Warnf(ctx, "Failed to download cover '%s': %v", url, err)

		return nil
	}

	s.coversCache.Add(url, cover)

	return cover
}

func (s *ServiceImpl) downloadCover(ctx context.Context, url string) (*CoverImage, error) {
	body, err := s.source.DownloadFromURL(ctx, url)
	if err != nil {
		return nil, err
	}

	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxCoverSize))
	if err != nil {
		return nil, err
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, mimeType)
	}

	return &CoverImage{Data: data, MIMEType: mimeType}, nil
}

func coverURI(track *yandex.Track, album *yandex.Album) string {
	switch {
	case track.CoverURI != "":
		return track.CoverURI
	case album != nil && album.CoverURI != "":
		return album.CoverURI
	case len(track.Albums) > 0 && track.Albums[0] != nil:
		return track.Albums[0].CoverURI
	default:
		return ""
	}
}

func codecExtension(codec string) string {
	switch strings.ToLower(codec) {
	case codecMP3, "":
		return constants.ExtensionMP3
	case codecFLAC:
		return constants.ExtensionFLAC
	case "aac", "he-aac":
		return constants.ExtensionAAC
	default:
		return "." + strings.ToLower(codec)
	}
}

// findExistingTrack returns the path of an already downloaded track or an empty string.
func findExistingTrack(basePath string) string {
	for _, extension := range knownExtensions {
		path := basePath + extension
		if exists, err := utils.IsFileExist(path); err == nil && exists {
			return path
		}
	}

	return ""
}
