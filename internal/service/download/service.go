package download

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oshokin/yamusic/internal/client/yandex"
	"github.com/oshokin/yamusic/internal/config"
	"github.com/oshokin/yamusic/internal/constants"
	"github.com/oshokin/yamusic/internal/logger"
)

// Service downloads tracks and keeps statistics of the session.
type Service interface {
	// DownloadLinks resolves links and downloads every track they point to.
	DownloadLinks(ctx context.Context, links []string)
	// DownloadTracks downloads already resolved tracks into the output folder.
	DownloadTracks(ctx context.Context, tracks []*yandex.Track)
	// Statistics returns a snapshot of the session statistics.
	Statistics() DownloadStatistics
	// PrintDownloadSummary prints a formatted summary of download statistics.
	PrintDownloadSummary(ctx context.Context)
}

// TrackSource is the part of the Yandex Music client used for downloads.
type TrackSource interface {
	// GetTrack retrieves a track.
	GetTrack(ctx context.Context, trackID string) (*yandex.Track, error)
	// GetAlbum retrieves an album with its volumes.
	GetAlbum(ctx context.Context, albumID string) (*yandex.Album, error)
	// GetFavorites retrieves liked tracks of the user, the session owner if login is empty.
	GetFavorites(ctx context.Context, login string) ([]*yandex.Track, error)
	// GetPlaylistOfDay retrieves the generated playlist of the day.
	GetPlaylistOfDay(ctx context.Context) (*yandex.Playlist, error)
	// GetPlaylistDejaVu retrieves the generated playlist of never heard tracks.
	GetPlaylistDejaVu(ctx context.Context) (*yandex.Playlist, error)
	// ExtractTrackStream opens the audio stream of a track.
	ExtractTrackStream(ctx context.Context, trackKey string) (*yandex.TrackStream, error)
	// DownloadFromURL downloads arbitrary content such as cover art.
	DownloadFromURL(ctx context.Context, url string) (io.ReadCloser, error)
}

// ServiceImpl implements the download service.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// source fetches metadata and audio.
	source TrackSource
	// urlProcessor parses links.
	urlProcessor URLProcessor
	// templateManager generates filenames and folder names.
	templateManager TemplateManager
	// tagProcessor writes metadata tags to audio files.
	tagProcessor TagProcessor
	// coversCache keeps downloaded covers by URL, albums share one cover.
	coversCache *lru.Cache[string, *CoverImage]
	// stats tracks download statistics for the current session.
	stats *DownloadStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
}

const (
	defaultCoversCacheSize = 32

	phaseFetchingMetadata = "fetching metadata"
	phaseResolvingLink    = "resolving download link"
	phaseDownloading      = "downloading track"
)

// NewService creates a download service instance with dependency-injected components.
func NewService(
	cfg *config.Config,
	source TrackSource,
	urlProcessor URLProcessor,
	templateManager TemplateManager,
	tagProcessor TagProcessor,
) Service {
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCoversCacheSize
	}

	// Size is positive, so New never fails.
	coversCache, _ := lru.New[string, *CoverImage](cacheSize) //nolint:errcheck // Size is validated above.

	return &ServiceImpl{
		cfg:             cfg,
		source:          source,
		urlProcessor:    urlProcessor,
		templateManager: templateManager,
		tagProcessor:    tagProcessor,
		coversCache:     coversCache,
		stats:           new(DownloadStatistics),
		statsMutex:      new(sync.Mutex),
	}
}

// DownloadLinks resolves links and downloads every track they point to.
func (s *ServiceImpl) DownloadLinks(ctx context.Context, links []string) {
	s.markStart()
	defer s.markEnd()

	items, err := s.urlProcessor.ExtractDownloadItems(ctx, links)
	if err != nil {
		logger.Errorf(ctx, "Failed to extract items to download: %v", err)

		return
	}

	if err = os.MkdirAll(s.cfg.OutputPath, constants.DefaultFolderPermissions); err != nil {
		logger.Errorf(ctx, "Failed to create output path: %v", err)

		return
	}

	logger.Info(ctx, "Starting download process")

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}

		s.downloadItem(ctx, item)
	}

	logger.Info(ctx, "Download process completed")
}

// DownloadTracks downloads already resolved tracks into the output folder.
func (s *ServiceImpl) DownloadTracks(ctx context.Context, tracks []*yandex.Track) {
	s.markStart()
	defer s.markEnd()

	if err := os.MkdirAll(s.cfg.OutputPath, constants.DefaultFolderPermissions); err != nil {
		logger.Errorf(ctx, "Failed to create output path: %v", err)

		return
	}

	s.downloadTracks(ctx, tracks, nil, s.cfg.OutputPath)
}

// Statistics returns a snapshot of the session statistics.
func (s *ServiceImpl) Statistics() DownloadStatistics {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	snapshot := *s.stats
	snapshot.Errors = append([]DownloadError(nil), s.stats.Errors...)

	return snapshot
}

func (s *ServiceImpl) downloadItem(ctx context.Context, item *DownloadItem) {
	switch item.Category {
	case DownloadCategoryTrack:
		track, err := s.source.GetTrack(ctx, item.TrackID)
		if err != nil {
			s.recordFailure(ctx, &DownloadError{
				Category: item.Category,
				ItemID:   item.TrackID,
				Link:     item.Link,
				Phase:    phaseFetchingMetadata,
			}, err)

			return
		}

		s.downloadTracks(ctx, []*yandex.Track{track}, nil, s.cfg.OutputPath)
	case DownloadCategoryAlbum:
		album, err := s.source.GetAlbum(ctx, item.AlbumID)
		if err != nil {
			s.recordFailure(ctx, &DownloadError{
				Category: item.Category,
				ItemID:   item.AlbumID,
				Link:     item.Link,
				Phase:    phaseFetchingMetadata,
			}, err)

			return
		}

		folder := s.templateManager.GetAlbumFolderName(ctx, map[string]string{
			tagAlbumID:     album.ID.String(),
			tagAlbumTitle:  albumFullTitle(album),
			tagAlbumArtist: artistNames(album.Artists),
		})

		logger.Infof(ctx, "Downloading album '%s'", folder)

		s.downloadTracks(ctx, albumTracks(album), album, s.albumFolder(folder))
	case DownloadCategoryFavorites:
		tracks, err := s.source.GetFavorites(ctx, "")
		if err != nil {
			s.recordFailure(ctx, &DownloadError{Category: item.Category, Link: item.Link, Phase: phaseFetchingMetadata}, err)

			return
		}

		s.downloadTracks(ctx, tracks, nil, s.cfg.OutputPath)
	case DownloadCategoryPlaylistOfDay, DownloadCategoryDejaVu:
		s.downloadGeneratedPlaylist(ctx, item)
	case DownloadCategoryUnknown:
		logger.Warnf(ctx, "Unknown link: %s", item.Link)
	}
}

func (s *ServiceImpl) downloadGeneratedPlaylist(ctx context.Context, item *DownloadItem) {
	fetch := s.source.GetPlaylistOfDay
	if item.Category == DownloadCategoryDejaVu {
		fetch = s.source.GetPlaylistDejaVu
	}

	playlist, err := fetch(ctx)
	if err != nil {
		s.recordFailure(ctx, &DownloadError{Category: item.Category, Link: item.Link, Phase: phaseFetchingMetadata}, err)

		return
	}

	tracks := playlist.Tracks

	// Short playlist answers list only the ids.
	if len(tracks) == 0 {
		for _, id := range playlist.TrackIDs {
			trackID, _, _ := strings.Cut(id.String(), ":")

			track, trackErr := s.source.GetTrack(ctx, trackID)
			if trackErr != nil {
				s.recordFailure(ctx, &DownloadError{
					Category: DownloadCategoryTrack,
					ItemID:   trackID,
					Link:     id.String(),
					Phase:    phaseFetchingMetadata,
				}, trackErr)

				continue
			}

			tracks = append(tracks, track)
		}
	}

	logger.Infof(ctx, "Downloading %s '%s': %d tracks", item.Category, playlist.Title, len(tracks))

	s.downloadTracks(ctx, tracks, nil, s.cfg.OutputPath)
}

func (s *ServiceImpl) albumFolder(name string) string {
	if name == "" {
		return s.cfg.OutputPath
	}

	return filepath.Join(s.cfg.OutputPath, name)
}

func (s *ServiceImpl) markStart() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	if s.stats.StartTime.IsZero() {
		s.stats.StartTime = time.Now()
	}
}

func (s *ServiceImpl) markEnd() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.EndTime = time.Now()
}
