package download

import "time"

// DownloadCategory is the kind of item a link points to.
type DownloadCategory uint8

// Supported download categories.
const (
	// DownloadCategoryUnknown is a link that can't be resolved.
	DownloadCategoryUnknown DownloadCategory = iota
	// DownloadCategoryTrack is a single track.
	DownloadCategoryTrack
	// DownloadCategoryAlbum is every track of an album.
	DownloadCategoryAlbum
	// DownloadCategoryFavorites is the liked tracks of the session owner.
	DownloadCategoryFavorites
	// DownloadCategoryPlaylistOfDay is the generated playlist of the day.
	DownloadCategoryPlaylistOfDay
	// DownloadCategoryDejaVu is the generated playlist of never heard tracks.
	DownloadCategoryDejaVu
)

// String returns the category name used in logs and the summary.
func (c DownloadCategory) String() string {
	switch c {
	case DownloadCategoryTrack:
		return "track"
	case DownloadCategoryAlbum:
		return "album"
	case DownloadCategoryFavorites:
		return "favorites"
	case DownloadCategoryPlaylistOfDay:
		return "playlist of the day"
	case DownloadCategoryDejaVu:
		return "deja vu"
	default:
		return "unknown"
	}
}

// DownloadItem is a parsed link.
type DownloadItem struct {
	// Category is the kind of item.
	Category DownloadCategory
	// Link is the original link.
	Link string
	// TrackID is set for tracks.
	TrackID string
	// AlbumID is set for albums and for tracks linked through their album.
	AlbumID string
}

// SkipReason explains why a track was not downloaded.
type SkipReason uint8

const (
	// SkipReasonExists means the file is already on disk.
	SkipReasonExists SkipReason = iota
	// SkipReasonUnavailable means the service doesn't offer the track.
	SkipReasonUnavailable
)

// DownloadStatistics tracks the outcome of a download session.
type DownloadStatistics struct {
	// StartTime is when the download session began.
	StartTime time.Time
	// EndTime is when the download session completed.
	EndTime time.Time
	// TotalTracksProcessed is the total number of tracks attempted.
	TotalTracksProcessed int64
	// TracksDownloaded is the number of tracks successfully downloaded.
	TracksDownloaded int64
	// TracksSkipped is the total number of tracks skipped for any reason.
	TracksSkipped int64
	// TracksSkippedExists is the number of tracks skipped because they already exist.
	TracksSkippedExists int64
	// TracksSkippedUnavailable is the number of tracks the service doesn't offer.
	TracksSkippedUnavailable int64
	// TracksFailed is the number of tracks that failed to download.
	TracksFailed int64
	// TotalBytesDownloaded is the total size of downloaded content in bytes.
	TotalBytesDownloaded int64
	// TagsWritten is the number of files tagged.
	TagsWritten int64
	// CoversEmbedded is the number of files with embedded cover art.
	CoversEmbedded int64
	// Errors is a list of all errors encountered during the download process.
	Errors []DownloadError
}

// DownloadError represents a single error that occurred during download.
type DownloadError struct {
	// Category is the type of item that failed.
	Category DownloadCategory
	// ItemID is the identifier of the item that failed.
	ItemID string
	// ItemTitle is the human-readable title of the item.
	ItemTitle string
	// Link retries the item with the download command.
	Link string
	// Phase indicates when the error occurred (e.g., "fetching metadata", "downloading track").
	Phase string
	// ErrorMessage is the text of the error.
	ErrorMessage string
}
