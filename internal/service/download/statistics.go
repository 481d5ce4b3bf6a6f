package download

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/yamusic/internal/logger"
)

const (
	summarySeparator = "═══════════════════════════════════════════════════════════════"
	retryCommand     = "yamusic download"
)

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

func (s *ServiceImpl) incrementTrackDownloaded(bytes int64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TracksDownloaded++
	s.stats.TotalTracksProcessed++
	s.stats.TotalBytesDownloaded += bytes
}

func (s *ServiceImpl) incrementTrackSkipped(reason SkipReason) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TracksSkipped++
	s.stats.TotalTracksProcessed++

	switch reason {
	case SkipReasonExists:
		s.stats.TracksSkippedExists++
	case SkipReasonUnavailable:
		s.stats.TracksSkippedUnavailable++
	}
}

func (s *ServiceImpl) incrementTagsWritten(withCover bool) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TagsWritten++

	if withCover {
		s.stats.CoversEmbedded++
	}
}

// recordFailure logs a failed item and keeps it for the summary.
// Cancellation is not a failure, the summary reports the interruption instead.
func (s *ServiceImpl) recordFailure(ctx context.Context, failure *DownloadError, err error) {
	if errors.Is(err, context.Canceled) {
		logger.Debugf(ctx, "Download of %s '%s' was canceled", failure.Category, failure.ItemID)

		return
	}

	logger.Errorf(ctx, "Failed %s of %s '%s': %v", failure.Phase, failure.Category, failure.displayName(), err)

	failure.ErrorMessage = err.Error()

	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	if failure.Category == DownloadCategoryTrack {
		s.stats.TracksFailed++
		s.stats.TotalTracksProcessed++
	}

	s.stats.Errors = append(s.stats.Errors, *failure)
}

func (e *DownloadError) displayName() string {
	if e.ItemTitle != "" {
		return e.ItemTitle
	}

	if e.ItemID != "" {
		return e.ItemID
	}

	return e.Link
}

// PrintDownloadSummary prints a formatted summary of download statistics.
func (s *ServiceImpl) PrintDownloadSummary(ctx context.Context) {
	stats := s.Statistics()

	if stats.TotalTracksProcessed == 0 && len(stats.Errors) == 0 {
		return
	}

	wasInterrupted := ctx.Err() != nil

	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)

	if wasInterrupted {
		logger.Info(ctx, "           DOWNLOAD SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                     DOWNLOAD SUMMARY")
	}

	logger.Info(ctx, summarySeparator)

	printTrackStatistics(ctx, &stats)
	printDataTransferStatistics(ctx, &stats)
	printTagStatistics(ctx, &stats)

	logger.Info(ctx, summarySeparator)

	printErrorDetails(ctx, stats.Errors)
	printFinalMessage(ctx, wasInterrupted, &stats)
}

func printTrackStatistics(ctx context.Context, stats *DownloadStatistics) {
	logger.Infof(ctx, "Tracks:           %d total processed", stats.TotalTracksProcessed)

	if stats.TracksDownloaded > 0 {
		logger.Infof(ctx, "  Downloaded:      %d", stats.TracksDownloaded)
	}

	if stats.TracksSkipped > 0 {
		logger.Infof(ctx, "  Skipped:         %d total", stats.TracksSkipped)

		if stats.TracksSkippedExists > 0 {
			logger.Infof(ctx, "    Already Exist: %d", stats.TracksSkippedExists)
		}

		if stats.TracksSkippedUnavailable > 0 {
			logger.Infof(ctx, "    Unavailable:   %d", stats.TracksSkippedUnavailable)
		}
	}

	if stats.TracksFailed > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.TracksFailed)
	}

	if stats.TotalTracksProcessed > 0 {
		successCount := stats.TracksDownloaded + stats.TracksSkipped
		successRate := float64(successCount) / float64(stats.TotalTracksProcessed) * 100
		logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
	}
}

func printDataTransferStatistics(ctx context.Context, stats *DownloadStatistics) {
	var bytesDownloaded uint64
	if stats.TotalBytesDownloaded > 0 {
		bytesDownloaded = uint64(stats.TotalBytesDownloaded)
	}

	if bytesDownloaded > 0 {
		logger.Info(ctx, "")
		logger.Infof(ctx, "Data Downloaded:  %s", humanize.Bytes(bytesDownloaded))
	}

	if stats.StartTime.IsZero() || stats.EndTime.IsZero() {
		return
	}

	// Only show if duration is meaningful.
	duration := stats.EndTime.Sub(stats.StartTime)
	if duration <= 100*time.Millisecond {
		return
	}

	logger.Infof(ctx, "Duration:         %s", formatDuration(duration))

	if bytesDownloaded > 0 {
		bytesPerSecond := float64(bytesDownloaded) / duration.Seconds()
		logger.Infof(ctx, "Average Speed:    %s/s", humanize.Bytes(uint64(bytesPerSecond)))
	}
}

func printTagStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.TagsWritten == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Infof(ctx, "Tagged Files:     %d", stats.TagsWritten)

	if stats.CoversEmbedded > 0 {
		logger.Infof(ctx, "  With Cover Art:  %d", stats.CoversEmbedded)
	}
}

func printErrorDetails(ctx context.Context, downloadErrors []DownloadError) {
	if len(downloadErrors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Errorf(ctx, "ERRORS ENCOUNTERED: %d", len(downloadErrors))

	for i := range downloadErrors {
		logger.Info(ctx, "")
		logger.Errorf(ctx, "  [%d] %s: %s", i+1, downloadErrors[i].Category, downloadErrors[i].displayName())

		if downloadErrors[i].ItemID != "" {
			logger.Errorf(ctx, "      ID: %s", downloadErrors[i].ItemID)
		}

		logger.Errorf(ctx, "      Phase: %s", downloadErrors[i].Phase)
		logger.Errorf(ctx, "      Error: %s", downloadErrors[i].ErrorMessage)
	}

	if command := buildRetryCommand(downloadErrors); command != "" {
		logger.Info(ctx, "")
		logger.Info(ctx, "To retry only failed downloads, run:")
		logger.Infof(ctx, "  %s", command)
	}
}

// buildRetryCommand lists the links of failed items, empty when none can be retried.
func buildRetryCommand(downloadErrors []DownloadError) string {
	var (
		seen  = make(map[string]struct{}, len(downloadErrors))
		links []string
	)

	for i := range downloadErrors {
		link := downloadErrors[i].Link
		if link == "" {
			continue
		}

		if _, ok := seen[link]; ok {
			continue
		}

		seen[link] = struct{}{}

		links = append(links, link)
	}

	if len(links) == 0 {
		return ""
	}

	return retryCommand + " " + strings.Join(links, " ")
}

func printFinalMessage(ctx context.Context, wasInterrupted bool, stats *DownloadStatistics) {
	logger.Info(ctx, "")

	switch {
	case wasInterrupted:
		logger.Info(ctx, "Download was interrupted. Run the same command again to resume.")
	case stats.TracksFailed > 0 || len(stats.Errors) > 0:
		logger.Warn(ctx, "Download completed with errors.")
	case stats.TracksDownloaded == 0 && stats.TracksSkipped > 0:
		logger.Info(ctx, "All tracks already exist - nothing to download.")
	default:
		logger.Info(ctx, "All downloads completed successfully!")
	}
}
