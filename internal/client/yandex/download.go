package yandex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oshokin/yamusic/internal/constants"
	"github.com/oshokin/yamusic/internal/logger"
)

const endpointTransfer = "download.transfer"

// TrackStream is an open audio stream. The caller must close Body.
type TrackStream struct {
	Body io.ReadCloser
	// TotalBytes is the announced content length, -1 when unknown.
	TotalBytes int64
	Codec      string
	Link       string
}

// GetDownloadMetadata retrieves the storage reference of a track.
func (c *ClientImpl) GetDownloadMetadata(
	ctx context.Context,
	trackKey string,
	t int64,
) (*TrackDownloadMetadata, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	params := c.sessionParams(auth, map[string]string{"trackKey": trackKey})
	params[paramTime] = strconv.FormatInt(t, 10)

	return fetchJSON[TrackDownloadMetadata](c, ctx, endpointDownloadInfo, params, auth)
}

// GetStorageLocation asks the storage host referenced by metadata where the track file lives.
func (c *ClientImpl) GetStorageLocation(
	ctx context.Context,
	metadata *TrackDownloadMetadata,
	t int64,
) (*StorageLocation, error) {
	auth, err := c.session()
	if err != nil {
		return nil, err
	}

	if metadata == nil {
		return nil, fmt.Errorf("%w: missing download metadata", ErrMalformedLocation)
	}

	params := c.sessionParams(auth, map[string]string{"src": metadata.Src})
	params[paramTime] = strconv.FormatInt(t, 10)

	return fetchJSON[StorageLocation](c, ctx, endpointStorageLocation, params, auth)
}

// BuildDownloadLink signs the download link of a storage location.
func (c *ClientImpl) BuildDownloadLink(metadata *TrackDownloadMetadata, location *StorageLocation) (string, error) {
	return c.signer.Sign(metadata, location)
}

// resolveDownloadLink runs metadata, storage location and signing with one time value.
func (c *ClientImpl) resolveDownloadLink(ctx context.Context, trackKey string) (string, *TrackDownloadMetadata, error) {
	t := c.TInterval()

	metadata, err := c.GetDownloadMetadata(ctx, trackKey, t)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get download metadata of '%s': %w", trackKey, err)
	}

	location, err := c.GetStorageLocation(ctx, metadata, t)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get storage location of '%s': %w", trackKey, err)
	}

	link, err := c.BuildDownloadLink(metadata, location)
	if err != nil {
		return "", nil, err
	}

	return link, metadata, nil
}

// ExtractTrackStream opens the audio stream of a track.
func (c *ClientImpl) ExtractTrackStream(ctx context.Context, trackKey string) (*TrackStream, error) {
	link, metadata, err := c.resolveDownloadLink(ctx, trackKey)
	if err != nil {
		return nil, err
	}

	response, err := c.get(ctx, endpointTransfer, link)
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "Streaming '%s' (%s, %d bytes)", trackKey, metadata.Codec, response.ContentLength)

	return &TrackStream{
		Body:       response.Body,
		TotalBytes: response.ContentLength,
		Codec:      metadata.Codec,
		Link:       link,
	}, nil
}

// ExtractTrackData downloads a track into memory.
func (c *ClientImpl) ExtractTrackData(ctx context.Context, trackKey string) ([]byte, error) {
	stream, err := c.ExtractTrackStream(ctx, trackKey)
	if err != nil {
		return nil, err
	}

	defer stream.Body.Close()

	var buffer bytes.Buffer
	if stream.TotalBytes > 0 {
		buffer.Grow(int(stream.TotalBytes))
	}

	written, err := io.Copy(&buffer, stream.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpointTransfer, Err: err}
	}

	if err = checkTransferred(written, stream.TotalBytes); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// ExtractTrackToFile downloads a track into filePath through a temporary ".part" file.
// Bytes are copied to mirrors, e.g. a progress bar, as they arrive.
// The part file is removed on failure, so filePath never holds a truncated track.
func (c *ClientImpl) ExtractTrackToFile(
	ctx context.Context,
	trackKey, filePath string,
	mirrors ...io.Writer,
) (int64, error) {
	stream, err := c.ExtractTrackStream(ctx, trackKey)
	if err != nil {
		return 0, err
	}

	defer stream.Body.Close()

	return WriteStreamToFile(stream, filePath, mirrors...)
}

// WriteStreamToFile copies the stream into filePath through a temporary ".part" file.
func WriteStreamToFile(stream *TrackStream, filePath string, mirrors ...io.Writer) (written int64, err error) {
	if err = os.MkdirAll(filepath.Dir(filePath), constants.DefaultFolderPermissions); err != nil {
		return 0, fmt.Errorf("failed to create folder for '%s': %w", filePath, err)
	}

	partPath := filePath + constants.ExtensionPart

	file, err := os.Create(partPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file '%s': %w", partPath, err)
	}

	defer func() {
		if err != nil {
			file.Close()
			os.Remove(partPath)
		}
	}()

	writers := append([]io.Writer{file}, mirrors...)

	written, err = io.Copy(io.MultiWriter(writers...), stream.Body)
	if err != nil {
		return written, &TransportError{Endpoint: endpointTransfer, Err: err}
	}

	if err = checkTransferred(written, stream.TotalBytes); err != nil {
		return written, err
	}

	if err = file.Close(); err != nil {
		return written, fmt.Errorf("failed to close file '%s': %w", partPath, err)
	}

	if err = os.Rename(partPath, filePath); err != nil {
		return written, fmt.Errorf("failed to rename '%s': %w", partPath, err)
	}

	return written, nil
}

// DownloadFromURL downloads arbitrary content such as cover art.
func (c *ClientImpl) DownloadFromURL(ctx context.Context, url string) (io.ReadCloser, error) {
	response, err := c.get(ctx, "download.url", url)
	if err != nil {
		return nil, err
	}

	return response.Body, nil
}

// get performs a plain GET on a storage host. Session headers are not sent there.
func (c *ClientImpl) get(ctx context.Context, name, url string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &TransportError{Endpoint: name, Err: err}
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close()

		return nil, newStatusError(name, response.StatusCode)
	}

	return response, nil
}

func checkTransferred(written, expected int64) error {
	if written == 0 {
		return ErrEmptyDownload
	}

	if expected > 0 && written != expected {
		return fmt.Errorf("%w: got %d of %d bytes", ErrIncompleteDownload, written, expected)
	}

	return nil
}

// IsTransferFailure reports whether err came from the network rather than the caller's input.
func IsTransferFailure(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrEmptyDownload) ||
		errors.Is(err, ErrIncompleteDownload)
}
