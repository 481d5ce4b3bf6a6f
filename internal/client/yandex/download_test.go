package yandex

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTrackKey = "10994777:1193829"

//nolint:gochecknoglobals // Test payload.
var testAudio = bytes.Repeat([]byte("ID3\x03audio"), 512)

// registerStorage serves download metadata and the storage location of testTrackKey.
func registerStorage(t *testing.T, mux *http.ServeMux) {
	t.Helper()

	mux.HandleFunc("GET /api/v2.1/handlers/track/{key}/web-album_track-track-track-main/download/m",
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, testTrackKey, r.PathValue("key"))
			assert.Equal(t, strconv.FormatInt(testNowMilli, 10), r.URL.Query().Get("__t"))

			writeJSON(w, `{"src":"https://`+r.Host+`/storage/info?sign=abc","codec":"mp3","bitrate":320}`)
		})

	mux.HandleFunc("GET /storage/info", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "abc", query.Get("sign"))
		assert.Equal(t, "json", query.Get("format"))
		assert.Equal(t, strconv.FormatInt(testNowMilli, 10), query.Get("__t"))

		writeJSON(w, `{"host":"`+r.Host+`","path":"/a/b/c","ts":"100","s":"xyz","region":-1}`)
	})
}

func expectedTransferPath() string {
	return "/get-mp3/83161d983ffbf5db502256de7b008cb107747000/100//a/b/c"
}

func serveAudio(t *testing.T, payload []byte) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != expectedTransferPath() {
			http.Error(w, "bad signature", http.StatusForbidden)

			return
		}

		// Storage hosts must not receive session credentials.
		assert.Empty(t, r.Header.Get(headerAuthorization))

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}
}

func downloadClient(t *testing.T, transfers http.HandlerFunc) *ClientImpl {
	t.Helper()

	mux := http.NewServeMux()
	registerStorage(t, mux)

	client, _ := authorizedClient(t, mux, transfers)

	return client
}

// TestClient_ResolveDownloadLink tests the metadata, location and signing chain.
func TestClient_ResolveDownloadLink(t *testing.T) {
	t.Parallel()

	client := downloadClient(t, nil)
	ctx := context.Background()

	metadata, err := client.GetDownloadMetadata(ctx, testTrackKey, testNowMilli)
	require.NoError(t, err)
	assert.Equal(t, "mp3", metadata.Codec)

	location, err := client.GetStorageLocation(ctx, metadata, testNowMilli)
	require.NoError(t, err)
	assert.Equal(t, "/a/b/c", location.Path)
	assert.Equal(t, FlexString("-1"), location.Region)

	link, err := client.BuildDownloadLink(metadata, location)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://"+location.Host+"/get-mp3/"))
	assert.True(t, strings.HasSuffix(link, expectedTransferPath()))

	_, err = client.GetStorageLocation(ctx, nil, testNowMilli)
	require.ErrorIs(t, err, ErrMalformedLocation)
}

// TestClient_ExtractTrackData tests downloading into memory.
func TestClient_ExtractTrackData(t *testing.T) {
	t.Parallel()

	client := downloadClient(t, serveAudio(t, testAudio))

	data, err := client.ExtractTrackData(context.Background(), testTrackKey)
	require.NoError(t, err)
	assert.Equal(t, testAudio, data)
}

// TestClient_ExtractTrackStream tests the announced stream size.
func TestClient_ExtractTrackStream(t *testing.T) {
	t.Parallel()

	client := downloadClient(t, serveAudio(t, testAudio))

	stream, err := client.ExtractTrackStream(context.Background(), testTrackKey)
	require.NoError(t, err)

	defer stream.Body.Close()

	assert.Equal(t, int64(len(testAudio)), stream.TotalBytes)
	assert.Equal(t, "mp3", stream.Codec)

	data, err := io.ReadAll(stream.Body)
	require.NoError(t, err)
	assert.Equal(t, testAudio, data)
}

// TestClient_ExtractTrackToFile tests downloading into a file with a mirror.
func TestClient_ExtractTrackToFile(t *testing.T) {
	t.Parallel()

	client := downloadClient(t, serveAudio(t, testAudio))
	target := filepath.Join(t.TempDir(), "Кино", "Группа крови.mp3")

	var mirror bytes.Buffer

	written, err := client.ExtractTrackToFile(context.Background(), testTrackKey, target, &mirror)
	require.NoError(t, err)

	assert.Equal(t, int64(len(testAudio)), written)
	assert.Equal(t, testAudio, mirror.Bytes())

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, testAudio, content)

	assert.NoFileExists(t, target+".part")
}

// TestClient_ExtractTrackToFile_Failures tests that failed transfers leave no files behind.
func TestClient_ExtractTrackToFile_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		transfers func(t *testing.T) http.HandlerFunc
		expected  error
	}{
		{
			name: "empty body",
			transfers: func(t *testing.T) http.HandlerFunc {
				t.Helper()

				return serveAudio(t, nil)
			},
			expected: ErrEmptyDownload,
		},
		{
			name: "connection cut short",
			transfers: func(t *testing.T) http.HandlerFunc {
				t.Helper()

				return func(w http.ResponseWriter, _ *http.Request) {
					w.Header().Set("Content-Length", strconv.Itoa(len(testAudio)))
					_, _ = w.Write(testAudio[:100])
				}
			},
			expected: ErrTransport,
		},
		{
			name: "storage refuses",
			transfers: func(t *testing.T) http.HandlerFunc {
				t.Helper()

				return func(w http.ResponseWriter, _ *http.Request) {
					http.Error(w, "gone", http.StatusGone)
				}
			},
			expected: ErrUnexpectedHTTPStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := downloadClient(t, tt.transfers(t))
			target := filepath.Join(t.TempDir(), "track.mp3")

			_, err := client.ExtractTrackToFile(context.Background(), testTrackKey, target)
			require.ErrorIs(t, err, tt.expected)

			assert.NoFileExists(t, target)
			assert.NoFileExists(t, target+".part")
		})
	}
}

// TestWriteStreamToFile_Incomplete tests a stream shorter than announced.
func TestWriteStreamToFile_Incomplete(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "track.flac")

	written, err := WriteStreamToFile(&TrackStream{
		Body:       io.NopCloser(strings.NewReader("fLaC")),
		TotalBytes: 10,
	}, target)
	require.ErrorIs(t, err, ErrIncompleteDownload)
	assert.True(t, IsTransferFailure(err))
	assert.Equal(t, int64(4), written)

	assert.NoFileExists(t, target)
	assert.NoFileExists(t, target+".part")
}

// TestWriteStreamToFile_UnknownSize tests streams without a content length.
func TestWriteStreamToFile_UnknownSize(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "track.mp3")

	written, err := WriteStreamToFile(&TrackStream{
		Body:       io.NopCloser(strings.NewReader("ID3")),
		TotalBytes: -1,
	}, target)
	require.NoError(t, err)
	assert.Equal(t, int64(3), written)
	assert.FileExists(t, target)
}

// TestIsTransferFailure tests classification of download errors.
func TestIsTransferFailure(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTransferFailure(&TransportError{Endpoint: "x", Err: io.ErrUnexpectedEOF}))
	assert.True(t, IsTransferFailure(ErrEmptyDownload))
	assert.False(t, IsTransferFailure(ErrNotAuthenticated))
	assert.False(t, IsTransferFailure(nil))
}
