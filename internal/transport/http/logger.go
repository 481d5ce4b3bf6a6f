package http

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"regexp"
	"time"

	"github.com/oshokin/yamusic/internal/logger"
	"github.com/oshokin/yamusic/internal/utils"
)

// LogTransport dumps requests and responses at debug level.
// Credentials (OAuth token, cookies, passwords in form bodies) are masked in dumps.
type LogTransport struct {
	next         http.RoundTripper
	maxLogLength uint64
}

// ErrNilRequest indicates that the HTTP request is nil.
var ErrNilRequest = errors.New("request is nil")

const redactedValue = "${1}***"

//nolint:gochecknoglobals // Pre-compiled patterns used as constants.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?mi)^(Authorization:\s*OAuth\s+)[^\r\n]+`),
	regexp.MustCompile(`(?mi)^(Cookie:\s*)[^\r\n]+`),
	regexp.MustCompile(`(?mi)^(Set-Cookie:\s*[^=]+=)[^\r\n]+`),
	regexp.MustCompile(`(passwd=)[^&\s]*`),
}

// NewLogTransport creates and returns a new instance of LogTransport.
// If maxLogLength is zero, it defaults to DefaultMaxLogLength.
func NewLogTransport(next http.RoundTripper, maxLogLength uint64) http.RoundTripper {
	if maxLogLength == 0 {
		maxLogLength = DefaultMaxLogLength
	}

	return &LogTransport{
		next:         next,
		maxLogLength: maxLogLength,
	}
}

// RoundTrip executes a single HTTP transaction and logs the request and response.
func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if !logger.IsDebugLevel() {
		return t.next.RoundTrip(req)
	}

	ctx := req.Context()
	requestDump := t.dumpRequest(req)
	startTime := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(startTime)

	if err != nil {
		logger.Debugf(ctx, "Request failed: %s %s | Error: %v", req.Method, req.URL.Redacted(), err)

		return nil, err
	}

	responseDump := t.dumpResponse(resp)
	logger.Debugf(ctx, "%s %s [%d] %s\nRequest: %s\nResponse: %s",
		req.Method, req.URL.Path, resp.StatusCode, duration, requestDump, responseDump)

	return resp, nil
}

func (t *LogTransport) dumpRequest(req *http.Request) string {
	dump, err := httputil.DumpRequestOut(req, utils.IsTextContentType(req.Header.Get("Content-Type")))
	if err != nil {
		return err.Error()
	}

	return t.truncate(redact(dump))
}

func (t *LogTransport) dumpResponse(resp *http.Response) string {
	dump, err := httputil.DumpResponse(resp, utils.IsTextContentType(resp.Header.Get("Content-Type")))
	if err != nil {
		return err.Error()
	}

	return t.truncate(redact(dump))
}

func (t *LogTransport) truncate(data []byte) string {
	if uint64(len(data)) > t.maxLogLength {
		return string(data[:t.maxLogLength]) + "... [truncated]"
	}

	return string(data)
}

func redact(dump []byte) []byte {
	for _, pattern := range sensitivePatterns {
		dump = pattern.ReplaceAll(dump, []byte(redactedValue))
	}

	return dump
}
