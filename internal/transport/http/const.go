package http

import "time"

const (
	// DefaultTimeout is the default timeout duration for HTTP requests.
	DefaultTimeout = 60 * time.Second
	// DefaultUserAgent mimics the desktop browser the web player is normally opened in.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36" //nolint: lll
	// DefaultMaxLogLength is the maximum size (in bytes) of a single request or response dump.
	DefaultMaxLogLength = 64 * 1024
)
