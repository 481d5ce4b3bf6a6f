// Package download saves Yandex Music tracks to disk.
// It resolves track keys and music URLs into tracks, names files with a configurable template,
// throttles and reports progress, tags the result and prints a summary of the session.
package download
