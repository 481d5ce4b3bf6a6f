package download

import "errors"

// Common errors for the service layer.
var (
	// ErrEmptyTrackPath indicates that the track file path is empty.
	ErrEmptyTrackPath = errors.New("track path cannot be empty")
	// ErrUnsupportedCodec indicates that tags can't be written for the codec.
	ErrUnsupportedCodec = errors.New("unsupported codec")
	// ErrNotAnImage indicates that a cover URL returned something other than an image.
	ErrNotAnImage = errors.New("not an image")
)
