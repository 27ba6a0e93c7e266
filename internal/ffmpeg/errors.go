package ffmpeg

import "errors"

// ErrNotFound indicates no usable FFmpeg binary was found.
var ErrNotFound = errors.New("ffmpeg not found")

// ErrFailed indicates FFmpeg ran but exited with an error.
var ErrFailed = errors.New("ffmpeg failed")
