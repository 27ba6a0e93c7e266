package audio

import "errors"

// ErrFileNotFound indicates the specified input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrUnsupportedFormat indicates the input can neither be decoded nor transcoded.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ErrIO indicates an unreadable input or an unwritable output location.
var ErrIO = errors.New("audio i/o failed")

// ErrInvalidInterval indicates a voiced interval that is empty, out of bounds,
// overlapping or out of order.
var ErrInvalidInterval = errors.New("invalid voiced interval")

// ErrFormatMismatch indicates chunk files that do not share one sample rate
// and channel layout.
var ErrFormatMismatch = errors.New("chunk format mismatch")
