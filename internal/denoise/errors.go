package denoise

import "errors"

// ErrModelNotFound indicates the configured RNNoise model file does not exist.
var ErrModelNotFound = errors.New("denoise model not found")

// ErrSuppress indicates a chunk could not be denoised.
var ErrSuppress = errors.New("noise suppression failed")

// ErrFormatChanged indicates a denoised chunk no longer has the layout the
// chunk was written with, so it cannot be combined with the others.
var ErrFormatChanged = errors.New("denoised chunk changed format")
