package vad

import "errors"

// ErrBackendUnavailable indicates a classifier backend was not compiled in
// (cgo disabled, or the silero build tag not set).
var ErrBackendUnavailable = errors.New("speech classifier backend unavailable")

// ErrInvalidFrame indicates a frame size or sample rate the classifier
// cannot process.
var ErrInvalidFrame = errors.New("invalid classifier frame")

// ErrInvalidSensitivity indicates a sensitivity outside 0..3.
var ErrInvalidSensitivity = errors.New("invalid classifier sensitivity")

// ErrClassifier wraps a failure reported by the underlying model.
var ErrClassifier = errors.New("speech classifier failed")

// ErrUnknownClassifier indicates a frame classifier name with no backend.
var ErrUnknownClassifier = errors.New("unknown frame classifier")
