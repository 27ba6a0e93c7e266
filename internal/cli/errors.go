package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrSileroModelMissing indicates the segment strategy was selected without
	// a Silero ONNX model path.
	ErrSileroModelMissing = errors.New("silero model path not set")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")
)
