package pipeline

import "errors"

// ErrInvalidConfig indicates a Config that fails validation.
var ErrInvalidConfig = errors.New("invalid pipeline config")

// ErrUnsafeOutputDir indicates an output directory that must not be reset,
// such as a filesystem root or a directory containing the input file.
var ErrUnsafeOutputDir = errors.New("unsafe output directory")

// ErrManifest indicates the run manifest could not be written or read.
var ErrManifest = errors.New("manifest failed")
