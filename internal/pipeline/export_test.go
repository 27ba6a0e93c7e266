package pipeline

import "io"

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// CheckOutputDir exports checkOutputDir for testing.
var CheckOutputDir = checkOutputDir

// DecodeManifest exports decodeManifest for testing.
func DecodeManifest(r io.Reader) (Manifest, error) {
	return decodeManifest(r)
}
