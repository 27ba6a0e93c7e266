package denoise

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// CommandRunner exports commandRunner interface for testing.
type CommandRunner = commandRunner

// FileOps exports fileOps interface for testing.
type FileOps = fileOps

// WithFileOps exports withFileOps for testing.
var WithFileOps = withFileOps

// EscapeFilterPath exports escapeFilterPath for testing.
var EscapeFilterPath = escapeFilterPath

// Args exports the FFmpeg argument builder for testing.
func (s *FFmpegSuppressor) Args(input, output string) []string {
	return s.args(input, output)
}
