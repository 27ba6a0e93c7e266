//go:build !silero

package vad

import "fmt"

// Compile-time interface implementation check.
var _ SegmentDetector = (*SileroDetector)(nil)

// SileroDetector is unavailable in builds without the silero tag.
type SileroDetector struct{}

// NewSileroDetector validates cfg and returns ErrBackendUnavailable.
// Build with -tags silero (and onnxruntime installed) to enable it.
func NewSileroDetector(cfg SileroConfig) (*SileroDetector, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: built without silero support (rebuild with -tags silero)", ErrBackendUnavailable)
}

// DetectSegments always fails.
func (s *SileroDetector) DetectSegments(samples []float32, sampleRate int) ([]Segment, error) {
	return nil, ErrBackendUnavailable
}

// Close is a no-op.
func (s *SileroDetector) Close() error {
	return nil
}
