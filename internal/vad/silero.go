//go:build silero

package vad

import (
	"fmt"
	"sync"

	"github.com/streamer45/silero-vad-go/speech"
)

// Compile-time interface implementation check.
var _ SegmentDetector = (*SileroDetector)(nil)

// SileroDetector finds speech segments with the Silero ONNX model.
// It needs onnxruntime at link time and a model file at run time.
type SileroDetector struct {
	mu       sync.Mutex
	detector *speech.Detector
	rate     int
}

// NewSileroDetector loads the model at cfg.ModelPath for cfg.SampleRate
// (8000 or 16000). Higher sensitivity raises the speech probability threshold.
func NewSileroDetector(cfg SileroConfig) (*SileroDetector, error) {
	dc, err := cfg.detectorConfig()
	if err != nil {
		return nil, err
	}
	d, err := speech.NewDetector(dc)
	if err != nil {
		return nil, fmt.Errorf("%w: silero: %v", ErrBackendUnavailable, err)
	}
	return &SileroDetector{detector: d, rate: cfg.SampleRate}, nil
}

// DetectSegments runs the model over samples. The detector keeps stream state,
// so it is reset after every call.
func (s *SileroDetector) DetectSegments(samples []float32, sampleRate int) ([]Segment, error) {
	if sampleRate != s.rate {
		return nil, fmt.Errorf("%w: detector loaded for %d Hz, got %d Hz", ErrInvalidFrame, s.rate, sampleRate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.detector.Detect(samples)
	if err != nil {
		return nil, err
	}
	if err := s.detector.Reset(); err != nil {
		return nil, err
	}

	segments := make([]Segment, len(found))
	for i, f := range found {
		segments[i] = Segment{Start: f.SpeechStartAt, End: f.SpeechEndAt}
	}
	return segments, nil
}

// Close releases the ONNX session.
func (s *SileroDetector) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detector.Destroy()
}

func (c SileroConfig) detectorConfig() (speech.DetectorConfig, error) {
	if err := c.validate(); err != nil {
		return speech.DetectorConfig{}, err
	}
	return speech.DetectorConfig{
		ModelPath:            c.ModelPath,
		SampleRate:           c.SampleRate,
		Threshold:            SileroThreshold(c.Sensitivity),
		MinSilenceDurationMs: c.MinSilenceMs,
		SpeechPadMs:          c.SpeechPadMs,
	}, nil
}
