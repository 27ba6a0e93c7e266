// Package vad turns speech classifier decisions into voiced sample intervals.
//
// Two strategies share the Extractor contract. The frame strategy classifies
// fixed-length frames, keeps the speech frames as a reduced buffer and then
// recovers intervals from that buffer with an energy split. The segment
// strategy asks a detector for speech segments over the whole buffer.
package vad

import (
	"context"
	"fmt"

	"github.com/alnah/voicechunk/internal/audio"
)

// Compile-time interface implementation checks.
var (
	_ Extractor = (*FrameExtractor)(nil)
	_ Extractor = (*SegmentExtractor)(nil)
)

// Strategy selects how voiced intervals are found.
type Strategy string

// Supported strategies.
const (
	StrategyFrame   Strategy = "frame"
	StrategySegment Strategy = "segment"
)

// ParseStrategy validates s as a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyFrame, StrategySegment:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want %s or %s)", s, StrategyFrame, StrategySegment)
	}
}

// Sensitivity bounds shared by every classifier.
const (
	MinSensitivity = 0
	MaxSensitivity = 3
)

// checkSensitivity returns ErrInvalidSensitivity when s is out of range.
func checkSensitivity(s int) error {
	if s < MinSensitivity || s > MaxSensitivity {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidSensitivity, s, MinSensitivity, MaxSensitivity)
	}
	return nil
}

// FrameClassifier labels one frame of 16-bit little-endian mono PCM.
type FrameClassifier interface {
	IsSpeech(frame []byte, sampleRate int) (bool, error)
}

// Segment is a speech region in seconds from the start of the input.
type Segment struct {
	Start float64
	End   float64
}

// SegmentDetector returns speech regions over a whole buffer.
type SegmentDetector interface {
	DetectSegments(samples []float32, sampleRate int) ([]Segment, error)
}

// VoicedAudio is the buffer voiced intervals index into, with those intervals.
// Intervals are non-overlapping and strictly increasing.
type VoicedAudio struct {
	Buffer    audio.Buffer
	Intervals []audio.Interval
}

// Empty reports whether no speech was found.
func (v VoicedAudio) Empty() bool {
	return len(v.Intervals) == 0
}

// Extractor finds voiced intervals in a buffer.
// No speech is reported as an empty interval list, never as an error.
type Extractor interface {
	ExtractIntervals(ctx context.Context, buf audio.Buffer) (VoicedAudio, error)
}
