package vad

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/alnah/voicechunk/internal/audio"
)

// SegmentExtractor asks a detector for speech segments over the full buffer.
// Intervals index the input buffer itself; there is no energy pass.
type SegmentExtractor struct {
	detector SegmentDetector
}

// NewSegmentExtractor creates a SegmentExtractor.
func NewSegmentExtractor(d SegmentDetector) (*SegmentExtractor, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil segment detector", ErrBackendUnavailable)
	}
	return &SegmentExtractor{detector: d}, nil
}

// ExtractIntervals runs the detector and converts its segments to intervals.
func (e *SegmentExtractor) ExtractIntervals(ctx context.Context, buf audio.Buffer) (VoicedAudio, error) {
	if err := ctx.Err(); err != nil {
		return VoicedAudio{}, err
	}
	if buf.Len() == 0 {
		return VoicedAudio{Buffer: buf}, nil
	}

	segments, err := e.detector.DetectSegments(buf.Samples, buf.SampleRate)
	if err != nil {
		return VoicedAudio{}, fmt.Errorf("%w: %v", ErrClassifier, err)
	}
	return VoicedAudio{
		Buffer:    buf,
		Intervals: segmentsToIntervals(segments, buf.SampleRate, buf.Len()),
	}, nil
}

// segmentsToIntervals converts second offsets to sample offsets by truncation.
// An End of 0 marks a segment still open at the end of input and maps to n.
// Offsets are clamped to [0, n], empty or inverted segments are dropped and
// overlapping or touching segments are merged.
func segmentsToIntervals(segments []Segment, sampleRate, n int) []audio.Interval {
	intervals := make([]audio.Interval, 0, len(segments))
	for _, s := range segments {
		start := min(max(audio.SecondsToSamples(s.Start, sampleRate), 0), n)
		end := n
		if s.End != 0 {
			end = min(max(audio.SecondsToSamples(s.End, sampleRate), 0), n)
		}
		if start >= end {
			continue
		}
		intervals = append(intervals, audio.Interval{Start: start, End: end})
	}

	slices.SortFunc(intervals, func(a, b audio.Interval) int {
		return cmp.Compare(a.Start, b.Start)
	})

	merged := intervals[:0]
	for _, iv := range intervals {
		if last := len(merged) - 1; last >= 0 && iv.Start <= merged[last].End {
			merged[last].End = max(merged[last].End, iv.End)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
