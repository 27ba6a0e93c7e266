package audio

import (
	"fmt"
	"time"
)

// Buffer is a mono signal of normalized samples at a fixed rate.
// Samples are expected in [-1.0, 1.0]; values outside that range are clipped
// when encoded to 16-bit PCM.
type Buffer struct {
	Samples    []float32
	SampleRate int
}

// Len returns the number of samples.
func (b Buffer) Len() int {
	return len(b.Samples)
}

// Duration returns the playback length of the buffer.
func (b Buffer) Duration() time.Duration {
	return SamplesToDuration(len(b.Samples), b.SampleRate)
}

// Slice returns a copy of samples [start, end). The copy owns its data so the
// source buffer can be released independently.
func (b Buffer) Slice(start, end int) Buffer {
	out := make([]float32, end-start)
	copy(out, b.Samples[start:end])
	return Buffer{Samples: out, SampleRate: b.SampleRate}
}

// Interval is a contiguous voiced region [Start, End) in sample offsets.
type Interval struct {
	Start int
	End   int
}

// Len returns the number of samples covered by the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// String returns "[start, end)" for logging.
func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d)", iv.Start, iv.End)
}

// SamplesToDuration converts a sample count at rate to a duration.
// Returns 0 for a non-positive rate.
func SamplesToDuration(n, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(int64(n) * int64(time.Second) / int64(rate))
}

// SecondsToSamples converts seconds at rate to a sample count, truncating.
func SecondsToSamples(seconds float64, rate int) int {
	return int(seconds * float64(rate))
}
