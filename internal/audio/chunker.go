package audio

import (
	"fmt"
	"time"

	"github.com/alnah/voicechunk/internal/format"
)

// File names inside an output directory.
const (
	// chunkFilePattern zero-pads the index to 8 digits so lexical order
	// matches chunk order.
	chunkFilePattern = "chunk_%08d.wav"

	// CombinedFileName is the concatenation of all chunks.
	CombinedFileName = "combined_audio.wav"
)

// ChunkFileName returns the file name for the chunk at index.
func ChunkFileName(index int) string {
	return fmt.Sprintf(chunkFilePattern, index)
}

// Chunk represents a group of merged voiced intervals.
// Start and End are sample offsets in the buffer the chunk was cut from.
// Samples is a copy of that region and is released once the chunk is written;
// Path is set by the Writer.
type Chunk struct {
	Index      int // Zero-based, in position order.
	Start      int
	End        int
	Samples    []float32
	SampleRate int
	Path       string
}

// Len returns the number of samples spanned by the chunk.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// Duration returns the length of this chunk.
func (c Chunk) Duration() time.Duration {
	return SamplesToDuration(c.End-c.Start, c.SampleRate)
}

// String returns a human-readable representation for logging.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %s-%s",
		c.Index,
		format.Duration(SamplesToDuration(c.Start, c.SampleRate)),
		format.Duration(SamplesToDuration(c.End, c.SampleRate)))
}

// MergeIntervals groups consecutive intervals greedily from the left.
// A group opens at the start of the first interval seen while none is open and
// closes at the end of the first interval that brings its span to at least
// minSamples. A trailing group that never reaches minSamples is dropped.
// Gaps between intervals inside a group are kept.
func MergeIntervals(intervals []Interval, minSamples int) []Interval {
	var groups []Interval
	open := false
	var start int

	for _, iv := range intervals {
		if !open {
			start = iv.Start
			open = true
		}
		if iv.End-start >= minSamples {
			groups = append(groups, Interval{Start: start, End: iv.End})
			open = false
		}
	}
	return groups
}

// Assemble merges intervals of buf into chunks of at least minSamples.
// Intervals must be non-empty, within bounds, and strictly increasing without
// overlap; otherwise ErrInvalidInterval is returned and no chunk is built.
// Zero chunks is a valid result.
func Assemble(buf Buffer, intervals []Interval, minSamples int) ([]Chunk, error) {
	if err := validateIntervals(intervals, buf.Len()); err != nil {
		return nil, err
	}

	groups := MergeIntervals(intervals, minSamples)
	chunks := make([]Chunk, 0, len(groups))
	for i, g := range groups {
		slice := buf.Slice(g.Start, g.End)
		chunks = append(chunks, Chunk{
			Index:      i,
			Start:      g.Start,
			End:        g.End,
			Samples:    slice.Samples,
			SampleRate: buf.SampleRate,
		})
	}
	return chunks, nil
}

// validateIntervals checks the ordering and bounds invariants Assemble relies on.
func validateIntervals(intervals []Interval, length int) error {
	prevEnd := 0
	for i, iv := range intervals {
		if iv.Start < 0 || iv.End > length {
			return fmt.Errorf("%w: interval %d %s outside buffer of %d samples",
				ErrInvalidInterval, i, iv, length)
		}
		if iv.Start >= iv.End {
			return fmt.Errorf("%w: interval %d %s is empty", ErrInvalidInterval, i, iv)
		}
		if i > 0 && iv.Start < prevEnd {
			return fmt.Errorf("%w: interval %d %s overlaps previous end %d",
				ErrInvalidInterval, i, iv, prevEnd)
		}
		prevEnd = iv.End
	}
	return nil
}
