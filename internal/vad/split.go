package vad

import (
	"math"

	"github.com/alnah/voicechunk/internal/audio"
)

// Energy split analysis window.
const (
	splitFrameLength = 2048
	splitHopLength   = 512

	// splitAmin floors power before the log so digital silence stays finite.
	splitAmin = 1e-10
)

// SplitNonSilent returns the intervals of samples whose short-time energy is
// within topDB decibels of the loudest frame.
//
// RMS is measured over 2048-sample frames every 512 samples, with frames
// centered on their hop position and the signal zero padded at both ends.
// A run of non-silent frames starting at frame i and ending before frame j
// becomes [i*512, min(j*512, len)). Empty runs are dropped.
func SplitNonSilent(samples []float32, topDB float64) []audio.Interval {
	return splitNonSilent(samples, topDB, splitFrameLength, splitHopLength)
}

func splitNonSilent(samples []float32, topDB float64, frameLen, hop int) []audio.Interval {
	n := len(samples)
	if n == 0 {
		return nil
	}

	levels := frameLevels(samples, frameLen, hop)
	peak := splitAmin
	for _, p := range levels {
		peak = max(peak, p)
	}
	ref := 10 * math.Log10(peak)

	var intervals []audio.Interval
	runStart := -1
	emit := func(startFrame, endFrame int) {
		start := startFrame * hop
		end := min(endFrame*hop, n)
		if start < end {
			intervals = append(intervals, audio.Interval{Start: start, End: end})
		}
	}

	for i, p := range levels {
		loud := 10*math.Log10(max(p, splitAmin))-ref > -topDB
		switch {
		case loud && runStart < 0:
			runStart = i
		case !loud && runStart >= 0:
			emit(runStart, i)
			runStart = -1
		}
	}
	if runStart >= 0 {
		emit(runStart, len(levels))
	}
	return intervals
}

// frameLevels returns the mean power of each centered analysis frame.
// There are 1 + len/hop frames; frame k spans [k*hop - frameLen/2, k*hop + frameLen/2)
// with out-of-range samples counted as zero.
func frameLevels(samples []float32, frameLen, hop int) []float64 {
	n := len(samples)

	// prefix[i] is the sum of squares of samples[:i].
	prefix := make([]float64, n+1)
	for i, s := range samples {
		prefix[i+1] = prefix[i] + float64(s)*float64(s)
	}

	half := frameLen / 2
	count := 1 + n/hop
	levels := make([]float64, count)
	for k := range count {
		lo := min(max(k*hop-half, 0), n)
		hi := min(max(k*hop+half, 0), n)
		levels[k] = (prefix[hi] - prefix[lo]) / float64(frameLen)
	}
	return levels
}
