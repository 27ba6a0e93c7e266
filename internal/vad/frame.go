package vad

import (
	"context"
	"fmt"

	"github.com/alnah/voicechunk/internal/audio"
)

// ctxCheckInterval is how many frames are classified between context checks.
const ctxCheckInterval = 256

// FrameExtractor classifies fixed-length frames and keeps the speech frames.
// Intervals index the reduced buffer of concatenated speech frames.
type FrameExtractor struct {
	classifier FrameClassifier
	frameMs    int
	silenceDB  float64
}

// NewFrameExtractor creates a FrameExtractor.
// frameMs is the frame duration; silenceDB is the energy split threshold
// applied to the reduced buffer.
func NewFrameExtractor(c FrameClassifier, frameMs int, silenceDB float64) (*FrameExtractor, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil frame classifier", ErrBackendUnavailable)
	}
	if frameMs <= 0 {
		return nil, fmt.Errorf("%w: frame duration %d ms", ErrInvalidFrame, frameMs)
	}
	if silenceDB <= 0 {
		return nil, fmt.Errorf("silence threshold must be positive, got %g dB", silenceDB)
	}
	return &FrameExtractor{classifier: c, frameMs: frameMs, silenceDB: silenceDB}, nil
}

// ExtractIntervals classifies buf frame by frame. A trailing partial frame is
// never classified and never reaches the reduced buffer.
func (e *FrameExtractor) ExtractIntervals(ctx context.Context, buf audio.Buffer) (VoicedAudio, error) {
	frameLen := audio.FrameLength(buf.SampleRate, e.frameMs)
	if frameLen <= 0 {
		return VoicedAudio{}, fmt.Errorf("%w: %d ms at %d Hz is shorter than one sample",
			ErrInvalidFrame, e.frameMs, buf.SampleRate)
	}

	frames := audio.Frames(buf.Samples, frameLen)
	voiced := make([]float32, 0, len(buf.Samples))
	for i, frame := range frames {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return VoicedAudio{}, err
			}
		}
		speech, err := e.classifier.IsSpeech(audio.EncodePCM16LE(frame), buf.SampleRate)
		if err != nil {
			return VoicedAudio{}, fmt.Errorf("%w: frame %d: %v", ErrClassifier, i, err)
		}
		if speech {
			voiced = append(voiced, frame...)
		}
	}

	reduced := audio.Buffer{Samples: voiced, SampleRate: buf.SampleRate}
	return VoicedAudio{
		Buffer:    reduced,
		Intervals: SplitNonSilent(reduced.Samples, e.silenceDB),
	}, nil
}
