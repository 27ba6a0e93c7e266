package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Transcoder converts any FFmpeg-decodable input to 16-bit mono PCM WAV.
type Transcoder struct {
	ffmpegPath string
	sampleRate int
	executor   *Executor
}

// TranscoderOption configures a Transcoder.
type TranscoderOption func(*Transcoder)

// WithTranscoderExecutor sets the executor for running FFmpeg.
func WithTranscoderExecutor(e *Executor) TranscoderOption {
	return func(t *Transcoder) { t.executor = e }
}

// NewTranscoder creates a Transcoder producing WAV at sampleRate.
func NewTranscoder(ffmpegPath string, sampleRate int, opts ...TranscoderOption) *Transcoder {
	t := &Transcoder{
		ffmpegPath: ffmpegPath,
		sampleRate: sampleRate,
		executor:   getDefaultExecutor(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcode writes <workDir>/<input base name>.wav and returns its path.
func (t *Transcoder) Transcode(ctx context.Context, inputPath, workDir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	out := filepath.Join(workDir, base+".wav")

	if err := t.executor.Run(ctx, t.ffmpegPath, transcodeArgs(inputPath, out, t.sampleRate)); err != nil {
		return "", fmt.Errorf("transcode %s: %w", filepath.Base(inputPath), err)
	}
	return out, nil
}

// transcodeArgs builds the FFmpeg arguments for a mono PCM16 WAV conversion.
// Video streams are ignored.
func transcodeArgs(input, output string, sampleRate int) []string {
	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", input,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", "pcm_s16le",
		output,
	}
}
