// Package denoise applies noise suppression to chunk files.
package denoise

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/alnah/voicechunk/internal/ffmpeg"
)

// Compile-time interface implementation check.
var _ Suppressor = (*FFmpegSuppressor)(nil)

// Suppressor denoises the audio at inputPath into outputPath.
// inputPath and outputPath may be the same file.
type Suppressor interface {
	Suppress(ctx context.Context, inputPath, outputPath string) error
}

// Filter names reported by FFmpegSuppressor.Filter.
const (
	FilterRNNoise = "arnndn"
	FilterFFT     = "afftdn"
)

// FFmpegSuppressor denoises with FFmpeg's arnndn filter when an RNNoise model
// is configured, and with the model-free afftdn filter otherwise.
// Output is 16-bit PCM mono WAV, resampled back to the configured rate
// because arnndn always emits 48 kHz.
type FFmpegSuppressor struct {
	ffmpegPath string
	modelPath  string
	sampleRate int
	runner     commandRunner
	files      fileOps
}

// Option configures an FFmpegSuppressor.
type Option func(*FFmpegSuppressor)

// WithModel selects arnndn with the RNNoise model at path.
func WithModel(path string) Option {
	return func(s *FFmpegSuppressor) { s.modelPath = path }
}

// WithSampleRate pins the output rate. Without it FFmpeg keeps the filter's
// output rate.
func WithSampleRate(rate int) Option {
	return func(s *FFmpegSuppressor) { s.sampleRate = rate }
}

// WithRunner sets the FFmpeg runner (for testing).
func WithRunner(r commandRunner) Option {
	return func(s *FFmpegSuppressor) { s.runner = r }
}

// withFileOps sets the filesystem implementation (for testing).
func withFileOps(f fileOps) Option {
	return func(s *FFmpegSuppressor) { s.files = f }
}

// NewFFmpegSuppressor creates a suppressor running the ffmpeg binary at
// ffmpegPath. A configured model must exist.
func NewFFmpegSuppressor(ffmpegPath string, opts ...Option) (*FFmpegSuppressor, error) {
	s := &FFmpegSuppressor{
		ffmpegPath: ffmpegPath,
		runner:     ffmpeg.NewExecutor(),
		files:      osFileOps{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.modelPath != "" {
		if _, err := s.files.Stat(s.modelPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrModelNotFound, s.modelPath)
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrModelNotFound, s.modelPath, err)
		}
	}
	return s, nil
}

// Filter returns the FFmpeg filter in use.
func (s *FFmpegSuppressor) Filter() string {
	if s.modelPath != "" {
		return FilterRNNoise
	}
	return FilterFFT
}

// Suppress writes the denoised audio to a temp file beside outputPath and
// renames it into place, so outputPath is never left half written.
func (s *FFmpegSuppressor) Suppress(ctx context.Context, inputPath, outputPath string) error {
	tmp, err := s.files.CreateTemp(filepath.Dir(outputPath), ".denoise-*.wav")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrSuppress, err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	committed := false
	defer func() {
		if !committed {
			_ = s.files.Remove(tmpPath)
		}
	}()

	if err := s.runner.Run(ctx, s.ffmpegPath, s.args(inputPath, tmpPath)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s: %v", ErrSuppress, filepath.Base(inputPath), err)
	}

	if err := s.files.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("%w: replace %s: %v", ErrSuppress, outputPath, err)
	}
	committed = true
	return nil
}

// args builds the FFmpeg arguments for one denoise pass.
func (s *FFmpegSuppressor) args(input, output string) []string {
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", input,
		"-af", s.filterSpec(),
		"-ac", "1",
	}
	if s.sampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(s.sampleRate))
	}
	return append(args, "-c:a", "pcm_s16le", output)
}

// filterSpec returns the -af value.
func (s *FFmpegSuppressor) filterSpec() string {
	if s.modelPath != "" {
		return fmt.Sprintf("arnndn=m=%s", escapeFilterPath(s.modelPath))
	}
	return FilterFFT
}

// escapeFilterPath quotes characters that delimit FFmpeg filter options.
func escapeFilterPath(path string) string {
	out := make([]rune, 0, len(path))
	for _, r := range filepath.ToSlash(path) {
		switch r {
		case ':', '\\', '\'', ',', ';', '[', ']':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
