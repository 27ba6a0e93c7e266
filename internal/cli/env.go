package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/voicechunk/internal/audio"
	"github.com/alnah/voicechunk/internal/config"
	"github.com/alnah/voicechunk/internal/denoise"
	"github.com/alnah/voicechunk/internal/ffmpeg"
	"github.com/alnah/voicechunk/internal/vad"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	FFmpegResolver    FFmpegResolver
	ConfigLoader      ConfigLoader
	ClassifierFactory ClassifierFactory
	SuppressorFactory SuppressorFactory
	TranscoderFactory TranscoderFactory
}

// FFmpegResolver resolves the path to the FFmpeg binary.
type FFmpegResolver interface {
	Resolve(ctx context.Context) (string, error)
	CheckVersion(ctx context.Context, ffmpegPath string)
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// SegmentDetector is a vad.SegmentDetector holding native resources.
type SegmentDetector interface {
	vad.SegmentDetector
	Close() error
}

// ClassifierFactory creates speech classifiers.
type ClassifierFactory interface {
	NewFrameClassifier(name string, sensitivity int) (vad.FrameClassifier, error)
	NewSegmentDetector(cfg vad.SileroConfig) (SegmentDetector, error)
}

// SuppressorFactory creates noise suppressors.
type SuppressorFactory interface {
	// NewSuppressor returns an RNNoise suppressor when modelPath is set,
	// otherwise an FFT denoiser. Output is written at sampleRate.
	NewSuppressor(ffmpegPath, modelPath string, sampleRate int) (denoise.Suppressor, error)
}

// TranscoderFactory creates transcoders for inputs that are not PCM WAV.
type TranscoderFactory interface {
	NewTranscoder(ffmpegPath string, sampleRate int) audio.Transcoder
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithFFmpegResolver sets the FFmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) {
		e.FFmpegResolver = r
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithClassifierFactory sets the classifier factory.
func WithClassifierFactory(f ClassifierFactory) EnvOption {
	return func(e *Env) {
		e.ClassifierFactory = f
	}
}

// WithSuppressorFactory sets the suppressor factory.
func WithSuppressorFactory(f SuppressorFactory) EnvOption {
	return func(e *Env) {
		e.SuppressorFactory = f
	}
}

// WithTranscoderFactory sets the transcoder factory.
func WithTranscoderFactory(f TranscoderFactory) EnvOption {
	return func(e *Env) {
		e.TranscoderFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:            os.Stdout,
		Stderr:            os.Stderr,
		Getenv:            os.Getenv,
		Now:               time.Now,
		FFmpegResolver:    &defaultFFmpegResolver{stderr: os.Stderr},
		ConfigLoader:      &defaultConfigLoader{},
		ClassifierFactory: &defaultClassifierFactory{},
		SuppressorFactory: &defaultSuppressorFactory{},
		TranscoderFactory: &defaultTranscoderFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultFFmpegResolver implements FFmpegResolver using the ffmpeg package.
type defaultFFmpegResolver struct {
	stderr io.Writer
}

func (defaultFFmpegResolver) Resolve(ctx context.Context) (string, error) {
	return ffmpeg.NewResolver().Resolve(ctx)
}

func (r defaultFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	ffmpeg.NewVersionChecker(ffmpeg.WithVersionStderr(r.stderr)).Check(ctx, ffmpegPath)
}

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultClassifierFactory implements ClassifierFactory using the vad package.
type defaultClassifierFactory struct{}

func (defaultClassifierFactory) NewFrameClassifier(name string, sensitivity int) (vad.FrameClassifier, error) {
	return vad.NewFrameClassifier(name, sensitivity)
}

func (defaultClassifierFactory) NewSegmentDetector(cfg vad.SileroConfig) (SegmentDetector, error) {
	d, err := vad.NewSileroDetector(cfg)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// defaultSuppressorFactory implements SuppressorFactory with ffmpeg filters.
type defaultSuppressorFactory struct{}

func (defaultSuppressorFactory) NewSuppressor(ffmpegPath, modelPath string, sampleRate int) (denoise.Suppressor, error) {
	opts := []denoise.Option{denoise.WithSampleRate(sampleRate)}
	if modelPath != "" {
		opts = append(opts, denoise.WithModel(modelPath))
	}
	s, err := denoise.NewFFmpegSuppressor(ffmpegPath, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// defaultTranscoderFactory implements TranscoderFactory with ffmpeg.
type defaultTranscoderFactory struct{}

func (defaultTranscoderFactory) NewTranscoder(ffmpegPath string, sampleRate int) audio.Transcoder {
	return ffmpeg.NewTranscoder(ffmpegPath, sampleRate)
}

// Compile-time interface verification.
var (
	_ FFmpegResolver    = (*defaultFFmpegResolver)(nil)
	_ ConfigLoader      = (*defaultConfigLoader)(nil)
	_ ClassifierFactory = (*defaultClassifierFactory)(nil)
	_ SuppressorFactory = (*defaultSuppressorFactory)(nil)
	_ TranscoderFactory = (*defaultTranscoderFactory)(nil)
	_ SegmentDetector   = (*vad.SileroDetector)(nil)
)
