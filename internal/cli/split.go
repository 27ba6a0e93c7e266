package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/alnah/voicechunk/internal/audio"
	"github.com/alnah/voicechunk/internal/config"
	"github.com/alnah/voicechunk/internal/denoise"
	"github.com/alnah/voicechunk/internal/format"
	"github.com/alnah/voicechunk/internal/pipeline"
	"github.com/alnah/voicechunk/internal/vad"
)

// MaxParallel caps concurrent noise suppression processes.
const MaxParallel = 8

// chunkDirSuffix is appended to the input base name for the default output dir.
const chunkDirSuffix = "_chunks"

// splitOptions holds the split flags after merging with config.
type splitOptions struct {
	outputDir    string
	strategy     string
	classifier   string
	sileroModel  string
	denoiseModel string
	sampleRate   int
	frameMs      int
	sensitivity  int
	parallel     int
	minChunk     float64
	silenceDB    float64
	denoise      bool
	verbose      bool
}

// clampParallel constrains parallel workers to [1, MaxParallel].
func clampParallel(n int) int {
	return min(max(n, 1), MaxParallel)
}

// defaultChunkDir derives the chunk directory name from an input path.
// Example: "talks/session.m4a" -> "session_chunks"
func defaultChunkDir(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + chunkDirSuffix
}

// SplitCmd creates the split command.
// The env parameter provides injectable dependencies for testing.
func SplitCmd(env *Env) *cobra.Command {
	var opts splitOptions

	cmd := &cobra.Command{
		Use:   "split <audio-file>",
		Short: "Split a recording into voiced chunks",
		Long: `Split a speech recording into voiced chunks.

Silence is discarded, the remaining speech is grouped into chunks of at least
--min-chunk seconds, each chunk is optionally denoised, and all chunks are
joined again into combined_audio.wav.

The output directory is emptied on every run. It defaults to <input>_chunks
inside the configured output-dir (or the current directory).

Strategies:
  frame     Classify fixed frames (webrtc or energy), then split the kept
            audio on energy (default)
  segment   Ask the Silero model for speech segments (needs --silero-model)

Supported formats: ` + strings.Join(audio.SupportedFormats(), ", ") + `
Formats other than PCM WAV require FFmpeg.`,
		Example: `  voicechunk split lecture.m4a
  voicechunk split lecture.wav -o chunks --min-chunk 20 --denoise
  voicechunk split interview.mp3 --classifier energy --sensitivity 1
  voicechunk split talk.wav --strategy segment --silero-model silero_vad.onnx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, env, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "Chunk directory (default: <input>_chunks)")
	f.StringVar(&opts.strategy, "strategy", string(vad.StrategyFrame), "Voiced interval strategy: frame, segment")
	f.StringVar(&opts.classifier, "classifier", vad.ClassifierWebRTC, "Frame classifier: webrtc, energy")
	f.StringVar(&opts.sileroModel, "silero-model", "", "Silero VAD ONNX model (segment strategy)")
	f.IntVar(&opts.sampleRate, "sample-rate", pipeline.DefaultSampleRate, "Working sample rate in Hz")
	f.IntVar(&opts.frameMs, "frame-ms", pipeline.DefaultFrameDurationMs, "Frame duration in milliseconds")
	f.Float64Var(&opts.minChunk, "min-chunk", pipeline.DefaultMinChunkSeconds, "Minimum chunk duration in seconds")
	f.Float64Var(&opts.silenceDB, "silence-db", pipeline.DefaultSilenceDB, "Energy split threshold below peak in dB")
	f.IntVar(&opts.sensitivity, "sensitivity", pipeline.DefaultSensitivity, "Classifier sensitivity (0-3, higher drops more)")
	f.BoolVar(&opts.denoise, "denoise", false, "Suppress noise in each chunk with FFmpeg")
	f.StringVar(&opts.denoiseModel, "denoise-model", "", "RNNoise model for --denoise (default: FFT denoiser)")
	f.IntVarP(&opts.parallel, "parallel", "p", pipeline.DefaultParallel, "Concurrent denoise processes (1-8)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline stages")

	return cmd
}

// applyConfig fills every option whose flag was not set from cfg.
// cfg already merges the config file over the environment. The output
// directory is resolved separately because config output-dir is a parent.
func applyConfig(opts splitOptions, cfg config.Config, changed func(string) bool) splitOptions {
	setString := func(flag string, dst *string, v string) {
		if !changed(flag) && v != "" {
			*dst = v
		}
	}
	setString("strategy", &opts.strategy, cfg.Strategy)
	setString("classifier", &opts.classifier, cfg.Classifier)
	setString("silero-model", &opts.sileroModel, config.ExpandPath(cfg.SileroModel))
	setString("denoise-model", &opts.denoiseModel, config.ExpandPath(cfg.DenoiseModel))

	if !changed("sample-rate") && cfg.SampleRate != 0 {
		opts.sampleRate = cfg.SampleRate
	}
	if !changed("frame-ms") && cfg.FrameMs != 0 {
		opts.frameMs = cfg.FrameMs
	}
	if !changed("min-chunk") && cfg.MinChunk != 0 {
		opts.minChunk = cfg.MinChunk
	}
	if !changed("silence-db") && cfg.SilenceDB != 0 {
		opts.silenceDB = cfg.SilenceDB
	}
	if !changed("sensitivity") && cfg.Sensitivity != nil {
		opts.sensitivity = *cfg.Sensitivity
	}
	return opts
}

// pipelineConfig converts merged options into a pipeline configuration.
func (o splitOptions) pipelineConfig() pipeline.Config {
	return pipeline.Config{
		SampleRate:            o.sampleRate,
		FrameDurationMs:       o.frameMs,
		MinChunkSeconds:       o.minChunk,
		SilenceThresholdDB:    o.silenceDB,
		ClassifierSensitivity: o.sensitivity,
		Strategy:              vad.Strategy(o.strategy),
		Denoise:               o.denoise,
		Parallel:              o.parallel,
	}
}

// runSplit executes the chunking pipeline.
// Validation order: file exists -> format -> config -> options -> classifier -> ffmpeg
func runSplit(cmd *cobra.Command, env *Env, inputPath string, opts splitOptions) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	// 1. File exists
	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", audio.ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("%w: cannot access input file: %v", audio.ErrIO, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", audio.ErrIO, inputPath)
	}

	// 2. Format supported
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(inputPath)), ".")
	if !slices.Contains(audio.SupportedFormats(), ext) {
		return fmt.Errorf("%w: %q (supported: %s)",
			audio.ErrUnsupportedFormat, ext, strings.Join(audio.SupportedFormats(), ", "))
	}

	// 3. Config file and environment, below flags
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		_, _ = fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}
	changed := cmd.Flags().Changed
	classifierExplicit := changed("classifier") || cfg.Classifier != ""
	opts = applyConfig(opts, cfg, changed)
	opts.parallel = clampParallel(opts.parallel)

	// 4. Pipeline settings
	pcfg := opts.pipelineConfig()
	if err := pcfg.Validate(); err != nil {
		return err
	}
	outputDir := config.ResolveOutputPath(opts.outputDir, config.ExpandPath(cfg.OutputDir), defaultChunkDir(inputPath))

	// === SETUP ===

	extractor, closeExtractor, err := newExtractor(env, opts, pcfg, classifierExplicit)
	if err != nil {
		return err
	}
	defer closeExtractor()

	transcoder := &resolvingTranscoder{env: env, sampleRate: pcfg.SampleRate}
	var suppressor denoise.Suppressor
	if opts.denoise {
		ffmpegPath, err := transcoder.resolve(ctx)
		if err != nil {
			return err
		}
		suppressor, err = env.SuppressorFactory.NewSuppressor(ffmpegPath, opts.denoiseModel, pcfg.SampleRate)
		if err != nil {
			return err
		}
	}

	loader, err := audio.NewLoader(pcfg.SampleRate, audio.WithTranscoder(transcoder))
	if err != nil {
		return err
	}

	p, err := pipeline.New(pcfg,
		pipeline.WithLoader(loader),
		pipeline.WithExtractor(extractor),
		pipeline.WithSuppressor(suppressor),
		pipeline.WithLogger(newLogger(env.Stderr, opts.verbose)),
	)
	if err != nil {
		return err
	}

	// === RUN ===

	_, _ = fmt.Fprintf(env.Stderr, "Splitting %s (strategy: %s)...\n", filepath.Base(inputPath), opts.strategy)
	start := env.Now()

	res, err := p.Run(ctx, inputPath, outputDir)
	if err != nil {
		return err
	}

	printSplitSummary(env.Stderr, res)
	_, _ = fmt.Fprintf(env.Stderr, "Finished in %s\n", format.DurationHuman(env.Now().Sub(start)))
	return nil
}

// newExtractor builds the extractor for the selected strategy. The returned
// close function releases native model resources and is never nil.
func newExtractor(env *Env, opts splitOptions, cfg pipeline.Config, classifierExplicit bool) (vad.Extractor, func(), error) {
	noop := func() {}

	switch cfg.Strategy {
	case vad.StrategySegment:
		if opts.sileroModel == "" {
			return nil, noop, fmt.Errorf("%w (use --silero-model or: voicechunk config set %s <path>)",
				ErrSileroModelMissing, config.KeySileroModel)
		}
		detector, err := env.ClassifierFactory.NewSegmentDetector(
			vad.DefaultSileroConfig(opts.sileroModel, cfg.SampleRate, cfg.ClassifierSensitivity))
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := detector.Close(); err != nil {
				_, _ = fmt.Fprintf(env.Stderr, "Warning: failed to release silero model: %v\n", err)
			}
		}
		e, err := vad.NewSegmentExtractor(detector)
		if err != nil {
			closeFn()
			return nil, noop, err
		}
		return e, closeFn, nil

	default:
		name := opts.classifier
		classifier, err := env.ClassifierFactory.NewFrameClassifier(name, cfg.ClassifierSensitivity)
		if errors.Is(err, vad.ErrBackendUnavailable) && !classifierExplicit {
			_, _ = fmt.Fprintf(env.Stderr, "Warning: %s classifier unavailable, using %s\n",
				name, vad.ClassifierEnergy)
			name = vad.ClassifierEnergy
			classifier, err = env.ClassifierFactory.NewFrameClassifier(name, cfg.ClassifierSensitivity)
		}
		if err != nil {
			return nil, noop, err
		}
		// Rate and frame limits apply only once webrtc is actually in use.
		if name == vad.ClassifierWebRTC {
			if err := vad.CheckWebRTCConfig(cfg.SampleRate, cfg.FrameDurationMs); err != nil {
				return nil, noop, err
			}
		}
		e, err := vad.NewFrameExtractor(classifier, cfg.FrameDurationMs, cfg.SilenceThresholdDB)
		if err != nil {
			return nil, noop, err
		}
		return e, noop, nil
	}
}

// resolvingTranscoder finds FFmpeg on first use, so WAV input never needs it.
type resolvingTranscoder struct {
	env        *Env
	sampleRate int

	mu         sync.Mutex
	ffmpegPath string
}

// Compile-time interface implementation check.
var _ audio.Transcoder = (*resolvingTranscoder)(nil)

// resolve returns the FFmpeg path, resolving and version-checking it once.
func (t *resolvingTranscoder) resolve(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ffmpegPath != "" {
		return t.ffmpegPath, nil
	}
	path, err := t.env.FFmpegResolver.Resolve(ctx)
	if err != nil {
		return "", err
	}
	t.env.FFmpegResolver.CheckVersion(ctx, path)
	t.ffmpegPath = path
	return path, nil
}

func (t *resolvingTranscoder) Transcode(ctx context.Context, inputPath, workDir string) (string, error) {
	path, err := t.resolve(ctx)
	if err != nil {
		return "", err
	}
	_, _ = fmt.Fprintf(t.env.Stderr, "Converting %s to WAV...\n", filepath.Base(inputPath))
	return t.env.TranscoderFactory.NewTranscoder(path, t.sampleRate).Transcode(ctx, inputPath, workDir)
}
