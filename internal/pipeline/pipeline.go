// Package pipeline runs the voiced-chunk pipeline end to end:
// load, extract voiced intervals, assemble chunks, reset the output directory,
// write chunks, optionally suppress noise, combine, and write a manifest.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/voicechunk/internal/audio"
	"github.com/alnah/voicechunk/internal/denoise"
	"github.com/alnah/voicechunk/internal/vad"
)

// Pipeline holds an immutable Config and its injected collaborators.
// A Pipeline may be reused for several runs; runs must not share an
// output directory concurrently.
type Pipeline struct {
	cfg        Config
	loader     audio.BufferLoader
	extractor  vad.Extractor
	suppressor denoise.Suppressor
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLoader sets the audio loader. Defaults to audio.NewLoader(cfg.SampleRate)
// without a transcoder, which only reads WAV.
func WithLoader(l audio.BufferLoader) Option {
	return func(p *Pipeline) {
		p.loader = l
	}
}

// WithExtractor sets the voiced-interval extractor. Required.
func WithExtractor(e vad.Extractor) Option {
	return func(p *Pipeline) {
		p.extractor = e
	}
}

// WithSuppressor sets the noise suppressor. Required when Config.Denoise is set.
func WithSuppressor(s denoise.Suppressor) Option {
	return func(p *Pipeline) {
		p.suppressor = s
	}
}

// WithLogger sets the structured logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New validates cfg and builds a Pipeline.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.extractor == nil {
		return nil, fmt.Errorf("%w: no extractor for strategy %q", ErrInvalidConfig, cfg.Strategy)
	}
	if cfg.Denoise && p.suppressor == nil {
		return nil, fmt.Errorf("%w: denoise enabled without a suppressor", ErrInvalidConfig)
	}
	if p.loader == nil {
		l, err := audio.NewLoader(cfg.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		p.loader = l
	}
	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Result summarizes one run.
type Result struct {
	Input        string
	OutputDir    string
	Chunks       []audio.Chunk // Written chunks; Samples are released.
	CombinedPath string
	ManifestPath string
	Denoise      []denoise.Outcome // nil when suppression is disabled.

	InputDuration  time.Duration
	VoicedDuration time.Duration // Total duration of the written chunks.
}

// Empty reports whether no chunk survived extraction and assembly.
// The combined file and manifest still exist in that case.
func (r Result) Empty() bool {
	return len(r.Chunks) == 0
}

// DenoiseFailures returns the number of chunks left unsuppressed.
func (r Result) DenoiseFailures() int {
	n := 0
	for _, o := range r.Denoise {
		if !o.Denoised() {
			n++
		}
	}
	return n
}

// Run processes inputPath into outputDir. The output directory is removed and
// recreated, so a second run on the same input leaves the same chunk set.
//
// Only noise suppression failures are isolated per chunk; every other failure
// aborts the run.
func (p *Pipeline) Run(ctx context.Context, inputPath, outputDir string) (Result, error) {
	res := Result{Input: inputPath, OutputDir: outputDir}

	if err := checkOutputDir(inputPath, outputDir); err != nil {
		return res, err
	}

	buf, err := p.loader.Load(ctx, inputPath)
	if err != nil {
		return res, err
	}
	res.InputDuration = buf.Duration()
	p.logger.Debug("audio loaded",
		"input", inputPath,
		"samples", buf.Len(),
		"duration", res.InputDuration)

	voiced, err := p.extractor.ExtractIntervals(ctx, buf)
	if err != nil {
		return res, fmt.Errorf("extract voiced intervals: %w", err)
	}
	p.logger.Debug("voiced intervals extracted",
		"strategy", p.cfg.Strategy,
		"intervals", len(voiced.Intervals),
		"voiced_samples", voiced.Buffer.Len())

	chunks, err := audio.Assemble(voiced.Buffer, voiced.Intervals, p.cfg.MinChunkSamples())
	if err != nil {
		return res, fmt.Errorf("assemble chunks: %w", err)
	}
	p.logger.Debug("chunks assembled", "chunks", len(chunks), "min_samples", p.cfg.MinChunkSamples())

	w := audio.NewWriter(outputDir)
	if err := w.PrepareDir(); err != nil {
		return res, err
	}
	if err := w.WriteChunks(ctx, chunks); err != nil {
		return res, err
	}
	res.Chunks = chunks
	for _, c := range chunks {
		res.VoicedDuration += c.Duration()
	}

	if p.cfg.Denoise && len(chunks) > 0 {
		res.Denoise = denoise.SuppressAll(ctx, p.suppressor, chunks, p.cfg.Parallel, p.logger)
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := p.restoreChanged(voiced.Buffer, chunks, res.Denoise); err != nil {
			return res, err
		}
	}

	paths := make([]string, len(chunks))
	for i, c := range chunks {
		paths[i] = c.Path
	}
	res.CombinedPath = filepath.Join(outputDir, audio.CombinedFileName)
	if err := audio.Combine(paths, res.CombinedPath, p.cfg.SampleRate); err != nil {
		return res, fmt.Errorf("combine chunks: %w", err)
	}

	res.ManifestPath = filepath.Join(outputDir, ManifestFileName)
	m := newManifest(p.cfg, inputPath, chunks, res.Denoise)
	if err := WriteManifest(res.ManifestPath, m); err != nil {
		return res, err
	}

	if res.Empty() {
		p.logger.Info("no voiced audio survived assembly", "input", inputPath)
	}
	return res, nil
}

// restoreChanged rewrites the original audio of every denoised chunk whose
// file no longer matches the chunk format, and records the outcome as a
// failure. src is the buffer the chunks index into.
func (p *Pipeline) restoreChanged(src audio.Buffer, chunks []audio.Chunk, outcomes []denoise.Outcome) error {
	want := audio.ChunkFormat(p.cfg.SampleRate)
	for i := range outcomes {
		if !outcomes[i].Denoised() {
			continue
		}
		c := chunks[i]
		got, err := audio.ReadFormat(c.Path)
		switch {
		case err != nil:
			outcomes[i].Err = fmt.Errorf("%w: %w", denoise.ErrFormatChanged, err)
		case got != want:
			outcomes[i].Err = fmt.Errorf("%w: wrote %s, want %s", denoise.ErrFormatChanged, got, want)
		default:
			continue
		}
		p.logger.Warn("denoised chunk unusable, restoring original",
			"chunk", c.Index,
			"path", c.Path,
			"error", outcomes[i].Err)
		if err := audio.WriteWAV(c.Path, src.Slice(c.Start, c.End)); err != nil {
			return fmt.Errorf("restore chunk %d: %w", c.Index, err)
		}
	}
	return nil
}

// checkOutputDir refuses directories whose reset would destroy the input or
// the filesystem root.
func checkOutputDir(inputPath, outputDir string) error {
	if strings.TrimSpace(outputDir) == "" {
		return fmt.Errorf("%w: empty path", ErrUnsafeOutputDir)
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnsafeOutputDir, outputDir, err)
	}
	if filepath.Dir(out) == out {
		return fmt.Errorf("%w: %s is a filesystem root", ErrUnsafeOutputDir, out)
	}
	in, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnsafeOutputDir, inputPath, err)
	}
	rel, err := filepath.Rel(out, in)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s contains the input %s", ErrUnsafeOutputDir, out, in)
	}
	return nil
}
