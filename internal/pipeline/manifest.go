package pipeline

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/alnah/voicechunk/internal/audio"
	"github.com/alnah/voicechunk/internal/denoise"
)

// ManifestFileName is written next to the chunks on every run.
const ManifestFileName = "manifest.yaml"

// Manifest describes one run's output directory.
//
// Example:
//
//	input: talk.m4a
//	sample_rate: 16000
//	strategy: frame
//	min_chunk_seconds: 30
//	silence_threshold_db: 30
//	sensitivity: 3
//	denoise: true
//	combined: combined_audio.wav
//	chunks:
//	  - index: 0
//	    file: chunk_00000000.wav
//	    start_sample: 0
//	    end_sample: 481920
//	    duration_seconds: 30.12
//	    denoised: true
type Manifest struct {
	Input              string          `yaml:"input"`
	SampleRate         int             `yaml:"sample_rate"`
	Strategy           string          `yaml:"strategy"`
	MinChunkSeconds    float64         `yaml:"min_chunk_seconds"`
	SilenceThresholdDB float64         `yaml:"silence_threshold_db"`
	Sensitivity        int             `yaml:"sensitivity"`
	Denoise            bool            `yaml:"denoise"`
	Combined           string          `yaml:"combined"`
	Chunks             []ManifestChunk `yaml:"chunks"`
}

// ManifestChunk describes one chunk file. Sample offsets index the buffer the
// chunk was cut from.
type ManifestChunk struct {
	Index           int     `yaml:"index"`
	File            string  `yaml:"file"`
	StartSample     int     `yaml:"start_sample"`
	EndSample       int     `yaml:"end_sample"`
	DurationSeconds float64 `yaml:"duration_seconds"`
	Denoised        bool    `yaml:"denoised"`
	DenoiseError    string  `yaml:"denoise_error,omitempty"`
}

// newManifest builds the manifest for a completed run.
func newManifest(cfg Config, input string, chunks []audio.Chunk, outcomes []denoise.Outcome) Manifest {
	m := Manifest{
		Input:              input,
		SampleRate:         cfg.SampleRate,
		Strategy:           string(cfg.Strategy),
		MinChunkSeconds:    cfg.MinChunkSeconds,
		SilenceThresholdDB: cfg.SilenceThresholdDB,
		Sensitivity:        cfg.ClassifierSensitivity,
		Denoise:            cfg.Denoise,
		Combined:           audio.CombinedFileName,
		Chunks:             make([]ManifestChunk, len(chunks)),
	}
	for i, c := range chunks {
		mc := ManifestChunk{
			Index:           c.Index,
			File:            filepath.Base(c.Path),
			StartSample:     c.Start,
			EndSample:       c.End,
			DurationSeconds: c.Duration().Seconds(),
		}
		if i < len(outcomes) {
			mc.Denoised = outcomes[i].Denoised()
			if outcomes[i].Err != nil {
				mc.DenoiseError = outcomes[i].Err.Error()
			}
		}
		m.Chunks[i] = mc
	}
	return m
}

// WriteManifest encodes m as YAML to path.
func WriteManifest(path string, m Manifest) error {
	f, err := os.Create(path) // #nosec G304 -- path is inside the run's output directory
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrManifest, path, err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	err = enc.Encode(m)
	if closeErr := enc.Close(); err == nil {
		err = closeErr
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrManifest, path, err)
	}
	return nil
}

// ReadManifest decodes the manifest at path.
func ReadManifest(path string) (Manifest, error) {
	f, err := os.Open(path) // #nosec G304 -- user-supplied manifest path
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: open %s: %v", ErrManifest, path, err)
	}
	defer func() { _ = f.Close() }()

	return decodeManifest(f)
}

// decodeManifest rejects unknown keys to catch hand-edited typos.
func decodeManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("%w: decode: %v", ErrManifest, err)
	}
	return m, nil
}

// ChunkPaths returns the chunk file paths of m, in index order, relative to dir.
func (m Manifest) ChunkPaths(dir string) []string {
	chunks := slices.SortedStableFunc(slices.Values(m.Chunks), func(a, b ManifestChunk) int {
		return cmp.Compare(a.Index, b.Index)
	})
	paths := make([]string, len(chunks))
	for i, c := range chunks {
		paths[i] = filepath.Join(dir, c.File)
	}
	return paths
}
