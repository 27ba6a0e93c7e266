package pipeline

import (
	"errors"
	"fmt"

	"github.com/alnah/voicechunk/internal/audio"
	"github.com/alnah/voicechunk/internal/vad"
)

// Default settings.
const (
	DefaultSampleRate      = 16000
	DefaultFrameDurationMs = 30
	DefaultMinChunkSeconds = 30.0
	DefaultSilenceDB       = 30.0
	DefaultSensitivity     = 3
	DefaultParallel        = 1
)

// Config holds the settings of one pipeline. It is copied into the Pipeline
// at construction and never modified afterwards.
type Config struct {
	SampleRate            int
	FrameDurationMs       int
	MinChunkSeconds       float64
	SilenceThresholdDB    float64
	ClassifierSensitivity int
	Strategy              vad.Strategy
	Denoise               bool
	Parallel              int // Concurrent suppression workers.
}

// DefaultConfig returns the default frame-strategy configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:            DefaultSampleRate,
		FrameDurationMs:       DefaultFrameDurationMs,
		MinChunkSeconds:       DefaultMinChunkSeconds,
		SilenceThresholdDB:    DefaultSilenceDB,
		ClassifierSensitivity: DefaultSensitivity,
		Strategy:              vad.StrategyFrame,
		Parallel:              DefaultParallel,
	}
}

// Validate reports every invalid field, joined, wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate must be positive, got %d", c.SampleRate))
	}
	if c.FrameDurationMs <= 0 {
		errs = append(errs, fmt.Errorf("frame duration must be positive, got %d ms", c.FrameDurationMs))
	} else if c.SampleRate > 0 && audio.FrameLength(c.SampleRate, c.FrameDurationMs) == 0 {
		errs = append(errs, fmt.Errorf("frame of %d ms at %d Hz is empty", c.FrameDurationMs, c.SampleRate))
	}
	if c.MinChunkSeconds < 0 {
		errs = append(errs, fmt.Errorf("minimum chunk duration must not be negative, got %g s", c.MinChunkSeconds))
	}
	if c.SilenceThresholdDB <= 0 {
		errs = append(errs, fmt.Errorf("silence threshold must be positive, got %g dB", c.SilenceThresholdDB))
	}
	if c.ClassifierSensitivity < vad.MinSensitivity || c.ClassifierSensitivity > vad.MaxSensitivity {
		errs = append(errs, fmt.Errorf("sensitivity must be %d-%d, got %d",
			vad.MinSensitivity, vad.MaxSensitivity, c.ClassifierSensitivity))
	}
	if _, err := vad.ParseStrategy(string(c.Strategy)); err != nil {
		errs = append(errs, err)
	}
	if c.Parallel < 1 {
		errs = append(errs, fmt.Errorf("parallel must be at least 1, got %d", c.Parallel))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// MinChunkSamples returns the minimum chunk length in samples.
func (c Config) MinChunkSamples() int {
	return audio.SecondsToSamples(c.MinChunkSeconds, c.SampleRate)
}
