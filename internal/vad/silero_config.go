package vad

import "fmt"

// Silero threshold mapping and segment shaping defaults.
const (
	sileroBaseThreshold = 0.35
	sileroThresholdStep = 0.15

	defaultSileroMinSilenceMs = 100
	defaultSileroSpeechPadMs  = 30
)

// SileroConfig configures a SileroDetector.
type SileroConfig struct {
	ModelPath    string
	SampleRate   int
	Sensitivity  int
	MinSilenceMs int // Silence needed to close a segment.
	SpeechPadMs  int // Padding added on both sides of a segment.
}

// DefaultSileroConfig returns a config for modelPath at sampleRate.
func DefaultSileroConfig(modelPath string, sampleRate, sensitivity int) SileroConfig {
	return SileroConfig{
		ModelPath:    modelPath,
		SampleRate:   sampleRate,
		Sensitivity:  sensitivity,
		MinSilenceMs: defaultSileroMinSilenceMs,
		SpeechPadMs:  defaultSileroSpeechPadMs,
	}
}

// SileroThreshold maps sensitivity 0..3 to a speech probability threshold:
// 0.35, 0.50, 0.65, 0.80.
func SileroThreshold(sensitivity int) float32 {
	return float32(sileroBaseThreshold + sileroThresholdStep*float64(sensitivity))
}

func (c SileroConfig) validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("%w: silero model path is required", ErrBackendUnavailable)
	}
	if c.SampleRate != 8000 && c.SampleRate != 16000 {
		return fmt.Errorf("%w: silero needs 8000 or 16000 Hz, got %d", ErrInvalidFrame, c.SampleRate)
	}
	if err := checkSensitivity(c.Sensitivity); err != nil {
		return err
	}
	if c.MinSilenceMs < 0 || c.SpeechPadMs < 0 {
		return fmt.Errorf("silero durations must not be negative")
	}
	return nil
}
