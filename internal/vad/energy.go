package vad

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Compile-time interface implementation check.
var _ FrameClassifier = (*EnergyClassifier)(nil)

// energyThresholds maps sensitivity to the minimum frame level in dBFS.
// Higher sensitivity rejects more quiet frames as non-speech.
var energyThresholds = [...]float64{-50, -45, -40, -35}

// EnergyClassifier labels a frame as speech when its RMS level reaches a
// fixed dBFS threshold. It needs no native library and carries no state
// between frames.
type EnergyClassifier struct {
	thresholdDBFS float64
}

// NewEnergyClassifier creates an EnergyClassifier for sensitivity 0..3.
func NewEnergyClassifier(sensitivity int) (*EnergyClassifier, error) {
	if err := checkSensitivity(sensitivity); err != nil {
		return nil, err
	}
	return &EnergyClassifier{thresholdDBFS: energyThresholds[sensitivity]}, nil
}

// Threshold returns the speech level in dBFS.
func (c *EnergyClassifier) Threshold() float64 {
	return c.thresholdDBFS
}

// IsSpeech reports whether the 16-bit little-endian frame is loud enough.
func (c *EnergyClassifier) IsSpeech(frame []byte, sampleRate int) (bool, error) {
	if len(frame) == 0 || len(frame)%2 != 0 {
		return false, fmt.Errorf("%w: %d bytes is not whole 16-bit samples", ErrInvalidFrame, len(frame))
	}
	return frameDBFS(frame) >= c.thresholdDBFS, nil
}

// frameDBFS returns the RMS level of a PCM16 frame relative to full scale.
// Digital silence returns -Inf.
func frameDBFS(frame []byte) float64 {
	n := len(frame) / 2
	var sum float64
	for i := range n {
		v := float64(int16(binary.LittleEndian.Uint16(frame[i*2:]))) / 32768.0
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(n))
	return 20 * math.Log10(rms)
}
