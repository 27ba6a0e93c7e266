//go:build cgo

package vad

import (
	"fmt"
	"sync"

	"github.com/visvasity/webrtcvad"
)

// Compile-time interface implementation check.
var _ FrameClassifier = (*WebRTCClassifier)(nil)

// WebRTCClassifier labels frames with the WebRTC voice activity detector.
// Sensitivity is the detector mode: 0 is the least aggressive at filtering
// non-speech, 3 the most.
type WebRTCClassifier struct {
	mu  sync.Mutex // the native detector is not safe for concurrent use
	vad *webrtcvad.VAD
}

// NewWebRTCClassifier creates a classifier in the given mode (0..3).
func NewWebRTCClassifier(sensitivity int) (*WebRTCClassifier, error) {
	if err := checkSensitivity(sensitivity); err != nil {
		return nil, err
	}
	v, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("%w: webrtc vad: %v", ErrBackendUnavailable, err)
	}
	if err := v.SetMode(sensitivity); err != nil {
		return nil, fmt.Errorf("%w: set mode %d: %v", ErrInvalidSensitivity, sensitivity, err)
	}
	return &WebRTCClassifier{vad: v}, nil
}

// IsSpeech classifies one 10, 20 or 30 ms frame at 8, 16, 32 or 48 kHz.
func (c *WebRTCClassifier) IsSpeech(frame []byte, sampleRate int) (bool, error) {
	if err := checkWebRTCFrame(len(frame), sampleRate); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vad.Process(sampleRate, frame)
}
