//go:build !cgo

package vad

import "fmt"

// Compile-time interface implementation check.
var _ FrameClassifier = (*WebRTCClassifier)(nil)

// WebRTCClassifier is unavailable in builds without cgo.
type WebRTCClassifier struct{}

// NewWebRTCClassifier returns ErrBackendUnavailable without cgo.
func NewWebRTCClassifier(sensitivity int) (*WebRTCClassifier, error) {
	if err := checkSensitivity(sensitivity); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: webrtc vad requires cgo (use --classifier energy)", ErrBackendUnavailable)
}

// IsSpeech always fails.
func (c *WebRTCClassifier) IsSpeech(frame []byte, sampleRate int) (bool, error) {
	return false, ErrBackendUnavailable
}
