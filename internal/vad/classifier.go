package vad

import "fmt"

// Frame classifier backends.
const (
	ClassifierWebRTC = "webrtc"
	ClassifierEnergy = "energy"
)

// NewFrameClassifier creates the named frame classifier backend.
func NewFrameClassifier(name string, sensitivity int) (FrameClassifier, error) {
	switch name {
	case ClassifierWebRTC:
		c, err := NewWebRTCClassifier(sensitivity)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ClassifierEnergy:
		c, err := NewEnergyClassifier(sensitivity)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownClassifier, name, ClassifierWebRTC, ClassifierEnergy)
	}
}
