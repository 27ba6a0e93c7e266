package vad

import "fmt"

// WebRTC detector constraints.
var (
	webrtcRates   = map[int]bool{8000: true, 16000: true, 32000: true, 48000: true}
	webrtcFrameMs = map[int]bool{10: true, 20: true, 30: true}
)

const bytesPerSample = 2

// CheckWebRTCConfig reports whether the WebRTC detector accepts frameMs
// frames at sampleRate.
func CheckWebRTCConfig(sampleRate, frameMs int) error {
	if !webrtcRates[sampleRate] {
		return fmt.Errorf("%w: webrtc vad needs 8000, 16000, 32000 or 48000 Hz, got %d",
			ErrInvalidFrame, sampleRate)
	}
	if !webrtcFrameMs[frameMs] {
		return fmt.Errorf("%w: webrtc vad needs 10, 20 or 30 ms frames, got %d",
			ErrInvalidFrame, frameMs)
	}
	return nil
}

// checkWebRTCFrame validates a frame of frameBytes PCM16 bytes at sampleRate.
func checkWebRTCFrame(frameBytes, sampleRate int) error {
	if !webrtcRates[sampleRate] {
		return fmt.Errorf("%w: unsupported rate %d Hz", ErrInvalidFrame, sampleRate)
	}
	samples := frameBytes / bytesPerSample
	if frameBytes%bytesPerSample != 0 || samples == 0 || (samples*1000)%sampleRate != 0 {
		return fmt.Errorf("%w: %d bytes at %d Hz", ErrInvalidFrame, frameBytes, sampleRate)
	}
	if !webrtcFrameMs[samples*1000/sampleRate] {
		return fmt.Errorf("%w: %d ms frame at %d Hz", ErrInvalidFrame, samples*1000/sampleRate, sampleRate)
	}
	return nil
}
