package audio

import "encoding/binary"

// PCM16 scaling constants. Encoding multiplies by pcm16Scale, decoding divides
// by pcm16Divisor, matching the usual int16 <-> float conventions.
const (
	pcm16Scale   = 32767.0
	pcm16Divisor = 32768.0
	pcm16Max     = 32767
	pcm16Min     = -32768
)

// ToPCM16 converts a normalized sample to a signed 16-bit value.
// The fractional part is truncated toward zero and the result is clamped to
// the int16 range, so out-of-range input saturates instead of wrapping.
func ToPCM16(s float32) int16 {
	v := float64(s) * pcm16Scale
	if v >= pcm16Max {
		return pcm16Max
	}
	if v <= pcm16Min {
		return pcm16Min
	}
	return int16(v)
}

// FromPCM converts a signed integer sample of the given bit depth to [-1, 1).
func FromPCM(v, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		// 8-bit WAV is unsigned with a 128 midpoint.
		return float32(v-128) / 128.0
	case 16:
		return float32(v) / pcm16Divisor
	case 24:
		return float32(v) / 8388608.0
	case 32:
		return float32(float64(v) / 2147483648.0)
	default:
		return float32(v) / pcm16Divisor
	}
}

// EncodePCM16LE encodes samples as little-endian signed 16-bit PCM bytes.
// This is the frame layout speech classifiers consume.
func EncodePCM16LE(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(ToPCM16(s)))
	}
	return out
}

// FrameLength returns the number of samples in one frame of durationMs.
func FrameLength(sampleRate, durationMs int) int {
	return sampleRate * durationMs / 1000
}

// Frames partitions samples into consecutive frames of frameLen samples.
// A trailing partial frame is dropped: it is too short to be classified.
// The returned frames are views into samples.
func Frames(samples []float32, frameLen int) [][]float32 {
	if frameLen <= 0 {
		return nil
	}
	n := len(samples) / frameLen
	frames := make([][]float32, 0, n)
	for i := range n {
		frames = append(frames, samples[i*frameLen:(i+1)*frameLen])
	}
	return frames
}

// MixToMono averages interleaved channels into one channel.
// Input must hold whole frames; a trailing partial frame is ignored.
func MixToMono(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	out := make([]float32, frames)
	for i := range frames {
		var sum float32
		for c := range channels {
			sum += interleaved[i*channels+c]
		}
		out[i] = sum / float32(channels)
	}
	return out
}

// Resample converts mono samples from srcRate to dstRate using linear
// interpolation. If the rates match the input is returned unchanged.
func Resample(samples []float32, srcRate, dstRate int) []float32 {
	if srcRate <= 0 || dstRate <= 0 || srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	dstLen := int(int64(len(samples)) * int64(dstRate) / int64(srcRate))
	if dstLen == 0 {
		return nil
	}

	out := make([]float32, dstLen)
	ratio := float64(srcRate) / float64(dstRate)
	for i := range dstLen {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := float32(pos - float64(idx))

		s0 := samples[idx]
		s1 := s0
		if idx+1 < len(samples) {
			s1 = samples[idx+1]
		}
		out[i] = s0*(1-frac) + s1*frac
	}
	return out
}
