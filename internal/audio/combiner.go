package audio

import (
	"errors"
	"fmt"
)

// Combine concatenates the WAV files at paths, in list order, into one WAV at
// outPath. Samples are copied as integers so the output holds exactly the
// input data back to back. There is no resampling, padding or cross-fade.
//
// Every input must be 16-bit PCM with the same channel count and a rate of
// sampleRate; anything else returns ErrFormatMismatch. A sampleRate of 0 takes
// the rate of the first input. An empty list writes a valid empty mono WAV,
// which requires a positive sampleRate.
func Combine(paths []string, outPath string, sampleRate int) error {
	if len(paths) == 0 {
		if sampleRate <= 0 {
			return fmt.Errorf("%w: sample rate required to combine zero chunks", ErrFormatMismatch)
		}
		return writeWAVFile(outPath, nil, sampleRate, wavMonoChannel)
	}

	var (
		data     []int
		channels int
	)
	for i, path := range paths {
		chunk, err := readWAVFile(path)
		if err != nil {
			if errors.Is(err, errNotNativeWAV) {
				return fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, err)
			}
			return err
		}

		if i == 0 {
			channels = chunk.Channels
			if sampleRate <= 0 {
				sampleRate = chunk.SampleRate
			}
		}
		if err := checkFormat(path, chunk, sampleRate, channels); err != nil {
			return err
		}
		data = append(data, chunk.Data...)
	}

	return writeWAVFile(outPath, data, sampleRate, channels)
}

// checkFormat verifies chunk matches the combined output's layout.
func checkFormat(path string, chunk pcmData, sampleRate, channels int) error {
	switch {
	case chunk.SampleRate != sampleRate:
		return fmt.Errorf("%w: %s is %d Hz, want %d Hz",
			ErrFormatMismatch, path, chunk.SampleRate, sampleRate)
	case chunk.Channels != channels:
		return fmt.Errorf("%w: %s has %d channels, want %d",
			ErrFormatMismatch, path, chunk.Channels, channels)
	case chunk.BitDepth != wavBitDepth:
		return fmt.Errorf("%w: %s is %d-bit, want %d-bit",
			ErrFormatMismatch, path, chunk.BitDepth, wavBitDepth)
	}
	return nil
}
