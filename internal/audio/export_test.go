package audio

import "io"

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// FileStatter exports fileStatter interface for testing.
type FileStatter = fileStatter

// TempDirCreator exports tempDirCreator interface for testing.
type TempDirCreator = tempDirCreator

// DirManager exports dirManager interface for testing.
type DirManager = dirManager

// ErrNotNativeWAV exports errNotNativeWAV for testing.
var ErrNotNativeWAV = errNotNativeWAV

// ValidateIntervals exports validateIntervals for testing.
var ValidateIntervals = validateIntervals

// EncodeWAV exports encodeWAV for testing.
func EncodeWAV(w io.WriteSeeker, data []int, sampleRate, channels int) error {
	return encodeWAV(w, data, sampleRate, channels)
}

// WriteRawWAV writes integer samples with the given layout for testing.
var WriteRawWAV = writeWAVFile

// ReadRawWAV returns the integer samples, rate and channel count of path.
func ReadRawWAV(path string) (data []int, sampleRate, channels int, err error) {
	p, err := readWAVFile(path)
	if err != nil {
		return nil, 0, 0, err
	}
	return p.Data, p.SampleRate, p.Channels, nil
}
