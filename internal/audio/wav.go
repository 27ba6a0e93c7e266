package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV encoding parameters for everything this package writes.
const (
	wavFormatPCM   = 1
	wavBitDepth    = 16
	wavMonoChannel = 1
)

// errNotNativeWAV marks input that is not integer-PCM RIFF/WAVE.
// The loader treats it as a signal to transcode rather than a failure.
var errNotNativeWAV = errors.New("not an integer PCM wav stream")

// pcmData holds an undecoded integer PCM stream as read from a WAV file.
type pcmData struct {
	Data       []int // Interleaved integer samples.
	SampleRate int
	Channels   int
	BitDepth   int
}

// decodeWAV reads an integer PCM WAV stream.
// Float and compressed WAV variants return errNotNativeWAV.
func decodeWAV(r io.ReadSeeker) (pcmData, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return pcmData{}, errNotNativeWAV
	}
	if d.WavAudioFormat != wavFormatPCM {
		return pcmData{}, fmt.Errorf("%w: wav format tag %d", errNotNativeWAV, d.WavAudioFormat)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return pcmData{}, fmt.Errorf("%w: %v", errNotNativeWAV, err)
	}

	return pcmData{
		Data:       buf.Data,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
	}, nil
}

// encodeWAV writes 16-bit integer samples as a PCM WAV stream.
// An empty data slice still produces a valid header and an empty data chunk.
func encodeWAV(w io.WriteSeeker, data []int, sampleRate, channels int) error {
	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// readWAVFile opens and decodes path.
func readWAVFile(path string) (pcmData, error) {
	f, err := os.Open(path) // #nosec G304 -- path is the user's input or a file we wrote
	if err != nil {
		return pcmData{}, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	defer func() { _ = f.Close() }()

	return decodeWAV(f)
}

// writeWAVFile encodes data to path, replacing any existing file.
// On failure the partial file is removed.
func writeWAVFile(path string, data []int, sampleRate, channels int) error {
	f, err := os.Create(path) // #nosec G304 -- path is built from the output directory
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIO, path, err)
	}

	writeErr := encodeWAV(f, data, sampleRate, channels)
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("%w: write %s: %v", ErrIO, path, writeErr)
	}
	return nil
}

// Format is the PCM layout of a WAV file.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %d-bit", f.SampleRate, f.Channels, f.BitDepth)
}

// ChunkFormat returns the layout WriteWAV produces at sampleRate.
func ChunkFormat(sampleRate int) Format {
	return Format{SampleRate: sampleRate, Channels: wavMonoChannel, BitDepth: wavBitDepth}
}

// ReadFormat reads the header of the WAV file at path without decoding samples.
func ReadFormat(path string) (Format, error) {
	f, err := os.Open(path) // #nosec G304 -- path is a file we wrote
	if err != nil {
		return Format{}, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	defer func() { _ = f.Close() }()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() || d.WavAudioFormat != wavFormatPCM {
		return Format{}, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, errNotNativeWAV)
	}
	return Format{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
	}, nil
}

// pcm16Ints converts normalized samples to clipped 16-bit values widened to int,
// the representation go-audio encoders consume.
func pcm16Ints(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(ToPCM16(s))
	}
	return out
}

// ReadWAV decodes a WAV file into a normalized mono Buffer at its native rate.
func ReadWAV(path string) (Buffer, error) {
	data, err := readWAVFile(path)
	if err != nil {
		if errors.Is(err, errNotNativeWAV) {
			return Buffer{}, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, err)
		}
		return Buffer{}, err
	}
	return data.mono(), nil
}

// WriteWAV encodes buf as a 16-bit PCM mono WAV file.
func WriteWAV(path string, buf Buffer) error {
	return writeWAVFile(path, pcm16Ints(buf.Samples), buf.SampleRate, wavMonoChannel)
}

// mono normalizes and downmixes the stream without resampling.
func (p pcmData) mono() Buffer {
	samples := make([]float32, len(p.Data))
	for i, v := range p.Data {
		samples[i] = FromPCM(v, p.BitDepth)
	}
	return Buffer{
		Samples:    MixToMono(samples, p.Channels),
		SampleRate: p.SampleRate,
	}
}
