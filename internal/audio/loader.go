package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// Compile-time interface implementation check.
var _ BufferLoader = (*Loader)(nil)

// BufferLoader decodes an audio file into a mono Buffer.
type BufferLoader interface {
	Load(ctx context.Context, path string) (Buffer, error)
}

// Transcoder converts an audio file that cannot be decoded natively into a
// 16-bit PCM WAV file written under workDir, and returns that file's path.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, workDir string) (string, error)
}

// nativeExtensions are decoded in-process when the stream is integer PCM.
var nativeExtensions = map[string]bool{
	".wav":  true,
	".wave": true,
}

// transcodeExtensions are accepted only when a Transcoder is configured.
var transcodeExtensions = map[string]bool{
	".aac":  true,
	".aiff": true,
	".flac": true,
	".m4a":  true,
	".mp3":  true,
	".mp4":  true,
	".mpeg": true,
	".mpga": true,
	".ogg":  true,
	".opus": true,
	".webm": true,
	".wma":  true,
}

// SupportedFormats returns the sorted list of accepted extensions without dots.
func SupportedFormats() []string {
	formats := make([]string, 0, len(nativeExtensions)+len(transcodeExtensions))
	for ext := range nativeExtensions {
		formats = append(formats, strings.TrimPrefix(ext, "."))
	}
	for ext := range transcodeExtensions {
		formats = append(formats, strings.TrimPrefix(ext, "."))
	}
	slices.Sort(formats)
	return formats
}

// Loader decodes audio files to mono buffers at a fixed sample rate.
type Loader struct {
	sampleRate int
	transcoder Transcoder

	// Injectable dependencies (defaults to OS implementations).
	statter fileStatter
	tempDir tempDirCreator
	dirs    dirManager
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTranscoder sets the capability used for non-native inputs.
// Without one, only integer PCM WAV files can be loaded.
func WithTranscoder(t Transcoder) LoaderOption {
	return func(l *Loader) {
		l.transcoder = t
	}
}

// WithLoaderFileStatter sets the file statter for Loader.
func WithLoaderFileStatter(s fileStatter) LoaderOption {
	return func(l *Loader) {
		l.statter = s
	}
}

// WithLoaderTempDir sets the temp directory creator for Loader.
func WithLoaderTempDir(t tempDirCreator) LoaderOption {
	return func(l *Loader) {
		l.tempDir = t
	}
}

// NewLoader creates a Loader producing buffers at sampleRate.
func NewLoader(sampleRate int, opts ...LoaderOption) (*Loader, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	l := &Loader{
		sampleRate: sampleRate,
		statter:    osFileStatter{},
		tempDir:    osTempDirCreator{},
		dirs:       osDirManager{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Load decodes path into a mono buffer resampled to the loader's rate.
// Integer PCM WAV is decoded directly; everything else goes through the
// Transcoder into a private temp directory that is removed before returning.
func (l *Loader) Load(ctx context.Context, path string) (Buffer, error) {
	info, err := l.statter.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Buffer{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Buffer{}, fmt.Errorf("%w: cannot access %s: %v", ErrIO, path, err)
	}
	if info.IsDir() {
		return Buffer{}, fmt.Errorf("%w: %s is a directory", ErrIO, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case nativeExtensions[ext]:
		buf, err := l.loadWAV(path)
		if !errors.Is(err, errNotNativeWAV) {
			return buf, err
		}
		// Float or compressed WAV: fall through to transcoding.
	case transcodeExtensions[ext]:
	default:
		return Buffer{}, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedFormat, ext, strings.Join(SupportedFormats(), ", "))
	}

	return l.loadTranscoded(ctx, path)
}

// loadTranscoded converts path to WAV in a temp directory and decodes it.
func (l *Loader) loadTranscoded(ctx context.Context, path string) (Buffer, error) {
	if l.transcoder == nil {
		return Buffer{}, fmt.Errorf("%w: %s needs transcoding and no transcoder is configured",
			ErrUnsupportedFormat, path)
	}

	workDir, err := l.tempDir.MkdirTemp("", "voicechunk-*")
	if err != nil {
		return Buffer{}, fmt.Errorf("%w: create temp directory: %v", ErrIO, err)
	}
	defer func() { _ = l.dirs.RemoveAll(workDir) }() // best-effort cleanup

	converted, err := l.transcoder.Transcode(ctx, path, workDir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Buffer{}, ctxErr
		}
		return Buffer{}, fmt.Errorf("%w: transcode %s: %w", ErrUnsupportedFormat, path, err)
	}

	buf, err := l.loadWAV(converted)
	if errors.Is(err, errNotNativeWAV) {
		return Buffer{}, fmt.Errorf("%w: transcoded output for %s is not pcm wav", ErrUnsupportedFormat, path)
	}
	return buf, err
}

// loadWAV decodes path and converts it to the loader's rate.
func (l *Loader) loadWAV(path string) (Buffer, error) {
	data, err := readWAVFile(path)
	if err != nil {
		return Buffer{}, err
	}
	buf := data.mono()
	return Buffer{
		Samples:    Resample(buf.Samples, buf.SampleRate, l.sampleRate),
		SampleRate: l.sampleRate,
	}, nil
}
