package cli

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alnah/voicechunk/internal/audio"
	"github.com/alnah/voicechunk/internal/config"
	"github.com/alnah/voicechunk/internal/denoise"
	"github.com/alnah/voicechunk/internal/vad"
)

// ---------------------------------------------------------------------------
// Mock FFmpegResolver
// ---------------------------------------------------------------------------

type mockFFmpegResolver struct {
	ResolveFunc      func(ctx context.Context) (string, error)
	CheckVersionFunc func(ctx context.Context, ffmpegPath string)

	mu                sync.Mutex
	resolveCalls      int
	checkVersionCalls int
}

func (m *mockFFmpegResolver) Resolve(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()

	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx)
	}
	return "/usr/bin/ffmpeg", nil
}

func (m *mockFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	m.mu.Lock()
	m.checkVersionCalls++
	m.mu.Unlock()

	if m.CheckVersionFunc != nil {
		m.CheckVersionFunc(ctx, ffmpegPath)
	}
}

func (m *mockFFmpegResolver) ResolveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveCalls
}

func (m *mockFFmpegResolver) CheckVersionCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkVersionCalls
}

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock ClassifierFactory + SegmentDetector
// ---------------------------------------------------------------------------

type frameClassifierCall struct {
	Name        string
	Sensitivity int
}

type mockClassifierFactory struct {
	NewFrameClassifierFunc func(name string, sensitivity int) (vad.FrameClassifier, error)
	NewSegmentDetectorFunc func(cfg vad.SileroConfig) (SegmentDetector, error)

	mu            sync.Mutex
	frameCalls    []frameClassifierCall
	detectorCalls []vad.SileroConfig
}

// NewFrameClassifier defaults to the deterministic energy classifier.
func (m *mockClassifierFactory) NewFrameClassifier(name string, sensitivity int) (vad.FrameClassifier, error) {
	m.mu.Lock()
	m.frameCalls = append(m.frameCalls, frameClassifierCall{Name: name, Sensitivity: sensitivity})
	m.mu.Unlock()

	if m.NewFrameClassifierFunc != nil {
		return m.NewFrameClassifierFunc(name, sensitivity)
	}
	return vad.NewEnergyClassifier(sensitivity)
}

func (m *mockClassifierFactory) NewSegmentDetector(cfg vad.SileroConfig) (SegmentDetector, error) {
	m.mu.Lock()
	m.detectorCalls = append(m.detectorCalls, cfg)
	m.mu.Unlock()

	if m.NewSegmentDetectorFunc != nil {
		return m.NewSegmentDetectorFunc(cfg)
	}
	return &mockSegmentDetector{}, nil
}

func (m *mockClassifierFactory) FrameCalls() []frameClassifierCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]frameClassifierCall(nil), m.frameCalls...)
}

func (m *mockClassifierFactory) DetectorCalls() []vad.SileroConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]vad.SileroConfig(nil), m.detectorCalls...)
}

type mockSegmentDetector struct {
	DetectFunc func(samples []float32, sampleRate int) ([]vad.Segment, error)

	mu         sync.Mutex
	closeCalls int
}

func (m *mockSegmentDetector) DetectSegments(samples []float32, sampleRate int) ([]vad.Segment, error) {
	if m.DetectFunc != nil {
		return m.DetectFunc(samples, sampleRate)
	}
	return nil, nil
}

func (m *mockSegmentDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	return nil
}

func (m *mockSegmentDetector) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

// ---------------------------------------------------------------------------
// Mock SuppressorFactory + Suppressor
// ---------------------------------------------------------------------------

type suppressorCall struct {
	FFmpegPath string
	ModelPath  string
	SampleRate int
}

type mockSuppressorFactory struct {
	NewSuppressorFunc func(ffmpegPath, modelPath string, sampleRate int) (denoise.Suppressor, error)

	mu         sync.Mutex
	calls      []suppressorCall
	suppressor *mockSuppressor
}

func (m *mockSuppressorFactory) NewSuppressor(ffmpegPath, modelPath string, sampleRate int) (denoise.Suppressor, error) {
	m.mu.Lock()
	m.calls = append(m.calls, suppressorCall{FFmpegPath: ffmpegPath, ModelPath: modelPath, SampleRate: sampleRate})
	if m.suppressor == nil {
		m.suppressor = &mockSuppressor{}
	}
	s := m.suppressor
	m.mu.Unlock()

	if m.NewSuppressorFunc != nil {
		return m.NewSuppressorFunc(ffmpegPath, modelPath, sampleRate)
	}
	return s, nil
}

func (m *mockSuppressorFactory) Calls() []suppressorCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]suppressorCall(nil), m.calls...)
}

// mockSuppressor leaves chunk files untouched unless SuppressFunc is set.
type mockSuppressor struct {
	SuppressFunc func(ctx context.Context, in, out string) error

	mu    sync.Mutex
	paths []string
}

func (m *mockSuppressor) Suppress(ctx context.Context, in, out string) error {
	m.mu.Lock()
	m.paths = append(m.paths, filepath.Base(in))
	m.mu.Unlock()

	if m.SuppressFunc != nil {
		return m.SuppressFunc(ctx, in, out)
	}
	return nil
}

func (m *mockSuppressor) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

// ---------------------------------------------------------------------------
// Mock TranscoderFactory + Transcoder
// ---------------------------------------------------------------------------

type mockTranscoderFactory struct {
	// Samples written by every transcoder, as 16-bit values.
	Samples []int

	mu          sync.Mutex
	ffmpegPaths []string
}

func (m *mockTranscoderFactory) NewTranscoder(ffmpegPath string, sampleRate int) audio.Transcoder {
	m.mu.Lock()
	m.ffmpegPaths = append(m.ffmpegPaths, ffmpegPath)
	m.mu.Unlock()
	return &mockTranscoder{samples: m.Samples, sampleRate: sampleRate}
}

func (m *mockTranscoderFactory) FFmpegPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ffmpegPaths...)
}

// mockTranscoder writes a mono WAV named after the input into workDir.
type mockTranscoder struct {
	samples    []int
	sampleRate int
}

func (m *mockTranscoder) Transcode(_ context.Context, inputPath, workDir string) (string, error) {
	base := filepath.Base(inputPath)
	out := filepath.Join(workDir, strings.TrimSuffix(base, filepath.Ext(base))+".wav")
	buf := audio.Buffer{SampleRate: m.sampleRate, Samples: make([]float32, len(m.samples))}
	for i, v := range m.samples {
		buf.Samples[i] = float32(v) / 32768
	}
	if err := audio.WriteWAV(out, buf); err != nil {
		return "", err
	}
	return out, nil
}
