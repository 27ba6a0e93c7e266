package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/voicechunk/internal/audio"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	ffmpegResolver *mockFFmpegResolver
	configLoader   *mockConfigLoader
	classifiers    *mockClassifierFactory
	suppressors    *mockSuppressorFactory
	transcoders    *mockTranscoderFactory
}

func newTestMocks() *testMocks {
	return &testMocks{
		ffmpegResolver: &mockFFmpegResolver{},
		configLoader:   &mockConfigLoader{},
		classifiers:    &mockClassifierFactory{},
		suppressors:    &mockSuppressorFactory{},
		transcoders:    &mockTranscoderFactory{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	now    func() time.Time
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

func withTestStderr(w io.Writer) testEnvOption {
	return func(o *testEnvOptions) { o.stderr = w }
}

func withTestMocks(m *testMocks) testEnvOption {
	return func(o *testEnvOptions) { o.mocks = m }
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		getenv: staticEnv(nil),
		now: func() time.Time {
			return time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)
		},
		mocks: newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	env := &Env{
		Stdout:            options.stdout,
		Stderr:            options.stderr,
		Getenv:            options.getenv,
		Now:               options.now,
		FFmpegResolver:    options.mocks.ffmpegResolver,
		ConfigLoader:      options.mocks.configLoader,
		ClassifierFactory: options.mocks.classifiers,
		SuppressorFactory: options.mocks.suppressors,
		TranscoderFactory: options.mocks.transcoders,
	}

	return env, options.mocks
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// execute runs cmd with args under a background context.
func execute(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.ExecuteContext(context.Background())
}

// writeSpeechWAV writes a 16 kHz mono WAV of seconds tone, one second of
// silence, and seconds tone again. Returns the path.
func writeSpeechWAV(t *testing.T, dir string, seconds int) string {
	t.Helper()
	const rate = 16000
	n := (2*seconds + 1) * rate
	samples := make([]float32, n)
	for i := range samples {
		if i < seconds*rate || i >= (seconds+1)*rate {
			samples[i] = 0.5
		}
	}
	path := filepath.Join(dir, "talk.wav")
	if err := audio.WriteWAV(path, audio.Buffer{Samples: samples, SampleRate: rate}); err != nil {
		t.Fatalf("failed to write test WAV: %v", err)
	}
	return path
}
