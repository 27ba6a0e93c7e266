package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/voicechunk/internal/audio"
	"github.com/alnah/voicechunk/internal/pipeline"
)

// writeChunk writes a 16 kHz mono chunk of n samples at level into dir.
func writeChunk(t *testing.T, dir string, index, n int, level float32) string {
	t.Helper()
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = level
	}
	path := filepath.Join(dir, audio.ChunkFileName(index))
	if err := audio.WriteWAV(path, audio.Buffer{Samples: samples, SampleRate: 16000}); err != nil {
		t.Fatalf("failed to write chunk: %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// combine - Explicit chunk list
// ---------------------------------------------------------------------------

func TestCombine_ChunkArgs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeChunk(t, dir, 0, 1600, 0.25)
	second := writeChunk(t, dir, 1, 800, -0.25)
	out := filepath.Join(dir, "joined", "talk.wav")

	stderr := &syncBuffer{}
	env, _ := testEnv(withTestStderr(stderr))

	if err := execute(CombineCmd(env), first, second, "-o", out); err != nil {
		t.Fatalf("combine error = %v", err)
	}

	buf, err := audio.ReadWAV(out)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2400 || buf.SampleRate != 16000 {
		t.Errorf("combined = %d samples at %d Hz, want 2400 at 16000", buf.Len(), buf.SampleRate)
	}
	if buf.Samples[0] <= 0 || buf.Samples[2399] >= 0 {
		t.Error("chunks not appended in argument order")
	}
	if !strings.Contains(stderr.String(), "Combined 2 chunks: "+out) {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestCombine_RateMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	chunk := writeChunk(t, dir, 0, 160, 0.1)

	env, _ := testEnv()
	err := execute(CombineCmd(env), chunk, "-o", filepath.Join(dir, "out.wav"), "--sample-rate", "8000")
	if !errors.Is(err, audio.ErrFormatMismatch) {
		t.Errorf("combine error = %v, want ErrFormatMismatch", err)
	}
}

// ---------------------------------------------------------------------------
// combine - Manifest
// ---------------------------------------------------------------------------

func TestCombine_Manifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeChunk(t, dir, 0, 320, 0.5)
	writeChunk(t, dir, 1, 480, 0.5)
	manifest := filepath.Join(dir, pipeline.ManifestFileName)
	err := pipeline.WriteManifest(manifest, pipeline.Manifest{
		Input:      "talk.wav",
		SampleRate: 16000,
		Chunks: []pipeline.ManifestChunk{
			{Index: 0, File: audio.ChunkFileName(0), StartSample: 0, EndSample: 320},
			{Index: 1, File: audio.ChunkFileName(1), StartSample: 400, EndSample: 880},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "clean.wav")

	env, _ := testEnv()
	if err := execute(CombineCmd(env), "--manifest", manifest, "-o", out); err != nil {
		t.Fatalf("combine error = %v", err)
	}

	buf, err := audio.ReadWAV(out)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 800 {
		t.Errorf("combined = %d samples, want 800", buf.Len())
	}
}

func TestCombine_EmptyManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := filepath.Join(dir, pipeline.ManifestFileName)
	if err := pipeline.WriteManifest(manifest, pipeline.Manifest{SampleRate: 8000}); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "empty.wav")

	env, _ := testEnv()
	if err := execute(CombineCmd(env), "-m", manifest, "-o", out); err != nil {
		t.Fatalf("combine error = %v", err)
	}

	buf, err := audio.ReadWAV(out)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 || buf.SampleRate != 8000 {
		t.Errorf("combined = %d samples at %d Hz, want empty at 8000", buf.Len(), buf.SampleRate)
	}
}

// ---------------------------------------------------------------------------
// combine - Argument and overwrite errors
// ---------------------------------------------------------------------------

func TestCombine_ArgumentErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	chunk := writeChunk(t, dir, 0, 160, 0.1)
	out := filepath.Join(dir, "out.wav")

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"no chunks", []string{"-o", out}, "requires at least 1 arg(s)"},
		{"chunks and manifest", []string{chunk, "-m", filepath.Join(dir, "manifest.yaml"), "-o", out}, "not both"},
		{"missing output flag", []string{chunk}, `required flag(s) "output" not set`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _ := testEnv()
			err := execute(CombineCmd(env), tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("combine %v error = %v, want containing %q", tt.args, err, tt.wantMsg)
			}
		})
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output written despite argument errors")
	}
}

func TestCombine_MissingManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, _ := testEnv()
	err := execute(CombineCmd(env), "-m", filepath.Join(dir, "manifest.yaml"), "-o", filepath.Join(dir, "out.wav"))
	if !errors.Is(err, pipeline.ErrManifest) {
		t.Errorf("combine error = %v, want ErrManifest", err)
	}
}

func TestCombine_Overwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	chunk := writeChunk(t, dir, 0, 160, 0.1)
	out := filepath.Join(dir, "out.wav")
	if err := os.WriteFile(out, []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}

	env, _ := testEnv()
	if err := execute(CombineCmd(env), chunk, "-o", out); !errors.Is(err, ErrOutputExists) {
		t.Fatalf("combine error = %v, want ErrOutputExists", err)
	}
	if data, _ := os.ReadFile(out); string(data) != "keep" {
		t.Error("existing output overwritten without --force")
	}

	if err := execute(CombineCmd(env), chunk, "-o", out, "--force"); err != nil {
		t.Fatalf("combine --force error = %v", err)
	}
	if buf, err := audio.ReadWAV(out); err != nil || buf.Len() != 160 {
		t.Errorf("forced output = %d samples, err %v", buf.Len(), err)
	}
}
