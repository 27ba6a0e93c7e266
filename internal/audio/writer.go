package audio

import (
	"context"
	"fmt"
	"path/filepath"
)

// dirPerm is the mode for created output directories.
const dirPerm = 0o750

// Writer persists chunks as 16-bit PCM mono WAV files.
type Writer struct {
	dir  string
	dirs dirManager
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWriterDirManager sets the directory manager for Writer.
func WithWriterDirManager(d dirManager) WriterOption {
	return func(w *Writer) {
		w.dirs = d
	}
}

// NewWriter creates a Writer that writes into dir.
func NewWriter(dir string, opts ...WriterOption) *Writer {
	w := &Writer{
		dir:  dir,
		dirs: osDirManager{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// PrepareDir removes the output directory and everything in it, then
// recreates it empty. Running twice in a row yields the same empty directory.
func (w *Writer) PrepareDir() error {
	if err := w.dirs.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("%w: reset %s: %v", ErrIO, w.dir, err)
	}
	if err := w.dirs.MkdirAll(w.dir, dirPerm); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIO, w.dir, err)
	}
	return nil
}

// WriteChunks writes every chunk to <dir>/chunk_NNNNNNNN.wav in order.
// Each chunk's Path is set and its Samples released after a successful write.
// The first failure aborts the remaining writes.
func (w *Writer) WriteChunks(ctx context.Context, chunks []Chunk) error {
	for i := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := &chunks[i]
		path := filepath.Join(w.dir, ChunkFileName(c.Index))
		if err := WriteWAV(path, Buffer{Samples: c.Samples, SampleRate: c.SampleRate}); err != nil {
			return fmt.Errorf("write chunk %d: %w", c.Index, err)
		}
		c.Path = path
		c.Samples = nil
	}
	return nil
}
