package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/voicechunk/internal/format"
	"github.com/alnah/voicechunk/internal/pipeline"
)

// newLogger returns a text logger on w. Only warnings are shown unless
// verbose is set, which enables debug output.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// printSplitSummary writes the chunk list and totals of res to w.
func printSplitSummary(w io.Writer, res pipeline.Result) {
	if res.Empty() {
		_, _ = fmt.Fprintln(w, "No voiced audio long enough for a chunk; wrote an empty combined file")
	} else {
		for _, c := range res.Chunks {
			_, _ = fmt.Fprintf(w, "  %s\n", c)
		}
		_, _ = fmt.Fprintf(w, "Kept %s of %s in %d chunks (%s voiced)\n",
			format.Duration(res.VoicedDuration), format.Duration(res.InputDuration), len(res.Chunks),
			format.Percent(res.VoicedDuration, res.InputDuration))
	}

	if n := res.DenoiseFailures(); n > 0 {
		_, _ = fmt.Fprintf(w, "Warning: noise suppression failed for %d of %d chunks; originals kept\n",
			n, len(res.Denoise))
	}
	_, _ = fmt.Fprintf(w, "Done: %s (%s)\n", res.CombinedPath, fileSizeLabel(res.CombinedPath))
}

// fileSizeLabel returns the human size of path, or "unknown size".
func fileSizeLabel(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown size"
	}
	return format.Size(info.Size())
}

// checkOutputFile fails with ErrOutputExists when path exists and overwrite
// is not allowed, and makes sure the parent directory exists.
func checkOutputFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrOutputExists, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cannot access output file: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil { // #nosec G301 -- user output dir
		return fmt.Errorf("cannot create output directory: %w", err)
	}
	return nil
}
