package denoise

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/voicechunk/internal/audio"
)

// Outcome records the suppression result for one chunk.
type Outcome struct {
	Index int
	Path  string
	Err   error // nil when the chunk file was denoised in place.
}

// Denoised reports whether the chunk file now holds denoised audio.
func (o Outcome) Denoised() bool {
	return o.Err == nil
}

// SuppressAll denoises every written chunk file in place with at most
// parallel concurrent calls to s.
//
// A failing chunk is logged and left as written; the other chunks continue.
// Outcomes are indexed like chunks regardless of completion order. If ctx is
// cancelled, chunks not yet processed carry the context error.
func SuppressAll(ctx context.Context, s Suppressor, chunks []audio.Chunk, parallel int, logger *slog.Logger) []Outcome {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if parallel < 1 {
		parallel = 1
	}

	outcomes := make([]Outcome, len(chunks))
	for i, c := range chunks {
		outcomes[i] = Outcome{Index: c.Index, Path: c.Path}
	}
	if len(chunks) == 0 {
		return outcomes
	}

	// Semaphore channel for concurrency control.
	sem := make(chan struct{}, parallel)
	g, gctx := errgroup.WithContext(ctx)

	for i, chunk := range chunks {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				outcomes[i].Err = gctx.Err()
				return gctx.Err()
			}
			defer func() { <-sem }()

			// Both select cases may be ready; never start work after cancellation.
			if err := gctx.Err(); err != nil {
				outcomes[i].Err = err
				return err
			}

			if err := s.Suppress(gctx, chunk.Path, chunk.Path); err != nil {
				outcomes[i].Err = err
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("noise suppression failed, keeping original chunk",
					"chunk", chunk.Index,
					"file", filepath.Base(chunk.Path),
					"error", err)
				return nil
			}
			logger.Debug("chunk denoised", "chunk", chunk.Index, "file", filepath.Base(chunk.Path))
			return nil
		})
	}

	// Only cancellation is returned from the workers; it is already recorded.
	_ = g.Wait()
	return outcomes
}
