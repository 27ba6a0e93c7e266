package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alnah/voicechunk/internal/audio"
	"github.com/alnah/voicechunk/internal/pipeline"
)

// combineOptions holds the combine flags.
type combineOptions struct {
	output     string
	manifest   string
	sampleRate int
	force      bool
}

// CombineCmd creates the combine command.
// The env parameter provides injectable dependencies for testing.
func CombineCmd(env *Env) *cobra.Command {
	var opts combineOptions

	cmd := &cobra.Command{
		Use:   "combine [chunk.wav...]",
		Short: "Join chunk files into one recording",
		Long: `Join 16-bit PCM WAV chunks into one file, in the order given.

Samples are appended as-is: no resampling, padding or cross-fade. Every chunk
must share the sample rate and channel count of the first one (or of
--sample-rate when set).

With --manifest, the chunk list is read from a split manifest and paths are
resolved next to it.`,
		Example: `  voicechunk combine chunk_00000000.wav chunk_00000001.wav -o joined.wav
  voicechunk combine --manifest talk_chunks/manifest.yaml -o talk_clean.wav`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombine(env, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Combined WAV file")
	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "Read the chunk list from a split manifest")
	cmd.Flags().IntVar(&opts.sampleRate, "sample-rate", 0, "Expected sample rate (default: from the first chunk)")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite the output file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// runCombine handles the "combine" command.
func runCombine(env *Env, args []string, opts combineOptions) error {
	paths := args
	sampleRate := opts.sampleRate

	switch {
	case opts.manifest != "" && len(args) > 0:
		return errors.New("give chunk files or --manifest, not both")
	case opts.manifest != "":
		m, err := pipeline.ReadManifest(opts.manifest)
		if err != nil {
			return err
		}
		paths = m.ChunkPaths(filepath.Dir(opts.manifest))
		if sampleRate == 0 {
			sampleRate = m.SampleRate
		}
	case len(args) == 0:
		return errors.New("requires at least 1 arg(s), or --manifest")
	}

	if err := checkOutputFile(opts.output, opts.force); err != nil {
		return err
	}

	if err := audio.Combine(paths, opts.output, sampleRate); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(env.Stderr, "Combined %d chunks: %s (%s)\n",
		len(paths), opts.output, fileSizeLabel(opts.output))
	return nil
}
