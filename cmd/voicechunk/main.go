package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/voicechunk/internal/audio"
	"github.com/alnah/voicechunk/internal/cli"
	"github.com/alnah/voicechunk/internal/config"
	"github.com/alnah/voicechunk/internal/denoise"
	"github.com/alnah/voicechunk/internal/ffmpeg"
	"github.com/alnah/voicechunk/internal/pipeline"
	"github.com/alnah/voicechunk/internal/vad"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitProcessing = 5
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()

	rootCmd := &cobra.Command{
		Use:     "voicechunk",
		Short:   "Cut speech recordings into voiced chunks",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.SplitCmd(env))
	rootCmd.AddCommand(cli.CombineCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup errors: a tool or model the run needs is missing.
	// Checked before validation because a missing FFmpeg surfaces wrapped
	// in ErrUnsupportedFormat.
	if errors.Is(err, ffmpeg.ErrNotFound) || errors.Is(err, vad.ErrBackendUnavailable) ||
		errors.Is(err, cli.ErrSileroModelMissing) || errors.Is(err, denoise.ErrModelNotFound) {
		return ExitSetup
	}

	if errors.Is(err, audio.ErrUnsupportedFormat) || errors.Is(err, audio.ErrFileNotFound) ||
		errors.Is(err, audio.ErrFormatMismatch) || errors.Is(err, audio.ErrInvalidInterval) ||
		errors.Is(err, pipeline.ErrInvalidConfig) || errors.Is(err, pipeline.ErrUnsafeOutputDir) ||
		errors.Is(err, vad.ErrInvalidFrame) || errors.Is(err, vad.ErrUnknownClassifier) ||
		errors.Is(err, vad.ErrInvalidSensitivity) || errors.Is(err, config.ErrUnknownKey) ||
		errors.Is(err, config.ErrInvalidValue) || errors.Is(err, cli.ErrOutputExists) {
		return ExitValidation
	}

	if errors.Is(err, audio.ErrIO) || errors.Is(err, pipeline.ErrManifest) ||
		errors.Is(err, vad.ErrClassifier) || errors.Is(err, ffmpeg.ErrFailed) ||
		errors.Is(err, denoise.ErrSuppress) {
		return ExitProcessing
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings of Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",          // Missing required flag
	"unknown flag",           // Flag doesn't exist
	"unknown shorthand",      // Short flag doesn't exist
	"unknown command",        // Subcommand doesn't exist
	"flag needs an argument", // Flag provided without value
	"invalid argument",       // Invalid flag value type
	"accepts ",               // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",      // Too few arguments
	"requires at most",       // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
