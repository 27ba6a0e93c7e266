package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

const (
	// binaryName is the base name of the ffmpeg binary.
	binaryName = "ffmpeg"

	// envFFmpegPath overrides PATH lookup.
	envFFmpegPath = "FFMPEG_PATH"

	// minFFmpegMajor is the oldest supported major version.
	// The arnndn filter needs 4.3 or later.
	minFFmpegMajor = 4
)

// Resolver finds the FFmpeg binary.
type Resolver struct {
	statter fileStatter
	env     envProvider
	goos    string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFileStatter sets the file statter implementation.
func WithFileStatter(s fileStatter) ResolverOption {
	return func(r *Resolver) { r.statter = s }
}

// WithEnvProvider sets the environment provider implementation.
func WithEnvProvider(e envProvider) ResolverOption {
	return func(r *Resolver) { r.env = e }
}

// WithPlatform sets the target OS used for install instructions.
func WithPlatform(goos string) ResolverOption {
	return func(r *Resolver) { r.goos = goos }
}

// NewResolver creates a Resolver with the given options.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		statter: osFileStatter{},
		env:     osEnvProvider{},
		goos:    runtime.GOOS,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds ffmpeg using the following precedence:
//  1. FFMPEG_PATH environment variable (error if set but missing)
//  2. System PATH
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if envPath := r.env.Getenv(envFFmpegPath); envPath != "" {
		if _, err := r.statter.Stat(envPath); err != nil {
			return "", fmt.Errorf("%w: %s is set to %q but the binary does not exist",
				ErrNotFound, envFFmpegPath, envPath)
		}
		return envPath, nil
	}

	if path, err := r.env.LookPath(binaryName); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w: not on PATH\n\n%s", ErrNotFound, r.installInstructions())
}

// installInstructions returns platform-specific install hints.
func (r *Resolver) installInstructions() string {
	var b strings.Builder
	b.WriteString("To install FFmpeg:\n")
	switch r.goos {
	case "darwin":
		b.WriteString("  brew install ffmpeg\n")
	case "linux":
		b.WriteString("  Ubuntu/Debian: sudo apt install ffmpeg\n")
		b.WriteString("  Fedora:        sudo dnf install ffmpeg\n")
		b.WriteString("  Arch:          sudo pacman -S ffmpeg\n")
	case "windows":
		b.WriteString("  winget install ffmpeg\n")
	default:
		b.WriteString("  download from https://ffmpeg.org/download.html\n")
	}
	b.WriteString("\nOr set FFMPEG_PATH to your ffmpeg binary.")
	return b.String()
}

// VersionChecker warns when FFmpeg is too old for the denoise filters.
type VersionChecker struct {
	executor *Executor
	stderr   io.Writer
}

// VersionCheckerOption configures a VersionChecker.
type VersionCheckerOption func(*VersionChecker)

// WithVersionExecutor sets the executor for running FFmpeg.
func WithVersionExecutor(e *Executor) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.executor = e }
}

// WithVersionStderr sets the writer for warning messages.
func WithVersionStderr(w io.Writer) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.stderr = w }
}

// NewVersionChecker creates a VersionChecker with the given options.
func NewVersionChecker(opts ...VersionCheckerOption) *VersionChecker {
	vc := &VersionChecker{
		executor: getDefaultExecutor(),
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(vc)
	}
	return vc
}

// Check prints a warning if ffmpeg is older than the minimum major version.
// It never fails; it returns false when the version could not be read.
func (vc *VersionChecker) Check(ctx context.Context, ffmpegPath string) bool {
	output, err := vc.executor.RunOutput(ctx, ffmpegPath, []string{"-version"})
	if err != nil && output == "" {
		return false
	}

	major, ok := parseMajorVersion(output)
	if !ok {
		return false
	}
	if major < minFFmpegMajor {
		fmt.Fprintf(vc.stderr, "Warning: ffmpeg version %d detected, version %d+ recommended for denoising\n",
			major, minFFmpegMajor)
	}
	return true
}

// parseMajorVersion reads the major version from "ffmpeg version 6.1.1 ..."
// or "ffmpeg version n6.1 ...".
func parseMajorVersion(output string) (int, bool) {
	first, _, _ := strings.Cut(output, "\n")
	var major int
	if _, err := fmt.Sscanf(first, "ffmpeg version %d", &major); err == nil {
		return major, true
	}
	if _, err := fmt.Sscanf(first, "ffmpeg version n%d", &major); err == nil {
		return major, true
	}
	return 0, false
}
