package denoise

import (
	"context"
	"os"
)

// commandRunner executes FFmpeg. *ffmpeg.Executor satisfies it.
type commandRunner interface {
	Run(ctx context.Context, ffmpegPath string, args []string) error
}

// fileOps covers the filesystem calls of the temp-file-then-rename write.
type fileOps interface {
	Stat(name string) (os.FileInfo, error)
	CreateTemp(dir, pattern string) (*os.File, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// osFileOps implements fileOps using the os package.
type osFileOps struct{}

func (osFileOps) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (osFileOps) CreateTemp(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

func (osFileOps) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (osFileOps) Remove(name string) error {
	return os.Remove(name)
}
