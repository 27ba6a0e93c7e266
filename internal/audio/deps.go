package audio

import (
	"os"
)

// fileStatter retrieves file information.
type fileStatter interface {
	Stat(name string) (os.FileInfo, error)
}

// tempDirCreator creates temporary directories.
type tempDirCreator interface {
	MkdirTemp(dir, pattern string) (string, error)
}

// dirManager removes and creates directories.
type dirManager interface {
	RemoveAll(path string) error
	MkdirAll(path string, perm os.FileMode) error
}

// --- Default implementations using real OS functions ---

// osFileStatter implements fileStatter using os.Stat.
type osFileStatter struct{}

func (osFileStatter) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// osTempDirCreator implements tempDirCreator using os.MkdirTemp.
type osTempDirCreator struct{}

func (osTempDirCreator) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// osDirManager implements dirManager using os.RemoveAll and os.MkdirAll.
type osDirManager struct{}

func (osDirManager) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (osDirManager) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}
