package diskusage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSystem is the filesystem access a Node needs to measure itself.
type FileSystem interface {
	// ListEntries returns the full paths of the immediate entries of a directory.
	// It fails if path is not a readable directory.
	ListEntries(path string) ([]string, error)
	// Length returns the size in bytes reported for path.
	Length(path string) (int64, error)
	// Canonicalize returns the absolute, symlink-resolved form of path.
	Canonicalize(path string) (string, error)
	// IsDir reports whether path is a directory, following symlinks.
	IsDir(path string) (bool, error)
}

// osFileSystem implements FileSystem on top of the operating system.
type osFileSystem struct{}

// OS returns the FileSystem backed by the operating system.
func OS() FileSystem {
	return osFileSystem{}
}

// ListEntries lists path with os.ReadDir, so entries come back sorted by name.
func (osFileSystem) ListEntries(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, filepath.Join(path, entry.Name()))
	}

	return paths, nil
}

func (osFileSystem) Length(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

func (osFileSystem) Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	return filepath.EvalSymlinks(abs)
}

func (osFileSystem) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return info.IsDir(), nil
}
