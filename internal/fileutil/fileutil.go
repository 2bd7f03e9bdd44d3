// Package fileutil writes bundle outputs to the local filesystem.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadableByAll is the file permission mode for bundles and fragments,
// which are meant to be read by editors, servers and other users.
const ReadableByAll os.FileMode = 0o644

// DirMode is the permission mode for created directories.
const DirMode os.FileMode = 0o755

// SanitizeOutputPath validates and cleans an output file path.
// It resolves ".." components via filepath.Clean + filepath.Abs and
// rejects paths that resolve to symlinks. New files in existing or
// missing directories are accepted. Returns the cleaned absolute path.
func SanitizeOutputPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("fileutil: empty output path")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("fileutil: cannot resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("fileutil: refusing to write to symlink: %s", abs)
		}
		if info.IsDir() {
			return "", fmt.Errorf("fileutil: output path is a directory: %s", abs)
		}
	case os.IsNotExist(err):
		// New file.
	default:
		return "", fmt.Errorf("fileutil: cannot stat path: %w", err)
	}

	return abs, nil
}

// WriteOutput sanitizes path, creates its parent directories and writes
// data to it. It returns the absolute path written.
func WriteOutput(path string, data []byte) (string, error) {
	abs, err := SanitizeOutputPath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), DirMode); err != nil {
		return "", fmt.Errorf("fileutil: %w", err)
	}
	if err := os.WriteFile(abs, data, ReadableByAll); err != nil { //nolint:gosec // G306: outputs are meant to be readable
		return "", fmt.Errorf("fileutil: %w", err)
	}
	return abs, nil
}
