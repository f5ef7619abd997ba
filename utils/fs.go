package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDirMode is used for directories created by EnsureDirectory.
const DefaultDirMode os.FileMode = 0o0700

// EnsureDirectory ensures that the given directory exists, creating it and
// all missing parents with the given permissions.
// If path exists and is not a directory, an error is returned.
func EnsureDirectory(path string, perm os.FileMode) error {
	f, err := os.Stat(path)
	switch {
	case err == nil && f.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("could not create dir %s: a file is in the way", path)
	case !os.IsNotExist(err):
		// something happened that we cannot handle
		return fmt.Errorf("failed to access %s: %w", path, err)
	}

	err = os.MkdirAll(path, perm)
	if err != nil {
		return fmt.Errorf("could not create dir %s: %w", path, err)
	}
	return nil
}

// EnsureParent ensures that the directory containing path exists.
func EnsureParent(path string) error {
	return EnsureDirectory(filepath.Dir(path), DefaultDirMode)
}
