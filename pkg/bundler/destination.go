package bundler

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joshua-decoder/joshua-bundle/pkg/errors"
)

// DirPerm is the mode of the bundle directory.
const DirPerm os.FileMode = 0755

// PrepareDestination creates an empty bundle directory at destDir.
//
// If destDir exists and overwrite is false, an ErrCodeAlreadyExists error is
// returned and nothing is touched. If overwrite is true, the existing tree is
// removed first.
func PrepareDestination(destDir string, overwrite bool) error {
	info, err := os.Lstat(destDir)
	switch {
	case err == nil:
		if !overwrite {
			return errors.WrapWithContext(errors.ErrCodeAlreadyExists,
				fmt.Sprintf("destination %s already exists", destDir), nil,
				map[string]any{"path": destDir})
		}
		slog.Debug("removing existing destination", "path", destDir)
		if info.IsDir() {
			err = ClearDir(destDir)
		} else {
			err = os.Remove(destDir)
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to remove existing destination", err)
		}
	case os.IsNotExist(err):
	default:
		return errors.Wrap(errors.ErrCodeInternal, "failed to inspect destination", err)
	}

	if err := os.Mkdir(destDir, DirPerm); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create destination "+destDir, err)
	}
	return nil
}

// ClearDir removes dir and everything below it, deepest entries first, so
// every directory is empty by the time it is removed. Symbolic links are
// removed, never followed.
func ClearDir(dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	// WalkDir visits parents before children, so reverse order is bottom-up.
	for i := len(paths) - 1; i >= 0; i-- {
		if err := os.Remove(paths[i]); err != nil {
			return fmt.Errorf("failed to remove %s: %w", paths[i], err)
		}
	}
	return nil
}
