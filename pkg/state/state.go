package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	PathsVar Paths
	initOnce sync.Once
	initErr  error
)

// Init resolves the viewer root (default "./.feedview"), publishes the
// canonical Paths and ensures the directory layout exists. Safe to call
// more than once; only the first root wins.
func Init(root string) error {
	initOnce.Do(func() {
		path := strings.TrimSpace(root)
		if path == "" {
			path = "./.feedview"
		}
		path = filepath.Clean(path)
		PathsVar = PathsFor(path)
		initErr = EnsureStateDirs(path)
	})
	return initErr
}

// EnsureStateDirs ensures the canonical runtime folder layout exists under
// the provided viewer root. It verifies paths are not symlinks and have
// restrictive permissions, and that they are writable by the process.
func EnsureStateDirs(root string) error {
	snapshotPath := filepath.Join(root, "snapshot")
	statePath := filepath.Join(root, "state")
	logsPath := filepath.Join(statePath, "logs")
	reportPath := filepath.Join(statePath, "report")
	tmpPath := filepath.Join(statePath, "tmp")

	paths := []string{snapshotPath, logsPath, reportPath, tmpPath}

	for _, p := range paths {
		// ensure parent exists
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return fmt.Errorf("cannot create parent for %s: %w", p, err)
		}

		// if path exists, reject symlinks and non-directories
		if fi, err := os.Lstat(p); err == nil {
			if fi.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("path is a symlink: %s", p)
			}
			if !fi.IsDir() {
				return fmt.Errorf("path exists and is not a directory: %s", p)
			}
			if fi.Mode().Perm()&0o022 != 0 {
				return fmt.Errorf("path has permissive mode (group/other write): %s", p)
			}
		}

		// create directory if missing
		if err := os.MkdirAll(p, 0o700); err != nil {
			return fmt.Errorf("cannot create path %s: %w", p, err)
		}

		// double-check no symlink after creation
		if fi2, err := os.Lstat(p); err == nil {
			if fi2.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("path is a symlink after creation: %s", p)
			}
			if fi2.Mode().Perm()&0o022 != 0 {
				return fmt.Errorf("path has permissive mode after creation: %s", p)
			}
		}

		// writability check: create and remove a temp file
		tmp, err := os.CreateTemp(p, ".validate-*")
		if err != nil {
			return fmt.Errorf("path not writable: %s: %w", p, err)
		}
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	return nil
}
