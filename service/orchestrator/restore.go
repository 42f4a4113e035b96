package orchestrator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

type fileSnapshot struct {
	path    string
	data    []byte
	mode    fs.FileMode
	existed bool
}

// snapshotFiles records the current content of paths. The returned func puts
// every file back, removing the ones that did not exist.
func snapshotFiles(paths ...string) (func() error, error) {
	snaps := make([]fileSnapshot, 0, len(paths))
	for _, p := range paths {
		snap := fileSnapshot{path: p}
		info, err := os.Stat(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		default:
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", p, err)
			}
			snap.data, snap.mode, snap.existed = data, info.Mode().Perm(), true
		}
		snaps = append(snaps, snap)
	}

	return func() error {
		var errs []error
		for _, snap := range snaps {
			if !snap.existed {
				if err := os.Remove(snap.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
					errs = append(errs, err)
				}
				continue
			}
			if err := os.WriteFile(snap.path, snap.data, snap.mode); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}, nil
}
