package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the output directory while a batch runs.
const LockFileName = ".shrinkwrap.lock"

// ErrLocked is returned when another batch holds the output directory.
var ErrLocked = errors.New("output directory is in use by another shrinkwrap run")

// dirLock is an advisory lock on an output directory.
type dirLock struct {
	fl *flock.Flock
}

// lockDir takes a non-blocking exclusive lock on dir.
func lockDir(dir string) (*dirLock, error) {
	fl := flock.New(filepath.Join(dir, LockFileName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return &dirLock{fl: fl}, nil
}

// release unlocks and removes the lock file.
func (l *dirLock) release() error {
	if err := l.fl.Unlock(); err != nil {
		return err
	}
	if err := os.Remove(l.fl.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
