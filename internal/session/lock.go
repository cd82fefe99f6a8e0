package session

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked indicates another merge currently holds the session output directory.
var ErrLocked = errors.New("session output is locked by another merge")

const lockFileName = ".vidmerge.lock"

// Lock is an exclusive advisory lock on a session output directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the output directory lock without blocking. The directory
// must already exist.
func AcquireLock(o Output) (*Lock, error) {
	path := filepath.Join(o.Dir, lockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. The lock file is left in place.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}
