// Package locker serializes pipeline runs with an advisory file lock. The
// lock is tied to the process: the OS releases it on any exit, so a crashed
// run never wedges the pipeline.
package locker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrContended indicates another pipeline run currently holds the lock.
var ErrContended = errors.New("pipeline lock held by another process")

// Lock guards the pipeline against overlapping scheduler firings.
type Lock struct {
	path  string
	flock *flock.Flock
}

// New constructs a lock for the given path without acquiring it.
func New(path string) *Lock {
	return &Lock{path: path, flock: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire attempts to take the exclusive lock without blocking. It returns
// ErrContended when another process holds it.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrContended
	}
	return nil
}

// Release drops the lock on a normal exit. Abnormal exits rely on the
// process-lifetime semantics of the underlying flock.
func (l *Lock) Release() error {
	return l.flock.Unlock()
}
