package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName exists in the output directory only while an export runs.
const LockFileName = ".wnexport.lock"

// OutputLock keeps two wnexport runs from writing the same output directory.
type OutputLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewOutputLock creates a lock for dir. The lock file is <dir>/.wnexport.lock.
func NewOutputLock(dir string) *OutputLock {
	lockPath := filepath.Join(dir, LockFileName)
	return &OutputLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// TryLock attempts to acquire the lock without blocking.
// Returns false if another process holds it.
func (l *OutputLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if acquired {
		l.locked = true
	}
	return acquired, nil
}

// Unlock removes the lock file and releases the lock. Safe to call on an
// unlocked OutputLock.
func (l *OutputLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	// Removed while still held, so no other run can hold the unlinked file.
	_ = os.Remove(l.path)
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the path to the lock file.
func (l *OutputLock) Path() string {
	return l.path
}
