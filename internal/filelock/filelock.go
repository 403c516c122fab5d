// Package filelock provides advisory file locking so concurrent marketboard
// processes do not allocate the same task ID or interleave task writes.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"
)

const lockFileMode = 0o600

// BoardLockName is the lock file kept in every board directory.
const BoardLockName = ".lock"

// Lock acquires an exclusive advisory lock on the file at path, creating it
// if needed. Other callers block until the returned unlock is called.
func Lock(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("locking %s: %w", filepath.Base(path), err)
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// WithBoard runs fn while holding the board lock in boardDir. The error
// from fn takes precedence over an unlock error.
func WithBoard(boardDir string, fn func() error) (err error) {
	unlock, err := Lock(filepath.Join(boardDir, BoardLockName))
	if err != nil {
		return err
	}
	defer func() {
		if uerr := unlock(); err == nil && uerr != nil {
			err = fmt.Errorf("releasing board lock: %w", uerr)
		}
	}()
	return fn()
}
