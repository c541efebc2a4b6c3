// Package flock provides an exclusive advisory file lock used to serialize
// the fetch-verify-install sequence across concurrent launcher invocations.
// Platforms without a lock primitive degrade to best-effort (callers ignore
// the error); the execute-only path never locks since rename is atomic.
package flock

import "os"

// Acquire opens (or creates) the lock file at path and blocks until the
// exclusive lock is held. It returns a release function that unlocks and
// closes the file; calling it more than once is safe.
func Acquire(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	released := false

	release := func() error {
		if released {
			return nil
		}

		released = true

		err := unlockFile(f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}

		return err
	}

	return release, nil
}
