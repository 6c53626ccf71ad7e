//go:build darwin || linux

package lock

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrLocked is returned by TryExclusiveFileLock when another process holds the lock.
var ErrLocked = errors.New("lock held by another process")

// WithExclusiveFileLock runs fn while holding an exclusive advisory lock on
// lockPath, blocking until the lock is available. The lock is released when
// fn returns.
func WithExclusiveFileLock(lockPath string, fn func() error) error {
	return withFlock(lockPath, unix.LOCK_EX, fn)
}

// TryExclusiveFileLock is like WithExclusiveFileLock but fails with ErrLocked
// instead of waiting.
func TryExclusiveFileLock(lockPath string, fn func() error) error {
	return withFlock(lockPath, unix.LOCK_EX|unix.LOCK_NB, fn)
}

func withFlock(lockPath string, how int, fn func() error) error {
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := unix.Flock(int(f.Fd()), how); err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = unix.Flock(int(f.Fd()), unix.LOCK_UN) }()

	return fn()
}
