//go:build !darwin && !linux

package lock

import "errors"

// ErrLocked is returned by TryExclusiveFileLock when another process holds the lock.
var ErrLocked = errors.New("lock held by another process")

// WithExclusiveFileLock is a best-effort no-op on platforms without flock.
func WithExclusiveFileLock(_ string, fn func() error) error {
	return fn()
}

// TryExclusiveFileLock is a best-effort no-op on platforms without flock.
func TryExclusiveFileLock(_ string, fn func() error) error {
	return fn()
}
