//go:build windows

package fsq

// SyncDir is a no-op on Windows, where directories cannot be opened for fsync.
func SyncDir(string) error {
	return nil
}
