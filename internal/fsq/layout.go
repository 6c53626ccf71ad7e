package fsq

import (
	"os"
	"path/filepath"
)

// Fixed names inside an export root.
const (
	InputName  = "result.json"
	OutputName = "output"
	PhotosName = "photos"
	LockName   = ".chatsplit.lock"
)

func InputPath(root string) string {
	return filepath.Join(root, InputName)
}

func OutputDir(root string) string {
	return filepath.Join(root, OutputName)
}

func PhotosDir(root string) string {
	return filepath.Join(root, PhotosName)
}

// LockPath lives under output/ so the export folder itself stays untouched.
func LockPath(root string) string {
	return filepath.Join(root, OutputName, LockName)
}

// BucketDir returns <root>/output/<name>.
func BucketDir(root, name string) string {
	return filepath.Join(root, OutputName, name)
}

// BucketFile returns <root>/output/<name>/<name>.json.
func BucketFile(root, name string) string {
	return filepath.Join(root, OutputName, name, name+".json")
}

func EnsureOutputDir(root string) error {
	return os.MkdirAll(OutputDir(root), 0o755)
}

// ResetDir removes dir and everything below it, then recreates it empty.
// Stale content from an earlier run is discarded rather than merged.
func ResetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return SyncDir(filepath.Dir(dir))
}

// RemoveTree deletes dir recursively if it exists and is a directory.
// It reports whether anything was removed.
func RemoveTree(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, err
	}
	return true, SyncDir(filepath.Dir(dir))
}
