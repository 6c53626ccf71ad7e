package fsq

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// MoveFile moves src into dstDir keeping its base name and returns the new
// path. A rename across filesystems falls back to copy and remove.
func MoveFile(src, dstDir string) (string, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(dstDir, filepath.Base(src))
	if err := os.Rename(src, dst); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return "", err
		}
		if err := copyFile(src, dst); err != nil {
			return "", fmt.Errorf("copy %s: different filesystems: %w", src, err)
		}
		if err := os.Remove(src); err != nil {
			return "", fmt.Errorf("remove %s after copy: %w", src, err)
		}
	}
	if err := SyncDir(dstDir); err != nil {
		return "", err
	}
	if err := SyncDir(filepath.Dir(src)); err != nil && !os.IsNotExist(err) {
		return "", err
	}
	return dst, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()
	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
