package fsq

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBucketPaths(t *testing.T) {
	root := filepath.Join("exports", "chat")
	name := "2021-01-01 - 2021-01-07"

	if got, want := BucketDir(root, name), filepath.Join(root, "output", name); got != want {
		t.Errorf("BucketDir = %q, want %q", got, want)
	}
	if got, want := BucketFile(root, name), filepath.Join(root, "output", name, name+".json"); got != want {
		t.Errorf("BucketFile = %q, want %q", got, want)
	}
	if got, want := LockPath(root), filepath.Join(root, "output", ".chatsplit.lock"); got != want {
		t.Errorf("LockPath = %q, want %q", got, want)
	}
}

func TestResetDirClobbersExisting(t *testing.T) {
	root := t.TempDir()
	dir := BucketDir(root, "2021-01-01 - 2021-01-07")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stale.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write stale: %v", err)
	}

	if err := ResetDir(dir); err != nil {
		t.Fatalf("ResetDir: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries", len(entries))
	}
}

func TestResetDirCreatesMissing(t *testing.T) {
	root := t.TempDir()
	dir := BucketDir(root, "2021-02-01 - 2021-02-01")
	if err := ResetDir(dir); err != nil {
		t.Fatalf("ResetDir: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected dir to exist: %v", err)
	}
}

func TestRemoveTree(t *testing.T) {
	root := t.TempDir()
	photos := PhotosDir(root)
	if err := os.MkdirAll(photos, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(photos, "left.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	removed, err := RemoveTree(photos)
	if err != nil {
		t.Fatalf("RemoveTree: %v", err)
	}
	if !removed {
		t.Fatal("expected removed=true")
	}
	if _, err := os.Stat(photos); !os.IsNotExist(err) {
		t.Fatalf("expected photos dir gone")
	}

	removed, err = RemoveTree(photos)
	if err != nil {
		t.Fatalf("RemoveTree again: %v", err)
	}
	if removed {
		t.Fatal("expected removed=false for missing dir")
	}
}

func TestRemoveTreeIgnoresPlainFile(t *testing.T) {
	root := t.TempDir()
	path := PhotosDir(root)
	if err := os.WriteFile(path, []byte("not a dir"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	removed, err := RemoveTree(path)
	if err != nil {
		t.Fatalf("RemoveTree: %v", err)
	}
	if removed {
		t.Fatal("plain file should not be removed")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file should still exist: %v", err)
	}
}
