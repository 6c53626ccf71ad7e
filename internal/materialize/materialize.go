// Package materialize writes partition buckets to disk and relocates the
// photos they reference.
package materialize

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/avivsinai/chatsplit/internal/export"
	"github.com/avivsinai/chatsplit/internal/fsq"
	"github.com/avivsinai/chatsplit/internal/partition"
)

var (
	ErrMissingAttachment = errors.New("missing attachment")
	ErrFilesystem        = errors.New("filesystem failure")
)

// BucketResult describes one materialized bucket.
type BucketResult struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	Messages      int      `json:"messages"`
	PhotosMoved   int      `json:"photos_moved"`
	PhotosMissing []string `json:"photos_missing,omitempty"`
	PhotosFailed  []string `json:"photos_failed,omitempty"`
}

// Materializer owns the output tree under one export root.
type Materializer struct {
	root        string
	logger      *slog.Logger
	outputReady bool
}

func New(root string, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Materializer{root: root, logger: logger}
}

// EnsureOutputRoot creates <root>/output. Repeated calls are no-ops.
func (m *Materializer) EnsureOutputRoot() error {
	if m.outputReady {
		return nil
	}
	if err := fsq.EnsureOutputDir(m.root); err != nil {
		return fmt.Errorf("%w: create output dir: %w", ErrFilesystem, err)
	}
	m.outputReady = true
	return nil
}

// Write materializes a bucket: its directory is recreated from scratch, the
// bucket JSON is written, then each referenced photo is moved in. Photo
// failures are logged and reported in the result; directory and JSON
// failures abort with ErrFilesystem.
func (m *Materializer) Write(header export.Header, b partition.Bucket) (BucketResult, error) {
	if err := m.EnsureOutputRoot(); err != nil {
		return BucketResult{}, err
	}
	name := b.Name()
	dir := fsq.BucketDir(m.root, name)
	if err := fsq.ResetDir(dir); err != nil {
		return BucketResult{}, fmt.Errorf("%w: reset %s: %w", ErrFilesystem, dir, err)
	}

	data, err := export.Marshal(export.Conversation{Header: header, Messages: b.Messages})
	if err != nil {
		return BucketResult{}, fmt.Errorf("encode bucket %s: %w", name, err)
	}
	path, err := fsq.WriteFileAtomic(dir, name+".json", data, 0o644)
	if err != nil {
		return BucketResult{}, fmt.Errorf("%w: write %s: %w", ErrFilesystem, name+".json", err)
	}

	result := BucketResult{Name: name, Path: path, Messages: len(b.Messages)}
	moved := make(map[string]struct{})
	for _, msg := range b.Messages {
		if !msg.HasPhoto() {
			continue
		}
		if _, ok := moved[msg.Photo]; ok {
			continue
		}
		dst, err := m.relocate(dir, msg.Photo)
		switch {
		case err == nil:
			moved[msg.Photo] = struct{}{}
			result.PhotosMoved++
			m.logger.Debug("photo moved", "bucket", name, "photo", msg.Photo, "dest", dst)
		case errors.Is(err, ErrMissingAttachment):
			result.PhotosMissing = append(result.PhotosMissing, msg.Photo)
			m.logger.Warn("photo not found", "bucket", name, "photo", msg.Photo)
		default:
			result.PhotosFailed = append(result.PhotosFailed, msg.Photo)
			m.logger.Error("photo move failed", "bucket", name, "photo", msg.Photo, "error", err)
		}
	}

	m.logger.Info("bucket written",
		"bucket", name,
		"messages", result.Messages,
		"photos_moved", result.PhotosMoved,
		"photos_missing", len(result.PhotosMissing),
		"photos_failed", len(result.PhotosFailed),
	)
	return result, nil
}

func (m *Materializer) relocate(bucketDir, photo string) (string, error) {
	rel := filepath.FromSlash(photo)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("photo path escapes export root: %q", photo)
	}
	src := filepath.Join(m.root, rel)
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrMissingAttachment, src)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("photo path is a directory: %s", src)
	}
	return fsq.MoveFile(src, bucketDir)
}

// Cleanup removes <root>/photos regardless of earlier relocation failures.
func (m *Materializer) Cleanup() (bool, error) {
	dir := fsq.PhotosDir(m.root)
	removed, err := fsq.RemoveTree(dir)
	if err != nil {
		return false, fmt.Errorf("%w: remove %s: %w", ErrFilesystem, dir, err)
	}
	if removed {
		m.logger.Info("photos directory removed", "path", dir)
	}
	return removed, nil
}
