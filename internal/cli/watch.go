package cli

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/avivsinai/chatsplit/internal/config"
	"github.com/avivsinai/chatsplit/internal/export"
	"github.com/avivsinai/chatsplit/internal/fsq"
)

func runWatch(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return WithExitCode(ExitError, err)
	}
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	common := addCommonFlags(fs)
	logOpts := addLogFlags(fs, cfg)
	opts := addSplitFlags(fs, cfg)
	timeoutFlag := fs.Duration("timeout", 0, "Maximum time to wait for result.json (0 = wait forever)")
	pollFlag := fs.Bool("poll", false, "Use polling fallback instead of fsnotify (for network filesystems)")

	usage := usageWithFlags(fs, "chatsplit watch [--days N] [--timeout D] [options] <export-folder>",
		"Waits until result.json in the export folder is complete and valid, then runs split.")
	positional, handled, err := parseArgs(fs, args, usage)
	if err != nil {
		return err
	} else if handled {
		return nil
	}

	logger, closeLog, err := openLogger(logOpts)
	if err != nil {
		return WithExitCode(ExitError, err)
	}
	defer func() { _ = closeLog() }()

	root, err := rootArg(common.Root, positional)
	if err != nil {
		return fail(logger, err)
	}
	if _, err := export.ResolveRoot(root); err != nil {
		return fail(logger, err)
	}
	// Ask for the period up front; the split may happen long after.
	days, err := resolvePeriod(opts.Days, os.Stdin, stdinIsTerminal())
	if err != nil {
		return fail(logger, err)
	}

	ctx := context.Background()
	if *timeoutFlag > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeoutFlag)
		defer cancel()
	}

	var event string
	if *pollFlag {
		event, err = waitWithPolling(ctx, root, logger)
	} else {
		event, err = waitWithFsnotify(ctx, root, logger)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fail(logger, TimeoutError("timed out waiting for %s", fsq.InputPath(root)))
		}
		return fail(logger, err)
	}
	logger.Info("export ready", "event", event, "path", fsq.InputPath(root))

	return splitExport(logger, root, days, opts.MetricsFile, common.JSON)
}

func waitWithFsnotify(ctx context.Context, root string, logger *slog.Logger) (string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// Fall back to polling if fsnotify fails
		return waitWithPolling(ctx, root, logger)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(root); err != nil {
		return waitWithPolling(ctx, root, logger)
	}

	// Check AFTER the watcher is set up so a file written in between still
	// produces an event.
	if exportReady(root, logger) {
		return "existing", nil
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return "", errors.New("watcher closed")
			}
			if filepath.Base(event.Name) != fsq.InputName {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			// Small delay so a burst of writes settles
			time.Sleep(10 * time.Millisecond)
			if exportReady(root, logger) {
				return "created", nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return "", errors.New("watcher closed")
			}
			return "", err
		}
	}
}

func waitWithPolling(ctx context.Context, root string, logger *slog.Logger) (string, error) {
	if exportReady(root, logger) {
		return "existing", nil
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
			if exportReady(root, logger) {
				return "created", nil
			}
		}
	}
}

// exportReady reports whether result.json exists and parses. A file still
// being written usually fails to parse and is retried on the next event.
func exportReady(root string, logger *slog.Logger) bool {
	if _, err := os.Stat(fsq.InputPath(root)); err != nil {
		return false
	}
	if _, err := export.Load(root); err != nil {
		logger.Debug("export not ready", "error", err)
		return false
	}
	return true
}
