// Package pipeline runs a full partition: load, bucket, materialize, clean up.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/avivsinai/chatsplit/internal/export"
	"github.com/avivsinai/chatsplit/internal/fsq"
	"github.com/avivsinai/chatsplit/internal/lock"
	"github.com/avivsinai/chatsplit/internal/logging"
	"github.com/avivsinai/chatsplit/internal/materialize"
	"github.com/avivsinai/chatsplit/internal/metrics"
	"github.com/avivsinai/chatsplit/internal/partition"
)

type Options struct {
	Root       string
	PeriodDays int
	Logger     *slog.Logger
	Metrics    *metrics.RunMetrics // optional
}

// Summary describes a completed run.
type Summary struct {
	RunID            string                     `json:"run_id"`
	Root             string                     `json:"root"`
	PeriodDays       int                        `json:"period_days"`
	Messages         int                        `json:"messages"`
	Buckets          []materialize.BucketResult `json:"buckets"`
	PhotosMoved      int                        `json:"photos_moved"`
	PhotosMissing    int                        `json:"photos_missing"`
	PhotosFailed     int                        `json:"photos_failed"`
	PhotosDirRemoved bool                       `json:"photos_dir_removed"`
}

func (s *Summary) add(res materialize.BucketResult) {
	s.Buckets = append(s.Buckets, res)
	s.Messages += res.Messages
	s.PhotosMoved += res.PhotosMoved
	s.PhotosMissing += len(res.PhotosMissing)
	s.PhotosFailed += len(res.PhotosFailed)
}

// Run partitions the export at opts.Root. Configuration and input problems
// are reported before anything under the root is modified. Only one run per
// root may be active; a second one fails with lock.ErrLocked.
func Run(opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	if err := partition.ValidatePeriod(opts.PeriodDays); err != nil {
		return Summary{}, err
	}
	root, err := export.ResolveRoot(opts.Root)
	if err != nil {
		return Summary{}, err
	}
	conv, err := export.Load(root)
	if err != nil {
		return Summary{}, err
	}
	buckets, err := partition.Partition(conv.Messages, opts.PeriodDays)
	if err != nil {
		return Summary{}, err
	}

	logger.Info("partition started", "root", root, "period_days", opts.PeriodDays, "messages", len(conv.Messages))
	start := time.Now()

	mat := materialize.New(root, logger)
	if err := mat.EnsureOutputRoot(); err != nil {
		return Summary{}, err
	}
	summary := Summary{
		RunID:      runID,
		Root:       root,
		PeriodDays: opts.PeriodDays,
		Buckets:    []materialize.BucketResult{},
	}
	err = lock.TryExclusiveFileLock(fsq.LockPath(root), func() error {
		for bucket := range buckets {
			res, err := mat.Write(conv.Header, bucket)
			if err != nil {
				return err
			}
			summary.add(res)
			opts.Metrics.ObserveBucket(res.Messages, res.PhotosMoved, len(res.PhotosMissing), len(res.PhotosFailed))
		}
		removed, err := mat.Cleanup()
		if err != nil {
			return err
		}
		summary.PhotosDirRemoved = removed
		return nil
	})
	finished := time.Now()
	opts.Metrics.ObserveRun(finished.Sub(start), err == nil, finished)
	if err != nil {
		return summary, fmt.Errorf("partition %s: %w", root, err)
	}

	logger.Info("partition finished",
		"buckets", len(summary.Buckets),
		"messages", summary.Messages,
		"photos_moved", summary.PhotosMoved,
		"photos_missing", summary.PhotosMissing,
		"photos_failed", summary.PhotosFailed,
		"elapsed", finished.Sub(start),
	)
	return summary, nil
}
