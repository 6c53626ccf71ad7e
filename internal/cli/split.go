package cli

import (
	"flag"
	"log/slog"
	"os"

	"github.com/avivsinai/chatsplit/internal/config"
	"github.com/avivsinai/chatsplit/internal/fsq"
	"github.com/avivsinai/chatsplit/internal/metrics"
	"github.com/avivsinai/chatsplit/internal/pipeline"
)

type splitFlags struct {
	Days        string
	MetricsFile string
}

func addSplitFlags(fs *flag.FlagSet, cfg config.Config) *splitFlags {
	flags := &splitFlags{}
	fs.StringVar(&flags.Days, "days", cfg.Days, "Bucket width in days (or CHATSPLIT_DAYS; asks on a terminal, else 7)")
	fs.StringVar(&flags.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this textfile (or CHATSPLIT_METRICS_FILE)")
	return flags
}

func runSplit(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return WithExitCode(ExitError, err)
	}
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	common := addCommonFlags(fs)
	logOpts := addLogFlags(fs, cfg)
	opts := addSplitFlags(fs, cfg)

	usage := usageWithFlags(fs, "chatsplit split [--days N] [options] <export-folder>",
		"Writes output/<start> - <end>/<start> - <end>.json for every bucket,",
		"moves each referenced photo next to its bucket file and removes photos/.",
		"Existing bucket folders with the same name are replaced.")
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
	days, err := resolvePeriod(opts.Days, os.Stdin, stdinIsTerminal())
	if err != nil {
		return fail(logger, err)
	}
	return splitExport(logger, root, days, opts.MetricsFile, common.JSON)
}

func splitExport(logger *slog.Logger, root string, days int, metricsFile string, jsonOut bool) error {
	var runMetrics *metrics.RunMetrics
	if metricsFile != "" {
		runMetrics = metrics.NewRunMetrics()
	}
	summary, err := pipeline.Run(pipeline.Options{
		Root:       root,
		PeriodDays: days,
		Logger:     logger,
		Metrics:    runMetrics,
	})
	if runMetrics != nil {
		if werr := runMetrics.WriteTextfile(metricsFile); werr != nil {
			logger.Warn("metrics not written", "path", metricsFile, "error", werr)
		}
	}
	if err != nil {
		return fail(logger, err)
	}
	return outputSummary(jsonOut, summary)
}

func outputSummary(jsonOut bool, summary pipeline.Summary) error {
	if jsonOut {
		return writeJSON(os.Stdout, summary)
	}
	if err := writeStdout("Split %d message(s) into %d bucket(s) under %s\n",
		summary.Messages, len(summary.Buckets), fsq.OutputDir(summary.Root)); err != nil {
		return err
	}
	for _, b := range summary.Buckets {
		if err := writeStdout("  %s  %d message(s)  %d photo(s)", b.Name, b.Messages, b.PhotosMoved); err != nil {
			return err
		}
		if n := len(b.PhotosMissing); n > 0 {
			if err := writeStdout("  %d missing", n); err != nil {
				return err
			}
		}
		if n := len(b.PhotosFailed); n > 0 {
			if err := writeStdout("  %d failed", n); err != nil {
				return err
			}
		}
		if err := writeStdoutLine(); err != nil {
			return err
		}
	}
	return nil
}
