package cli

import (
	"flag"

	"github.com/avivsinai/chatsplit/internal/config"
	"github.com/avivsinai/chatsplit/internal/timeconv"
)

func runUTC(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return WithExitCode(ExitError, err)
	}
	fs := flag.NewFlagSet("utc", flag.ContinueOnError)
	offsetFlag := fs.Duration("offset", cfg.UTCOffset, "Offset of the source timestamps from UTC (or CHATSPLIT_UTC_OFFSET)")

	usage := usageWithFlags(fs, "chatsplit utc [--offset 5h] <YYYY-MM-DDTHH:MM:SS>...")
	values, handled, err := parseArgs(fs, args, usage)
	if err != nil {
		return err
	} else if handled {
		return nil
	}
	if len(values) == 0 {
		return UsageError("at least one timestamp is required")
	}

	for _, value := range values {
		converted, err := timeconv.ToUTC(value, *offsetFlag)
		if err != nil {
			return WithExitCode(ExitError, err)
		}
		if err := writeStdoutLine(converted); err != nil {
			return err
		}
	}
	return nil
}
