package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 || isHelp(args[0]) {
		return printUsage()
	}

	switch args[0] {
	case "split":
		return runSplit(args[1:])
	case "watch":
		return runWatch(args[1:])
	case "list":
		return runList(args[1:])
	case "utc":
		return runUTC(args[1:])
	default:
		return UsageError("unknown command: %s", args[0])
	}
}

func printUsage() error {
	lines := []string{
		"chatsplit - split a chat export into dated buckets",
		"",
		"Usage:",
		"  chatsplit <command> [options] <export-folder>",
		"",
		"Commands:",
		"  split     Partition result.json into buckets and move photos into them",
		"  watch     Wait for result.json to appear, then split (uses fsnotify)",
		"  list      List the buckets already written under output/",
		"  utc       Convert export timestamps from a fixed offset to UTC",
		"",
		"Environment:",
		"  CHATSPLIT_DAYS          Default bucket width in days",
		"  CHATSPLIT_LOG_LEVEL     Log level (debug, info, warn, error)",
		"  CHATSPLIT_LOG_DIR       Log file directory (default: logs)",
		"  CHATSPLIT_METRICS_FILE  Prometheus textfile written after each run",
		"  CHATSPLIT_UTC_OFFSET    Source offset for utc (default: 5h)",
	}
	for _, line := range lines {
		if _, err := fmt.Println(line); err != nil {
			return err
		}
	}
	return nil
}
