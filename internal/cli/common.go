package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/avivsinai/chatsplit/internal/config"
	"github.com/avivsinai/chatsplit/internal/logging"
	"github.com/avivsinai/chatsplit/internal/partition"
)

type commonFlags struct {
	Root string
	JSON bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	flags := &commonFlags{}
	fs.StringVar(&flags.Root, "root", "", "Export folder containing result.json (or first argument)")
	fs.BoolVar(&flags.JSON, "json", false, "Emit JSON output")
	return flags
}

type logFlags struct {
	Level string
	Dir   string
}

func addLogFlags(fs *flag.FlagSet, cfg config.Config) *logFlags {
	flags := &logFlags{}
	fs.StringVar(&flags.Level, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error (or CHATSPLIT_LOG_LEVEL)")
	fs.StringVar(&flags.Dir, "log-dir", cfg.LogDir, "Directory for log files, empty to disable (or CHATSPLIT_LOG_DIR)")
	return flags
}

// openLogger builds the command logger. An unknown level is reported as a
// warning on the logger itself rather than failing the command.
func openLogger(flags *logFlags) (*slog.Logger, func() error, error) {
	level, levelErr := logging.ParseLevel(flags.Level)
	logger, path, closeLog, err := logging.Open(os.Stderr, flags.Dir, level, time.Now())
	if err != nil {
		return nil, nil, err
	}
	if levelErr != nil {
		logger.Warn("using info level", "error", levelErr)
	}
	if path != "" {
		logger.Debug("logging to file", "path", path)
	}
	return logger, closeLog, nil
}

// fail logs err with its kind and returns it with the process exit code.
func fail(logger *slog.Logger, err error) error {
	wrapped := WithExitCode(ExitError, err)
	logger.Error("program terminated unexpectedly", "kind", ErrorKind(wrapped), "error", err)
	return wrapped
}

// rootArg picks the export folder from --root or the single positional argument.
func rootArg(flagValue string, positional []string) (string, error) {
	root := strings.TrimSpace(flagValue)
	if root == "" && len(positional) > 0 {
		root, positional = positional[0], positional[1:]
	}
	if len(positional) > 0 {
		return "", UsageError("unexpected arguments: %s", strings.Join(positional, " "))
	}
	if root == "" {
		return "", UsageError("export folder is required")
	}
	return filepath.Clean(root), nil
}

// resolvePeriod turns the --days value into a bucket width. When no value was
// given it asks on an interactive terminal and otherwise falls back to the
// default width.
func resolvePeriod(raw string, in io.Reader, interactive bool) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" && interactive {
		line, err := promptLine(in, fmt.Sprintf("Days per bucket [%d]: ", partition.DefaultPeriodDays))
		if err != nil {
			return 0, err
		}
		raw = strings.TrimSpace(line)
	}
	if raw == "" {
		return partition.DefaultPeriodDays, nil
	}
	return partition.ParsePeriod(raw)
}

func promptLine(in io.Reader, prompt string) (string, error) {
	if err := writeStderr("%s", prompt); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func isHelp(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func parseFlags(fs *flag.FlagSet, args []string, usage func()) (bool, error) {
	fs.SetOutput(io.Discard)
	if usage != nil {
		fs.Usage = usage
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, UsageError("%v", err)
	}
	return false, nil
}

// parseArgs parses flags that may appear before or after positional
// arguments and returns the positionals in order.
func parseArgs(fs *flag.FlagSet, args []string, usage func()) ([]string, bool, error) {
	var positional []string
	for {
		handled, err := parseFlags(fs, args, usage)
		if err != nil || handled {
			return nil, handled, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, false, nil
		}
		if len(args) > len(rest) && args[len(args)-len(rest)-1] == "--" {
			return append(positional, rest...), false, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func usageWithFlags(fs *flag.FlagSet, usage string, notes ...string) func() {
	return func() {
		_ = writeStdoutLine("Usage:")
		_ = writeStdoutLine("  " + usage)
		if len(notes) > 0 {
			_ = writeStdoutLine("")
			for _, note := range notes {
				_ = writeStdoutLine(note)
			}
		}
		_ = writeStdoutLine("")
		_ = writeStdoutLine("Options:")
		_ = writeFlagDefaults(fs)
	}
}

func writeFlagDefaults(fs *flag.FlagSet) error {
	var buf bytes.Buffer
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
	if buf.Len() == 0 {
		return nil
	}
	return writeStdout("%s", buf.String())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStdout(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeStdoutLine(args ...any) error {
	_, err := fmt.Fprintln(os.Stdout, args...)
	return err
}

func writeStderr(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stderr, format, args...)
	return err
}
