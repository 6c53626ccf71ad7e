package cli

import (
	"errors"
	"fmt"

	"github.com/avivsinai/chatsplit/internal/export"
	"github.com/avivsinai/chatsplit/internal/lock"
	"github.com/avivsinai/chatsplit/internal/materialize"
	"github.com/avivsinai/chatsplit/internal/partition"
)

// Exit codes for CLI commands. Every failure maps to ExitError; the kind of
// failure is reported in the log, not in the exit status.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates the command failed for any reason.
	ExitError = 1
)

// Kind names reported with every fatal error.
const (
	KindUsage                = "usage"
	KindInvalidConfiguration = "invalid_configuration"
	KindEmptyInput           = "empty_input"
	KindMalformedInput       = "malformed_input"
	KindMissingInput         = "missing_input"
	KindFilesystem           = "filesystem_failure"
	KindLocked               = "locked"
	KindTimeout              = "timeout"
	KindError                = "error"
)

// ExitCodeError wraps an error with an exit code and a failure kind.
type ExitCodeError struct {
	Code int
	Kind string
	Err  error
}

func (e *ExitCodeError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess (0) if err is nil.
// Returns the wrapped code if err is an *ExitCodeError.
// Returns ExitError (1) for all other errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}

// WithExitCode wraps an error with a specific exit code, classifying its kind.
func WithExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitCodeError{Code: code, Kind: ErrorKind(err), Err: err}
}

// UsageError creates an error for invalid arguments or flags.
func UsageError(format string, args ...any) error {
	return &ExitCodeError{
		Code: ExitError,
		Kind: KindUsage,
		Err:  fmt.Errorf(format, args...),
	}
}

// TimeoutError creates an error for a wait that ran out of time.
func TimeoutError(format string, args ...any) error {
	return &ExitCodeError{
		Code: ExitError,
		Kind: KindTimeout,
		Err:  fmt.Errorf(format, args...),
	}
}

// ErrorKind names the failure class of err.
func ErrorKind(err error) string {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) && exitErr.Kind != "" {
		return exitErr.Kind
	}
	switch {
	case errors.Is(err, partition.ErrInvalidConfiguration):
		return KindInvalidConfiguration
	case errors.Is(err, partition.ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, export.ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, export.ErrMissingInput):
		return KindMissingInput
	case errors.Is(err, materialize.ErrFilesystem):
		return KindFilesystem
	case errors.Is(err, lock.ErrLocked):
		return KindLocked
	default:
		return KindError
	}
}
