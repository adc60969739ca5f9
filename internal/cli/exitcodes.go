package cli

import (
	"errors"

	"github.com/yaklabco/codedeco/pkg/runner"
)

// Exit codes for codedeco.
const (
	// ExitSuccess indicates every block was decorated.
	ExitSuccess = 0

	// ExitDecorationFailed indicates a file could not be read or a block
	// could not be decorated.
	ExitDecorationFailed = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors mapped to exit codes by ExitCode.
var (
	// ErrDecorationFailed is returned when a run finished with failures.
	// It only signals the exit code; the failures were already reported.
	ErrDecorationFailed = errors.New("decoration failed")

	// ErrInvalidUsage wraps flag and argument errors.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrConfig wraps configuration loading and validation errors.
	ErrConfig = errors.New("configuration error")

	// ErrIO wraps file system errors outside of per-file processing.
	ErrIO = errors.New("i/o error")
)

// ExitCodeFromResult determines the exit code for a finished run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitDecorationFailed
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrDecorationFailed):
		return ExitDecorationFailed
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrIO):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
