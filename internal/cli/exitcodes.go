package cli

import (
	"errors"

	"github.com/yaklabco/parenfmt/pkg/runner"
)

// Exit codes for parenfmt.
const (
	// ExitSuccess indicates successful execution with nothing left to do.
	ExitSuccess = 0

	// ExitUnformatted indicates --check found files that need formatting.
	ExitUnformatted = 1

	// ExitFailures indicates at least one file could not be processed.
	ExitFailures = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70
)

var (
	// ErrUnformattedFiles is returned by fmt --check when files need formatting.
	ErrUnformattedFiles = errors.New("files need formatting")

	// ErrProcessingFailed is returned when some files could not be formatted.
	ErrProcessingFailed = errors.New("some files could not be formatted")

	// ErrConfig wraps configuration loading failures.
	ErrConfig = errors.New("failed to load configuration")

	// ErrUsage wraps invalid flag combinations.
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code of a finished run.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitFailures
	}

	if check && result.HasUnformatted() {
		return ExitUnformatted
	}

	return ExitSuccess
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUnformattedFiles):
		return ExitUnformatted
	case errors.Is(err, ErrProcessingFailed):
		return ExitFailures
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	default:
		return ExitInternalError
	}
}

// IsSignal reports whether err only signals an exit code and needs no
// further logging.
func IsSignal(err error) bool {
	return errors.Is(err, ErrUnformattedFiles) || errors.Is(err, ErrProcessingFailed)
}

// resultError converts a finished run into the error that carries its exit
// code, or nil.
func resultError(result *runner.Result, check bool) error {
	switch ExitCodeFromResult(result, check) {
	case ExitFailures:
		return ErrProcessingFailed
	case ExitUnformatted:
		return ErrUnformattedFiles
	default:
		return nil
	}
}
