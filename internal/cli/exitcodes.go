package cli

import (
	"errors"

	"github.com/yaklabco/plainedit/pkg/batch"
	"github.com/yaklabco/plainedit/pkg/filehandle"
	"github.com/yaklabco/plainedit/pkg/fsutil"
	"github.com/yaklabco/plainedit/pkg/keyboard"
)

// Exit codes for plainedit.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailures indicates a replay completed but some files failed.
	ExitFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage or a bad key script.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code of a finished replay.
func ExitCodeFromResult(result *batch.Result) int {
	if result == nil || !result.HasFailures() {
		return ExitSuccess
	}
	return ExitFailures
}

// ExitCodeFromError maps an error returned by a command to an exit code.
func ExitCodeFromError(err error) int {
	var scriptErr *keyboard.ScriptError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrReplayFailures):
		return ExitFailures
	case errors.Is(err, ErrUsage),
		errors.Is(err, keyboard.ErrUnknownKeyName),
		errors.As(err, &scriptErr):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, filehandle.ErrNotText):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
