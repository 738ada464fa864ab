package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vulntor/evdispatch/cmd/evdispatch/internal/format"
	"github.com/vulntor/evdispatch/pkg/config"
	"github.com/vulntor/evdispatch/pkg/dispatch"
	"github.com/vulntor/evdispatch/pkg/version"
)

const (
	errorCodeConfigInvalid       = "CONFIG_INVALID"
	errorCodeVersionIncompatible = "VERSION_INCOMPATIBLE"
)

// reportedError marks an error the command already wrote to its output.
type reportedError struct{ error }

func (e *reportedError) Unwrap() error { return e.error }

// ErrorCode resolves err to a CLI error code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, version.ErrInvalidConstraint):
		return errorCodeConfigInvalid
	case errors.Is(err, version.ErrIncompatible):
		return errorCodeVersionIncompatible
	default:
		return dispatch.ErrorCode(err)
	}
}

// ExitCode maps err to a process exit code.
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Invalid manifest, unregistered event or rejected build
//   - 3: A handler aborted the firing
func ExitCode(err error) int {
	switch ErrorCode(err) {
	case "":
		return 0
	case errorCodeConfigInvalid, errorCodeVersionIncompatible:
		return 2
	default:
		return dispatch.ExitCode(err)
	}
}

// Execute runs cmd, reports any error through the command's formatter and
// returns the exit code.
func Execute(cmd *cobra.Command) int {
	executed, err := cmd.ExecuteC()
	if err == nil {
		return 0
	}
	if executed == nil {
		executed = cmd
	}
	var reported *reportedError
	if errors.As(err, &reported) {
		return ExitCode(err)
	}
	_ = format.PrintCodedError(newFormatter(executed), err, ErrorCode(err))
	return ExitCode(err)
}
