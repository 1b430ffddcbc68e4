package errors

import (
	"errors"
	"fmt"
)

// ExitError carries a process exit code without an error message. The CLI
// returns it when a command ran fine but the result should still fail the
// shell (e.g. `waylon status --exit-code` with failed jobs).
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// GetExitCode extracts the exit code from an ExitError anywhere in the chain.
func GetExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
