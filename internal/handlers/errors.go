package handlers

import (
	"fmt"

	"github.com/pkg/errors"

	"conv3d/internal/models"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// ExitError is a setup failure that ends the process with Code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitFailure, Message: fmt.Sprintf(format, args...)}
}

// ExitCode maps an action error to a process exit code. Declined
// confirmations and interrupts are not failures.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, models.ErrAborted) || errors.Is(err, models.ErrInterrupted) {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
