package gpu

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCommandFailed   = errors.New("diagnostic command failed")
	ErrTimedOut        = errors.New("diagnostic command timed out")
	ErrCommandNotFound = errors.New("diagnostic command not found")
	ErrNoGPURows       = errors.New("no GPU rows in diagnostic output")
)

// DiagnosticError carries one of the probe failure causes. Cause is nil for
// failures outside the known taxonomy.
type DiagnosticError struct {
	Cause   error
	Command string
	Stderr  string
	Err     error
}

func (e *DiagnosticError) Error() string {
	switch e.Cause {
	case ErrCommandFailed:
		return fmt.Sprintf("%s error: %s", e.Command, strings.TrimSpace(e.Stderr))
	case ErrTimedOut:
		return fmt.Sprintf("%s timed out", e.Command)
	case ErrCommandNotFound:
		return fmt.Sprintf("%s not found - GPU drivers not installed", e.Command)
	}
	if errors.Is(e.Err, ErrNoGPURows) {
		return fmt.Sprintf("%s returned no GPU rows", e.Command)
	}
	if e.Err == nil {
		return "unknown probe failure"
	}
	return e.Err.Error()
}

func (e *DiagnosticError) Is(target error) bool {
	return e.Cause != nil && target == e.Cause
}

func (e *DiagnosticError) Unwrap() error {
	return e.Err
}
