package pipeline

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNilConfig     = errors.New("config cannot be nil")
	ErrInvalidConfig = errors.New("invalid config")
	ErrEmptyRegion   = errors.New("region is empty")
	ErrCancelled     = errors.New("run cancelled")
)

// GenError provides structured error information for pipeline operations.
type GenError struct {
	Op    string // Operation that failed (e.g., "Run", "New")
	Stage string // Pipeline stage (if applicable)
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *GenError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s (stage %s): %v", e.Op, e.Stage, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GenError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *GenError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func genErr(op, stage string, cause error) *GenError {
	return &GenError{Op: op, Stage: stage, Cause: cause}
}
