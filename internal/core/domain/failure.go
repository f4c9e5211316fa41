package domain

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// FailureCategory groups failures by the kind of work that failed.
type FailureCategory string

const (
	// CategoryCopyAction is reported by copy actions.
	CategoryCopyAction FailureCategory = "copy-action"
	// CategorySpawn is reported by spawn execution.
	CategorySpawn FailureCategory = "spawn"
	// CategoryInput is reported when input metadata cannot be read.
	CategoryInput FailureCategory = "input"
)

// FailureCode names the specific failure within a category.
type FailureCode string

const (
	// CodeIOError means a filesystem operation failed.
	CodeIOError FailureCode = "IO_ERROR"
	// CodeNonZeroExit means a spawned process exited unsuccessfully.
	CodeNonZeroExit FailureCode = "NON_ZERO_EXIT"
	// CodeKilled means a spawned process was terminated by a signal.
	CodeKilled FailureCode = "KILLED"
	// CodeExecutionFailed means a process could not be started.
	CodeExecutionFailed FailureCode = "EXECUTION_FAILED"
	// CodeOutputsMissing means a spawn succeeded without creating its declared outputs.
	CodeOutputsMissing FailureCode = "OUTPUTS_MISSING"
)

// FailureDetail is the structured description attached to a failed action.
type FailureDetail struct {
	Message  string
	Category FailureCategory
	Code     FailureCode
}

// ExecError is a structured action failure.
// Results holds the spawn attempts that ran before the failure, if any.
type ExecError struct {
	Detail  FailureDetail
	Results []SpawnResult
	cause   error
}

// NewExecError creates a structured failure with the given detail and underlying cause.
func NewExecError(detail FailureDetail, cause error, results ...SpawnResult) *ExecError {
	return &ExecError{Detail: detail, Results: slices.Clone(results), cause: cause}
}

// Error returns the failure message.
func (e *ExecError) Error() string {
	return e.Detail.Message
}

// Unwrap returns the underlying cause.
func (e *ExecError) Unwrap() error {
	return e.cause
}

// CancelledError reports that work was interrupted before completing.
// It is an outcome distinct from a failure and is never memoized.
type CancelledError struct {
	Results []SpawnResult
	cause   error
}

// NewCancelledError wraps the cause of an interruption, usually the context error.
func NewCancelledError(cause error, results ...SpawnResult) *CancelledError {
	if cause == nil {
		cause = context.Canceled
	}
	return &CancelledError{Results: slices.Clone(results), cause: cause}
}

// Error describes the interruption.
func (e *CancelledError) Error() string {
	return fmt.Sprintf("cancelled: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *CancelledError) Unwrap() error {
	return e.cause
}

// Outcome classifies the result of a computation.
type Outcome uint8

const (
	// OutcomeSuccess means the computation produced a value.
	OutcomeSuccess Outcome = iota
	// OutcomeFailure means the computation failed.
	OutcomeFailure
	// OutcomeCancelled means the computation was interrupted.
	OutcomeCancelled
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// OutcomeOf classifies an error returned by an execution.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if IsCancelled(err) {
		return OutcomeCancelled
	}
	return OutcomeFailure
}

// IsCancelled reports whether err represents an interruption.
func IsCancelled(err error) bool {
	var cancelled *CancelledError
	if errors.As(err, &cancelled) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// FailureDetailOf extracts the structured failure from err, if present.
func FailureDetailOf(err error) (FailureDetail, bool) {
	var execErr *ExecError
	if errors.As(err, &execErr) {
		return execErr.Detail, true
	}
	return FailureDetail{}, false
}
