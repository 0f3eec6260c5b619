package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the proxyflow library

var (
	// ErrDisposed indicates that an operation was attempted on a disposed resource
	ErrDisposed = errors.New("resource is disposed")

	// ErrAlreadyAttached indicates that a proxy already has an active source
	ErrAlreadyAttached = errors.New("can only attach one stream")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrTaskPanicked indicates that a scheduled task panicked while running
	ErrTaskPanicked = errors.New("task panicked")
)

// ExclusivityError reports a second Attach on a proxy whose previous source
// has not terminated yet.
type ExclusivityError struct {
	Proxy string
}

func (e *ExclusivityError) Error() string {
	if e.Proxy == "" {
		return ErrAlreadyAttached.Error()
	}
	return fmt.Sprintf("proxy %q: %s", e.Proxy, ErrAlreadyAttached.Error())
}

// Unwrap returns ErrAlreadyAttached so errors.Is works on the sentinel.
func (e *ExclusivityError) Unwrap() error {
	return ErrAlreadyAttached
}

// NewExclusivityError creates an ExclusivityError for the named proxy.
func NewExclusivityError(proxy string) *ExclusivityError {
	return &ExclusivityError{Proxy: proxy}
}

// IsExclusivityError reports whether err is, or wraps, an ExclusivityError.
func IsExclusivityError(err error) bool {
	var ee *ExclusivityError
	return errors.As(err, &ee)
}

// ValidationError describes an invalid configuration value.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// NewValidationError creates a ValidationError.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// OperationError describes a failed operation inside a module.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// NewOperationError creates an OperationError.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches extra context and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

// IsOperationError reports whether err is, or wraps, an OperationError.
func IsOperationError(err error) bool {
	var oe *OperationError
	return errors.As(err, &oe)
}

// IsUsageError returns true if the error reports a programmer mistake rather
// than a runtime condition.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrAlreadyAttached) || errors.Is(err, ErrInvalidConfiguration)
}
