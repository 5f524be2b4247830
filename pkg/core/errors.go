package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devicelab-dev/pagefactory/pkg/by"
)

// NoSuchElementError is the "not found" signal a Driver returns when a
// selector matches nothing. It is the only error that lets a fallback chain
// move on to its next selector; every other driver error is a fault.
type NoSuchElementError struct {
	Selector by.Selector
	Cause    error // driver-specific detail, may be nil
}

func (e *NoSuchElementError) Error() string {
	return "no such element: " + e.Selector.String()
}

// Unwrap returns the driver-specific detail.
func (e *NoSuchElementError) Unwrap() error {
	return e.Cause
}

// IsNoSuchElement reports whether err carries a "not found" signal.
func IsNoSuchElement(err error) bool {
	var nse *NoSuchElementError
	return errors.As(err, &nse)
}

// ExecutionError represents a structured error with category and details
type ExecutionError struct {
	Category  ErrorCategory
	Code      string                 // Machine-readable code: element_not_found, driver_fault, etc.
	Message   string                 // Human-readable message
	Attempted []by.Selector          // Selectors tried, in order
	Details   map[string]interface{} // Additional context
	Cause     error                  // Underlying error
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	msg := e.Message
	if len(e.Attempted) > 0 {
		msg = fmt.Sprintf("%s (tried %s)", msg, describeAttempted(e.Attempted))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func describeAttempted(selectors []by.Selector) string {
	parts := make([]string, len(selectors))
	for i, sel := range selectors {
		parts[i] = sel.String()
	}
	return strings.Join(parts, ", ")
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is matches another ExecutionError with the same code, so copies made with
// the With* helpers still satisfy errors.Is against the predefined errors.
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithMessage returns a copy of the error with a custom message
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	c := e.clone()
	c.Message = msg
	return c
}

// WithAttempted returns a copy of the error listing the selectors tried
func (e *ExecutionError) WithAttempted(selectors []by.Selector) *ExecutionError {
	c := e.clone()
	c.Attempted = make([]by.Selector, len(selectors))
	copy(c.Attempted, selectors)
	return c
}

// WithDetails returns a copy of the error with additional details
func (e *ExecutionError) WithDetails(details map[string]interface{}) *ExecutionError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	c := e.clone()
	c.Details = merged
	return c
}

func (e *ExecutionError) clone() *ExecutionError {
	return &ExecutionError{
		Category:  e.Category,
		Code:      e.Code,
		Message:   e.Message,
		Attempted: e.Attempted,
		Details:   e.Details,
		Cause:     e.Cause,
	}
}

// Predefined errors
var (
	ErrElementNotFound = &ExecutionError{
		Category: ErrCategoryLookup,
		Code:     "element_not_found",
		Message:  "element not found",
	}
	ErrUnsupportedOperation = &ExecutionError{
		Category: ErrCategoryUnsupported,
		Code:     "unsupported_operation",
		Message:  "operation not supported",
	}
	ErrDriverFault = &ExecutionError{
		Category: ErrCategoryDriver,
		Code:     "driver_fault",
		Message:  "driver failure",
	}
	ErrWaitTimeout = &ExecutionError{
		Category: ErrCategoryTimeout,
		Code:     "wait_timeout",
		Message:  "wait condition timed out",
	}
	ErrInvalidConfig = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}
)

// CategoryOf returns the category of the first ExecutionError in err's chain.
func CategoryOf(err error) ErrorCategory {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Category
	}
	return ErrCategoryNone
}
