package core

// AttemptStatus is the outcome of trying one selector against a driver
type AttemptStatus int

const (
	AttemptPending  AttemptStatus = iota // Not tried (an earlier selector matched)
	AttemptFound                         // Driver returned an element
	AttemptNotFound                      // Driver reported no such element
	AttemptFault                         // Driver failed for another reason
)

// String returns the string representation of AttemptStatus
func (s AttemptStatus) String() string {
	switch s {
	case AttemptPending:
		return "pending"
	case AttemptFound:
		return "found"
	case AttemptNotFound:
		return "not_found"
	case AttemptFault:
		return "fault"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if the attempt has run
func (s AttemptStatus) IsTerminal() bool {
	switch s {
	case AttemptFound, AttemptNotFound, AttemptFault:
		return true
	default:
		return false
	}
}

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone        ErrorCategory = iota // No error
	ErrCategoryLookup                           // Every selector exhausted without a match
	ErrCategoryUnsupported                      // Operation has no defined semantics
	ErrCategoryDriver                           // Driver/session failure other than "not found"
	ErrCategoryTimeout                          // Wait budget exhausted
	ErrCategoryConfig                           // Invalid configuration
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryLookup:
		return "lookup"
	case ErrCategoryUnsupported:
		return "unsupported"
	case ErrCategoryDriver:
		return "driver"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}
