package by

import "fmt"

// ConfigError reports malformed locator metadata. It is raised while a Spec
// is being built, before any driver is involved.
type ConfigError struct {
	Field  string // struct field or locator-file element, when known
	Input  string // offending text
	Line   int    // line in a locator file, when known
	Reason string
}

func (e *ConfigError) Error() string {
	msg := "selector config"
	if e.Field != "" {
		msg += fmt.Sprintf(" for %s", e.Field)
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	msg += ": " + e.Reason
	if e.Input != "" {
		msg += fmt.Sprintf(": %q", e.Input)
	}
	return msg
}

// WithField returns a copy of the error naming the field it belongs to.
func (e *ConfigError) WithField(field string) *ConfigError {
	return &ConfigError{
		Field:  field,
		Input:  e.Input,
		Line:   e.Line,
		Reason: e.Reason,
	}
}
