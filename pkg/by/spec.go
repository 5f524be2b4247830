package by

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec is an ordered, non-empty list of selectors for one logical element.
// The first selector has the highest priority. A Spec is immutable once built.
type Spec struct {
	selectors []Selector
}

// NewSpec builds a Spec, rejecting an empty list and invalid selectors.
func NewSpec(selectors ...Selector) (Spec, error) {
	if len(selectors) == 0 {
		return Spec{}, &ConfigError{Reason: "locator list is empty"}
	}
	for _, sel := range selectors {
		if err := sel.Validate(); err != nil {
			return Spec{}, err
		}
	}
	copied := make([]Selector, len(selectors))
	copy(copied, selectors)
	return Spec{selectors: copied}, nil
}

// MustSpec is like NewSpec but panics on error. Intended for literals.
func MustSpec(selectors ...Selector) Spec {
	spec, err := NewSpec(selectors...)
	if err != nil {
		panic(err)
	}
	return spec
}

// ParseSpec parses "id=q; css=#search". Entries are separated by ';'.
// A literal semicolon inside a value is written as `\;`.
func ParseSpec(s string) (Spec, error) {
	parts := splitEntries(s)
	selectors := make([]Selector, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		sel, err := ParseSelector(part)
		if err != nil {
			return Spec{}, err
		}
		selectors = append(selectors, sel)
	}
	if len(selectors) == 0 {
		return Spec{}, &ConfigError{Input: s, Reason: "locator list is empty"}
	}
	return NewSpec(selectors...)
}

func splitEntries(s string) []string {
	var parts []string
	var current strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == ';':
			current.WriteByte(';')
			i++
		case s[i] == ';':
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(s[i])
		}
	}
	return append(parts, current.String())
}

// Selectors returns a copy of the selectors in priority order.
func (s Spec) Selectors() []Selector {
	out := make([]Selector, len(s.selectors))
	copy(out, s.selectors)
	return out
}

// Len returns the number of selectors.
func (s Spec) Len() int {
	return len(s.selectors)
}

// IsZero reports whether the Spec was never built.
func (s Spec) IsZero() bool {
	return len(s.selectors) == 0
}

// First returns the highest-priority selector.
func (s Spec) First() Selector {
	if len(s.selectors) == 0 {
		return Selector{}
	}
	return s.selectors[0]
}

// At returns the selector at position i.
func (s Spec) At(i int) Selector {
	return s.selectors[i]
}

// String returns the selectors joined in priority order.
func (s Spec) String() string {
	parts := make([]string, len(s.selectors))
	for i, sel := range s.selectors {
		parts[i] = sel.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// UnmarshalYAML accepts a sequence of selectors or a "a=b; c=d" scalar.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	var (
		spec Spec
		err  error
	)

	switch node.Kind {
	case yaml.ScalarNode:
		spec, err = ParseSpec(node.Value)
	case yaml.SequenceNode:
		var selectors []Selector
		if err := node.Decode(&selectors); err != nil {
			return err
		}
		spec, err = NewSpec(selectors...)
	default:
		err = &ConfigError{Reason: "locators must be a list or a string"}
	}
	if err != nil {
		if ce, ok := err.(*ConfigError); ok && ce.Line == 0 {
			ce.Line = node.Line
		}
		return err
	}

	*s = spec
	return nil
}

// MarshalYAML writes the selectors as a sequence.
func (s Spec) MarshalYAML() (interface{}, error) {
	return s.selectors, nil
}
