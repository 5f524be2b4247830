package by

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selector is a single strategy/value pair.
type Selector struct {
	Strategy Strategy
	Value    string
}

// Constructors mirroring the WebDriver locator helpers.

func IDOf(v string) Selector              { return Selector{Strategy: ID, Value: v} }
func NameOf(v string) Selector            { return Selector{Strategy: Name, Value: v} }
func ClassNameOf(v string) Selector       { return Selector{Strategy: ClassName, Value: v} }
func CSSOf(v string) Selector             { return Selector{Strategy: CSS, Value: v} }
func XPathOf(v string) Selector           { return Selector{Strategy: XPath, Value: v} }
func TagNameOf(v string) Selector         { return Selector{Strategy: TagName, Value: v} }
func LinkTextOf(v string) Selector        { return Selector{Strategy: LinkText, Value: v} }
func PartialLinkTextOf(v string) Selector { return Selector{Strategy: PartialLinkText, Value: v} }

// ParseSelector parses "strategy=value". Only the first '=' separates the two
// parts, so values such as `input[name=q]` survive intact.
func ParseSelector(s string) (Selector, error) {
	key, value, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok {
		return Selector{}, &ConfigError{Input: s, Reason: "expected strategy=value"}
	}
	strategy, err := ParseStrategy(key)
	if err != nil {
		return Selector{}, &ConfigError{Input: s, Reason: "unknown locator strategy " + strings.TrimSpace(key)}
	}
	sel := Selector{Strategy: strategy, Value: strings.TrimSpace(value)}
	if err := sel.Validate(); err != nil {
		return Selector{}, err
	}
	return sel, nil
}

// Validate checks that the selector has a known strategy and a value.
func (s Selector) Validate() error {
	if !s.Strategy.IsValid() {
		return &ConfigError{Input: s.Value, Reason: "unknown locator strategy"}
	}
	if s.Value == "" {
		return &ConfigError{Input: s.Strategy.Key() + "=", Reason: "empty locator value"}
	}
	return nil
}

// String returns a quoted description like css="#search". Quotes inside the
// value are escaped.
func (s Selector) String() string {
	return s.Strategy.Key() + "=" + strconv.Quote(s.Value)
}

// selectorRaw is the long mapping form: {strategy: css, value: "#search"}.
type selectorRaw struct {
	Strategy string `yaml:"strategy"`
	Value    string `yaml:"value"`
}

// UnmarshalYAML accepts "css=#search", {css: "#search"} or
// {strategy: css, value: "#search"}.
func (s *Selector) UnmarshalYAML(node *yaml.Node) error {
	var (
		sel Selector
		err error
	)

	switch node.Kind {
	case yaml.ScalarNode:
		sel, err = ParseSelector(node.Value)
	case yaml.MappingNode:
		sel, err = decodeSelectorMapping(node)
	default:
		err = &ConfigError{Reason: "selector must be a string or a mapping"}
	}
	if err != nil {
		if ce, ok := err.(*ConfigError); ok {
			ce.Line = node.Line
		}
		return err
	}

	*s = sel
	return nil
}

func decodeSelectorMapping(node *yaml.Node) (Selector, error) {
	var raw selectorRaw
	if err := node.Decode(&raw); err == nil && raw.Strategy != "" {
		strategy, err := ParseStrategy(raw.Strategy)
		if err != nil {
			return Selector{}, err
		}
		sel := Selector{Strategy: strategy, Value: raw.Value}
		return sel, sel.Validate()
	}

	// Short form: exactly one key naming the strategy.
	if len(node.Content) != 2 {
		return Selector{}, &ConfigError{Reason: "selector mapping must have exactly one strategy key"}
	}
	key, value := node.Content[0], node.Content[1]
	if value.Kind != yaml.ScalarNode {
		return Selector{}, &ConfigError{Input: key.Value, Reason: "selector value must be a string"}
	}
	strategy, err := ParseStrategy(key.Value)
	if err != nil {
		return Selector{}, err
	}
	sel := Selector{Strategy: strategy, Value: value.Value}
	return sel, sel.Validate()
}

// MarshalYAML writes the short mapping form.
func (s Selector) MarshalYAML() (interface{}, error) {
	return map[string]string{s.Strategy.Key(): s.Value}, nil
}
