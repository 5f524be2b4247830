package by

import (
	"errors"
	"testing"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input string
		want  Strategy
	}{
		{"ID", ID},
		{"id", ID},
		{"NAME", Name},
		{"CLASS_NAME", ClassName},
		{"class name", ClassName},
		{"class", ClassName},
		{"CSS", CSS},
		{"css selector", CSS},
		{"XPATH", XPath},
		{"TAG_NAME", TagName},
		{"tag", TagName},
		{"LINK_TEXT", LinkText},
		{"link-text", LinkText},
		{"PARTIAL_LINK_TEXT", PartialLinkText},
		{"partialLinkText", PartialLinkText},
		{"  xpath  ", XPath},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.input)
		if err != nil {
			t.Errorf("ParseStrategy(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseStrategy_Unknown(t *testing.T) {
	_, err := ParseStrategy("accessibility id")
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if cfgErr.Input != "accessibility id" {
		t.Errorf("Input = %q, want %q", cfgErr.Input, "accessibility id")
	}
}

func TestStrategy_String(t *testing.T) {
	tests := []struct {
		strategy Strategy
		expected string
	}{
		{ID, "id"},
		{Name, "name"},
		{ClassName, "class name"},
		{CSS, "css selector"},
		{XPath, "xpath"},
		{TagName, "tag name"},
		{LinkText, "link text"},
		{PartialLinkText, "partial link text"},
		{Unknown, "unknown"},
		{Strategy(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.strategy.String(); got != tt.expected {
			t.Errorf("Strategy(%d).String() = %q, want %q", tt.strategy, got, tt.expected)
		}
	}
}

func TestStrategy_KeyRoundTrip(t *testing.T) {
	for _, s := range Strategies {
		got, err := ParseStrategy(s.Key())
		if err != nil {
			t.Errorf("ParseStrategy(%q) unexpected error: %v", s.Key(), err)
			continue
		}
		if got != s {
			t.Errorf("ParseStrategy(%q) = %v, want %v", s.Key(), got, s)
		}
	}
}

func TestStrategy_IsValid(t *testing.T) {
	if Unknown.IsValid() {
		t.Error("Unknown should not be valid")
	}
	if Strategy(42).IsValid() {
		t.Error("out-of-range strategy should not be valid")
	}
	for _, s := range Strategies {
		if !s.IsValid() {
			t.Errorf("%v should be valid", s)
		}
	}
}
