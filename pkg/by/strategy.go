// Package by describes how a UI element is located: a strategy plus a value,
// and ordered lists of those used as fallback chains.
package by

import "strings"

// Strategy identifies a locator strategy understood by WebDriver-style drivers.
type Strategy int

const (
	Unknown Strategy = iota
	ID
	Name
	ClassName
	CSS
	XPath
	TagName
	LinkText
	PartialLinkText
)

// Strategies lists every supported strategy in declaration order.
var Strategies = []Strategy{ID, Name, ClassName, CSS, XPath, TagName, LinkText, PartialLinkText}

// String returns the WebDriver strategy name ("css selector", "link text", ...).
func (s Strategy) String() string {
	switch s {
	case ID:
		return "id"
	case Name:
		return "name"
	case ClassName:
		return "class name"
	case CSS:
		return "css selector"
	case XPath:
		return "xpath"
	case TagName:
		return "tag name"
	case LinkText:
		return "link text"
	case PartialLinkText:
		return "partial link text"
	default:
		return "unknown"
	}
}

// Key returns the short form used in struct tags and locator files.
func (s Strategy) Key() string {
	switch s {
	case ID:
		return "id"
	case Name:
		return "name"
	case ClassName:
		return "class"
	case CSS:
		return "css"
	case XPath:
		return "xpath"
	case TagName:
		return "tag"
	case LinkText:
		return "linkText"
	case PartialLinkText:
		return "partialLinkText"
	default:
		return "unknown"
	}
}

// IsValid returns true for every strategy except Unknown and out-of-range values.
func (s Strategy) IsValid() bool {
	return s > Unknown && s <= PartialLinkText
}

var strategyAliases = map[string]Strategy{
	"id":                ID,
	"name":              Name,
	"class":             ClassName,
	"class_name":        ClassName,
	"classname":         ClassName,
	"css":               CSS,
	"css_selector":      CSS,
	"cssselector":       CSS,
	"xpath":             XPath,
	"tag":               TagName,
	"tag_name":          TagName,
	"tagname":           TagName,
	"link":              LinkText,
	"link_text":         LinkText,
	"linktext":          LinkText,
	"partial_link":      PartialLinkText,
	"partial_link_text": PartialLinkText,
	"partiallinktext":   PartialLinkText,
}

// ParseStrategy converts a strategy name to a Strategy.
// Matching is case-insensitive; '-' and ' ' are treated as '_', so
// "CLASS_NAME", "class name", "class-name" and "class" are all accepted.
func ParseStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if s, ok := strategyAliases[key]; ok {
		return s, nil
	}
	return Unknown, &ConfigError{Input: name, Reason: "unknown locator strategy"}
}
