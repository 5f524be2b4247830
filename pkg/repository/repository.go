// Package repository reads locator repositories: YAML files that declare
// pages, their elements and each element's ordered fallback locators.
//
//	pages:
//	  - name: login
//	    url: https://example.com/login
//	    elements:
//	      - name: Username
//	        locators:
//	          - id: username
//	          - css: "input[name=user]"
//	      - name: Errors
//	        multiple: true
//	        locators: "css=.error"
package repository

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/pagefactory/pkg/by"
)

// ParseError represents a parsing error with location info.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Repository is a parsed locator file.
type Repository struct {
	SourcePath string
	Pages      []*Page
}

// Page groups the elements of one screen.
type Page struct {
	Name     string     `yaml:"name"`
	URL      string     `yaml:"url,omitempty"`
	Elements []*Element `yaml:"elements"`
	Line     int        `yaml:"-"`
}

// Element is one logical element with its fallback locators.
type Element struct {
	Name     string  `yaml:"name"`
	Multiple bool    `yaml:"multiple,omitempty"`
	Locators by.Spec `yaml:"locators"`
	Line     int     `yaml:"-"`
}

// UnmarshalYAML records the page's line.
func (p *Page) UnmarshalYAML(node *yaml.Node) error {
	type plain Page
	var raw plain
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*p = Page(raw)
	p.Line = node.Line
	return nil
}

// UnmarshalYAML records the element's line.
func (e *Element) UnmarshalYAML(node *yaml.Node) error {
	type plain Element
	var raw plain
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*e = Element(raw)
	e.Line = node.Line
	return nil
}

// Page returns the page with the given name, or nil.
func (r *Repository) Page(name string) *Page {
	for _, p := range r.Pages {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// Element returns the element with the given name, or nil.
func (p *Page) Element(name string) *Element {
	for _, e := range p.Elements {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// ParseFile parses a single locator file.
func ParseFile(path string) (*Repository, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is user-provided locator file
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses locator YAML content.
func Parse(data []byte, sourcePath string) (*Repository, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, &ParseError{Path: sourcePath, Line: 1, Message: "empty locator file"}
	}

	var doc struct {
		Pages []*Page `yaml:"pages"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, wrapDecodeError(sourcePath, err)
	}

	repo := &Repository{SourcePath: sourcePath, Pages: doc.Pages}
	if err := repo.check(); err != nil {
		return nil, err
	}
	return repo, nil
}

func wrapDecodeError(path string, err error) error {
	var cfgErr *by.ConfigError
	if errors.As(err, &cfgErr) {
		return &ParseError{Path: path, Line: cfgErr.Line, Message: cfgErr.Error(), Cause: err}
	}
	return &ParseError{Path: path, Message: err.Error(), Cause: err}
}

// check enforces names and uniqueness; locator syntax is already checked by
// the decoder.
func (r *Repository) check() error {
	if len(r.Pages) == 0 {
		return &ParseError{Path: r.SourcePath, Line: 1, Message: "no pages defined"}
	}

	pages := make(map[string]int)
	for _, p := range r.Pages {
		if p.Name == "" {
			return &ParseError{Path: r.SourcePath, Line: p.Line, Message: "page without a name"}
		}
		key := strings.ToLower(p.Name)
		if first, dup := pages[key]; dup {
			return &ParseError{
				Path:    r.SourcePath,
				Line:    p.Line,
				Message: fmt.Sprintf("duplicate page %q (first defined on line %d)", p.Name, first),
			}
		}
		pages[key] = p.Line

		elements := make(map[string]int)
		for _, e := range p.Elements {
			if e.Name == "" {
				return &ParseError{Path: r.SourcePath, Line: e.Line, Message: fmt.Sprintf("page %q: element without a name", p.Name)}
			}
			if first, dup := elements[e.Name]; dup {
				return &ParseError{
					Path:    r.SourcePath,
					Line:    e.Line,
					Message: fmt.Sprintf("page %q: duplicate element %q (first defined on line %d)", p.Name, e.Name, first),
				}
			}
			elements[e.Name] = e.Line
			if e.Locators.IsZero() {
				return &ParseError{
					Path:    r.SourcePath,
					Line:    e.Line,
					Message: fmt.Sprintf("page %q: element %q has no locators", p.Name, e.Name),
				}
			}
		}
	}
	return nil
}
