// Package validator validates locator repository files before they are used.
// It parses every file upfront and reports all problems at once, without
// talking to a browser.
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devicelab-dev/pagefactory/pkg/by"
	"github.com/devicelab-dev/pagefactory/pkg/repository"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	File    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Result contains the validation result.
type Result struct {
	// Files is the list of locator files that parsed, in path order.
	Files []string
	// Repositories holds the parsed files, aligned with Files.
	Repositories []*repository.Repository
	// Errors contains all validation errors found.
	Errors []error
	// Warnings are problems that do not prevent use.
	Warnings []string
}

// IsValid returns true if there are no validation errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Pages returns the number of pages across all parsed files.
func (r *Result) Pages() int {
	n := 0
	for _, repo := range r.Repositories {
		n += len(repo.Pages)
	}
	return n
}

// Elements returns the number of elements across all parsed files.
func (r *Result) Elements() int {
	n := 0
	for _, repo := range r.Repositories {
		for _, p := range repo.Pages {
			n += len(p.Elements)
		}
	}
	return n
}

// configNames are skipped when scanning directories.
var configNames = map[string]bool{
	"pagefactory.yaml": true,
	"pagefactory.yml":  true,
}

// Validator validates locator files.
type Validator struct {
	pages map[string]string // lower-case page name -> file defining it
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{pages: make(map[string]string)}
}

// Validate validates files and directories. Directories are scanned
// recursively for .yaml and .yml files. Page names must be unique across
// everything validated by one call.
func (v *Validator) Validate(paths ...string) *Result {
	result := &Result{}
	v.pages = make(map[string]string)

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			result.Errors = append(result.Errors, &ValidationError{
				File:    path,
				Message: fmt.Sprintf("cannot access: %v", err),
			})
			continue
		}

		var files []string
		if info.IsDir() {
			files, err = collectLocatorFiles(path)
			if err != nil {
				result.Errors = append(result.Errors, &ValidationError{
					File:    path,
					Message: fmt.Sprintf("failed to scan directory: %v", err),
				})
				continue
			}
		} else {
			files = []string{path}
		}

		for _, file := range files {
			v.validateFile(file, result)
		}
	}

	return result
}

// collectLocatorFiles finds all .yaml/.yml files in a directory.
func collectLocatorFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || configNames[strings.ToLower(info.Name())] {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, err
}

func (v *Validator) validateFile(file string, result *Result) {
	repo, err := repository.ParseFile(file)
	if err != nil {
		result.Errors = append(result.Errors, &ValidationError{
			File:    file,
			Message: fmt.Sprintf("parse error: %v", err),
		})
		return
	}

	for _, p := range repo.Pages {
		key := strings.ToLower(p.Name)
		if other, dup := v.pages[key]; dup {
			result.Errors = append(result.Errors, &ValidationError{
				File:    file,
				Message: fmt.Sprintf("page %q is also defined in %s", p.Name, other),
			})
			continue
		}
		v.pages[key] = file

		for _, e := range p.Elements {
			result.Warnings = append(result.Warnings, elementWarnings(file, p, e)...)
		}
	}

	result.Files = append(result.Files, file)
	result.Repositories = append(result.Repositories, repo)
}

// elementWarnings flags chains that cannot behave as written.
func elementWarnings(file string, p *repository.Page, e *repository.Element) []string {
	var warnings []string
	prefix := fmt.Sprintf("%s:%d: %s.%s", file, e.Line, p.Name, e.Name)

	seen := make(map[by.Selector]bool)
	for _, sel := range e.Locators.Selectors() {
		if seen[sel] {
			warnings = append(warnings, fmt.Sprintf("%s: locator %s listed twice", prefix, sel))
		}
		seen[sel] = true
	}

	if e.Multiple && e.Locators.Len() > 1 {
		warnings = append(warnings, fmt.Sprintf("%s: element lists only use the first locator, %d fallbacks ignored",
			prefix, e.Locators.Len()-1))
	}
	return warnings
}
