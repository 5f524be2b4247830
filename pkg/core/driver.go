// Package core defines the capability surface the page-object helper needs
// from a browser-automation driver, and the errors it reports.
package core

import (
	"github.com/devicelab-dev/pagefactory/pkg/by"
)

// Driver defines the lookup capability of a browser session.
// Implementations: Selenium, W3C WebDriver, Playwright, mock.
// A Driver session is single-owner; callers must not share it across goroutines.
type Driver interface {
	// FindElement returns the first element matching sel.
	// It returns a *NoSuchElementError when nothing matches; any other error
	// is a driver fault (session lost, invalid selector, ...).
	FindElement(sel by.Selector) (Element, error)

	// FindElements returns every element matching sel, possibly none.
	FindElements(sel by.Selector) ([]Element, error)
}

// Element is a reference to a UI element.
// Both resolved driver elements and deferred handles implement it.
type Element interface {
	Click() error
	SendKeys(text string) error
	Clear() error
	Submit() error

	Text() (string, error)
	Attribute(name string) (string, error)
	TagName() (string, error)
	Rect() (Bounds, error)

	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	IsSelected() (bool, error)
}

// Elements is a reference to a collection of elements sharing one locator.
type Elements interface {
	// All resolves the collection and returns every element.
	All() ([]Element, error)

	// Count resolves the collection and returns its size.
	Count() (int, error)

	// At resolves the collection and returns the element at index i.
	At(i int) (Element, error)
}

// Bounds represents element position and size
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center point of the bounds
func (b Bounds) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// ElementInfo is a point-in-time snapshot of an element, used for diagnostics.
type ElementInfo struct {
	TagName    string            `json:"tagName,omitempty"`
	Text       string            `json:"text,omitempty"`
	Bounds     Bounds            `json:"bounds"`
	Visible    bool              `json:"visible"`
	Enabled    bool              `json:"enabled"`
	Selected   bool              `json:"selected,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Describe captures an ElementInfo snapshot. Attribute names listed in attrs
// are read as well. The first error aborts the snapshot.
func Describe(e Element, attrs ...string) (*ElementInfo, error) {
	info := &ElementInfo{}
	var err error

	if info.TagName, err = e.TagName(); err != nil {
		return nil, err
	}
	if info.Text, err = e.Text(); err != nil {
		return nil, err
	}
	if info.Bounds, err = e.Rect(); err != nil {
		return nil, err
	}
	if info.Visible, err = e.IsDisplayed(); err != nil {
		return nil, err
	}
	if info.Enabled, err = e.IsEnabled(); err != nil {
		return nil, err
	}
	if info.Selected, err = e.IsSelected(); err != nil {
		return nil, err
	}

	if len(attrs) > 0 {
		info.Attributes = make(map[string]string, len(attrs))
		for _, name := range attrs {
			value, err := e.Attribute(name)
			if err != nil {
				return nil, err
			}
			info.Attributes[name] = value
		}
	}

	return info, nil
}
