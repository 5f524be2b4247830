// Package mock provides an in-memory driver for testing without a browser.
package mock

import (
	"fmt"

	"github.com/devicelab-dev/pagefactory/pkg/by"
	"github.com/devicelab-dev/pagefactory/pkg/core"
)

// Driver is a mock implementation of core.Driver for testing.
type Driver struct {
	// Configuration
	Config Config

	// Internal state
	elements map[by.Selector][]*Element
	faults   map[by.Selector]error
	calls    []Call
}

// Config configures mock driver behavior.
type Config struct {
	// FailOnCall makes find call N fail with a session error (1-indexed). 0 = never fail.
	FailOnCall int
}

// Call records one lookup made against the driver.
type Call struct {
	Method   string // FindElement or FindElements
	Selector by.Selector
}

// New creates a new mock driver.
func New(cfg Config) *Driver {
	return &Driver{
		Config:   cfg,
		elements: make(map[by.Selector][]*Element),
		faults:   make(map[by.Selector]error),
	}
}

// Add registers elements matched by sel, appending to any already present.
func (d *Driver) Add(sel by.Selector, elems ...*Element) *Driver {
	d.elements[sel] = append(d.elements[sel], elems...)
	return d
}

// Remove drops every element matched by sel, simulating a page change.
func (d *Driver) Remove(sel by.Selector) {
	delete(d.elements, sel)
}

// Fail makes every lookup of sel return err.
func (d *Driver) Fail(sel by.Selector, err error) {
	d.faults[sel] = err
}

// Calls returns every lookup made so far, in order.
func (d *Driver) Calls() []Call {
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// Selectors returns the selectors passed to lookups, in order.
func (d *Driver) Selectors() []by.Selector {
	out := make([]by.Selector, len(d.calls))
	for i, c := range d.calls {
		out[i] = c.Selector
	}
	return out
}

// ResetCalls clears the call log.
func (d *Driver) ResetCalls() {
	d.calls = nil
}

func (d *Driver) record(method string, sel by.Selector) error {
	d.calls = append(d.calls, Call{Method: method, Selector: sel})
	if d.Config.FailOnCall > 0 && len(d.calls) == d.Config.FailOnCall {
		return fmt.Errorf("mock failure on call %d: invalid session id", len(d.calls))
	}
	if err, ok := d.faults[sel]; ok {
		return err
	}
	return nil
}

// FindElement implements core.Driver.
func (d *Driver) FindElement(sel by.Selector) (core.Element, error) {
	if err := d.record("FindElement", sel); err != nil {
		return nil, err
	}
	elems := d.elements[sel]
	if len(elems) == 0 {
		return nil, &core.NoSuchElementError{Selector: sel}
	}
	return elems[0], nil
}

// FindElements implements core.Driver.
func (d *Driver) FindElements(sel by.Selector) ([]core.Element, error) {
	if err := d.record("FindElements", sel); err != nil {
		return nil, err
	}
	elems := d.elements[sel]
	out := make([]core.Element, len(elems))
	for i, e := range elems {
		out[i] = e
	}
	return out, nil
}

// Element is a mock implementation of core.Element that records interactions.
type Element struct {
	ID         string
	Tag        string
	Value      string // visible text
	Attributes map[string]string
	Bounds     core.Bounds
	Hidden     bool
	Disabled   bool
	Selected   bool

	// Err, when set, is returned by every operation (e.g. a stale reference).
	Err error

	// Recorded interactions
	Clicks  int
	Typed   []string
	Clears  int
	Submits int
}

// NewElement creates a visible, enabled element.
func NewElement(id, tag, text string) *Element {
	return &Element{ID: id, Tag: tag, Value: text}
}

func (e *Element) Click() error {
	if e.Err != nil {
		return e.Err
	}
	e.Clicks++
	return nil
}

func (e *Element) SendKeys(text string) error {
	if e.Err != nil {
		return e.Err
	}
	e.Typed = append(e.Typed, text)
	return nil
}

func (e *Element) Clear() error {
	if e.Err != nil {
		return e.Err
	}
	e.Clears++
	return nil
}

func (e *Element) Submit() error {
	if e.Err != nil {
		return e.Err
	}
	e.Submits++
	return nil
}

func (e *Element) Text() (string, error) {
	return e.Value, e.Err
}

func (e *Element) Attribute(name string) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	return e.Attributes[name], nil
}

func (e *Element) TagName() (string, error) {
	return e.Tag, e.Err
}

func (e *Element) Rect() (core.Bounds, error) {
	return e.Bounds, e.Err
}

func (e *Element) IsDisplayed() (bool, error) {
	return !e.Hidden, e.Err
}

func (e *Element) IsEnabled() (bool, error) {
	return !e.Disabled, e.Err
}

func (e *Element) IsSelected() (bool, error) {
	return e.Selected, e.Err
}
