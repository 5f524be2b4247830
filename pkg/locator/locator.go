// Package locator resolves locator specs against a driver.
//
// A Resolver walks a fallback chain: selectors are tried in priority order
// and the first element found wins. Only the driver's "no such element"
// signal moves the chain forward; every other driver error stops it.
// No waiting or retrying happens here; callers that need a time budget wrap
// a locator with the wait package.
package locator

import (
	"time"

	"github.com/devicelab-dev/pagefactory/pkg/by"
	"github.com/devicelab-dev/pagefactory/pkg/core"
	"github.com/devicelab-dev/pagefactory/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ElementLocator finds a single element.
type ElementLocator interface {
	FindElement() (core.Element, error)
}

// ElementsLocator finds every element of a collection.
type ElementsLocator interface {
	FindElements() ([]core.Element, error)
}

// Attempt records one selector tried during a resolution.
type Attempt struct {
	Selector by.Selector
	Status   core.AttemptStatus
	Duration time.Duration
	Err      error // set for not_found and fault
}

// Resolver resolves a Spec through its fallback chain.
// It holds no state besides the driver and the immutable spec.
type Resolver struct {
	driver core.Driver
	spec   by.Spec
}

// New creates a Resolver bound to driver and spec.
func New(driver core.Driver, spec by.Spec) *Resolver {
	return &Resolver{driver: driver, spec: spec}
}

// Spec returns the resolver's locator spec.
func (r *Resolver) Spec() by.Spec {
	return r.spec
}

// FindElement returns the element matched by the highest-priority selector.
// Selectors after the first match are never tried.
func (r *Resolver) FindElement() (core.Element, error) {
	elem, _, err := r.Locate()
	return elem, err
}

// Locate works like FindElement and also returns one Attempt per selector,
// in priority order. Selectors that were not reached are reported as pending.
func (r *Resolver) Locate() (core.Element, []Attempt, error) {
	selectors := r.spec.Selectors()
	if len(selectors) == 0 {
		return nil, nil, &by.ConfigError{Reason: "locator list is empty"}
	}

	attempts := make([]Attempt, len(selectors))
	for i, sel := range selectors {
		attempts[i] = Attempt{Selector: sel, Status: core.AttemptPending}
	}

	for i, sel := range selectors {
		start := time.Now()
		elem, err := r.driver.FindElement(sel)
		attempts[i].Duration = time.Since(start)

		if err == nil {
			attempts[i].Status = core.AttemptFound
			logger.WithFields(logrus.Fields{
				"selector": sel.String(),
				"priority": i + 1,
			}).Debug("element located")
			return elem, attempts, nil
		}

		attempts[i].Err = err
		if core.IsNoSuchElement(err) {
			attempts[i].Status = core.AttemptNotFound
			logger.WithFields(logrus.Fields{
				"selector": sel.String(),
				"priority": i + 1,
			}).Debug("no element, trying next locator")
			continue
		}

		attempts[i].Status = core.AttemptFault
		return nil, attempts, core.ErrDriverFault.
			WithMessage("driver failed while locating " + sel.String()).
			WithDetails(map[string]interface{}{"selector": sel.String(), "priority": i + 1}).
			WithCause(err)
	}

	return nil, attempts, core.ErrElementNotFound.
		WithMessage("could not find the element using any of the provided locators").
		WithAttempted(selectors)
}

// FindElements is not supported: a fallback chain has no defined answer for
// which selector's matches should win, so it fails instead of guessing.
func (r *Resolver) FindElements() ([]core.Element, error) {
	return nil, core.ErrUnsupportedOperation.
		WithMessage("fallback locator only supports finding a single element").
		WithAttempted(r.spec.Selectors())
}

// Default locates with a single selector and the driver's own behaviour:
// no fallback, and driver errors (including "no such element") are returned
// unchanged.
type Default struct {
	driver   core.Driver
	selector by.Selector
}

// NewDefault creates a single-selector locator.
func NewDefault(driver core.Driver, sel by.Selector) *Default {
	return &Default{driver: driver, selector: sel}
}

// Selector returns the locator's selector.
func (d *Default) Selector() by.Selector {
	return d.selector
}

// FindElement asks the driver for the first match.
func (d *Default) FindElement() (core.Element, error) {
	return d.driver.FindElement(d.selector)
}

// FindElements asks the driver for every match.
func (d *Default) FindElements() ([]core.Element, error) {
	return d.driver.FindElements(d.selector)
}
