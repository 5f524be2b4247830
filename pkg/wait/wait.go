// Package wait polls for elements until they are present, visible or
// clickable, within a time budget.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devicelab-dev/pagefactory/pkg/by"
	"github.com/devicelab-dev/pagefactory/pkg/core"
	"github.com/devicelab-dev/pagefactory/pkg/locator"
	"github.com/devicelab-dev/pagefactory/pkg/logger"
)

const (
	// DefaultTimeout is the default budget for a wait.
	DefaultTimeout = 10 * time.Second
	// DefaultInterval is the pause between two lookups.
	DefaultInterval = 200 * time.Millisecond
)

// Condition reports whether a located element is ready.
type Condition func(core.Element) (bool, error)

// Present accepts any element.
func Present(core.Element) (bool, error) { return true, nil }

// Visible accepts displayed elements.
func Visible(e core.Element) (bool, error) { return e.IsDisplayed() }

// Clickable accepts displayed, enabled elements.
func Clickable(e core.Element) (bool, error) {
	shown, err := e.IsDisplayed()
	if err != nil || !shown {
		return false, err
	}
	return e.IsEnabled()
}

// Waiter polls a driver.
type Waiter struct {
	driver   core.Driver
	timeout  time.Duration
	interval time.Duration
}

// Option configures a Waiter.
type Option func(*Waiter)

// WithTimeout sets the time budget. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(w *Waiter) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithInterval sets the polling interval. Non-positive values keep the default.
func WithInterval(d time.Duration) Option {
	return func(w *Waiter) {
		if d > 0 {
			w.interval = d
		}
	}
}

// New creates a Waiter for driver.
func New(driver core.Driver, opts ...Option) *Waiter {
	w := &Waiter{
		driver:   driver,
		timeout:  DefaultTimeout,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Timeout returns the configured budget.
func (w *Waiter) Timeout() time.Duration {
	return w.timeout
}

// For polls loc until it yields an element satisfying cond.
//
// Not-found results and errors from cond are retried. Any other lookup error
// is returned at once as core.ErrDriverFault. When the budget runs out the
// error is core.ErrWaitTimeout with the last failure as cause.
func (w *Waiter) For(ctx context.Context, loc locator.ElementLocator, cond Condition) (core.Element, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	start := time.Now()
	var lastErr error
	for {
		elem, err := loc.FindElement()
		switch {
		case err == nil:
			ready, condErr := cond(elem)
			if condErr == nil && ready {
				return elem, nil
			}
			if condErr != nil {
				lastErr = condErr
			} else {
				lastErr = errors.New("element found but not ready")
			}
		case isNotFound(err):
			lastErr = err
		default:
			if errors.Is(err, core.ErrDriverFault) {
				return nil, err
			}
			return nil, core.ErrDriverFault.WithMessage("lookup failed while waiting").WithCause(err)
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, fmt.Errorf("wait cancelled: %w", ctx.Err())
			}
			logger.Debug("wait timed out after %s: %v", time.Since(start).Round(time.Millisecond), lastErr)
			return nil, core.ErrWaitTimeout.
				WithMessage(fmt.Sprintf("element not ready after %s", w.timeout)).
				WithCause(lastErr)
		case <-ticker.C:
		}
	}
}

func isNotFound(err error) bool {
	return core.IsNoSuchElement(err) || errors.Is(err, core.ErrElementNotFound)
}

// Present waits until sel matches an element.
func (w *Waiter) Present(ctx context.Context, sel by.Selector) (core.Element, error) {
	return w.For(ctx, locator.NewDefault(w.driver, sel), Present)
}

// Visible waits until sel matches a displayed element.
func (w *Waiter) Visible(ctx context.Context, sel by.Selector) (core.Element, error) {
	return w.For(ctx, locator.NewDefault(w.driver, sel), Visible)
}

// Clickable waits until sel matches a displayed, enabled element.
func (w *Waiter) Clickable(ctx context.Context, sel by.Selector) (core.Element, error) {
	return w.For(ctx, locator.NewDefault(w.driver, sel), Clickable)
}

// ClickWhenReady waits for sel to be clickable and clicks it.
func (w *Waiter) ClickWhenReady(ctx context.Context, sel by.Selector) error {
	elem, err := w.Clickable(ctx, sel)
	if err != nil {
		return err
	}
	return elem.Click()
}

// SendKeysWhenVisible waits for sel to be visible and types text into it.
func (w *Waiter) SendKeysWhenVisible(ctx context.Context, sel by.Selector, text string) error {
	elem, err := w.Visible(ctx, sel)
	if err != nil {
		return err
	}
	return elem.SendKeys(text)
}

// TextWhenPresent waits for sel to be present and returns its text.
func (w *Waiter) TextWhenPresent(ctx context.Context, sel by.Selector) (string, error) {
	elem, err := w.Present(ctx, sel)
	if err != nil {
		return "", err
	}
	return elem.Text()
}
