// Package element provides deferred element handles.
//
// A handle stores only how to find its element. Every operation resolves the
// element again and then delegates, so a handle never holds on to a stale
// reference across page navigations.
package element

import (
	"fmt"

	"github.com/devicelab-dev/pagefactory/pkg/core"
	"github.com/devicelab-dev/pagefactory/pkg/locator"
)

// Proxy is a deferred core.Element.
type Proxy struct {
	name    string
	locator locator.ElementLocator
}

// NewProxy creates a handle that resolves through loc on every call.
// name is used in error messages and may be empty.
func NewProxy(name string, loc locator.ElementLocator) *Proxy {
	return &Proxy{name: name, locator: loc}
}

// Name returns the handle's name.
func (p *Proxy) Name() string {
	return p.name
}

// Locator returns the locator the handle resolves through.
func (p *Proxy) Locator() locator.ElementLocator {
	return p.locator
}

// Resolve locates the element now.
func (p *Proxy) Resolve() (core.Element, error) {
	elem, err := p.locator.FindElement()
	if err != nil {
		if p.name != "" {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
		return nil, err
	}
	return elem, nil
}

func (p *Proxy) Click() error {
	e, err := p.Resolve()
	if err != nil {
		return err
	}
	return e.Click()
}

func (p *Proxy) SendKeys(text string) error {
	e, err := p.Resolve()
	if err != nil {
		return err
	}
	return e.SendKeys(text)
}

func (p *Proxy) Clear() error {
	e, err := p.Resolve()
	if err != nil {
		return err
	}
	return e.Clear()
}

func (p *Proxy) Submit() error {
	e, err := p.Resolve()
	if err != nil {
		return err
	}
	return e.Submit()
}

func (p *Proxy) Text() (string, error) {
	e, err := p.Resolve()
	if err != nil {
		return "", err
	}
	return e.Text()
}

func (p *Proxy) Attribute(name string) (string, error) {
	e, err := p.Resolve()
	if err != nil {
		return "", err
	}
	return e.Attribute(name)
}

func (p *Proxy) TagName() (string, error) {
	e, err := p.Resolve()
	if err != nil {
		return "", err
	}
	return e.TagName()
}

func (p *Proxy) Rect() (core.Bounds, error) {
	e, err := p.Resolve()
	if err != nil {
		return core.Bounds{}, err
	}
	return e.Rect()
}

func (p *Proxy) IsDisplayed() (bool, error) {
	e, err := p.Resolve()
	if err != nil {
		return false, err
	}
	return e.IsDisplayed()
}

func (p *Proxy) IsEnabled() (bool, error) {
	e, err := p.Resolve()
	if err != nil {
		return false, err
	}
	return e.IsEnabled()
}

func (p *Proxy) IsSelected() (bool, error) {
	e, err := p.Resolve()
	if err != nil {
		return false, err
	}
	return e.IsSelected()
}

// ListProxy is a deferred core.Elements.
type ListProxy struct {
	name    string
	locator locator.ElementsLocator
}

// NewListProxy creates a collection handle that resolves through loc on every call.
func NewListProxy(name string, loc locator.ElementsLocator) *ListProxy {
	return &ListProxy{name: name, locator: loc}
}

// Name returns the handle's name.
func (l *ListProxy) Name() string {
	return l.name
}

// Locator returns the locator the handle resolves through.
func (l *ListProxy) Locator() locator.ElementsLocator {
	return l.locator
}

// All resolves the collection.
func (l *ListProxy) All() ([]core.Element, error) {
	elems, err := l.locator.FindElements()
	if err != nil {
		if l.name != "" {
			return nil, fmt.Errorf("%s: %w", l.name, err)
		}
		return nil, err
	}
	return elems, nil
}

// Count resolves the collection and returns its size.
func (l *ListProxy) Count() (int, error) {
	elems, err := l.All()
	if err != nil {
		return 0, err
	}
	return len(elems), nil
}

// At resolves the collection and returns element i.
func (l *ListProxy) At(i int) (core.Element, error) {
	elems, err := l.All()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(elems) {
		return nil, fmt.Errorf("%s: index %d out of range (%d elements)", l.label(), i, len(elems))
	}
	return elems[i], nil
}

func (l *ListProxy) label() string {
	if l.name != "" {
		return l.name
	}
	return "element list"
}

var (
	_ core.Element  = (*Proxy)(nil)
	_ core.Elements = (*ListProxy)(nil)
)
