// Package selenium implements core.Driver on top of github.com/tebeka/selenium.
package selenium

import (
	"errors"
	"strings"

	"github.com/tebeka/selenium"

	"github.com/devicelab-dev/pagefactory/pkg/by"
	"github.com/devicelab-dev/pagefactory/pkg/core"
)

// legacyNoSuchElement is the JSON Wire Protocol status for "no such element".
const legacyNoSuchElement = 7

var strategies = map[by.Strategy]string{
	by.ID:              selenium.ByID,
	by.Name:            selenium.ByName,
	by.ClassName:       selenium.ByClassName,
	by.CSS:             selenium.ByCSSSelector,
	by.XPath:           selenium.ByXPATH,
	by.TagName:         selenium.ByTagName,
	by.LinkText:        selenium.ByLinkText,
	by.PartialLinkText: selenium.ByPartialLinkText,
}

// Driver adapts a selenium.WebDriver.
type Driver struct {
	wd selenium.WebDriver
}

// Wrap adapts wd.
func Wrap(wd selenium.WebDriver) *Driver {
	return &Driver{wd: wd}
}

// WebDriver returns the wrapped session.
func (d *Driver) WebDriver() selenium.WebDriver {
	return d.wd
}

// FindElement implements core.Driver.
func (d *Driver) FindElement(sel by.Selector) (core.Element, error) {
	elem, err := d.wd.FindElement(strategies[sel.Strategy], sel.Value)
	if err != nil {
		if IsNoSuchElement(err) {
			return nil, &core.NoSuchElementError{Selector: sel, Cause: err}
		}
		return nil, err
	}
	return &Element{elem: elem}, nil
}

// FindElements implements core.Driver.
func (d *Driver) FindElements(sel by.Selector) ([]core.Element, error) {
	elems, err := d.wd.FindElements(strategies[sel.Strategy], sel.Value)
	if err != nil {
		// Some remote ends answer an empty match with "no such element".
		if IsNoSuchElement(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]core.Element, len(elems))
	for i, e := range elems {
		out[i] = &Element{elem: e}
	}
	return out, nil
}

// IsNoSuchElement reports whether err is the remote "no such element" error,
// in either W3C or legacy form.
func IsNoSuchElement(err error) bool {
	var selErr *selenium.Error
	if errors.As(err, &selErr) {
		return selErr.Err == "no such element" || selErr.LegacyCode == legacyNoSuchElement
	}
	return err != nil && strings.Contains(err.Error(), "no such element")
}

// Element adapts a selenium.WebElement.
type Element struct {
	elem selenium.WebElement
}

// WebElement returns the wrapped element.
func (e *Element) WebElement() selenium.WebElement { return e.elem }

func (e *Element) Click() error               { return e.elem.Click() }
func (e *Element) SendKeys(text string) error { return e.elem.SendKeys(text) }
func (e *Element) Clear() error               { return e.elem.Clear() }
func (e *Element) Submit() error              { return e.elem.Submit() }
func (e *Element) Text() (string, error)      { return e.elem.Text() }
func (e *Element) TagName() (string, error)   { return e.elem.TagName() }
func (e *Element) IsDisplayed() (bool, error) { return e.elem.IsDisplayed() }
func (e *Element) IsEnabled() (bool, error)   { return e.elem.IsEnabled() }
func (e *Element) IsSelected() (bool, error)  { return e.elem.IsSelected() }

func (e *Element) Attribute(name string) (string, error) {
	return e.elem.GetAttribute(name)
}

func (e *Element) Rect() (core.Bounds, error) {
	loc, err := e.elem.Location()
	if err != nil {
		return core.Bounds{}, err
	}
	size, err := e.elem.Size()
	if err != nil {
		return core.Bounds{}, err
	}
	return core.Bounds{X: loc.X, Y: loc.Y, Width: size.Width, Height: size.Height}, nil
}

var (
	_ core.Driver  = (*Driver)(nil)
	_ core.Element = (*Element)(nil)
)
