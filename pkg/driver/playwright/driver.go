// Package playwright implements core.Driver on top of a playwright-go page.
package playwright

import (
	"fmt"
	"math"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/pagefactory/pkg/by"
	"github.com/devicelab-dev/pagefactory/pkg/core"
)

const submitScript = `e => { const f = e.form || e.closest("form"); if (f) { f.requestSubmit ? f.requestSubmit() : f.submit(); } }`

// Driver adapts a playwright.Page.
type Driver struct {
	page playwright.Page
}

// New adapts page.
func New(page playwright.Page) *Driver {
	return &Driver{page: page}
}

// Page returns the wrapped page.
func (d *Driver) Page() playwright.Page {
	return d.page
}

// FindElement implements core.Driver. Playwright locators never fail on an
// empty match, so an empty count is turned into the not-found signal.
func (d *Driver) FindElement(sel by.Selector) (core.Element, error) {
	loc := d.page.Locator(Translate(sel))
	n, err := loc.Count()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &core.NoSuchElementError{Selector: sel}
	}
	return &Element{loc: loc.First()}, nil
}

// FindElements implements core.Driver.
func (d *Driver) FindElements(sel by.Selector) ([]core.Element, error) {
	locs, err := d.page.Locator(Translate(sel)).All()
	if err != nil {
		return nil, err
	}
	out := make([]core.Element, len(locs))
	for i, l := range locs {
		out[i] = &Element{loc: l}
	}
	return out, nil
}

// Translate converts a selector into a Playwright selector string.
func Translate(sel by.Selector) string {
	switch sel.Strategy {
	case by.ID:
		return "id=" + sel.Value
	case by.Name:
		return `css=[name="` + quote(sel.Value) + `"]`
	case by.ClassName:
		return `css=[class~="` + quote(sel.Value) + `"]`
	case by.CSS, by.TagName:
		return "css=" + sel.Value
	case by.XPath:
		return "xpath=" + sel.Value
	case by.LinkText:
		return `css=a:text-is("` + quote(sel.Value) + `")`
	case by.PartialLinkText:
		return `css=a:has-text("` + quote(sel.Value) + `")`
	default:
		return sel.Value
	}
}

func quote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// Element adapts a playwright.Locator that points at one element.
type Element struct {
	loc playwright.Locator
}

// Locator returns the wrapped locator.
func (e *Element) Locator() playwright.Locator { return e.loc }

func (e *Element) Click() error               { return e.loc.Click() }
func (e *Element) SendKeys(text string) error { return e.loc.PressSequentially(text) }
func (e *Element) Clear() error               { return e.loc.Clear() }
func (e *Element) Text() (string, error)      { return e.loc.InnerText() }
func (e *Element) IsDisplayed() (bool, error) { return e.loc.IsVisible() }
func (e *Element) IsEnabled() (bool, error)   { return e.loc.IsEnabled() }
func (e *Element) IsSelected() (bool, error)  { return e.loc.IsChecked() }

func (e *Element) Submit() error {
	_, err := e.loc.Evaluate(submitScript, nil)
	return err
}

func (e *Element) Attribute(name string) (string, error) {
	return e.loc.GetAttribute(name)
}

func (e *Element) TagName() (string, error) {
	v, err := e.loc.Evaluate("e => e.tagName.toLowerCase()", nil)
	if err != nil {
		return "", err
	}
	tag, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected tag name %v", v)
	}
	return tag, nil
}

// Rect returns zero bounds for elements that are not rendered.
func (e *Element) Rect() (core.Bounds, error) {
	box, err := e.loc.BoundingBox()
	if err != nil || box == nil {
		return core.Bounds{}, err
	}
	return core.Bounds{
		X:      int(math.Round(box.X)),
		Y:      int(math.Round(box.Y)),
		Width:  int(math.Round(box.Width)),
		Height: int(math.Round(box.Height)),
	}, nil
}

var (
	_ core.Driver  = (*Driver)(nil)
	_ core.Element = (*Element)(nil)
)
