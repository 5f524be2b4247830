package webdriver

import (
	"strings"

	"github.com/devicelab-dev/pagefactory/pkg/by"
	"github.com/devicelab-dev/pagefactory/pkg/core"
)

// Driver implements core.Driver on top of a Client.
type Driver struct {
	client *Client
}

// NewDriver wraps a connected client.
func NewDriver(client *Client) *Driver {
	return &Driver{client: client}
}

// Client returns the underlying client.
func (d *Driver) Client() *Client {
	return d.client
}

// FindElement implements core.Driver.
func (d *Driver) FindElement(sel by.Selector) (core.Element, error) {
	using, value := translate(sel)
	id, err := d.client.FindElement(using, value)
	if err != nil {
		if IsCode(err, CodeNoSuchElement) {
			return nil, &core.NoSuchElementError{Selector: sel, Cause: err}
		}
		return nil, err
	}
	return &Element{client: d.client, id: id}, nil
}

// FindElements implements core.Driver.
func (d *Driver) FindElements(sel by.Selector) ([]core.Element, error) {
	using, value := translate(sel)
	ids, err := d.client.FindElements(using, value)
	if err != nil {
		return nil, err
	}
	elems := make([]core.Element, len(ids))
	for i, id := range ids {
		elems[i] = &Element{client: d.client, id: id}
	}
	return elems, nil
}

// translate maps a selector onto the five W3C location strategies.
// ID, name and class have no W3C strategy and become CSS.
func translate(sel by.Selector) (using, value string) {
	switch sel.Strategy {
	case by.ID:
		return "css selector", cssAttr("id", "=", sel.Value)
	case by.Name:
		return "css selector", cssAttr("name", "=", sel.Value)
	case by.ClassName:
		return "css selector", cssAttr("class", "~=", sel.Value)
	default:
		return sel.Strategy.String(), sel.Value
	}
}

func cssAttr(attr, op, value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return "[" + attr + op + `"` + escaped + `"]`
}

// Element is a remote element reference.
type Element struct {
	client *Client
	id     string
}

// ID returns the remote element reference.
func (e *Element) ID() string { return e.id }

func (e *Element) Click() error               { return e.client.ClickElement(e.id) }
func (e *Element) SendKeys(text string) error { return e.client.SendKeysToElement(e.id, text) }
func (e *Element) Clear() error               { return e.client.ClearElement(e.id) }
func (e *Element) Submit() error              { return e.client.SubmitElement(e.id) }
func (e *Element) Text() (string, error)      { return e.client.GetElementText(e.id) }
func (e *Element) TagName() (string, error)   { return e.client.GetElementTagName(e.id) }
func (e *Element) IsDisplayed() (bool, error) { return e.client.IsElementDisplayed(e.id) }
func (e *Element) IsEnabled() (bool, error)   { return e.client.IsElementEnabled(e.id) }
func (e *Element) IsSelected() (bool, error)  { return e.client.IsElementSelected(e.id) }

func (e *Element) Attribute(name string) (string, error) {
	return e.client.GetElementAttribute(e.id, name)
}

func (e *Element) Rect() (core.Bounds, error) {
	x, y, w, h, err := e.client.GetElementRect(e.id)
	if err != nil {
		return core.Bounds{}, err
	}
	return core.Bounds{X: x, Y: y, Width: w, Height: h}, nil
}

var (
	_ core.Driver  = (*Driver)(nil)
	_ core.Element = (*Element)(nil)
)
