package pagefactory

import (
	"github.com/devicelab-dev/pagefactory/pkg/core"
	"github.com/devicelab-dev/pagefactory/pkg/repository"
)

// BasePage is embedded by page objects that want to keep their driver.
type BasePage struct {
	driver core.Driver
}

// Driver returns the page's driver.
func (p *BasePage) Driver() core.Driver {
	return p.driver
}

// SetDriver stores the page's driver.
func (p *BasePage) SetDriver(d core.Driver) {
	p.driver = d
}

type driverHolder interface {
	SetDriver(core.Driver)
}

// InitPage stores driver on the page's embedded BasePage, if any, and then
// initializes its elements.
func InitPage(driver core.Driver, page interface{}) error {
	if err := InitElements(driver, page); err != nil {
		return err
	}
	if h, ok := page.(driverHolder); ok {
		h.SetDriver(driver)
	}
	return nil
}

// SchemaFromPage converts a locator repository page into a Schema.
func SchemaFromPage(p *repository.Page) Schema {
	schema := make(Schema, len(p.Elements))
	for _, e := range p.Elements {
		schema[e.Name] = e.Locators
	}
	return schema
}
