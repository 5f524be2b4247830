// Package pagefactory populates page objects with deferred element handles.
//
// Fields are declared with the element interfaces and tagged with locators:
//
//	type SearchPage struct {
//		pagefactory.BasePage
//
//		Query   pagefactory.Element  `findbylist:"id=q; css=#search; xpath=//input[@name='q']"`
//		Submit  pagefactory.Element  `findby:"css=button[type=submit]"`
//		Results pagefactory.Elements `findby:"css=.result"`
//	}
//
// `findbylist` fields on an Element resolve through the whole fallback chain.
// `findbylist` fields on Elements only use the first locator, because a
// collection has no well-defined fallback. `findby` fields use the driver's
// default single-locator lookup.
package pagefactory

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/devicelab-dev/pagefactory/pkg/by"
	"github.com/devicelab-dev/pagefactory/pkg/core"
	"github.com/devicelab-dev/pagefactory/pkg/element"
	"github.com/devicelab-dev/pagefactory/pkg/locator"
	"github.com/devicelab-dev/pagefactory/pkg/logger"
)

// Struct tag keys.
const (
	TagFindBy     = "findby"
	TagFindByList = "findbylist"
)

// Element and Elements are the field types the injector recognises.
type (
	Element  = core.Element
	Elements = core.Elements
)

var (
	elementType  = reflect.TypeOf((*core.Element)(nil)).Elem()
	elementsType = reflect.TypeOf((*core.Elements)(nil)).Elem()
)

// Schema declares locators by field name instead of (or on top of) struct
// tags. Entries behave like `findbylist` and take precedence over tags.
type Schema map[string]by.Spec

// InitElements assigns a fresh deferred handle to every tagged Element and
// Elements field of page, including fields promoted from embedded structs
// and unexported fields. page must be a non-nil pointer to a struct.
//
// All metadata is parsed before anything is written: a malformed locator
// returns a *by.ConfigError and leaves page unchanged. The driver is never
// called here; handles resolve on use. Calling it again replaces the handles.
func InitElements(driver core.Driver, page interface{}) error {
	return InitElementsWithSchema(driver, page, nil)
}

// InitElementsWithSchema is InitElements with explicit per-field locators.
// Every schema entry must name an Element or Elements field of page.
func InitElementsWithSchema(driver core.Driver, page interface{}, schema Schema) error {
	if driver == nil {
		return core.ErrInvalidConfig.WithMessage("page factory needs a driver")
	}

	root, err := structValue(page)
	if err != nil {
		return err
	}

	inj := &injector{
		driver: driver,
		schema: schema,
		used:   make(map[string]int),
		seen:   make(map[visit]bool),
	}
	if err := inj.collect(root, root.Type().Name()); err != nil {
		return err
	}
	for name := range schema {
		switch inj.used[name] {
		case 0:
			return &by.ConfigError{Field: name, Reason: "schema names no Element or Elements field"}
		case 1:
		default:
			return &by.ConfigError{Field: name, Reason: "schema name matches more than one field"}
		}
	}

	for _, b := range inj.bindings {
		assign(b.field, b.handle)
	}
	logger.Debug("initialized %d element fields on %s", len(inj.bindings), root.Type())
	return nil
}

func structValue(page interface{}) (reflect.Value, error) {
	v := reflect.ValueOf(page)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return reflect.Value{}, core.ErrInvalidConfig.
			WithMessage(fmt.Sprintf("page must be a non-nil pointer to a struct, got %T", page))
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, core.ErrInvalidConfig.
			WithMessage(fmt.Sprintf("page must be a non-nil pointer to a struct, got %T", page))
	}
	return v, nil
}

type binding struct {
	field  reflect.Value
	handle reflect.Value
}

// visit identifies a struct already walked. A value embedded first shares
// its parent's address, so the type is part of the key.
type visit struct {
	addr uintptr
	typ  reflect.Type
}

type injector struct {
	driver   core.Driver
	schema   Schema
	used     map[string]int
	seen     map[visit]bool
	bindings []binding
}

// collect walks v's fields, descending into embedded structs.
func (inj *injector) collect(v reflect.Value, path string) error {
	if v.CanAddr() {
		key := visit{addr: v.UnsafeAddr(), typ: v.Type()}
		if inj.seen[key] {
			return nil
		}
		inj.seen[key] = true
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)
		name := path + "." + sf.Name

		if sf.Anonymous {
			embedded := fv
			if embedded.Kind() == reflect.Ptr {
				if embedded.IsNil() {
					continue
				}
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				if err := inj.collect(embedded, name); err != nil {
					return err
				}
				continue
			}
		}

		handle, err := inj.handleFor(sf, name)
		if err != nil {
			return err
		}
		if handle.IsValid() {
			inj.bindings = append(inj.bindings, binding{field: fv, handle: handle})
		}
	}
	return nil
}

// handleFor builds the handle for one field, or returns an invalid Value when
// the field carries no locator metadata.
func (inj *injector) handleFor(sf reflect.StructField, name string) (reflect.Value, error) {
	isElement := sf.Type == elementType
	isElements := sf.Type == elementsType

	if spec, ok := inj.schema[sf.Name]; ok && (isElement || isElements) {
		inj.used[sf.Name]++
		if spec.IsZero() {
			return reflect.Value{}, &by.ConfigError{Field: name, Reason: "locator list is empty"}
		}
		return inj.fallbackHandle(spec, name, isElement), nil
	}

	if tag, ok := sf.Tag.Lookup(TagFindByList); ok {
		spec, err := by.ParseSpec(tag)
		if err != nil {
			return reflect.Value{}, withField(err, name)
		}
		if !isElement && !isElements {
			return reflect.Value{}, &by.ConfigError{
				Field:  name,
				Input:  sf.Type.String(),
				Reason: "findbylist needs an Element or Elements field",
			}
		}
		return inj.fallbackHandle(spec, name, isElement), nil
	}

	if tag, ok := sf.Tag.Lookup(TagFindBy); ok {
		spec, err := by.ParseSpec(tag)
		if err != nil {
			return reflect.Value{}, withField(err, name)
		}
		if spec.Len() != 1 {
			return reflect.Value{}, &by.ConfigError{
				Field:  name,
				Input:  tag,
				Reason: "findby takes exactly one locator, use findbylist for several",
			}
		}
		loc := locator.NewDefault(inj.driver, spec.First())
		switch {
		case isElement:
			return reflect.ValueOf(element.NewProxy(name, loc)), nil
		case isElements:
			return reflect.ValueOf(element.NewListProxy(name, loc)), nil
		default:
			return reflect.Value{}, &by.ConfigError{
				Field:  name,
				Input:  sf.Type.String(),
				Reason: "findby needs an Element or Elements field",
			}
		}
	}

	return reflect.Value{}, nil
}

// fallbackHandle builds the handle for multi-locator metadata. Single elements
// use the full fallback chain; collections use the first locator only.
func (inj *injector) fallbackHandle(spec by.Spec, name string, isElement bool) reflect.Value {
	if isElement {
		return reflect.ValueOf(element.NewProxy(name, locator.New(inj.driver, spec)))
	}
	return reflect.ValueOf(element.NewListProxy(name, locator.NewDefault(inj.driver, spec.First())))
}

func withField(err error, name string) error {
	if cfgErr, ok := err.(*by.ConfigError); ok {
		return cfgErr.WithField(name)
	}
	return err
}

// assign sets field to handle regardless of whether the field is exported.
func assign(field, handle reflect.Value) {
	if !field.CanSet() {
		field = reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
	}
	field.Set(handle)
}
