// Package style holds the class model that style documents produce: named
// bags of optional properties, their include chains, and the tether
// constraints attached to concrete elements.
//
// A class whose name starts with "." is style-only. It can be included by
// other classes but never becomes an element, so it may not declare a
// parent or tethers. Every other class describes one concrete element.
package style

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"caelus/pkg/geom"
	"caelus/pkg/uierr"
)

// RootName is the name of the implicit top-level element.
const RootName = "window"

type propKey struct {
	prop Prop
	side int
}

// Class is a named set of style properties.
type Class struct {
	Name string
	// Parent is the declared parent element; empty means the root.
	Parent string
	// Includes lists included classes in lookup order.
	Includes []string
	// Line is where the class was declared, zero when unknown.
	Line int

	values map[propKey]any
}

// NewClass returns an empty class.
func NewClass(name string) *Class {
	return &Class{Name: name, values: make(map[propKey]any)}
}

// StyleOnly reports whether c is a reusable style rather than an element.
func (c *Class) StyleOnly() bool { return strings.HasPrefix(c.Name, ".") }

// AddClassNames appends the comma or space separated names in csv to the
// include list. Names are appended in reverse order of the list and
// repeats are dropped, so the rightmost name written is consulted first:
// later classes in a class= list override earlier ones.
func (c *Class) AddClassNames(csv string) {
	names := strings.FieldsFunc(csv, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	for i := len(names) - 1; i >= 0; i-- {
		name := strings.TrimSpace(names[i])
		if name == "" || name == c.Name || c.includes(name) {
			continue
		}
		c.Includes = append(c.Includes, name)
	}
}

func (c *Class) includes(name string) bool {
	for _, n := range c.Includes {
		if n == name {
			return true
		}
	}
	return false
}

// SetParent declares the parent element.
func (c *Class) SetParent(name string) error {
	if c.StyleOnly() {
		return &uierr.ParseError{Msg: fmt.Sprintf("style class %s cannot have a parent", c.Name), Token: name}
	}
	if c.Name == RootName {
		return &uierr.ParseError{Msg: "the window cannot have a parent", Token: name}
	}
	c.Parent = strings.TrimSpace(name)
	return nil
}

// SetTether parses text as the tether for edge e.
func (c *Class) SetTether(e geom.Edge, text string) error {
	if c.StyleOnly() || c.Name == RootName {
		return &uierr.InvalidTetherError{Class: c.Name, Key: e.String(), Text: text, Reason: "only child elements can be tethered"}
	}
	t, err := ParseTether(e, text)
	if err != nil {
		var ite *uierr.InvalidTetherError
		var iae *uierr.IncompatibleAxisError
		switch {
		case errors.As(err, &ite):
			ite.Class = c.Name
		case errors.As(err, &iae):
			iae.Class = c.Name
		}
		return err
	}
	c.Set(TetherProp, int(e), t)
	return nil
}

// Tether returns the explicit tether on e.
func (c *Class) Tether(e geom.Edge) (Tether, bool) {
	return Get[Tether](c, TetherProp, int(e))
}

// Set stores v for p on side. Non-sided properties use side 0.
func (c *Class) Set(p Prop, side int, v any) {
	c.values[propKey{p, side}] = v
}

// Get returns the raw value of p on side.
func (c *Class) Get(p Prop, side int) (any, bool) {
	v, ok := c.values[propKey{p, side}]
	return v, ok
}

// Has reports whether c defines p on side.
func (c *Class) Has(p Prop, side int) bool {
	_, ok := c.values[propKey{p, side}]
	return ok
}

// Save returns a function that restores every property of c to its
// current value.
func (c *Class) Save() (restore func()) {
	saved := maps.Clone(c.values)
	return func() { c.values = saved }
}

// Clear drops every property of c.
func (c *Class) Clear() {
	c.values = make(map[propKey]any)
}

// Get returns c's value of p on side as a T.
func Get[T any](c *Class, p Prop, side int) (T, bool) {
	var zero T
	v, ok := c.Get(p, side)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Lookup returns the value of p from the first class in chain that
// defines it.
func Lookup[T any](chain []*Class, p Prop, side int) (T, bool) {
	for _, c := range chain {
		if v, ok := Get[T](c, p, side); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
