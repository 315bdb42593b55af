package element

import (
	"caelus/pkg/geom"
	"caelus/pkg/style"
	"caelus/pkg/uierr"
)

// Tree is the element hierarchy built from one sheet. It owns every
// element; elements are never renamed or reparented after Build.
type Tree struct {
	Root  *Element
	Sheet *style.Sheet

	byName map[string]*Element
	order  []*Element
}

// Build creates the root window and, recursively, a child for every
// concrete class whose declared parent is the element being built, in
// declaration order.
func Build(sheet *style.Sheet) (*Tree, error) {
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	t := &Tree{Sheet: sheet, byName: make(map[string]*Element)}
	t.Root = t.newElement(style.RootName, nil, 0)
	t.buildChildren(t.Root)

	for _, c := range sheet.Classes() {
		if c.StyleOnly() {
			continue
		}
		if _, ok := t.byName[c.Name]; ok {
			continue
		}
		parent := parentName(c)
		pc, exists := sheet.Class(parent)
		cyclic := exists && !pc.StyleOnly()
		return nil, &uierr.DanglingParentError{Element: c.Name, Parent: parent, Cyclic: cyclic}
	}

	if err := t.checkTethers(); err != nil {
		return nil, err
	}
	return t, nil
}

func parentName(c *style.Class) string {
	if c.Parent == "" {
		return style.RootName
	}
	return c.Parent
}

func (t *Tree) newElement(name string, parent *Element, index int) *Element {
	el := &Element{Name: name, Parent: parent, Index: index}
	if c, ok := t.Sheet.Class(name); ok && !c.StyleOnly() {
		el.Classes = append([]string{c.Name}, c.Includes...)
		el.chain = t.Sheet.Chain(c.Name)
	}
	t.byName[name] = el
	t.order = append(t.order, el)
	return el
}

func (t *Tree) buildChildren(el *Element) {
	for _, c := range t.Sheet.Classes() {
		if c.StyleOnly() || c.Name == style.RootName || parentName(c) != el.Name {
			continue
		}
		if _, built := t.byName[c.Name]; built {
			continue
		}
		child := t.newElement(c.Name, el, len(el.Children))
		el.Children = append(el.Children, child)
		t.buildChildren(child)
	}
}

// checkTethers verifies that every named tether target is an element.
func (t *Tree) checkTethers() error {
	for _, el := range t.order {
		for _, e := range geom.Edges {
			tt, ok := el.Tether(e)
			if !ok || tt.Form != style.Named {
				continue
			}
			if _, found := t.byName[tt.Target]; !found {
				return &uierr.InvalidTetherError{
					Class:  el.Name,
					Key:    e.String(),
					Text:   tt.Text,
					Reason: "no element named " + tt.Target,
				}
			}
		}
	}
	return nil
}

// Element finds an element by name.
func (t *Tree) Element(name string) (*Element, bool) {
	el, ok := t.byName[name]
	return el, ok
}

// Elements returns every element in pre-order.
func (t *Tree) Elements() []*Element { return t.order }

// Len returns the number of elements, root included.
func (t *Tree) Len() int { return len(t.order) }

// Walk visits el and its descendants in pre-order, stopping at the first
// error.
func Walk(el *Element, fn func(*Element) error) error {
	if err := fn(el); err != nil {
		return err
	}
	for _, c := range el.Children {
		if err := Walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}
