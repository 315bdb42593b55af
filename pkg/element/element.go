// Package element builds the element tree from a style sheet and answers
// property queries for each element through its class chain, its
// ancestors and the builtin defaults.
package element

import (
	"caelus/pkg/geom"
	"caelus/pkg/measure"
	"caelus/pkg/style"
)

// Element is one node of the UI tree.
type Element struct {
	Name string
	// Parent is a non-owning back reference; nil for the root.
	Parent   *Element
	Children []*Element
	// Index is the position within Parent.Children.
	Index int
	// Classes lists the bound class names: the element's own class, then
	// its includes in lookup order.
	Classes []string

	// Rect is the working geometry of the current layout session.
	Rect geom.ResolvedRect
	// Current is the last committed geometry.
	Current   geom.Rect
	Committed bool
	// Handle is the opaque native control id assigned by the windowing host.
	Handle string

	chain []*style.Class
}

// IsRoot reports whether el is the window.
func (el *Element) IsRoot() bool { return el.Parent == nil }

// Chain returns the expanded class chain used for property lookup.
func (el *Element) Chain() []*style.Class { return el.chain }

// PrevSibling returns the element before el in its parent's children.
func (el *Element) PrevSibling() *Element {
	if el.Parent == nil || el.Index == 0 {
		return nil
	}
	return el.Parent.Children[el.Index-1]
}

// NextSibling returns the element after el in its parent's children.
func (el *Element) NextSibling() *Element {
	if el.Parent == nil || el.Index+1 >= len(el.Parent.Children) {
		return nil
	}
	return el.Parent.Children[el.Index+1]
}

// Path returns the names from the root down to el, joined by "/".
func (el *Element) Path() string {
	if el.Parent == nil {
		return el.Name
	}
	return el.Parent.Path() + "/" + el.Name
}

// Prop resolves p on side for el: the first class in el's chain that
// defines it, then for inheritable properties the same search on each
// ancestor, then the builtin default.
func Prop[T any](el *Element, p style.Prop, side int) T {
	for cur := el; cur != nil; cur = cur.Parent {
		if v, ok := style.Lookup[T](cur.chain, p, side); ok {
			return v
		}
		if !p.Inheritable() {
			break
		}
	}
	v, _ := style.Default(p).(T)
	return v
}

// Defines reports whether any class bound to el sets p on side, ignoring
// inheritance and defaults.
func Defines(el *Element, p style.Prop, side int) bool {
	for _, c := range el.chain {
		if c.Has(p, side) {
			return true
		}
	}
	return false
}

// Kind returns the element type.
func (el *Element) Kind() style.Kind { return Prop[style.Kind](el, style.ElementKind, 0) }

// Label returns the label text.
func (el *Element) Label() string { return Prop[string](el, style.Label, 0) }

// Value returns the value text.
func (el *Element) Value() string { return Prop[string](el, style.Value, 0) }

// Visible reports whether el is shown.
func (el *Element) Visible() bool { return Prop[bool](el, style.Visible, 0) }

// Flow returns the stacking axis for el's children.
func (el *Element) Flow() style.Flow { return Prop[style.Flow](el, style.FlowProp, 0) }

// Size returns the declared width or height.
func (el *Element) Size(d geom.Dimension) style.Size {
	p := style.Width
	if d == geom.Height {
		p = style.Height
	}
	return Prop[style.Size](el, p, 0)
}

// Tether returns the explicit tether on e.
func (el *Element) Tether(e geom.Edge) (style.Tether, bool) {
	if el.Parent == nil {
		return style.Tether{}, false
	}
	return style.Lookup[style.Tether](el.chain, style.TetherProp, int(e))
}

// Font returns the resolved font.
func (el *Element) Font() style.Font {
	return style.Font{
		Face:   Prop[string](el, style.FontFace, 0),
		Size:   Prop[measure.Measure](el, style.FontSize, 0),
		Weight: Prop[int](el, style.FontWeight, 0),
		Italic: Prop[bool](el, style.FontItalic, 0),
	}
}
