package layout

import (
	"strings"

	"caelus/pkg/element"
	"caelus/pkg/geom"
	"caelus/pkg/style"
	"caelus/pkg/uierr"
)

// unitContext resolves measures on behalf of one element.
type unitContext struct {
	s  *Solver
	el *element.Element
}

func (s *Solver) unitContext(el *element.Element) unitContext {
	return unitContext{s: s, el: el}
}

func (c unitContext) LineHeight() int { return c.s.metrics.LineHeight(c.el.Font()) }

func (c unitContext) DPI() int { return c.s.metrics.DPI() }

// PercentBase is the parent's content size.
func (c unitContext) PercentBase(d geom.Dimension) (int, bool, error) {
	if c.el.Parent == nil {
		return 0, false, &uierr.UnsupportedUnitError{Element: c.el.Name, Reason: "percentages need a parent"}
	}
	v, ok := c.el.Parent.Rect.InnerSize(d)
	return v, ok, nil
}

func (s *Solver) resolveEdge(el *element.Element, e geom.Edge) error {
	if el.Rect.HasEdge(e) {
		return nil
	}
	d := e.Dimension()
	if !el.Rect.HasSize(d) {
		if err := s.resolveSize(el, d); err != nil {
			return err
		}
		if el.Rect.HasEdge(e) {
			return nil
		}
	}
	t, ok := effectiveTether(el, e)
	if !ok {
		return nil
	}
	v, ok, err := s.tetherValue(el, e, t)
	if err != nil || !ok {
		return err
	}
	el.Rect.SetEdge(e, v)
	return nil
}

// effectiveTether returns the explicit tether on e or, for a near edge,
// the default one: along the parent's flow axis the edge follows the
// previous sibling, across it the edge sits on the parent's content edge.
// Far edges have no default and wait for the size. A near edge gets no
// default when its far edge is tethered to the parent or a named element;
// a far tether to the adjacent sibling only acts as a margin.
func effectiveTether(el *element.Element, e geom.Edge) (style.Tether, bool) {
	if el.Parent == nil {
		return style.Tether{}, false
	}
	if t, ok := el.Tether(e); ok {
		return t, true
	}
	if !e.IsNear() {
		return style.Tether{}, false
	}
	if far, anchored := el.Tether(e.Opposite()); anchored && far.Form != style.Sibling {
		return style.Tether{}, false
	}
	if e.Dimension() == el.Parent.Flow().Axis() {
		return style.Tether{Form: style.Sibling, Target: style.SiblingTarget, TargetEdge: e.Opposite()}, true
	}
	return style.Tether{Form: style.Parent, TargetEdge: e}, true
}

// tetherValue computes the coordinate t asks for, reading but never
// resolving the target's edge.
func (s *Solver) tetherValue(el *element.Element, e geom.Edge, t style.Tether) (int, bool, error) {
	offset, ok, err := t.Offset.ToPixels(s.unitContext(el), e.Dimension())
	if err != nil || !ok {
		return 0, false, s.wrapUnit(el, t, err)
	}
	parent := el.Parent

	switch t.Form {
	case style.Parent:
		base, ok := parent.Rect.ContentEdge(t.TargetEdge)
		if !ok {
			return 0, false, nil
		}
		return inward(e, base, offset), true, nil

	case style.Sibling:
		sib := el.PrevSibling()
		if !e.IsNear() {
			sib = el.NextSibling()
		}
		if sib == nil {
			edge := e
			if t.EdgeGiven {
				edge = t.TargetEdge
			}
			base, ok := parent.Rect.ContentEdge(edge)
			if !ok {
				return 0, false, nil
			}
			return inward(e, base, offset), true, nil
		}
		base, ok := sib.Rect.Edge(t.TargetEdge)
		if !ok {
			return 0, false, nil
		}
		return inward(e, base, offset), true, nil

	default:
		target, found := s.tree.Element(t.Target)
		if !found {
			return 0, false, &uierr.InvalidTetherError{Class: el.Name, Key: e.String(), Text: t.Text, Reason: "no element named " + t.Target}
		}
		base, ok := target.Rect.Edge(t.TargetEdge)
		if !ok {
			return 0, false, nil
		}
		return base + offset, true, nil
	}
}

// inward applies offset so that positive values move into the box being
// positioned: down or right for near edges, up or left for far edges.
func inward(e geom.Edge, base, offset int) int {
	if e.IsNear() {
		return base + offset
	}
	return base - offset
}

func (s *Solver) wrapUnit(el *element.Element, t style.Tether, err error) error {
	if err == nil {
		return nil
	}
	return s.unitError(el, t.Offset, err)
}

func (s *Solver) resolveSize(el *element.Element, d geom.Dimension) error {
	if el.Rect.HasSize(d) || el.Parent == nil {
		return nil
	}
	_, nearTethered := el.Tether(d.Near())
	far, farTethered := el.Tether(d.Far())
	if nearTethered && farTethered && far.Form != style.Sibling {
		// both edges come from tethers; the size follows from them.
		// A sibling tether on the far edge is only a margin.
		return nil
	}

	sz := el.Size(d)
	if !sz.Auto {
		px, ok, err := sz.Measure.ToPixels(s.unitContext(el), d)
		if err != nil {
			return s.unitError(el, sz.Measure, err)
		}
		if ok {
			el.Rect.SetSize(d, px)
		}
		return nil
	}

	if len(el.Children) == 0 {
		el.Rect.SetInnerSize(d, s.contentExtent(el, d))
		return nil
	}
	return s.autoSize(el, d)
}

// autoSize sizes el to the far extent of its children. Every child's far
// edge must be known. A child whose far edge is tethered to its adjacent
// sibling keeps that offset as a margin inside el.
func (s *Solver) autoSize(el *element.Element, d geom.Dimension) error {
	near, ok := el.Rect.ContentEdge(d.Near())
	if !ok {
		return nil
	}
	extent := near
	for _, c := range el.Children {
		far, ok := c.Rect.Edge(d.Far())
		if !ok {
			return nil
		}
		if t, tethered := c.Tether(d.Far()); tethered && t.Form == style.Sibling {
			margin, ok, err := t.Offset.ToPixels(s.unitContext(c), d)
			if err != nil {
				return s.unitError(c, t.Offset, err)
			}
			if !ok {
				return nil
			}
			far += margin
		}
		if far > extent {
			extent = far
		}
	}
	el.Rect.SetInnerSize(d, extent-near)
	return nil
}

// contentExtent measures a leaf's own content: its label (or value) text,
// plus a check mark square for check boxes.
func (s *Solver) contentExtent(el *element.Element, d geom.Dimension) int {
	kind := el.Kind()
	text := ""
	if kind.Caps().Label {
		text = el.Label()
	}
	if text == "" && kind.Caps().Value {
		text = el.Value()
	}
	if text == "" && (kind == style.Generic || kind == style.ClassOnly || kind == style.Text) {
		return 0
	}
	font := el.Font()
	lineHeight := s.metrics.LineHeight(font)
	lines := strings.Split(text, "\n")
	if d == geom.Height {
		return lineHeight * len(lines)
	}
	width := 0
	for _, line := range lines {
		if w := s.metrics.TextWidth(font, line); w > width {
			width = w
		}
	}
	if kind == style.CheckBox {
		width += lineHeight
	}
	return width
}
