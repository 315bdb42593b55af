package geom

// Px is a pixel value that may not be known yet.
type Px struct {
	V  int
	OK bool
}

// Known returns a resolved Px.
func Known(v int) Px { return Px{V: v, OK: true} }

// ResolvedRect is the mutable geometry record the solver fills in. Every
// quantity starts unresolved. Setting an edge or size immediately derives
// whatever else on the same axis becomes computable, so at most two of
// near edge, far edge and size ever need resolving independently.
//
// The most recent setter wins and keeps the opposite edge as its anchor:
// setting a near edge with the far edge known recomputes the size, setting
// a size with the near edge known recomputes the far edge.
type ResolvedRect struct {
	edges   [4]Px
	sizes   [2]Px
	padding [4]Px
	border  [4]Px
}

// Reset marks every quantity unresolved.
func (r *ResolvedRect) Reset() { *r = ResolvedRect{} }

// Edge returns the coordinate of e.
func (r *ResolvedRect) Edge(e Edge) (int, bool) { return r.edges[e].V, r.edges[e].OK }

// Size returns the outer extent in d.
func (r *ResolvedRect) Size(d Dimension) (int, bool) { return r.sizes[d].V, r.sizes[d].OK }

// Padding returns the padding inset on e.
func (r *ResolvedRect) Padding(e Edge) (int, bool) { return r.padding[e].V, r.padding[e].OK }

// Border returns the border width on e.
func (r *ResolvedRect) Border(e Edge) (int, bool) { return r.border[e].V, r.border[e].OK }

// HasEdge reports whether e is resolved.
func (r *ResolvedRect) HasEdge(e Edge) bool { return r.edges[e].OK }

// HasSize reports whether d is resolved.
func (r *ResolvedRect) HasSize(d Dimension) bool { return r.sizes[d].OK }

// SetEdge records e and derives the rest of its axis.
func (r *ResolvedRect) SetEdge(e Edge, v int) {
	d := e.Dimension()
	r.edges[e] = Known(v)
	other := r.edges[e.Opposite()]
	size := r.sizes[d]
	if e.IsNear() {
		if size.OK && !other.OK {
			r.edges[e.Opposite()] = Known(v + size.V)
		} else if other.OK {
			r.sizes[d] = Known(other.V - v)
		}
		return
	}
	if size.OK && !other.OK {
		r.edges[e.Opposite()] = Known(v - size.V)
	} else if other.OK {
		r.sizes[d] = Known(v - other.V)
	}
}

// SetSize records the outer extent in d and derives the missing edge.
func (r *ResolvedRect) SetSize(d Dimension, v int) {
	r.sizes[d] = Known(v)
	near, far := r.edges[d.Near()], r.edges[d.Far()]
	if near.OK {
		r.edges[d.Far()] = Known(near.V + v)
	} else if far.OK {
		r.edges[d.Near()] = Known(far.V - v)
	}
}

// SetInnerSize records the content extent in d. It needs both paddings and
// both borders of the axis and reports false, changing nothing, otherwise.
func (r *ResolvedRect) SetInnerSize(d Dimension, v int) bool {
	insets, ok := r.AxisInsets(d)
	if !ok {
		return false
	}
	r.SetSize(d, v+insets)
	return true
}

// InnerSize returns the content extent in d.
func (r *ResolvedRect) InnerSize(d Dimension) (int, bool) {
	size := r.sizes[d]
	insets, ok := r.AxisInsets(d)
	if !size.OK || !ok {
		return 0, false
	}
	return size.V - insets, true
}

// AxisInsets returns the sum of both paddings and both borders along d.
func (r *ResolvedRect) AxisInsets(d Dimension) (int, bool) {
	total := 0
	for _, e := range [2]Edge{d.Near(), d.Far()} {
		p, b := r.padding[e], r.border[e]
		if !p.OK || !b.OK {
			return 0, false
		}
		total += p.V + b.V
	}
	return total, true
}

// ContentEdge returns the coordinate of e moved inward past the border and
// padding on that side.
func (r *ResolvedRect) ContentEdge(e Edge) (int, bool) {
	edge, p, b := r.edges[e], r.padding[e], r.border[e]
	if !edge.OK || !p.OK || !b.OK {
		return 0, false
	}
	if e.IsNear() {
		return edge.V + p.V + b.V, true
	}
	return edge.V - p.V - b.V, true
}

// SetPadding records the padding inset on e.
func (r *ResolvedRect) SetPadding(e Edge, v int) { r.padding[e] = Known(v) }

// SetBorder records the border width on e.
func (r *ResolvedRect) SetBorder(e Edge, v int) { r.border[e] = Known(v) }

// Unresolved lists the names of quantities still unknown, in solver order.
func (r *ResolvedRect) Unresolved() []string {
	var out []string
	for _, e := range Edges {
		if !r.border[e].OK {
			out = append(out, "border-"+e.String())
		}
	}
	for _, e := range Edges {
		if !r.padding[e].OK {
			out = append(out, "padding-"+e.String())
		}
	}
	for _, e := range Edges {
		if !r.edges[e].OK {
			out = append(out, e.String())
		}
	}
	for _, d := range Dimensions {
		if !r.sizes[d].OK {
			out = append(out, d.String())
		}
	}
	return out
}

// UnresolvedCount returns the number of unknown quantities.
func (r *ResolvedRect) UnresolvedCount() int {
	n := 0
	for i := range r.edges {
		if !r.edges[i].OK {
			n++
		}
		if !r.padding[i].OK {
			n++
		}
		if !r.border[i].OK {
			n++
		}
	}
	for i := range r.sizes {
		if !r.sizes[i].OK {
			n++
		}
	}
	return n
}

// Quantities is the number of values a ResolvedRect tracks.
const Quantities = 14

// Rect returns the resolved outer geometry once all four edges are known.
func (r *ResolvedRect) Rect() (Rect, bool) {
	for _, e := range r.edges {
		if !e.OK {
			return Rect{}, false
		}
	}
	return Rect{Top: r.edges[Top].V, Left: r.edges[Left].V, Bottom: r.edges[Bottom].V, Right: r.edges[Right].V}, true
}

// Paddings returns the padding insets, zero where unresolved.
func (r *ResolvedRect) Paddings() Insets {
	return Insets{Top: r.padding[Top].V, Left: r.padding[Left].V, Bottom: r.padding[Bottom].V, Right: r.padding[Right].V}
}

// Borders returns the border widths, zero where unresolved.
func (r *ResolvedRect) Borders() Insets {
	return Insets{Top: r.border[Top].V, Left: r.border[Left].V, Bottom: r.border[Bottom].V, Right: r.border[Right].V}
}
