// Package geom holds the edge and dimension vocabulary shared by the style
// model and the layout solver, and the per-element geometry record.
package geom

import (
	"fmt"
	"strings"
)

// Edge identifies one side of an element's box.
type Edge int

const (
	Top Edge = iota
	Left
	Bottom
	Right
)

// Edges lists the edges in solver order.
var Edges = [4]Edge{Top, Left, Bottom, Right}

func (e Edge) String() string {
	switch e {
	case Top:
		return "top"
	case Left:
		return "left"
	case Bottom:
		return "bottom"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Edge(%d)", int(e))
}

// ParseEdge converts an edge keyword to an Edge.
func ParseEdge(s string) (Edge, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return Top, true
	case "left":
		return Left, true
	case "bottom":
		return Bottom, true
	case "right":
		return Right, true
	}
	return 0, false
}

// Dimension is the size that runs along an edge's axis.
func (e Edge) Dimension() Dimension {
	if e == Left || e == Right {
		return Width
	}
	return Height
}

// IsNear reports whether e is the top or left edge.
func (e Edge) IsNear() bool { return e == Top || e == Left }

// Opposite returns the edge across the box from e.
func (e Edge) Opposite() Edge {
	switch e {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	}
	return Left
}

// Dimension is a width or a height.
type Dimension int

const (
	Width Dimension = iota
	Height
)

// Dimensions lists the dimensions in solver order.
var Dimensions = [2]Dimension{Width, Height}

func (d Dimension) String() string {
	if d == Width {
		return "width"
	}
	return "height"
}

// Near returns the top or left edge of the axis.
func (d Dimension) Near() Edge {
	if d == Width {
		return Left
	}
	return Top
}

// Far returns the bottom or right edge of the axis.
func (d Dimension) Far() Edge {
	if d == Width {
		return Right
	}
	return Bottom
}

// Other returns the perpendicular dimension.
func (d Dimension) Other() Dimension {
	if d == Width {
		return Height
	}
	return Width
}

// Rect is fully resolved, window-relative geometry.
type Rect struct {
	Top, Left, Bottom, Right int
}

// Width returns the horizontal extent.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Size returns the extent in d.
func (r Rect) Size(d Dimension) int {
	if d == Width {
		return r.Width()
	}
	return r.Height()
}

// Edge returns the coordinate of e.
func (r Rect) Edge(e Edge) int {
	switch e {
	case Top:
		return r.Top
	case Left:
		return r.Left
	case Bottom:
		return r.Bottom
	}
	return r.Right
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d) %dx%d", r.Left, r.Top, r.Right, r.Bottom, r.Width(), r.Height())
}

// Insets holds one pixel value per edge.
type Insets struct {
	Top, Left, Bottom, Right int
}

// Side returns the inset on e.
func (in Insets) Side(e Edge) int {
	switch e {
	case Top:
		return in.Top
	case Left:
		return in.Left
	case Bottom:
		return in.Bottom
	}
	return in.Right
}
