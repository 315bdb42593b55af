package style

import (
	"caelus/pkg/color"
	"caelus/pkg/geom"
	"caelus/pkg/measure"
)

// Prop identifies a style property. Sided properties (padding, border
// width and colour, tethers, radii) are stored once per edge or corner.
type Prop int

const (
	BackgroundColor Prop = iota
	TextColor
	BorderColor
	BorderWidth
	BorderRadius
	Padding
	FontFace
	FontSize
	FontWeight
	FontItalic
	Width
	Height
	ElementKind
	TextAlign
	VerticalAlign
	TetherProp
	Label
	Value
	Visible
	Opacity
	FlowProp
	OnClick
	OnChange
	numProps
)

var propNames = [numProps]string{
	BackgroundColor: "background-color",
	TextColor:       "color",
	BorderColor:     "border-color",
	BorderWidth:     "border-width",
	BorderRadius:    "border-radius",
	Padding:         "padding",
	FontFace:        "font-face",
	FontSize:        "font-size",
	FontWeight:      "font-weight",
	FontItalic:      "font-style",
	Width:           "width",
	Height:          "height",
	ElementKind:     "type",
	TextAlign:       "text-align",
	VerticalAlign:   "vertical-align",
	TetherProp:      "tether",
	Label:           "label",
	Value:           "value",
	Visible:         "visibility",
	Opacity:         "opacity",
	FlowProp:        "flow",
	OnClick:         "on-click",
	OnChange:        "on-change",
}

func (p Prop) String() string {
	if p < 0 || p >= numProps {
		return "unknown"
	}
	return propNames[p]
}

// inheritable properties fall back to the parent element before the
// builtin default.
var inheritable = [numProps]bool{
	TextColor:     true,
	FontFace:      true,
	FontSize:      true,
	FontWeight:    true,
	FontItalic:    true,
	TextAlign:     true,
	VerticalAlign: true,
	Visible:       true,
	Opacity:       true,
}

// Inheritable reports whether p is looked up on ancestor elements.
func (p Prop) Inheritable() bool {
	if p < 0 || p >= numProps {
		return false
	}
	return inheritable[p]
}

// Corner indexes BorderRadius.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// HAlign is horizontal content alignment.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign is vertical content alignment.
type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// Flow is the axis along which children without explicit tethers stack.
type Flow int

const (
	Vertical Flow = iota
	Horizontal
)

// Axis returns the dimension children advance along.
func (f Flow) Axis() geom.Dimension {
	if f == Horizontal {
		return geom.Width
	}
	return geom.Height
}

// Size is a width or height: either auto (sized from content) or a Measure.
type Size struct {
	Auto    bool
	Measure measure.Measure
}

// AutoSize is the auto keyword.
var AutoSize = Size{Auto: true}

// Font describes a text face.
type Font struct {
	Face   string
	Size   measure.Measure
	Weight int
	Italic bool
}

// Bold reports whether the weight is 600 or heavier.
func (f Font) Bold() bool { return f.Weight >= 600 }

// DefaultFont is 12pt Arial regular.
var DefaultFont = Font{Face: "Arial", Size: measure.Pt(12), Weight: 400}

// Default returns the builtin value of p.
func Default(p Prop) any {
	switch p {
	case BackgroundColor:
		return color.White
	case TextColor, BorderColor:
		return color.Black
	case BorderWidth, Padding:
		return measure.Px(0)
	case BorderRadius:
		return measure.Px(0)
	case FontFace:
		return DefaultFont.Face
	case FontSize:
		return DefaultFont.Size
	case FontWeight:
		return DefaultFont.Weight
	case FontItalic:
		return false
	case Width, Height:
		return AutoSize
	case ElementKind:
		return Generic
	case TextAlign:
		return AlignLeft
	case VerticalAlign:
		return AlignTop
	case Label, Value, OnClick, OnChange:
		return ""
	case Visible:
		return true
	case Opacity:
		return 1.0
	case FlowProp:
		return Vertical
	}
	return nil
}
