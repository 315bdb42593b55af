// Package measure implements lengths with a unit attached.
//
// A Measure is parsed early from style text and converted to device pixels
// later, once the context it depends on (font line height, display DPI or
// the parent's resolved size) is known. Conversion reports "not yet" rather
// than failing when that context is still unresolved, so the layout solver
// can retry on its next pass.
package measure

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"caelus/pkg/geom"
	"caelus/pkg/uierr"
)

// Unit is the unit of a Measure.
type Unit uint8

const (
	// PX is a device pixel.
	PX Unit = iota
	// EM is a multiple of the element font's line height.
	EM
	// PT is 1/72 inch at the display's DPI.
	PT
	// PERCENT is a percentage of the parent's size in the same dimension.
	PERCENT
)

func (u Unit) String() string {
	switch u {
	case PX:
		return "px"
	case EM:
		return "em"
	case PT:
		return "pt"
	case PERCENT:
		return "%"
	}
	return fmt.Sprintf("Unit(%d)", uint8(u))
}

// Measure is a value with a unit.
type Measure struct {
	Value float64
	Unit  Unit
}

// Px returns a Measure of v pixels.
func Px(v float64) Measure { return Measure{Value: v, Unit: PX} }

// Em returns a Measure of v line heights.
func Em(v float64) Measure { return Measure{Value: v, Unit: EM} }

// Pt returns a Measure of v points.
func Pt(v float64) Measure { return Measure{Value: v, Unit: PT} }

// Percent returns a Measure of v percent.
func Percent(v float64) Measure { return Measure{Value: v, Unit: PERCENT} }

func (m Measure) String() string {
	return strconv.FormatFloat(m.Value, 'f', -1, 64) + m.Unit.String()
}

// IsZero reports whether m converts to zero pixels in any context.
func (m Measure) IsZero() bool { return m.Value == 0 }

// Neg returns m with its sign flipped.
func (m Measure) Neg() Measure {
	m.Value = -m.Value
	return m
}

// Context supplies what a conversion may depend on.
type Context interface {
	// LineHeight is the line height in pixels of the element's font.
	LineHeight() int
	// DPI is the display resolution.
	DPI() int
	// PercentBase returns the parent size a percentage applies to. ok is
	// false while that size is unresolved; err is set when there will never
	// be one.
	PercentBase(d geom.Dimension) (base int, ok bool, err error)
}

// MaxPixels bounds the magnitude of a measure and of any pixel value
// converted from one.
const MaxPixels = 1 << 24

// ToPixels converts m to whole device pixels along d.
func (m Measure) ToPixels(ctx Context, d geom.Dimension) (int, bool, error) {
	var v float64
	switch m.Unit {
	case PX:
		v = m.Value
	case EM:
		v = m.Value * float64(ctx.LineHeight())
	case PT:
		v = m.Value * float64(ctx.DPI()) / 72
	case PERCENT:
		base, ok, err := ctx.PercentBase(d)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, nil
		}
		v = m.Value / 100 * float64(base)
	default:
		return 0, false, &uierr.UnsupportedUnitError{Measure: m.String(), Reason: "unknown unit"}
	}
	v = math.Round(v)
	if math.IsNaN(v) || math.Abs(v) > MaxPixels {
		return 0, false, &uierr.UnsupportedUnitError{Measure: m.String(), Reason: "out of pixel range"}
	}
	return int(v), true, nil
}

// Parse reads NUMBER[em|px|pt|%], defaulting to px. A leading sign is
// accepted.
func Parse(text string) (Measure, error) {
	s := strings.TrimSpace(text)
	n := numberPrefix(s)
	if n == 0 {
		return Measure{}, &uierr.ParseError{Msg: "malformed measure", Token: text}
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return Measure{}, &uierr.ParseError{Msg: "malformed measure", Token: text, Err: err}
	}
	if math.Abs(v) > MaxPixels {
		return Measure{}, &uierr.ParseError{Msg: "measure out of range", Token: text}
	}
	u, ok := parseUnit(s[n:])
	if !ok {
		return Measure{}, &uierr.ParseError{Msg: "unknown unit in measure", Token: text}
	}
	return Measure{Value: v, Unit: u}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(text string) Measure {
	m, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return m
}

func parseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "px":
		return PX, true
	case "em":
		return EM, true
	case "pt":
		return PT, true
	case "%":
		return PERCENT, true
	}
	return 0, false
}

// numberPrefix returns the length of the leading [+-]digits[.digits] run,
// or 0 when there are no digits.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	return i
}

// SplitNumber splits s into its leading number and the remainder. ok is
// false when s does not start with a number.
func SplitNumber(s string) (number, rest string, ok bool) {
	n := numberPrefix(s)
	if n == 0 {
		return "", s, false
	}
	return s[:n], s[n:], true
}
