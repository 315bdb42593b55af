// Package color parses the colour literals accepted in style text.
package color

import (
	"fmt"
	"strconv"
	"strings"

	"caelus/pkg/uierr"
)

// Color is an 8-bit RGBA colour. The zero value is transparent black; use
// RGB for opaque colours.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

var (
	Black = RGB(0, 0, 0)
	White = RGB(255, 255, 255)
)

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	// premultiply as image/color expects
	a = uint32(c.A)
	r = uint32(c.R) * a / 255
	g = uint32(c.G) * a / 255
	b = uint32(c.B) * a / 255
	return r | r<<8, g | g<<8, b | b<<8, a | a<<8
}

// Floats returns the channels scaled to 0..1.
func (c Color) Floats() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

func (c Color) String() string {
	if c.A != 255 {
		return fmt.Sprintf("rgba(%d,%d,%d,%d)", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

var namedColors = map[string]Color{
	"red":     RGB(255, 0, 0),
	"green":   RGB(0, 128, 0),
	"blue":    RGB(0, 0, 255),
	"yellow":  RGB(255, 255, 0),
	"cyan":    RGB(0, 255, 255),
	"magenta": RGB(255, 0, 255),
	"white":   White,
	"black":   Black,
	"gray":    RGB(128, 128, 128),
	"grey":    RGB(128, 128, 128),
	"orange":  RGB(255, 165, 0),
	"purple":  RGB(128, 0, 128),
	"silver":  RGB(192, 192, 192),
	"navy":    RGB(0, 0, 128),
	"teal":    RGB(0, 128, 128),
}

// Parse reads #RRGGBB, #RGB, 0xRRGGBB, rgb(r,g,b), rgb r g b or a colour
// name. rgb components may be integers 0-255, decimals 0-1 or
// percentages 0-100%.
func Parse(text string) (Color, error) {
	s := strings.TrimSpace(text)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "#"):
		return parseHex(text, lower[1:])
	case strings.HasPrefix(lower, "0x"):
		return parseHex(text, lower[2:])
	case strings.HasPrefix(lower, "rgb"):
		return parseRGB(text, s[3:])
	}
	if c, ok := namedColors[lower]; ok {
		return c, nil
	}
	return Color{}, &uierr.ParseError{Msg: "unrecognised colour", Token: text}
}

// IsColor reports whether text parses as a colour.
func IsColor(text string) bool {
	_, err := Parse(text)
	return err == nil
}

func parseHex(text, hex string) (Color, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, &uierr.ParseError{Msg: "hex colour needs 6 digits", Token: text}
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, &uierr.ParseError{Msg: "malformed hex colour", Token: text, Err: err}
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func parseRGB(text, rest string) (Color, error) {
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "(") {
		if !strings.HasSuffix(rest, ")") {
			return Color{}, &uierr.ParseError{Msg: "unterminated rgb()", Token: text}
		}
		rest = rest[1 : len(rest)-1]
	}
	parts := strings.FieldsFunc(rest, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(parts) != 3 {
		return Color{}, &uierr.ParseError{Msg: "rgb needs 3 components", Token: text}
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := component(p)
		if err != nil {
			return Color{}, &uierr.ParseError{Msg: "bad rgb component", Token: text, Err: err}
		}
		ch[i] = v
	}
	return RGB(ch[0], ch[1], ch[2]), nil
}

// component converts one rgb component to 0-255.
func component(p string) (uint8, error) {
	scale, limit := 1.0, 255.0
	switch {
	case strings.HasSuffix(p, "%"):
		p = strings.TrimSuffix(p, "%")
		scale, limit = 255.0/100, 100
	case strings.Contains(p, "."):
		scale, limit = 255, 1
	}
	v, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > limit {
		return 0, fmt.Errorf("%s out of range 0-%g", p, limit)
	}
	return uint8(v*scale + 0.5), nil
}
