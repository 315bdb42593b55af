package style

import (
	"fmt"
	"strconv"
	"strings"

	"caelus/pkg/color"
	"caelus/pkg/geom"
	"caelus/pkg/measure"
	"caelus/pkg/uierr"
)

// Apply sets the property named by key on c from its text value. It is
// shared by every document format so they accept the same keys.
func Apply(c *Class, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "parent":
		return c.SetParent(value)
	case "class", "classes":
		c.AddClassNames(value)
	case "background-color", "bgcolor":
		return setColor(c, BackgroundColor, 0, value)
	case "color", "font-color", "text-color":
		return setColor(c, TextColor, 0, value)
	case "border-color":
		col, err := color.Parse(value)
		if err != nil {
			return err
		}
		for _, e := range geom.Edges {
			c.Set(BorderColor, int(e), col)
		}
	case "font-face":
		c.Set(FontFace, 0, strings.Trim(value, `"'`))
	case "font-size":
		return setMeasure(c, FontSize, 0, value)
	case "font-weight":
		w, err := parseWeight(value)
		if err != nil {
			return err
		}
		c.Set(FontWeight, 0, w)
	case "font-style":
		switch value {
		case "italic", "oblique":
			c.Set(FontItalic, 0, true)
		case "normal":
			c.Set(FontItalic, 0, false)
		default:
			return &uierr.ParseError{Msg: "font-style must be normal or italic", Token: value}
		}
	case "italic":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &uierr.ParseError{Msg: "italic must be true or false", Token: value}
		}
		c.Set(FontItalic, 0, b)
	case "width":
		return setSize(c, Width, value)
	case "height":
		return setSize(c, Height, value)
	case "top", "left", "bottom", "right":
		e, _ := geom.ParseEdge(key)
		return c.SetTether(e, value)
	case "padding":
		return setBox(c, Padding, value)
	case "padding-top", "padding-left", "padding-bottom", "padding-right":
		e, _ := geom.ParseEdge(strings.TrimPrefix(key, "padding-"))
		return setMeasure(c, Padding, int(e), value)
	case "border":
		return setBorder(c, geom.Edges[:], value)
	case "border-top", "border-left", "border-bottom", "border-right":
		e, _ := geom.ParseEdge(strings.TrimPrefix(key, "border-"))
		return setBorder(c, []geom.Edge{e}, value)
	case "border-width":
		return setBox(c, BorderWidth, value)
	case "border-radius":
		return setRadius(c, value)
	case "type", "element-type":
		k, ok := ParseKind(value)
		if !ok {
			return &uierr.ParseError{Msg: "unknown element type", Token: value}
		}
		c.Set(ElementKind, 0, k)
	case "label":
		c.Set(Label, 0, value)
	case "value":
		c.Set(Value, 0, value)
	case "text-align", "align":
		switch value {
		case "left":
			c.Set(TextAlign, 0, AlignLeft)
		case "center":
			c.Set(TextAlign, 0, AlignCenter)
		case "right":
			c.Set(TextAlign, 0, AlignRight)
		default:
			return &uierr.ParseError{Msg: "text-align must be left, center or right", Token: value}
		}
	case "vertical-align", "valign":
		switch value {
		case "top":
			c.Set(VerticalAlign, 0, AlignTop)
		case "middle", "center":
			c.Set(VerticalAlign, 0, AlignMiddle)
		case "bottom":
			c.Set(VerticalAlign, 0, AlignBottom)
		default:
			return &uierr.ParseError{Msg: "vertical-align must be top, middle or bottom", Token: value}
		}
	case "visibility", "visible":
		switch value {
		case "visible", "true":
			c.Set(Visible, 0, true)
		case "hidden", "false":
			c.Set(Visible, 0, false)
		default:
			return &uierr.ParseError{Msg: "visibility must be visible or hidden", Token: value}
		}
	case "opacity":
		o, err := parseOpacity(value)
		if err != nil {
			return err
		}
		c.Set(Opacity, 0, o)
	case "flow":
		switch value {
		case "vertical":
			c.Set(FlowProp, 0, Vertical)
		case "horizontal":
			c.Set(FlowProp, 0, Horizontal)
		default:
			return &uierr.ParseError{Msg: "flow must be vertical or horizontal", Token: value}
		}
	case "on-click":
		c.Set(OnClick, 0, value)
	case "on-change":
		c.Set(OnChange, 0, value)
	default:
		return &uierr.ParseError{Msg: "unknown key", Token: key}
	}
	return nil
}

func setColor(c *Class, p Prop, side int, value string) error {
	col, err := color.Parse(value)
	if err != nil {
		return err
	}
	c.Set(p, side, col)
	return nil
}

func setMeasure(c *Class, p Prop, side int, value string) error {
	m, err := measure.Parse(value)
	if err != nil {
		return err
	}
	c.Set(p, side, m)
	return nil
}

func setSize(c *Class, p Prop, value string) error {
	if value == "auto" {
		c.Set(p, 0, AutoSize)
		return nil
	}
	m, err := measure.Parse(value)
	if err != nil {
		return err
	}
	if m.Value < 0 {
		return &uierr.ParseError{Msg: fmt.Sprintf("%s cannot be negative", p), Token: value}
	}
	c.Set(p, 0, Size{Measure: m})
	return nil
}

// setBox expands 1-4 measures in CSS order: all; vertical horizontal;
// top horizontal bottom; top right bottom left.
func setBox(c *Class, p Prop, value string) error {
	parts := strings.Fields(value)
	ms := make([]measure.Measure, len(parts))
	for i, part := range parts {
		m, err := measure.Parse(part)
		if err != nil {
			return err
		}
		ms[i] = m
	}
	var top, right, bottom, left measure.Measure
	switch len(ms) {
	case 1:
		top, right, bottom, left = ms[0], ms[0], ms[0], ms[0]
	case 2:
		top, right, bottom, left = ms[0], ms[1], ms[0], ms[1]
	case 3:
		top, right, bottom, left = ms[0], ms[1], ms[2], ms[1]
	case 4:
		top, right, bottom, left = ms[0], ms[1], ms[2], ms[3]
	default:
		return &uierr.ParseError{Msg: fmt.Sprintf("%s takes 1 to 4 values", p), Token: value}
	}
	c.Set(p, int(geom.Top), top)
	c.Set(p, int(geom.Right), right)
	c.Set(p, int(geom.Bottom), bottom)
	c.Set(p, int(geom.Left), left)
	return nil
}

// setBorder reads the composite [color] [solid|none] [measure] in any order.
func setBorder(c *Class, edges []geom.Edge, value string) error {
	var (
		width    *measure.Measure
		col      *color.Color
		none     bool
		lastPart string
	)
	for _, part := range strings.Fields(value) {
		lastPart = part
		switch part {
		case "solid":
			continue
		case "none":
			none = true
			continue
		}
		if m, err := measure.Parse(part); err == nil {
			width = &m
			continue
		}
		cl, err := color.Parse(part)
		if err != nil {
			return &uierr.ParseError{Msg: "unrecognised border component", Token: part}
		}
		col = &cl
	}
	if lastPart == "" {
		return &uierr.ParseError{Msg: "empty border", Token: value}
	}
	if none {
		zero := measure.Px(0)
		width = &zero
	}
	for _, e := range edges {
		if width != nil {
			c.Set(BorderWidth, int(e), *width)
		}
		if col != nil {
			c.Set(BorderColor, int(e), *col)
		}
	}
	return nil
}

func setRadius(c *Class, value string) error {
	parts := strings.Fields(value)
	if len(parts) == 0 || len(parts) > 4 {
		return &uierr.ParseError{Msg: "border-radius takes 1 to 4 values", Token: value}
	}
	for i := 0; i < 4; i++ {
		src := parts[0]
		switch len(parts) {
		case 2:
			src = parts[i%2]
		case 3:
			src = parts[[4]int{0, 1, 2, 1}[i]]
		case 4:
			src = parts[i]
		}
		m, err := measure.Parse(src)
		if err != nil {
			return err
		}
		c.Set(BorderRadius, i, m)
	}
	return nil
}

func parseWeight(value string) (int, error) {
	switch value {
	case "normal", "regular":
		return 400, nil
	case "bold":
		return 700, nil
	}
	w, err := strconv.Atoi(value)
	if err != nil || w < 100 || w > 900 || w%100 != 0 {
		return 0, &uierr.ParseError{Msg: "font-weight must be normal, bold or 100-900", Token: value}
	}
	return w, nil
}

func parseOpacity(value string) (float64, error) {
	scale := 1.0
	s := value
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSuffix(s, "%")
		scale = 100
	}
	o, err := strconv.ParseFloat(s, 64)
	if err != nil || o < 0 || o > scale {
		return 0, &uierr.ParseError{Msg: "opacity must be 0-1 or 0-100%", Token: value}
	}
	return o / scale, nil
}
