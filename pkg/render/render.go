// Package render is a windowing host that paints controls into an image
// with gg instead of creating native widgets. It backs `caelus render` and
// visual checks of a layout without a display.
package render

import (
	"fmt"
	"image"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"caelus/pkg/color"
	"caelus/pkg/geom"
	"caelus/pkg/style"
	"caelus/pkg/text"
	"caelus/pkg/window"
)

type control struct {
	handle window.Handle
	parent window.Handle
	spec   window.ControlSpec
	rect   geom.Rect
}

// Raster records controls like a native host would and paints them on
// demand. Controls paint in creation order, so parents come first.
type Raster struct {
	metrics *text.Metrics
	log     *zap.Logger

	mu       sync.Mutex
	order    []*control
	controls map[window.Handle]*control
}

// NewRaster returns an empty raster host measuring text with metrics.
func NewRaster(metrics *text.Metrics, log *zap.Logger) *Raster {
	if log == nil {
		log = zap.NewNop()
	}
	return &Raster{metrics: metrics, log: log.Named("render"), controls: make(map[window.Handle]*control)}
}

func (r *Raster) CreateControl(spec window.ControlSpec, parent window.Handle) (window.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if parent != "" {
		if _, ok := r.controls[parent]; !ok {
			return "", fmt.Errorf("unknown parent handle %q", parent)
		}
	}
	c := &control{handle: window.NewHandle(), parent: parent, spec: spec, rect: spec.Rect}
	r.order = append(r.order, c)
	r.controls[c.handle] = c
	return c.handle, nil
}

func (r *Raster) MoveControl(h window.Handle, rect geom.Rect) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controls[h]
	if !ok {
		return fmt.Errorf("unknown handle %q", h)
	}
	c.rect = rect
	return nil
}

func (r *Raster) UpdateControl(h window.Handle, spec window.ControlSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controls[h]
	if !ok {
		return fmt.Errorf("unknown handle %q", h)
	}
	c.spec = spec
	return nil
}

// Paint draws every control onto a canvas the size of the root control.
func (r *Raster) Paint() (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return nil, fmt.Errorf("nothing to paint")
	}
	root := r.order[0].rect
	w, h := root.Width(), root.Height()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty window %dx%d", w, h)
	}
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Translate(float64(-root.Left), float64(-root.Top))
	for _, c := range r.order {
		if !c.spec.Visible || c.spec.Opacity <= 0 {
			continue
		}
		r.drawControl(dc, c)
	}
	return dc.Image(), nil
}

// SavePNG paints and writes the result to filename.
func (r *Raster) SavePNG(filename string) error {
	img, err := r.Paint()
	if err != nil {
		return err
	}
	if err := gg.SavePNG(filename, img); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	r.log.Debug("wrote image", zap.String("file", filename),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return nil
}

func setColor(dc *gg.Context, c color.Color, opacity float64) {
	red, g, b, a := c.Floats()
	dc.SetRGBA(red, g, b, a*opacity)
}

func (r *Raster) drawControl(dc *gg.Context, c *control) {
	spec := c.spec
	rect := c.rect
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return
	}
	x, y := float64(rect.Left), float64(rect.Top)
	w, h := float64(rect.Width()), float64(rect.Height())
	radius := r.radius(spec, rect)

	// Background covers the whole border box; borders paint over it.
	if spec.Background.A > 0 {
		setColor(dc, spec.Background, spec.Opacity)
		if radius > 0 {
			dc.DrawRoundedRectangle(x, y, w, h, radius)
		} else {
			dc.DrawRectangle(x, y, w, h)
		}
		dc.Fill()
	}
	r.drawBorder(dc, spec, rect, radius)

	switch spec.Kind {
	case style.CheckBox:
		r.drawCheckBox(dc, spec, rect)
	case style.Edit, style.ComboBox, style.ListBox:
		r.drawText(dc, spec, rect, spec.Value, 0)
	default:
		r.drawText(dc, spec, rect, spec.Label, 0)
	}
}

// radius converts the top-left corner radius; gg rounds all corners alike.
func (r *Raster) radius(spec window.ControlSpec, rect geom.Rect) float64 {
	m := spec.Radius[style.TopLeft]
	if m.IsZero() {
		return 0
	}
	px, ok, err := m.ToPixels(radiusContext{r: r, spec: spec, rect: rect}, geom.Width)
	if err != nil || !ok || px <= 0 {
		return 0
	}
	limit := math.Min(float64(rect.Width()), float64(rect.Height())) / 2
	return math.Min(float64(px), limit)
}

func (r *Raster) drawBorder(dc *gg.Context, spec window.ControlSpec, rect geom.Rect, radius float64) {
	b := spec.BorderWidths
	if b.Top <= 0 && b.Right <= 0 && b.Bottom <= 0 && b.Left <= 0 {
		return
	}
	if radius > 0 {
		setColor(dc, spec.Border[geom.Top], spec.Opacity)
		lw := float64(b.Top)
		dc.SetLineWidth(lw)
		dc.DrawRoundedRectangle(float64(rect.Left)+lw/2, float64(rect.Top)+lw/2,
			float64(rect.Width())-lw, float64(rect.Height())-lw, radius)
		dc.Stroke()
		return
	}

	outerLeft, outerTop := float64(rect.Left), float64(rect.Top)
	outerRight, outerBottom := float64(rect.Right), float64(rect.Bottom)
	innerLeft, innerTop := outerLeft+float64(b.Left), outerTop+float64(b.Top)
	innerRight, innerBottom := outerRight-float64(b.Right), outerBottom-float64(b.Bottom)

	// Each side is a trapezoid so corners miter.
	sides := []struct {
		edge  geom.Edge
		width int
		pts   [4][2]float64
	}{
		{geom.Top, b.Top, [4][2]float64{{outerLeft, outerTop}, {outerRight, outerTop}, {innerRight, innerTop}, {innerLeft, innerTop}}},
		{geom.Right, b.Right, [4][2]float64{{outerRight, outerTop}, {outerRight, outerBottom}, {innerRight, innerBottom}, {innerRight, innerTop}}},
		{geom.Bottom, b.Bottom, [4][2]float64{{outerLeft, outerBottom}, {outerRight, outerBottom}, {innerRight, innerBottom}, {innerLeft, innerBottom}}},
		{geom.Left, b.Left, [4][2]float64{{outerLeft, outerTop}, {outerLeft, outerBottom}, {innerLeft, innerBottom}, {innerLeft, innerTop}}},
	}
	for _, s := range sides {
		if s.width <= 0 || spec.Border[s.edge].A == 0 {
			continue
		}
		setColor(dc, spec.Border[s.edge], spec.Opacity)
		dc.MoveTo(s.pts[0][0], s.pts[0][1])
		for _, p := range s.pts[1:] {
			dc.LineTo(p[0], p[1])
		}
		dc.ClosePath()
		dc.Fill()
	}
}

// content returns the box inside border and padding.
func content(spec window.ControlSpec, rect geom.Rect) (x, y, w, h float64) {
	x = float64(rect.Left + spec.BorderWidths.Left + spec.Padding.Left)
	y = float64(rect.Top + spec.BorderWidths.Top + spec.Padding.Top)
	w = float64(rect.Right-spec.BorderWidths.Right-spec.Padding.Right) - x
	h = float64(rect.Bottom-spec.BorderWidths.Bottom-spec.Padding.Bottom) - y
	return x, y, w, h
}

// drawText lays s out line by line inside the content box, shifted right
// by indent pixels.
func (r *Raster) drawText(dc *gg.Context, spec window.ControlSpec, rect geom.Rect, s string, indent float64) {
	if s == "" {
		return
	}
	face, err := r.metrics.Face(spec.Font)
	if err != nil {
		r.log.Warn("no face for label", zap.String("control", spec.Name), zap.Error(err))
		return
	}
	dc.SetFontFace(face)
	setColor(dc, spec.Foreground, spec.Opacity)

	x, y, w, h := content(spec, rect)
	x += indent
	w -= indent
	lines := strings.Split(s, "\n")
	lh := float64(r.metrics.LineHeight(spec.Font))
	total := lh * float64(len(lines))

	top := y
	switch spec.VAlign {
	case style.AlignMiddle:
		top = y + (h-total)/2
	case style.AlignBottom:
		top = y + h - total
	}
	ax, px := 0.0, x
	switch spec.Align {
	case style.AlignCenter:
		ax, px = 0.5, x+w/2
	case style.AlignRight:
		ax, px = 1, x+w
	}
	for i, line := range lines {
		dc.DrawStringAnchored(line, px, top+lh*float64(i), ax, 1)
	}
}

func (r *Raster) drawCheckBox(dc *gg.Context, spec window.ControlSpec, rect geom.Rect) {
	x, y, _, h := content(spec, rect)
	side := float64(r.metrics.LineHeight(spec.Font))
	box := side * 0.7
	bx := x + (side-box)/2
	by := y + (math.Min(h, side)-box)/2
	setColor(dc, spec.Foreground, spec.Opacity)
	dc.SetLineWidth(1)
	dc.DrawRectangle(bx, by, box, box)
	dc.Stroke()
	if checked(spec.Value) {
		dc.MoveTo(bx+box*0.2, by+box*0.5)
		dc.LineTo(bx+box*0.45, by+box*0.8)
		dc.LineTo(bx+box*0.8, by+box*0.2)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
	r.drawText(dc, spec, rect, spec.Label, side)
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "checked":
		return true
	}
	return false
}

// radiusContext converts corner radii: em against the control's font,
// percent against the control's own size.
type radiusContext struct {
	r    *Raster
	spec window.ControlSpec
	rect geom.Rect
}

func (c radiusContext) LineHeight() int { return c.r.metrics.LineHeight(c.spec.Font) }
func (c radiusContext) DPI() int        { return c.r.metrics.DPI() }
func (c radiusContext) PercentBase(d geom.Dimension) (int, bool, error) {
	return c.rect.Size(d), true, nil
}
