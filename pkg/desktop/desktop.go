// Package desktop is a windowing host backed by a fyne window. Controls are
// fyne widgets placed at absolute positions inside one layout-free
// container, since the solver already produced window coordinates.
package desktop

import (
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"caelus/pkg/geom"
	"caelus/pkg/style"
	"caelus/pkg/text"
	"caelus/pkg/window"
)

// EventKind is the kind of user interaction reported by a control.
type EventKind int

const (
	Click EventKind = iota
	Change
)

func (k EventKind) String() string {
	if k == Change {
		return "change"
	}
	return "click"
}

// Event is a user interaction on the control of element Name.
type Event struct {
	Name  string
	Kind  EventKind
	Value string
}

type control struct {
	name   string
	kind   style.Kind
	obj    fyne.CanvasObject
	update func(window.ControlSpec)
}

// Host creates fyne widgets for elements.
type Host struct {
	win     fyne.Window
	metrics *text.Metrics
	log     *zap.Logger
	canvas  *fyne.Container

	mu       sync.Mutex
	controls map[window.Handle]*control
	onEvent  func(Event)
	onResize func(w, h int)
	muted    bool
}

// New opens (but does not show) a window titled title in app a.
func New(a fyne.App, title string, metrics *text.Metrics, log *zap.Logger) *Host {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Host{
		win:      a.NewWindow(title),
		metrics:  metrics,
		log:      log.Named("desktop"),
		controls: make(map[window.Handle]*control),
	}
	h.canvas = container.New(&resizeLayout{host: h})
	h.win.SetContent(h.canvas)
	return h
}

// Window returns the fyne window.
func (h *Host) Window() fyne.Window { return h.win }

// OnEvent registers the receiver of clicks and value changes.
func (h *Host) OnEvent(fn func(Event)) {
	h.mu.Lock()
	h.onEvent = fn
	h.mu.Unlock()
}

// OnResize registers the receiver of window size changes.
func (h *Host) OnResize(fn func(w, h int)) {
	h.mu.Lock()
	h.onResize = fn
	h.mu.Unlock()
}

// ShowAndRun shows the window and runs the fyne event loop.
func (h *Host) ShowAndRun() { h.win.ShowAndRun() }

func (h *Host) emit(ev Event) {
	h.mu.Lock()
	fn, muted := h.onEvent, h.muted
	h.mu.Unlock()
	if fn == nil || muted {
		return
	}
	h.log.Debug("control event", zap.String("element", ev.Name), zap.Stringer("kind", ev.Kind))
	fn(ev)
}

func (h *Host) CreateControl(spec window.ControlSpec, parent window.Handle) (window.Handle, error) {
	h.mu.Lock()
	if parent != "" {
		if _, ok := h.controls[parent]; !ok {
			h.mu.Unlock()
			return "", fmt.Errorf("unknown parent handle %q", parent)
		}
	}
	h.mu.Unlock()

	handle := window.NewHandle()
	var c *control
	if parent == "" {
		// the window itself
		h.win.SetTitle(firstNonEmpty(spec.Label, h.win.Title()))
		bg := canvas.NewRectangle(spec.Background)
		c = &control{name: spec.Name, kind: spec.Kind, obj: bg, update: func(s window.ControlSpec) {
			bg.FillColor = s.Background
			bg.Refresh()
		}}
	} else {
		c = h.newControl(spec)
	}
	h.quietly(func() { c.update(spec) })
	if !spec.Visible {
		c.obj.Hide()
	}
	h.canvas.Add(c.obj)

	h.mu.Lock()
	h.controls[handle] = c
	h.mu.Unlock()
	return handle, nil
}

func (h *Host) MoveControl(handle window.Handle, r geom.Rect) error {
	c, err := h.control(handle)
	if err != nil {
		return err
	}
	c.obj.Move(fyne.NewPos(float32(r.Left), float32(r.Top)))
	c.obj.Resize(fyne.NewSize(float32(r.Width()), float32(r.Height())))
	return nil
}

func (h *Host) UpdateControl(handle window.Handle, spec window.ControlSpec) error {
	c, err := h.control(handle)
	if err != nil {
		return err
	}
	h.quietly(func() { c.update(spec) })
	if spec.Visible {
		c.obj.Show()
	} else {
		c.obj.Hide()
	}
	return nil
}

// quietly runs fn with change events suppressed, so values the host sets
// itself are not reported back as user edits.
func (h *Host) quietly(fn func()) {
	h.mu.Lock()
	h.muted = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.muted = false
		h.mu.Unlock()
	}()
	fn()
}

func (h *Host) control(handle window.Handle) (*control, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.controls[handle]
	if !ok {
		return nil, fmt.Errorf("unknown handle %q", handle)
	}
	return c, nil
}

func (h *Host) newControl(spec window.ControlSpec) *control {
	name := spec.Name
	c := &control{name: name, kind: spec.Kind}
	switch spec.Kind {
	case style.Button:
		b := widget.NewButton(spec.Label, func() { h.emit(Event{Name: name, Kind: Click}) })
		c.obj = b
		c.update = func(s window.ControlSpec) { b.SetText(s.Label) }

	case style.Edit:
		e := widget.NewEntry()
		e.MultiLine = strings.Contains(spec.Value, "\n")
		e.OnChanged = func(v string) { h.emit(Event{Name: name, Kind: Change, Value: v}) }
		c.obj = e
		c.update = func(s window.ControlSpec) {
			if e.Text != s.Value {
				e.SetText(s.Value)
			}
		}

	case style.CheckBox:
		cb := widget.NewCheck(spec.Label, nil)
		cb.OnChanged = func(on bool) {
			h.emit(Event{Name: name, Kind: Change, Value: fmt.Sprint(on)})
		}
		c.obj = cb
		c.update = func(s window.ControlSpec) {
			cb.Text = s.Label
			cb.SetChecked(checked(s.Value))
		}

	case style.ComboBox:
		sel := widget.NewSelect(nil, func(v string) { h.emit(Event{Name: name, Kind: Change, Value: v}) })
		c.obj = sel
		c.update = func(s window.ControlSpec) {
			items := lines(s.Value)
			sel.Options = items
			sel.Refresh()
			if len(items) > 0 && sel.Selected == "" {
				sel.SetSelected(items[0])
			}
		}

	case style.ListBox:
		var items []string
		list := widget.NewList(
			func() int { return len(items) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(id widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(items[id]) },
		)
		list.OnSelected = func(id widget.ListItemID) {
			h.emit(Event{Name: name, Kind: Change, Value: items[id]})
		}
		c.obj = list
		c.update = func(s window.ControlSpec) {
			items = lines(s.Value)
			list.Refresh()
		}

	default:
		// generic boxes and static text: a styled rectangle with a label
		bg := canvas.NewRectangle(spec.Background)
		txt := canvas.NewText(spec.Label, spec.Foreground)
		c.obj = container.NewStack(bg, container.NewPadded(txt))
		c.update = func(s window.ControlSpec) {
			bg.FillColor = s.Background
			bg.StrokeColor = s.Border[geom.Top]
			bg.StrokeWidth = float32(s.BorderWidths.Top)
			txt.Text = s.Label
			txt.Color = s.Foreground
			txt.TextStyle = fyne.TextStyle{Bold: s.Font.Bold(), Italic: s.Font.Italic, Monospace: text.IsMonospace(s.Font.Face)}
			if h.metrics != nil {
				txt.TextSize = float32(h.metrics.PixelSize(s.Font))
			}
			switch s.Align {
			case style.AlignCenter:
				txt.Alignment = fyne.TextAlignCenter
			case style.AlignRight:
				txt.Alignment = fyne.TextAlignTrailing
			default:
				txt.Alignment = fyne.TextAlignLeading
			}
			bg.Refresh()
			txt.Refresh()
		}
	}
	return c
}

// resizeLayout leaves children where MoveControl put them and reports the
// container size to the resize callback.
type resizeLayout struct {
	host *Host
	last fyne.Size
}

func (l *resizeLayout) Layout(_ []fyne.CanvasObject, size fyne.Size) {
	if size == l.last {
		return
	}
	l.last = size
	l.host.mu.Lock()
	fn := l.host.onResize
	l.host.mu.Unlock()
	if fn != nil {
		fn(int(size.Width), int(size.Height))
	}
}

func (l *resizeLayout) MinSize([]fyne.CanvasObject) fyne.Size { return fyne.NewSize(1, 1) }

func lines(v string) []string {
	var out []string
	for _, s := range strings.Split(v, "\n") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "checked":
		return true
	}
	return false
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
