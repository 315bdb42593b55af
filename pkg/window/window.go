// Package window is the contract between a laid-out element tree and the
// windowing host that turns elements into controls.
package window

import (
	"fmt"

	"github.com/google/uuid"

	"caelus/pkg/color"
	"caelus/pkg/element"
	"caelus/pkg/geom"
	"caelus/pkg/measure"
	"caelus/pkg/style"
)

// Handle is an opaque control id issued by a host.
type Handle string

// NewHandle returns a fresh random handle.
func NewHandle() Handle { return Handle(uuid.NewString()) }

// ControlSpec is everything a host needs to create or refresh a control.
type ControlSpec struct {
	Name    string
	Kind    style.Kind
	Label   string
	Value   string
	Visible bool
	Opacity float64

	Font       style.Font
	Foreground color.Color
	Background color.Color
	Border     [4]color.Color
	// BorderWidths and Padding are resolved pixels, indexed by geom.Edge.
	BorderWidths geom.Insets
	Padding      geom.Insets
	Radius       [4]measure.Measure
	Align        style.HAlign
	VAlign       style.VAlign

	// Rect is the committed outer geometry in window coordinates.
	Rect geom.Rect
}

// Host creates and positions native controls.
type Host interface {
	CreateControl(spec ControlSpec, parent Handle) (Handle, error)
	MoveControl(h Handle, r geom.Rect) error
}

// Updater is implemented by hosts that can refresh a control's text and
// appearance in place.
type Updater interface {
	UpdateControl(h Handle, spec ControlSpec) error
}

// SpecFor collects the control description of el from its properties and
// committed geometry.
func SpecFor(el *element.Element) ControlSpec {
	spec := ControlSpec{
		Name:         el.Name,
		Kind:         el.Kind(),
		Label:        el.Label(),
		Value:        el.Value(),
		Visible:      el.Visible(),
		Opacity:      element.Prop[float64](el, style.Opacity, 0),
		Font:         el.Font(),
		Foreground:   element.Prop[color.Color](el, style.TextColor, 0),
		Background:   element.Prop[color.Color](el, style.BackgroundColor, 0),
		BorderWidths: el.Rect.Borders(),
		Padding:      el.Rect.Paddings(),
		Align:        element.Prop[style.HAlign](el, style.TextAlign, 0),
		VAlign:       element.Prop[style.VAlign](el, style.VerticalAlign, 0),
		Rect:         el.Current,
	}
	for _, e := range geom.Edges {
		spec.Border[e] = element.Prop[color.Color](el, style.BorderColor, int(e))
	}
	for c := range spec.Radius {
		spec.Radius[c] = element.Prop[measure.Measure](el, style.BorderRadius, c)
	}
	return spec
}

// Materialize pushes the committed geometry of tree to host. Elements
// without a handle are created under their nearest materialised ancestor;
// the rest are moved. Class-only elements are skipped but their children
// are not. The tree must have been committed.
func Materialize(tree *element.Tree, host Host) error {
	return materialize(tree.Root, "", host)
}

func materialize(el *element.Element, parent Handle, host Host) error {
	if !el.Committed {
		return fmt.Errorf("materialize %s: geometry not committed", el.Name)
	}
	next := parent
	if el.Kind().Caps().Native || el.IsRoot() {
		h := Handle(el.Handle)
		if h == "" {
			created, err := host.CreateControl(SpecFor(el), parent)
			if err != nil {
				return fmt.Errorf("create control %s: %w", el.Name, err)
			}
			el.Handle = string(created)
			h = created
		}
		if err := host.MoveControl(h, el.Current); err != nil {
			return fmt.Errorf("move control %s: %w", el.Name, err)
		}
		next = h
	}
	for _, c := range el.Children {
		if err := materialize(c, next, host); err != nil {
			return err
		}
	}
	return nil
}

// Refresh re-sends el's description to host when the host supports in
// place updates. It reports whether an update was sent.
func Refresh(el *element.Element, host Host) (bool, error) {
	u, ok := host.(Updater)
	if !ok || el.Handle == "" {
		return false, nil
	}
	if err := u.UpdateControl(Handle(el.Handle), SpecFor(el)); err != nil {
		return false, fmt.Errorf("update control %s: %w", el.Name, err)
	}
	return true, nil
}
