// Package layout resolves the geometry of an element tree.
//
// The solver is a relaxation: each pass walks the tree in pre-order and
// tries to resolve every quantity that is still unknown (border widths,
// paddings, edges and sizes) from what is already known. Forward
// references are tolerated; a quantity that cannot be resolved yet is
// retried on the next pass. The driver stops when nothing is left, or
// reports a LayoutCycleError when a pass makes no progress.
package layout

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"caelus/pkg/element"
	"caelus/pkg/geom"
	"caelus/pkg/measure"
	"caelus/pkg/style"
	"caelus/pkg/uierr"
)

// Metrics is the read-only font and display information conversions need.
type Metrics interface {
	LineHeight(f style.Font) int
	TextWidth(f style.Font, s string) int
	DPI() int
}

// Options tunes the driver.
type Options struct {
	// ForceResolve pins any TOP or LEFT still unresolved at a stall to the
	// parent's content edge, once, instead of failing. The result is
	// displayable but probably not what the document meant.
	ForceResolve bool
	// MaxPasses bounds the number of passes; zero means no bound beyond
	// stall detection.
	MaxPasses int
	Logger    *zap.Logger
}

// Solver lays out one element tree.
type Solver struct {
	tree    *element.Tree
	metrics Metrics
	opts    Options
	log     *zap.Logger

	passes int
	forced bool
}

// New returns a solver for tree.
func New(tree *element.Tree, metrics Metrics, opts Options) *Solver {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Solver{tree: tree, metrics: metrics, opts: opts, log: log.Named("layout")}
}

// Passes returns the number of passes run since the last Prepare.
func (s *Solver) Passes() int { return s.passes }

// Forced reports whether the last solve fell back to ForceResolve.
func (s *Solver) Forced() bool { return s.forced }

// Prepare clears every element's working geometry and pins the root to
// the window's client area.
func (s *Solver) Prepare(width, height int) {
	for _, el := range s.tree.Elements() {
		el.Rect.Reset()
	}
	root := &s.tree.Root.Rect
	root.SetEdge(geom.Top, 0)
	root.SetEdge(geom.Left, 0)
	root.SetSize(geom.Width, width)
	root.SetSize(geom.Height, height)
	s.passes = 0
	s.forced = false
}

// Solve runs Prepare and then passes until the tree is fully resolved.
func (s *Solver) Solve(width, height int) error {
	s.Prepare(width, height)
	prev := math.MaxInt
	for {
		n, err := s.ComputeLayout()
		if err != nil {
			return err
		}
		s.log.Debug("layout pass", zap.Int("pass", s.passes), zap.Int("unresolved", n))
		if n == 0 {
			return nil
		}
		stalled := n >= prev
		if stalled || (s.opts.MaxPasses > 0 && s.passes >= s.opts.MaxPasses) {
			if stalled && s.opts.ForceResolve && !s.forced {
				forced := s.forceResolve()
				s.forced = true
				s.log.Warn("layout stalled, forcing unresolved positions",
					zap.Int("unresolved", n), zap.Int("forced", forced))
				prev = n
				continue
			}
			cycle := &uierr.LayoutCycleError{Passes: s.passes, Unresolved: s.Unresolved()}
			s.log.Warn("layout did not converge",
				zap.Int("passes", s.passes),
				zap.Strings("elements", cycle.Elements()))
			return cycle
		}
		prev = n
	}
}

// ComputeLayout runs one pass over the whole tree and returns the number
// of quantities still unresolved.
func (s *Solver) ComputeLayout() (int, error) {
	s.passes++
	return s.pass(s.tree.Root)
}

func (s *Solver) pass(el *element.Element) (int, error) {
	if err := s.resolveElement(el); err != nil {
		return 0, err
	}
	n := el.Rect.UnresolvedCount()
	for _, c := range el.Children {
		cn, err := s.pass(c)
		if err != nil {
			return 0, err
		}
		n += cn
	}
	return n, nil
}

func (s *Solver) resolveElement(el *element.Element) error {
	ctx := s.unitContext(el)
	for _, e := range geom.Edges {
		if _, ok := el.Rect.Border(e); ok {
			continue
		}
		m := element.Prop[measure.Measure](el, style.BorderWidth, int(e))
		px, ok, err := m.ToPixels(ctx, e.Dimension())
		if err != nil {
			return s.unitError(el, m, err)
		}
		if ok {
			el.Rect.SetBorder(e, px)
		}
	}
	for _, e := range geom.Edges {
		if _, ok := el.Rect.Padding(e); ok {
			continue
		}
		m := element.Prop[measure.Measure](el, style.Padding, int(e))
		px, ok, err := m.ToPixels(ctx, e.Dimension())
		if err != nil {
			return s.unitError(el, m, err)
		}
		if ok {
			el.Rect.SetPadding(e, px)
		}
	}
	for _, e := range geom.Edges {
		if err := s.resolveEdge(el, e); err != nil {
			return err
		}
	}
	for _, d := range geom.Dimensions {
		if err := s.resolveSize(el, d); err != nil {
			return err
		}
	}
	return nil
}

func (s *Solver) unitError(el *element.Element, m measure.Measure, err error) error {
	var ue *uierr.UnsupportedUnitError
	if errors.As(err, &ue) {
		c := *ue
		c.Element = el.Name
		c.Measure = m.String()
		return &c
	}
	return err
}

// forceResolve pins unresolved TOP and LEFT edges and returns how many.
func (s *Solver) forceResolve() int {
	n := 0
	for _, el := range s.tree.Elements() {
		for _, e := range [2]geom.Edge{geom.Top, geom.Left} {
			if el.Rect.HasEdge(e) {
				continue
			}
			v := 0
			if el.Parent != nil {
				if base, ok := el.Parent.Rect.ContentEdge(e); ok {
					v = base
				}
			}
			el.Rect.SetEdge(e, v)
			n++
		}
	}
	return n
}

// Unresolved lists every quantity still unknown, in tree order.
func (s *Solver) Unresolved() []uierr.Quantity {
	var out []uierr.Quantity
	for _, el := range s.tree.Elements() {
		for _, name := range el.Rect.Unresolved() {
			out = append(out, uierr.Quantity{Element: el.Name, Name: name})
		}
	}
	return out
}
