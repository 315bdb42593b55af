package layout

import (
	"caelus/pkg/geom"
	"caelus/pkg/uierr"
)

// Snapshot is the committed geometry of every element, keyed by name.
type Snapshot map[string]geom.Rect

// Commit copies the resolved geometry into each element's Current rect.
// Nothing is copied unless every element is fully resolved, so a caller
// never sees a mix of old and new geometry.
func (s *Solver) Commit() (Snapshot, error) {
	if rest := s.Unresolved(); len(rest) > 0 {
		return nil, &uierr.LayoutCycleError{Passes: s.passes, Unresolved: rest}
	}
	snap := make(Snapshot, s.tree.Len())
	for _, el := range s.tree.Elements() {
		r, _ := el.Rect.Rect()
		snap[el.Name] = r
	}
	for _, el := range s.tree.Elements() {
		el.Current = snap[el.Name]
		el.Committed = true
	}
	return snap, nil
}

// Run solves the tree for a width x height window and commits the result.
func (s *Solver) Run(width, height int) (Snapshot, error) {
	if err := s.Solve(width, height); err != nil {
		return nil, err
	}
	return s.Commit()
}
