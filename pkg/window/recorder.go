package window

import (
	"fmt"
	"sync"

	"caelus/pkg/geom"
)

// OpKind names a recorded host call.
type OpKind string

const (
	OpCreate OpKind = "create"
	OpMove   OpKind = "move"
	OpUpdate OpKind = "update"
)

// Op is one recorded host call.
type Op struct {
	Kind   OpKind
	Handle Handle
	Parent Handle
	Name   string
	Rect   geom.Rect
}

// Control is the recorder's view of a created control.
type Control struct {
	Handle Handle
	Parent Handle
	Spec   ControlSpec
	Rect   geom.Rect
}

// Recorder is an in-memory Host and Updater. It keeps every call in order
// and the latest state of each control.
type Recorder struct {
	mu       sync.Mutex
	ops      []Op
	controls map[Handle]*Control
	byName   map[string]Handle
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{controls: make(map[Handle]*Control), byName: make(map[string]Handle)}
}

func (r *Recorder) CreateControl(spec ControlSpec, parent Handle) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if parent != "" {
		if _, ok := r.controls[parent]; !ok {
			return "", fmt.Errorf("unknown parent handle %q", parent)
		}
	}
	h := NewHandle()
	r.controls[h] = &Control{Handle: h, Parent: parent, Spec: spec, Rect: spec.Rect}
	r.byName[spec.Name] = h
	r.ops = append(r.ops, Op{Kind: OpCreate, Handle: h, Parent: parent, Name: spec.Name, Rect: spec.Rect})
	return h, nil
}

func (r *Recorder) MoveControl(h Handle, rect geom.Rect) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controls[h]
	if !ok {
		return fmt.Errorf("unknown handle %q", h)
	}
	c.Rect = rect
	r.ops = append(r.ops, Op{Kind: OpMove, Handle: h, Name: c.Spec.Name, Rect: rect})
	return nil
}

func (r *Recorder) UpdateControl(h Handle, spec ControlSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controls[h]
	if !ok {
		return fmt.Errorf("unknown handle %q", h)
	}
	c.Spec = spec
	r.ops = append(r.ops, Op{Kind: OpUpdate, Handle: h, Name: spec.Name, Rect: spec.Rect})
	return nil
}

// Ops returns a copy of the calls recorded so far.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// Reset forgets recorded calls but keeps the controls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}

// Control returns the control created for the element called name.
func (r *Recorder) Control(name string) (Control, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byName[name]
	if !ok {
		return Control{}, false
	}
	return *r.controls[h], true
}

// Len returns the number of controls created.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controls)
}
