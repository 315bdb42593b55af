// Package ui ties the pieces together. A Session owns one element tree:
// it loads the document, lays it out for a window size, pushes the result
// to a windowing host and routes control events to the element's
// handlers. Every layout starts from scratch.
package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"caelus/pkg/element"
	"caelus/pkg/layout"
	"caelus/pkg/resource"
	"caelus/pkg/script"
	"caelus/pkg/style"
	"caelus/pkg/window"
)

// Options configures a Session.
type Options struct {
	Metrics       layout.Metrics
	ForceResolve  bool
	MaxPasses     int
	ScriptTimeout time.Duration
	// FontFace and FontSize become the window's font unless the document
	// gives the window one.
	FontFace string
	FontSize string
	Logger   *zap.Logger
}

// Session is a loaded document and its live element tree. Methods are
// serialised; handlers run on the calling goroutine.
type Session struct {
	mu     sync.Mutex
	doc    *resource.Document
	tree   *element.Tree
	solver *layout.Solver
	engine *script.Engine
	host   window.Host
	log    *zap.Logger

	width, height int
	snap          layout.Snapshot
}

// Open loads uri through f and builds a session for it.
func Open(ctx context.Context, f resource.Fetcher, uri string, format resource.Format, opts Options) (*Session, error) {
	doc, err := resource.Load(ctx, f, uri, format)
	if err != nil {
		return nil, err
	}
	return New(doc, opts)
}

// New builds the element tree of doc.
func New(doc *resource.Document, opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	tree, err := element.Build(doc.Sheet)
	if err != nil {
		return nil, err
	}
	if err := applyDefaultFont(tree, opts); err != nil {
		return nil, err
	}
	s := &Session{doc: doc, tree: tree, log: log.Named("ui")}
	s.solver = layout.New(tree, opts.Metrics, layout.Options{
		ForceResolve: opts.ForceResolve,
		MaxPasses:    opts.MaxPasses,
		Logger:       log,
	})
	s.engine = script.New(binder{s}, opts.ScriptTimeout, log)
	s.log.Debug("element tree built", zap.String("uri", doc.URI), zap.Int("elements", tree.Len()))
	return s, nil
}

func applyDefaultFont(tree *element.Tree, opts Options) error {
	if opts.FontFace != "" && !element.Defines(tree.Root, style.FontFace, 0) {
		if err := tree.Restyle(style.RootName, "font-face", opts.FontFace); err != nil {
			return fmt.Errorf("default font: %w", err)
		}
	}
	if opts.FontSize != "" && !element.Defines(tree.Root, style.FontSize, 0) {
		if err := tree.Restyle(style.RootName, "font-size", opts.FontSize); err != nil {
			return fmt.Errorf("default font: %w", err)
		}
	}
	return nil
}

// Tree returns the element tree.
func (s *Session) Tree() *element.Tree { return s.tree }

// Document returns the loaded document.
func (s *Session) Document() *resource.Document { return s.doc }

// Snapshot returns the last committed geometry.
func (s *Session) Snapshot() layout.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Passes reports how many passes the last layout took and whether it had
// to force unresolved positions.
func (s *Session) Passes() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solver.Passes(), s.solver.Forced()
}

// Layout solves and commits the tree for a width x height client area
// without touching any host.
func (s *Session) Layout(width, height int) (layout.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.layout(width, height); err != nil {
		return nil, err
	}
	return s.snap, nil
}

// Show lays the tree out, creates its controls on host and then runs the
// document's scripts.
func (s *Session) Show(host window.Host, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.host != nil {
		return fmt.Errorf("session already shown")
	}
	if err := s.layout(width, height); err != nil {
		return err
	}
	if err := window.Materialize(s.tree, host); err != nil {
		return err
	}
	s.host = host
	for i, src := range s.doc.Scripts {
		if err := s.engine.Run(fmt.Sprintf("#%d", i+1), src); err != nil {
			return err
		}
	}
	return nil
}

// Resize re-runs the layout for a new client area and moves the controls.
// On failure the previous geometry stays in place.
func (s *Session) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.layout(width, height); err != nil {
		return err
	}
	if s.host == nil {
		return nil
	}
	return window.Materialize(s.tree, s.host)
}

// Dispatch routes a control event to the element's on-click or on-change
// handler. A change event first stores the new value on the element.
func (s *Session) Dispatch(ev script.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.tree.Element(ev.Element)
	if !ok {
		return fmt.Errorf("event for unknown element %q", ev.Element)
	}
	var src string
	switch ev.Type {
	case "click":
		src = element.Prop[string](el, style.OnClick, 0)
	case "change":
		if err := s.tree.Restyle(el.Name, "value", ev.Value); err != nil {
			return fmt.Errorf("change of %s: %w", el.Name, err)
		}
		src = element.Prop[string](el, style.OnChange, 0)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return s.engine.Handle(ev, src)
}

// layout runs under s.mu.
func (s *Session) layout(width, height int) error {
	snap, err := s.solver.Run(width, height)
	if err != nil {
		return err
	}
	s.width, s.height, s.snap = width, height, snap
	s.log.Debug("layout committed",
		zap.Int("width", width), zap.Int("height", height),
		zap.Int("passes", s.solver.Passes()), zap.Bool("forced", s.solver.Forced()))
	return nil
}

// binder exposes the tree to scripts. Its methods run inside a handler,
// so s.mu is already held.
type binder struct{ s *Session }

func (b binder) Lookup(name string) (script.Info, bool) {
	el, ok := b.s.tree.Element(name)
	if !ok {
		return script.Info{}, false
	}
	return script.Info{
		Name:    el.Name,
		Kind:    el.Kind().String(),
		Label:   el.Label(),
		Value:   el.Value(),
		Visible: el.Visible(),
		Rect:    el.Current,
	}, true
}

// Set restyles the element, lays the tree out again and, once shown,
// moves the controls and refreshes the changed element and its
// descendants, which may inherit the change. A change the layout cannot
// solve is undone, so the last committed geometry still holds.
func (b binder) Set(name, key, value string) error {
	s := b.s
	restore := s.tree.Checkpoint(name)
	if err := s.tree.Restyle(name, key, value); err != nil {
		return err
	}
	if s.snap == nil {
		return nil
	}
	if err := s.layout(s.width, s.height); err != nil {
		restore()
		s.log.Debug("restyle undone", zap.String("element", name), zap.String("key", key), zap.Error(err))
		return err
	}
	if s.host == nil {
		return nil
	}
	if err := window.Materialize(s.tree, s.host); err != nil {
		return err
	}
	el, _ := s.tree.Element(name)
	return element.Walk(el, func(e *element.Element) error {
		_, err := window.Refresh(e, s.host)
		return err
	})
}
