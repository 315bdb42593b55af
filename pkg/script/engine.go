// Package script runs the on-click and on-change handlers attached to
// elements. Handlers are JavaScript executed by goja against a small `ui`
// global that reads and changes element properties.
package script

import (
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"caelus/pkg/geom"
)

// Info is the read-only view of an element handed to scripts.
type Info struct {
	Name    string
	Kind    string
	Label   string
	Value   string
	Visible bool
	Rect    geom.Rect
}

// Binder connects the engine to a live element tree.
type Binder interface {
	Lookup(name string) (Info, bool)
	// Set applies a class-file key to the named element.
	Set(name, key, value string) error
}

// Event describes the interaction a handler runs for.
type Event struct {
	Element string
	Type    string // "click" or "change"
	Value   string
}

// ErrTimeout is returned when a handler runs longer than the engine's
// timeout.
var ErrTimeout = errors.New("script timed out")

// Engine executes handler source against one Binder.
type Engine struct {
	vm      *goja.Runtime
	binder  Binder
	log     *zap.Logger
	timeout time.Duration
}

// New creates an engine with a fresh goja runtime. A zero timeout means
// handlers may run forever.
func New(binder Binder, timeout time.Duration, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := goja.New()
	e := &Engine{vm: vm, binder: binder, log: log.Named("script"), timeout: timeout}

	c := &consoleAPI{log: e.log}
	c.register(vm)
	registerUI(vm, binder)
	return e
}

// Run executes src as a top-level script. name labels errors.
func (e *Engine) Run(name, src string) error {
	_, err := e.run(src)
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// Handle runs a handler for ev with `event` and `self` bound.
func (e *Engine) Handle(ev Event, src string) error {
	if src == "" {
		return nil
	}
	evObj := e.vm.NewObject()
	evObj.Set("element", ev.Element)
	evObj.Set("type", ev.Type)
	evObj.Set("value", ev.Value)
	e.vm.Set("event", evObj)
	if _, ok := e.binder.Lookup(ev.Element); ok {
		e.vm.Set("self", e.vm.NewDynamicObject(&elementAccessor{vm: e.vm, binder: e.binder, name: ev.Element}))
	} else {
		e.vm.Set("self", goja.Null())
	}
	defer func() {
		e.vm.Set("event", goja.Undefined())
		e.vm.Set("self", goja.Undefined())
	}()

	e.log.Debug("running handler", zap.String("element", ev.Element), zap.String("event", ev.Type))
	if _, err := e.run(src); err != nil {
		return fmt.Errorf("on-%s handler of %s: %w", ev.Type, ev.Element, err)
	}
	return nil
}

func (e *Engine) run(src string) (goja.Value, error) {
	if e.timeout > 0 {
		timer := time.AfterFunc(e.timeout, func() { e.vm.Interrupt(ErrTimeout) })
		defer timer.Stop()
	}
	v, err := e.vm.RunString(src)
	e.vm.ClearInterrupt()
	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		if cause, ok := ie.Value().(error); ok {
			return nil, cause
		}
	}
	return v, err
}
