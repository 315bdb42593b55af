package script

import (
	"github.com/dop251/goja"
)

// registerUI sets up the global `ui` object.
func registerUI(vm *goja.Runtime, binder Binder) {
	ui := vm.NewObject()
	ui.Set("get", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		name := call.Arguments[0].String()
		if _, ok := binder.Lookup(name); !ok {
			return goja.Null()
		}
		return vm.NewDynamicObject(&elementAccessor{vm: vm, binder: binder, name: name})
	})
	set := func(key string) func(call goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("ui.%s needs an element name and a value", key))
			}
			mustSet(vm, binder, call.Arguments[0].String(), key, call.Arguments[1].String())
			return goja.Undefined()
		}
	}
	ui.Set("setLabel", set("label"))
	ui.Set("setValue", set("value"))
	ui.Set("set", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 3 {
			panic(vm.NewTypeError("ui.set needs an element name, a key and a value"))
		}
		mustSet(vm, binder, call.Arguments[0].String(), call.Arguments[1].String(), call.Arguments[2].String())
		return goja.Undefined()
	})
	ui.Set("show", func(name string) { mustSet(vm, binder, name, "visibility", "visible") })
	ui.Set("hide", func(name string) { mustSet(vm, binder, name, "visibility", "hidden") })
	vm.Set("ui", ui)
}

func mustSet(vm *goja.Runtime, binder Binder, name, key, value string) {
	if err := binder.Set(name, key, value); err != nil {
		panic(vm.NewGoError(err))
	}
}

// elementAccessor implements goja.DynamicObject so scripts can read an
// element's live properties and assign label, value and visible.
type elementAccessor struct {
	vm     *goja.Runtime
	binder Binder
	name   string
}

var accessorKeys = []string{"name", "kind", "label", "value", "visible", "left", "top", "width", "height"}

func (e *elementAccessor) Get(key string) goja.Value {
	info, ok := e.binder.Lookup(e.name)
	if !ok {
		return goja.Undefined()
	}
	switch key {
	case "name":
		return e.vm.ToValue(info.Name)
	case "kind":
		return e.vm.ToValue(info.Kind)
	case "label":
		return e.vm.ToValue(info.Label)
	case "value":
		return e.vm.ToValue(info.Value)
	case "visible":
		return e.vm.ToValue(info.Visible)
	case "left":
		return e.vm.ToValue(info.Rect.Left)
	case "top":
		return e.vm.ToValue(info.Rect.Top)
	case "width":
		return e.vm.ToValue(info.Rect.Width())
	case "height":
		return e.vm.ToValue(info.Rect.Height())
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "label", "value":
		mustSet(e.vm, e.binder, e.name, key, val.String())
	case "visible":
		v := "hidden"
		if val.ToBoolean() {
			v = "visible"
		}
		mustSet(e.vm, e.binder, e.name, "visibility", v)
	default:
		return false
	}
	return true
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range accessorKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(string) bool { return false }

func (e *elementAccessor) Keys() []string { return accessorKeys }
