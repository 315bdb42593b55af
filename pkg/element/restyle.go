package element

import (
	"fmt"

	"caelus/pkg/geom"
	"caelus/pkg/style"
	"caelus/pkg/uierr"
)

// structuralKeys change the shape of the tree and are only honoured at
// load time.
var structuralKeys = map[string]bool{
	"parent":       true,
	"class":        true,
	"classes":      true,
	"type":         true,
	"element-type": true,
}

// Restyle applies a class-file key to the element's own class at run time.
// The value is validated on a scratch class first so a rejected change
// leaves the element untouched. The root gets an own class on first use.
func (t *Tree) Restyle(name, key, value string) error {
	el, ok := t.byName[name]
	if !ok {
		return fmt.Errorf("no element named %q", name)
	}
	if structuralKeys[key] {
		return &uierr.ParseError{Msg: "key cannot change after load", Token: key}
	}

	scratch := style.NewClass(name)
	if err := style.Apply(scratch, key, value); err != nil {
		return err
	}
	for _, e := range geom.Edges {
		tt, ok := scratch.Tether(e)
		if !ok || tt.Form != style.Named {
			continue
		}
		if _, found := t.byName[tt.Target]; !found {
			return &uierr.InvalidTetherError{Class: name, Key: e.String(), Text: tt.Text, Reason: "no element named " + tt.Target}
		}
	}

	own := t.ownClass(name)
	if own == nil {
		own = style.NewClass(name)
		if err := t.Sheet.Add(own); err != nil {
			return err
		}
		el.Classes = append([]string{name}, el.Classes...)
		el.chain = t.Sheet.Chain(name)
	}
	return style.Apply(own, key, value)
}

// Checkpoint records the element's own class as it is now. The returned
// function puts it back, undoing any Restyle made in between.
func (t *Tree) Checkpoint(name string) (restore func()) {
	if own := t.ownClass(name); own != nil {
		return own.Save()
	}
	return func() {
		if own := t.ownClass(name); own != nil {
			own.Clear()
		}
	}
}

// ownClass returns the class declared under exactly name. The sheet's
// fallback to a style class of the same name does not count.
func (t *Tree) ownClass(name string) *style.Class {
	c, ok := t.Sheet.Class(name)
	if !ok || c.Name != name {
		return nil
	}
	return c
}
