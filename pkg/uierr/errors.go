// Package uierr defines the error types reported while loading a style
// document, building its element tree and solving its layout.
//
// Every loading error aborts the whole document. Callers inspect the
// concrete type with errors.As.
package uierr

import (
	"fmt"
	"strings"
)

// ParseError reports malformed class, tether, colour or measure text.
// Line and Col are 1-based and zero when the text did not come from a file.
type ParseError struct {
	Line  int
	Col   int
	Token string
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d", e.Line)
		if e.Col > 0 {
			fmt.Fprintf(&b, ", col %d", e.Col)
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if e.Token != "" {
		fmt.Fprintf(&b, " %q", e.Token)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// At returns a copy of e positioned at line and col, keeping any position
// already recorded.
func (e *ParseError) At(line, col int) *ParseError {
	c := *e
	if c.Line == 0 {
		c.Line = line
		c.Col = col
	}
	return &c
}

// DuplicateNameError reports a class or element name defined twice.
type DuplicateNameError struct {
	Name string
	Line int
}

func (e *DuplicateNameError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: duplicate name %q", e.Line, e.Name)
	}
	return fmt.Sprintf("duplicate name %q", e.Name)
}

// InvalidTetherError reports tether text that matches none of the tether
// forms, or that names an element which does not exist.
type InvalidTetherError struct {
	Class  string
	Key    string
	Text   string
	Reason string
}

func (e *InvalidTetherError) Error() string {
	msg := fmt.Sprintf("invalid tether %s=%q", e.Key, e.Text)
	if e.Class != "" {
		msg = fmt.Sprintf("[%s] %s", e.Class, msg)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// IncompatibleAxisError reports a horizontal edge tethered to a vertical
// edge or the reverse.
type IncompatibleAxisError struct {
	Class      string
	Edge       string
	TargetEdge string
	Text       string
}

func (e *IncompatibleAxisError) Error() string {
	msg := fmt.Sprintf("cannot tether %s to %s edge (%q)", e.Edge, e.TargetEdge, e.Text)
	if e.Class != "" {
		msg = fmt.Sprintf("[%s] %s", e.Class, msg)
	}
	return msg
}

// DanglingParentError reports a concrete element that was never built
// because its declared parent is missing or is reachable only through
// itself.
type DanglingParentError struct {
	Element string
	Parent  string
	Cyclic  bool
}

func (e *DanglingParentError) Error() string {
	if e.Cyclic {
		return fmt.Sprintf("element %q: parent %q forms a cycle", e.Element, e.Parent)
	}
	return fmt.Sprintf("element %q: parent %q not found", e.Element, e.Parent)
}

// UnknownClassError reports an include of a class that was never defined.
type UnknownClassError struct {
	Name     string
	Referrer string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("class %q included by %q is not defined", e.Name, e.Referrer)
}

// Quantity names one unresolved value of one element.
type Quantity struct {
	Element string
	Name    string
}

func (q Quantity) String() string { return q.Element + "." + q.Name }

// LayoutCycleError reports a relaxation that stopped making progress.
type LayoutCycleError struct {
	Passes     int
	Unresolved []Quantity
}

func (e *LayoutCycleError) Error() string {
	names := make([]string, len(e.Unresolved))
	for i, q := range e.Unresolved {
		names[i] = q.String()
	}
	return fmt.Sprintf("layout did not converge after %d passes, %d unresolved: %s",
		e.Passes, len(e.Unresolved), strings.Join(names, ", "))
}

// Elements returns the distinct element names with unresolved quantities,
// in report order.
func (e *LayoutCycleError) Elements() []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range e.Unresolved {
		if !seen[q.Element] {
			seen[q.Element] = true
			out = append(out, q.Element)
		}
	}
	return out
}

// UnsupportedUnitError reports a measure that can never be converted in
// the context it was used, such as a percentage on the root element.
type UnsupportedUnitError struct {
	Element string
	Measure string
	Reason  string
}

func (e *UnsupportedUnitError) Error() string {
	msg := fmt.Sprintf("unsupported unit in %q: %s", e.Measure, e.Reason)
	if e.Element != "" {
		msg = fmt.Sprintf("element %q: %s", e.Element, msg)
	}
	return msg
}
