package style

import (
	"strings"
	"unicode"

	"caelus/pkg/geom"
	"caelus/pkg/measure"
	"caelus/pkg/uierr"
)

// Form is the shorthand a tether was written in.
type Form int

const (
	// Named tethers to an edge of a named element; the offset is added as
	// written.
	Named Form = iota
	// Sibling tethers to the adjacent sibling, or to the parent when there
	// is none; a positive offset moves away from it.
	Sibling
	// Parent tethers to the same edge of the parent's content box; a
	// positive offset moves inward.
	Parent
)

// SiblingTarget is the target id written for the adjacent sibling.
const SiblingTarget = "."

// Tether constrains one edge to another element's edge plus an offset.
type Tether struct {
	Form       Form
	Target     string // element name for Named, "." for Sibling, "" for Parent
	TargetEdge geom.Edge
	EdgeGiven  bool // TargetEdge was written rather than defaulted
	Offset     measure.Measure
	Text       string
}

// ParseTether parses the tether text for edge e:
//
//	id>[edge][±N[unit]]   named element ("." = adjacent sibling)
//	±N[unit]              adjacent sibling
//	N[unit]               absolute within the parent
func ParseTether(e geom.Edge, text string) (Tether, error) {
	s := strings.TrimSpace(text)
	invalid := func(reason string) error {
		return &uierr.InvalidTetherError{Key: e.String(), Text: text, Reason: reason}
	}
	if s == "" {
		return Tether{}, invalid("empty")
	}

	if id, rest, ok := strings.Cut(s, ">"); ok {
		id = strings.TrimSpace(id)
		if id == "" || (id != SiblingTarget && !validName(id)) {
			return Tether{}, invalid("bad target name")
		}
		t := Tether{Form: Named, Target: id, TargetEdge: e.Opposite(), Text: text}
		if id == SiblingTarget {
			t.Form = Sibling
		}
		rest = strings.TrimSpace(rest)
		word := leadingLetters(rest)
		if word != "" {
			te, ok := geom.ParseEdge(word)
			if !ok {
				return Tether{}, invalid("unknown edge " + word)
			}
			if te.Dimension() != e.Dimension() {
				return Tether{}, &uierr.IncompatibleAxisError{Edge: e.String(), TargetEdge: te.String(), Text: text}
			}
			t.TargetEdge, t.EdgeGiven = te, true
			rest = strings.TrimSpace(rest[len(word):])
			if rest != "" && rest[0] != '+' && rest[0] != '-' {
				return Tether{}, invalid("offset after an edge needs a sign")
			}
		}
		if rest != "" {
			m, err := measure.Parse(rest)
			if err != nil {
				return Tether{}, invalid("bad offset")
			}
			t.Offset = m
		}
		return t, nil
	}

	m, err := measure.Parse(s)
	if err != nil {
		return Tether{}, invalid("not a measure")
	}
	if s[0] == '+' || s[0] == '-' {
		return Tether{Form: Sibling, Target: SiblingTarget, TargetEdge: e.Opposite(), Offset: m, Text: text}, nil
	}
	if m.Unit == measure.PERCENT {
		return Tether{}, invalid("percent offsets are not supported within the parent")
	}
	return Tether{Form: Parent, TargetEdge: e, Offset: m, Text: text}, nil
}

func leadingLetters(s string) string {
	i := 0
	for i < len(s) && unicode.IsLetter(rune(s[i])) {
		i++
	}
	return s[:i]
}

func validName(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-':
		case r == '.' && i == 0:
		default:
			return false
		}
	}
	return true
}
