package style

import (
	"strings"

	"caelus/pkg/uierr"
)

// Sheet is the ordered set of classes loaded from one document.
type Sheet struct {
	classes map[string]*Class
	order   []*Class
}

// NewSheet returns an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{classes: make(map[string]*Class)}
}

// Add appends c, rejecting a name already present.
func (s *Sheet) Add(c *Class) error {
	if c.Name == "" {
		return &uierr.ParseError{Msg: "empty class name"}
	}
	if _, dup := s.classes[c.Name]; dup {
		return &uierr.DuplicateNameError{Name: c.Name, Line: c.Line}
	}
	s.classes[c.Name] = c
	s.order = append(s.order, c)
	return nil
}

// Class finds a class by name. A bare name also matches a style class of
// the same name with a leading ".".
func (s *Sheet) Class(name string) (*Class, bool) {
	if c, ok := s.classes[name]; ok {
		return c, true
	}
	if !strings.HasPrefix(name, ".") {
		c, ok := s.classes["."+name]
		return c, ok
	}
	return nil, false
}

// Classes returns every class in declaration order.
func (s *Sheet) Classes() []*Class { return s.order }

// Len returns the number of classes.
func (s *Sheet) Len() int { return len(s.order) }

// Chain expands name and its includes depth first. Each class appears
// once, at its first visit, so include cycles terminate. Unknown names are
// skipped; Validate reports them.
func (s *Sheet) Chain(name string) []*Class {
	var chain []*Class
	visited := make(map[*Class]bool)
	var visit func(string)
	visit = func(n string) {
		c, ok := s.Class(n)
		if !ok || visited[c] {
			return
		}
		visited[c] = true
		chain = append(chain, c)
		for _, inc := range c.Includes {
			visit(inc)
		}
	}
	visit(name)
	return chain
}

// Validate checks that every included class exists.
func (s *Sheet) Validate() error {
	for _, c := range s.order {
		for _, inc := range c.Includes {
			if _, ok := s.Class(inc); !ok {
				return &uierr.UnknownClassError{Name: inc, Referrer: c.Name}
			}
		}
	}
	return nil
}
