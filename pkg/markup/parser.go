// Package markup reads the HTML-like document format:
//
//	<window label="Demo" padding="4px">
//	  <class name=".primary" background-color="#0066FF"/>
//	  <button name="ok" class=".primary" right="10px" bottom="10px">OK</button>
//	</window>
//
// The tag is the element type, nesting gives the parent, text content
// becomes the label (the value for edit, list and combo boxes), and every
// other attribute is a class-file key. <class> declares a style-only class
// and <script> holds code run once the window is shown.
package markup

import (
	"errors"
	"fmt"
	"strings"

	"caelus/pkg/style"
	"caelus/pkg/uierr"
)

// Document is a parsed markup file.
type Document struct {
	Sheet   *style.Sheet
	Scripts []string
}

// tagKinds maps tag names to element type keywords.
var tagKinds = map[string]string{
	"box":      "generic",
	"div":      "generic",
	"generic":  "generic",
	"text":     "text",
	"label":    "text",
	"edit":     "edit",
	"input":    "edit",
	"button":   "button",
	"listbox":  "listbox",
	"list":     "listbox",
	"combobox": "combobox",
	"select":   "combobox",
	"checkbox": "checkbox",
	"group":    "class",
}

type frame struct {
	tag   string
	class *style.Class
	text  []string
}

// Parser turns the tokens of one markup document into a class sheet,
// with one class per element and the element nesting recorded as parents.
type Parser struct {
	tokenizer *Tokenizer
	doc       *Document
	stack     []*frame
	counters  map[string]int
}

// NewParser returns a parser over src.
func NewParser(src string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(src),
		doc:       &Document{Sheet: style.NewSheet()},
		counters:  make(map[string]int),
	}
}

// errorAt positions err at the byte offset pos.
func (p *Parser) errorAt(pos int, err error) error {
	line, col := p.tokenizer.Position(pos)
	var pe *uierr.ParseError
	if errors.As(err, &pe) {
		return pe.At(line, col)
	}
	var se *syntaxError
	if errors.As(err, &se) {
		line, col = p.tokenizer.Position(se.pos)
		return &uierr.ParseError{Line: line, Col: col, Msg: se.msg}
	}
	return fmt.Errorf("line %d: %w", line, err)
}

// Parse consumes the whole input. A document needs a <window> element;
// unclosed elements are closed at the end of input.
func (p *Parser) Parse() (*Document, error) {
	sawWindow := false
	for {
		tok, err := p.tokenizer.NextToken()
		if err != nil {
			return nil, p.errorAt(0, err)
		}
		switch tok.Type {
		case TokenEOF:
			if !sawWindow {
				return nil, &uierr.ParseError{Line: 1, Col: 1, Msg: "missing <window> element"}
			}
			for len(p.stack) > 0 {
				if err := p.close(tok.Pos); err != nil {
					return nil, err
				}
			}
			return p.doc, nil

		case TokenStartTag:
			if tok.TagName == "script" {
				if err := p.script(tok); err != nil {
					return nil, err
				}
				continue
			}
			if len(p.stack) == 0 {
				if tok.TagName != style.RootName || sawWindow {
					return nil, p.errorAt(tok.Pos, &uierr.ParseError{Msg: "document must have a single <window> root", Token: tok.TagName})
				}
				sawWindow = true
			}
			if err := p.open(tok); err != nil {
				return nil, err
			}

		case TokenText:
			if len(p.stack) == 0 {
				return nil, p.errorAt(tok.Pos, &uierr.ParseError{Msg: "text outside <window>", Token: tok.Text})
			}
			top := p.stack[len(p.stack)-1]
			top.text = append(top.text, tok.Text)

		case TokenEndTag:
			if len(p.stack) == 0 || p.stack[len(p.stack)-1].tag != tok.TagName {
				return nil, p.errorAt(tok.Pos, &uierr.ParseError{Msg: "unexpected end tag", Token: "</" + tok.TagName + ">"})
			}
			if err := p.close(tok.Pos); err != nil {
				return nil, err
			}
		}
	}
}

func (p *Parser) script(tok Token) error {
	if tok.SelfClosing {
		return nil
	}
	body, ok := p.tokenizer.ReadRawUntil("script")
	if !ok {
		return p.errorAt(tok.Pos, &uierr.ParseError{Msg: "unterminated <script>"})
	}
	if strings.TrimSpace(body) != "" {
		p.doc.Scripts = append(p.doc.Scripts, body)
	}
	return nil
}

func (p *Parser) open(tok Token) error {
	var c *style.Class
	var err error
	switch {
	case tok.TagName == style.RootName:
		c = style.NewClass(style.RootName)
		err = p.apply(c, tok, "name", "title")
		if title, ok := tok.Attr("title"); ok && err == nil {
			err = p.set(c, "label", title, tok.Pos)
		}
	case tok.TagName == "class":
		name, ok := tok.Attr("name")
		if !ok || !strings.HasPrefix(name, ".") {
			return p.errorAt(tok.Pos, &uierr.ParseError{Msg: `<class> needs a name starting with "."`, Token: name})
		}
		c = style.NewClass(name)
		err = p.apply(c, tok, "name")
	default:
		kind, ok := tagKinds[tok.TagName]
		if !ok {
			return p.errorAt(tok.Pos, &uierr.ParseError{Msg: "unknown element type", Token: tok.TagName})
		}
		if len(p.stack) > 0 && p.stack[len(p.stack)-1].tag == "class" {
			return p.errorAt(tok.Pos, &uierr.ParseError{Msg: "elements cannot nest inside <class>", Token: tok.TagName})
		}
		c = style.NewClass(p.elementName(tok))
		if len(p.stack) > 0 {
			if parent := p.stack[len(p.stack)-1].class; parent.Name != style.RootName {
				err = c.SetParent(parent.Name)
			}
		}
		if err == nil && kind != "generic" {
			err = p.set(c, "type", kind, tok.Pos)
		}
		if err == nil {
			err = p.apply(c, tok, "name")
		}
	}
	if err != nil {
		return err
	}
	c.Line, _ = p.tokenizer.Position(tok.Pos)
	if err := p.doc.Sheet.Add(c); err != nil {
		return p.errorAt(tok.Pos, err)
	}
	f := &frame{tag: tok.TagName, class: c}
	p.stack = append(p.stack, f)
	if tok.SelfClosing {
		return p.close(tok.Pos)
	}
	return nil
}

// close pops the innermost element and turns its text into a label or
// value, unless an attribute already set one.
func (p *Parser) close(pos int) error {
	f := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	text := strings.Join(f.text, " ")
	if text == "" || f.class.StyleOnly() {
		return nil
	}
	key := "label"
	kind, _ := style.ParseKind(tagKinds[f.tag])
	if caps := kind.Caps(); caps.Value && !caps.Label {
		key = "value"
	}
	prop := style.Label
	if key == "value" {
		prop = style.Value
	}
	if f.class.Has(prop, 0) {
		return nil
	}
	return p.set(f.class, key, text, pos)
}

func (p *Parser) elementName(tok Token) string {
	if name, ok := tok.Attr("name"); ok && name != "" {
		return name
	}
	p.counters[tok.TagName]++
	return fmt.Sprintf("%s-%d", tok.TagName, p.counters[tok.TagName])
}

// apply sets every attribute except skip as a class-file key.
func (p *Parser) apply(c *style.Class, tok Token, skip ...string) error {
outer:
	for _, a := range tok.Attrs {
		for _, s := range skip {
			if a.Name == s {
				continue outer
			}
		}
		if err := style.Apply(c, a.Name, a.Value); err != nil {
			// unknown keys are reported at the name, bad values at the value
			var pe *uierr.ParseError
			if errors.As(err, &pe) && pe.Token == a.Name {
				return p.errorAt(a.Pos, err)
			}
			return p.errorAt(a.ValuePos, err)
		}
	}
	return nil
}

func (p *Parser) set(c *style.Class, key, value string, pos int) error {
	if err := style.Apply(c, key, value); err != nil {
		return p.errorAt(pos, err)
	}
	return nil
}

// Parse reads a whole markup document.
func Parse(src string) (*Document, error) {
	return NewParser(src).Parse()
}
