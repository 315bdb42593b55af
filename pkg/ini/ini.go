// Package ini reads the line-oriented class file format:
//
//	; comment
//	[name]
//	key=value
//	key="quoted value with \" \\ \n \t \r \b \f escapes"
//
// Each section becomes one style.Class. Names starting with "." are
// style-only classes; every other section describes a concrete element.
package ini

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"caelus/pkg/style"
	"caelus/pkg/uierr"
)

// Parse reads a whole class file.
func Parse(src string) (*style.Sheet, error) {
	return ParseReader(strings.NewReader(src))
}

// ParseReader reads a class file from r. The first error aborts the load.
func ParseReader(r io.Reader) (*style.Sheet, error) {
	sheet := style.NewSheet()
	var cur *style.Class
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || trimmed[0] == ';' || trimmed[0] == '#' {
			continue
		}
		indent := strings.Index(raw, trimmed)

		if trimmed[0] == '[' {
			c, err := parseSection(trimmed, line, indent+1)
			if err != nil {
				return nil, err
			}
			if err := sheet.Add(c); err != nil {
				return nil, err
			}
			cur = c
			continue
		}

		eq := strings.IndexByte(trimmed, '=')
		if eq < 0 {
			return nil, &uierr.ParseError{Line: line, Col: indent + 1, Msg: "expected key=value", Token: trimmed}
		}
		key := strings.TrimSpace(trimmed[:eq])
		if key == "" {
			return nil, &uierr.ParseError{Line: line, Col: indent + 1, Msg: "missing key", Token: trimmed}
		}
		if cur == nil {
			return nil, &uierr.ParseError{Line: line, Col: indent + 1, Msg: "key outside of any section", Token: key}
		}
		rawValue := trimmed[eq+1:]
		valueCol := indent + eq + 2 + (len(rawValue) - len(strings.TrimLeft(rawValue, " \t")))
		value, err := unquote(strings.TrimSpace(rawValue))
		if err != nil {
			var pe *uierr.ParseError
			if errors.As(err, &pe) {
				return nil, pe.At(line, valueCol)
			}
			return nil, err
		}
		if err := style.Apply(cur, key, value); err != nil {
			return nil, locate(err, line, indent+1, valueCol, key)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading class file: %w", err)
	}
	return sheet, nil
}

func parseSection(s string, line, col int) (*style.Class, error) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return nil, &uierr.ParseError{Line: line, Col: col, Msg: "unterminated section header", Token: s}
	}
	if rest := strings.TrimSpace(s[end+1:]); rest != "" && rest[0] != ';' && rest[0] != '#' {
		return nil, &uierr.ParseError{Line: line, Col: col + end + 1, Msg: "text after section header", Token: rest}
	}
	name := strings.TrimSpace(s[1:end])
	if name == "" || name == "." {
		return nil, &uierr.ParseError{Line: line, Col: col, Msg: "empty section name", Token: s}
	}
	c := style.NewClass(name)
	c.Line = line
	return c, nil
}

// locate attaches the line to an error from style.Apply. Unknown keys are
// reported at the key, everything else at the value.
func locate(err error, line, keyCol, valueCol int, key string) error {
	var pe *uierr.ParseError
	if errors.As(err, &pe) {
		col := valueCol
		if pe.Token == key {
			col = keyCol
		}
		return pe.At(line, col)
	}
	return fmt.Errorf("line %d: %w", line, err)
}

// unquote returns s unchanged unless it starts with a double quote, in
// which case the quoted string is decoded.
func unquote(s string) (string, error) {
	if s == "" || s[0] != '"' {
		return s, nil
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			if rest := strings.TrimSpace(s[i+1:]); rest != "" {
				return "", &uierr.ParseError{Col: i + 2, Msg: "text after closing quote", Token: rest}
			}
			return b.String(), nil
		case '\\':
			i++
			if i >= len(s) {
				return "", &uierr.ParseError{Msg: "dangling escape", Token: s}
			}
			switch s[i] {
			case '"', '\\':
				b.WriteByte(s[i])
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			default:
				return "", &uierr.ParseError{Msg: "unknown escape", Token: `\` + string(s[i])}
			}
		default:
			b.WriteByte(ch)
		}
	}
	return "", &uierr.ParseError{Msg: "unterminated quoted value", Token: s}
}
