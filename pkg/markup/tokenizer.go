package markup

import (
	"fmt"
	gohtml "html"
	"strings"
	"unicode"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenEOF
)

// Attr is one attribute, kept in source order because later keys may
// override earlier ones.
type Attr struct {
	Name     string
	Value    string
	Pos      int // offset of the name
	ValuePos int
}

type Token struct {
	Type        TokenType
	TagName     string
	Attrs       []Attr
	Text        string
	SelfClosing bool
	// Pos is the byte offset of the token in the input.
	Pos int
}

// Attr returns the value of the last attribute called name.
func (t Token) Attr(name string) (string, bool) {
	for i := len(t.Attrs) - 1; i >= 0; i-- {
		if t.Attrs[i].Name == name {
			return t.Attrs[i].Value, true
		}
	}
	return "", false
}

type Tokenizer struct {
	input string
	pos   int
}

func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{input: src}
}

// syntaxError is a tokenizer failure at a byte offset.
type syntaxError struct {
	pos int
	msg string
}

func (e *syntaxError) Error() string { return fmt.Sprintf("%s at offset %d", e.msg, e.pos) }

func (t *Tokenizer) fail(format string, args ...any) error {
	return &syntaxError{pos: t.pos, msg: fmt.Sprintf(format, args...)}
}

func (t *Tokenizer) NextToken() (Token, error) {
	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF, Pos: t.pos}, nil
	}
	if t.input[t.pos] == '<' {
		return t.readTag()
	}
	return t.readText()
}

func (t *Tokenizer) readTag() (Token, error) {
	start := t.pos
	t.pos++

	// <!-- comments -->
	if strings.HasPrefix(t.input[t.pos:], "!--") {
		end := strings.Index(t.input[t.pos+3:], "-->")
		if end < 0 {
			return Token{}, t.fail("unterminated comment")
		}
		t.pos += 3 + end + 3
		return t.NextToken()
	}
	// <?xml ...?> and <!DOCTYPE ...>
	if t.pos < len(t.input) && (t.input[t.pos] == '?' || t.input[t.pos] == '!') {
		if err := t.skipTo('>'); err != nil {
			return Token{}, err
		}
		t.pos++
		return t.NextToken()
	}

	isEndTag := false
	if t.pos < len(t.input) && t.input[t.pos] == '/' {
		isEndTag = true
		t.pos++
	}
	tagName := t.readTagName()
	if tagName == "" {
		return Token{}, t.fail("expected tag name")
	}
	if isEndTag {
		t.skipWhitespace()
		if t.pos >= len(t.input) || t.input[t.pos] != '>' {
			return Token{}, t.fail("expected '>' after </%s", tagName)
		}
		t.pos++
		return Token{Type: TokenEndTag, TagName: tagName, Pos: start}, nil
	}
	tok := Token{Type: TokenStartTag, TagName: tagName, Pos: start}
	for {
		t.skipWhitespace()
		if t.pos >= len(t.input) {
			return Token{}, t.fail("unexpected end of input in <%s>", tagName)
		}
		if t.input[t.pos] == '>' {
			t.pos++
			return tok, nil
		}
		if t.input[t.pos] == '/' {
			t.pos++
			t.skipWhitespace()
			if t.pos < len(t.input) && t.input[t.pos] == '>' {
				t.pos++
				tok.SelfClosing = true
				return tok, nil
			}
			return Token{}, t.fail("expected '>' after '/'")
		}
		attr, err := t.readAttribute()
		if err != nil {
			return Token{}, err
		}
		tok.Attrs = append(tok.Attrs, attr)
	}
}

func (t *Tokenizer) readTagName() string {
	start := t.pos
	for t.pos < len(t.input) && isTagNameChar(t.input[t.pos]) {
		t.pos++
	}
	return strings.ToLower(t.input[start:t.pos])
}

func (t *Tokenizer) readAttribute() (Attr, error) {
	start := t.pos
	for t.pos < len(t.input) && isAttributeNameChar(t.input[t.pos]) {
		t.pos++
	}
	name := strings.ToLower(t.input[start:t.pos])
	if name == "" {
		return Attr{}, t.fail("expected attribute name")
	}
	t.skipWhitespace()
	if t.pos >= len(t.input) || t.input[t.pos] != '=' {
		return Attr{Name: name, Pos: start, ValuePos: start}, nil
	}
	t.pos++
	t.skipWhitespace()
	valuePos := t.pos
	value, err := t.readAttributeValue()
	if err != nil {
		return Attr{}, err
	}
	return Attr{Name: name, Value: gohtml.UnescapeString(value), Pos: start, ValuePos: valuePos}, nil
}

func (t *Tokenizer) readAttributeValue() (string, error) {
	if t.pos >= len(t.input) {
		return "", t.fail("expected attribute value")
	}
	quote := t.input[t.pos]
	if quote == '"' || quote == '\'' {
		t.pos++
		start := t.pos
		for t.pos < len(t.input) && t.input[t.pos] != quote {
			t.pos++
		}
		if t.pos >= len(t.input) {
			t.pos = start - 1
			return "", t.fail("unterminated attribute value")
		}
		value := t.input[start:t.pos]
		t.pos++
		return value, nil
	}
	start := t.pos
	for t.pos < len(t.input) && !unicode.IsSpace(rune(t.input[t.pos])) && t.input[t.pos] != '>' {
		if t.input[t.pos] == '/' && t.pos+1 < len(t.input) && t.input[t.pos+1] == '>' {
			break
		}
		t.pos++
	}
	return t.input[start:t.pos], nil
}

func (t *Tokenizer) readText() (Token, error) {
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '<' {
		t.pos++
	}
	raw := t.input[start:t.pos]
	// indentation between tags
	if strings.TrimSpace(raw) == "" {
		return t.NextToken()
	}
	text := strings.Join(strings.Fields(raw), " ")
	return Token{Type: TokenText, Text: gohtml.UnescapeString(text), Pos: start}, nil
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && unicode.IsSpace(rune(t.input[t.pos])) {
		t.pos++
	}
}

func (t *Tokenizer) skipTo(target byte) error {
	for t.pos < len(t.input) && t.input[t.pos] != target {
		t.pos++
	}
	if t.pos >= len(t.input) {
		return t.fail("expected '%c' but reached end of input", target)
	}
	return nil
}

// ReadRawUntil reads raw content until the closing end tag is found, for
// <script> bodies where '<' does not start a tag.
func (t *Tokenizer) ReadRawUntil(endTag string) (string, bool) {
	needle := "</" + endTag + ">"
	idx := strings.Index(strings.ToLower(t.input[t.pos:]), needle)
	if idx < 0 {
		content := t.input[t.pos:]
		t.pos = len(t.input)
		return content, false
	}
	content := t.input[t.pos : t.pos+idx]
	t.pos += idx + len(needle)
	return content, true
}

// Position converts a byte offset into a 1-based line and column.
func (t *Tokenizer) Position(offset int) (line, col int) {
	if offset > len(t.input) {
		offset = len(t.input)
	}
	before := t.input[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndexByte(before, '\n')
	return line, col
}

func isTagNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isAttributeNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == ':' || c == '.'
}
