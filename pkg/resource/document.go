package resource

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"caelus/pkg/ini"
	"caelus/pkg/markup"
	"caelus/pkg/style"
)

// Content types of the two document formats.
const (
	IniContentType    = "text/x-caelus-ini"
	MarkupContentType = "application/x-caelus+xml"
)

// Format is a document syntax.
type Format int

const (
	FormatAuto Format = iota
	FormatIni
	FormatMarkup
)

func (f Format) String() string {
	switch f {
	case FormatIni:
		return "ini"
	case FormatMarkup:
		return "markup"
	}
	return "auto"
}

// ParseFormat converts a format keyword.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "ini", "class":
		return FormatIni, nil
	case "markup", "xml", "html":
		return FormatMarkup, nil
	}
	return FormatAuto, fmt.Errorf("unknown document format %q", s)
}

// Document is a loaded UI description.
type Document struct {
	URI     string
	Format  Format
	Sheet   *style.Sheet
	Scripts []string
}

// Detect picks a format from the content type, falling back to the first
// significant character: markup starts with '<'.
func Detect(contentType string, body []byte) Format {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "caelus-ini"):
		return FormatIni
	case strings.Contains(ct, "xml"), strings.Contains(ct, "html"):
		return FormatMarkup
	}
	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("<")) {
		return FormatMarkup
	}
	return FormatIni
}

// Parse parses body in format.
func Parse(format Format, body []byte) (*Document, error) {
	if format == FormatAuto {
		format = Detect("", body)
	}
	doc := &Document{Format: format}
	switch format {
	case FormatIni:
		sheet, err := ini.ParseReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		doc.Sheet = sheet
	case FormatMarkup:
		m, err := markup.Parse(string(body))
		if err != nil {
			return nil, err
		}
		doc.Sheet = m.Sheet
		doc.Scripts = m.Scripts
	default:
		return nil, fmt.Errorf("unknown document format %d", format)
	}
	return doc, nil
}

// Load fetches uri with f and parses it. FormatAuto detects the format
// from the content type or the content.
func Load(ctx context.Context, f Fetcher, uri string, format Format) (*Document, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	if format == FormatAuto {
		format = Detect(contentType, body)
	}
	doc, err := Parse(format, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", uri, err)
	}
	doc.URI = uri
	return doc, nil
}
