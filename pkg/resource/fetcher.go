// Package resource locates and loads UI documents: class files and markup
// from local paths, file:// and http(s) URLs, or inline data: URIs.
package resource

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher reads local files and data: URIs itself and fetches
// network URLs over HTTP/HTTPS, resolving relative URIs against a base.
type DefaultFetcher struct {
	// Client performs network fetches; nil uses a client with a 30s
	// timeout.
	Client *http.Client

	baseURL string
}

// NewFetcher creates a DefaultFetcher with the given base URL or directory.
// Relative URIs passed to Fetch will be resolved against this base.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{baseURL: baseURL}
}

// Fetch retrieves the resource at the given URI.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	switch {
	case strings.HasPrefix(uri, "data:"):
		return decodeDataURI(uri)
	case isRemote(uri):
		return f.get(ctx, uri)
	case isRemote(f.baseURL):
		abs, err := resolveRemote(f.baseURL, uri)
		if err != nil {
			return nil, "", err
		}
		return f.get(ctx, abs)
	}

	path := uri
	if strings.HasPrefix(uri, "file://") {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, "", fmt.Errorf("bad file URL %q: %w", uri, err)
		}
		path = u.Path
	} else if !filepath.IsAbs(path) && f.baseURL != "" {
		path = filepath.Join(f.baseURL, path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return body, contentTypeFor(path), nil
}

// decodeDataURI handles data:[<mediatype>][;base64],<data>.
func decodeDataURI(uri string) ([]byte, string, error) {
	meta, data, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI: missing ','")
	}
	contentType := meta
	isBase64 := false
	if strings.HasSuffix(meta, ";base64") {
		contentType = strings.TrimSuffix(meta, ";base64")
		isBase64 = true
	}
	if contentType == "" {
		contentType = "text/plain"
	}
	if isBase64 {
		body, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, "", fmt.Errorf("malformed data URI: %w", err)
		}
		return body, contentType, nil
	}
	decoded, err := url.PathUnescape(data)
	if err != nil {
		return nil, "", fmt.Errorf("malformed data URI: %w", err)
	}
	return []byte(decoded), contentType, nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".cls", ".ui":
		return IniContentType
	case ".xml", ".html", ".htm", ".uiml":
		return MarkupContentType
	}
	return ""
}
