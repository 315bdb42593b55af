// Package text provides the font metrics the layout solver and the raster
// host measure labels with. Faces come from TrueType files when a fonts
// directory is configured and from the bundled Go fonts otherwise.
package text

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"

	"caelus/pkg/geom"
	"caelus/pkg/style"
)

// DefaultDPI is used when no DPI is configured.
const DefaultDPI = 96

// FontConfig holds paths to font files used for text measurement and rendering.
// An empty path selects the matching bundled Go font.
type FontConfig struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
	Monospace  string
	MonoBold   string
}

// LoadFontConfig looks for regular.ttf, bold.ttf, italic.ttf,
// bolditalic.ttf, mono.ttf and monobold.ttf in dir. Missing files are left
// empty.
func LoadFontConfig(dir string) FontConfig {
	if dir == "" {
		return FontConfig{}
	}
	find := func(name string) string {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
		return ""
	}
	return FontConfig{
		Regular:    find("regular.ttf"),
		Bold:       find("bold.ttf"),
		Italic:     find("italic.ttf"),
		BoldItalic: find("bolditalic.ttf"),
		Monospace:  find("mono.ttf"),
		MonoBold:   find("monobold.ttf"),
	}
}

// FontPath returns the font path for the given style combination, or ""
// when the bundled font should be used.
func (fc FontConfig) FontPath(bold, italic, mono bool) string {
	if mono {
		if bold && fc.MonoBold != "" {
			return fc.MonoBold
		}
		if fc.Monospace != "" {
			return fc.Monospace
		}
		return ""
	}
	switch {
	case bold && italic:
		return fc.BoldItalic
	case bold:
		return fc.Bold
	case italic:
		return fc.Italic
	}
	return fc.Regular
}

func builtin(bold, italic, mono bool) []byte {
	switch {
	case mono && bold:
		return gomonobold.TTF
	case mono:
		return gomono.TTF
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

// IsMonospace reports whether a face name asks for a fixed-pitch font.
func IsMonospace(face string) bool {
	switch strings.ToLower(strings.TrimSpace(face)) {
	case "monospace", "courier", "courier new", "consolas", "fixedsys", "go mono":
		return true
	}
	return false
}

type faceKey struct {
	bold, italic, mono bool
	px                 int
}

// Metrics measures text with real font faces. It is safe for concurrent use.
type Metrics struct {
	cfg FontConfig
	dpi int
	log *zap.Logger

	mu    sync.Mutex
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
	dc    *gg.Context
}

// NewMetrics returns metrics for cfg at dpi (DefaultDPI when zero).
func NewMetrics(cfg FontConfig, dpi int, log *zap.Logger) *Metrics {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Metrics{
		cfg:   cfg,
		dpi:   dpi,
		log:   log.Named("text"),
		fonts: make(map[string]*truetype.Font),
		faces: make(map[faceKey]font.Face),
		dc:    gg.NewContext(1, 1),
	}
}

// DPI returns the display resolution.
func (m *Metrics) DPI() int { return m.dpi }

// PixelSize converts the font's size to pixels. Em and percent sizes are
// relative to the default font size.
func (m *Metrics) PixelSize(f style.Font) int {
	px, ok, err := f.Size.ToPixels(sizeContext{dpi: m.dpi}, geom.Height)
	if err != nil || !ok || px <= 0 {
		px, _, _ = style.DefaultFont.Size.ToPixels(sizeContext{dpi: m.dpi}, geom.Height)
	}
	return px
}

// Face returns the font face for f. The returned face must only be used
// while no other goroutine measures with the same Metrics.
func (m *Metrics) Face(f style.Font) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.face(f)
}

func (m *Metrics) face(f style.Font) (font.Face, error) {
	key := faceKey{bold: f.Bold(), italic: f.Italic, mono: IsMonospace(f.Face), px: m.PixelSize(f)}
	if face, ok := m.faces[key]; ok {
		return face, nil
	}
	path := m.cfg.FontPath(key.bold, key.italic, key.mono)
	tt, err := m.font(path, key)
	if err != nil {
		return nil, err
	}
	// gg's convention: sizes in points at 72 DPI, so points == pixels.
	face := truetype.NewFace(tt, &truetype.Options{Size: float64(key.px), DPI: 72, Hinting: font.HintingFull})
	m.faces[key] = face
	return face, nil
}

func (m *Metrics) font(path string, key faceKey) (*truetype.Font, error) {
	cacheKey := path
	if path == "" {
		cacheKey = fmt.Sprintf("builtin:%t:%t:%t", key.bold, key.italic, key.mono)
	}
	if tt, ok := m.fonts[cacheKey]; ok {
		return tt, nil
	}
	var data []byte
	if path == "" {
		data = builtin(key.bold, key.italic, key.mono)
	} else {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}
	tt, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", cacheKey, err)
	}
	m.fonts[cacheKey] = tt
	return tt, nil
}

// LineHeight returns the height of one line of text in f.
func (m *Metrics) LineHeight(f style.Font) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.face(f)
	if err != nil {
		m.log.Warn("font unavailable, estimating line height", zap.Error(err))
		return int(math.Ceil(float64(m.PixelSize(f)) * 1.2))
	}
	return face.Metrics().Height.Ceil()
}

// TextWidth returns the advance width of s in f.
func (m *Metrics) TextWidth(f style.Font, s string) int {
	if s == "" {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.face(f)
	if err != nil {
		// If font loading fails, return rough estimate
		return int(math.Ceil(float64(len([]rune(s))) * float64(m.PixelSize(f)) * 0.6))
	}
	m.dc.SetFontFace(face)
	w, _ := m.dc.MeasureString(s)
	return int(math.Ceil(w))
}

// sizeContext converts font sizes, which have no parent box to be relative
// to. Em and percent use the default font size.
type sizeContext struct{ dpi int }

func (c sizeContext) base() int {
	return int(math.Round(style.DefaultFont.Size.Value * float64(c.dpi) / 72))
}

func (c sizeContext) LineHeight() int { return c.base() }
func (c sizeContext) DPI() int        { return c.dpi }
func (c sizeContext) PercentBase(geom.Dimension) (int, bool, error) {
	return c.base(), true, nil
}
