package ini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caelus/pkg/geom"
	"caelus/pkg/style"
	"caelus/pkg/uierr"
)

func TestParse_Sections(t *testing.T) {
	sheet, err := Parse(`
; demo document
[window]
label=Inventory

[.base]
font-face=Tahoma
padding=2px

[box]
parent=window
class=.base
left=10px
top=10px
width=100px
height=50px
label="say \"hi\"\tnow"
`)
	require.NoError(t, err)
	require.Equal(t, 3, sheet.Len())

	box, ok := sheet.Class("box")
	require.True(t, ok)
	assert.Equal(t, "window", box.Parent)
	assert.Equal(t, []string{".base"}, box.Includes)
	assert.Equal(t, 10, box.Line)
	label, _ := style.Get[string](box, style.Label, 0)
	assert.Equal(t, "say \"hi\"\tnow", label)
	tether, ok := box.Tether(geom.Left)
	require.True(t, ok)
	assert.Equal(t, style.Parent, tether.Form)

	base, ok := sheet.Class("base")
	require.True(t, ok, "bare name finds the style class")
	assert.True(t, base.StyleOnly())
}

func TestParse_Escapes(t *testing.T) {
	sheet, err := Parse("[a]\nlabel=\"x\\\\y\\n\\r\\b\\f\"\n")
	require.NoError(t, err)
	a, _ := sheet.Class("a")
	label, _ := style.Get[string](a, style.Label, 0)
	assert.Equal(t, "x\\y\n\r\b\f", label)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		line  int
		col   int
		token string
	}{
		{"unknown key", "[a]\n  colour=red\n", 2, 3, "colour"},
		{"key before section", "color=red\n", 1, 1, "color"},
		{"missing equals", "[a]\nlabel\n", 2, 1, "label"},
		{"bad colour value", "[a]\ncolor = #12\n", 2, 9, "#12"},
		{"unterminated section", "[a\n", 1, 1, "[a"},
		{"unterminated quote", "[a]\nlabel=\"oops\n", 2, 7, "\"oops"},
		{"bad escape", "[a]\nlabel=\"\\q\"\n", 2, 7, `\q`},
		{"style class parent", "[.s]\nparent=window\n", 2, 8, "window"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			var pe *uierr.ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.col, pe.Col)
			assert.Equal(t, tt.token, pe.Token)
		})
	}
}

func TestParse_DuplicateSection(t *testing.T) {
	_, err := Parse("[a]\n[b]\n[a]\n")
	var dup *uierr.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.Name)
	assert.Equal(t, 3, dup.Line)
}

func TestParse_TetherErrorsCarryLineAndClass(t *testing.T) {
	_, err := Parse("[a]\nleft=b>top\n")
	var iae *uierr.IncompatibleAxisError
	require.True(t, errors.As(err, &iae))
	assert.Equal(t, "a", iae.Class)
	assert.Contains(t, err.Error(), "line 2")

	_, err = Parse("[a]\nright=b>left+\n")
	var ite *uierr.InvalidTetherError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, "b>left+", ite.Text)
}
