package style

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caelus/pkg/color"
	"caelus/pkg/geom"
	"caelus/pkg/measure"
	"caelus/pkg/uierr"
)

func TestParseTether(t *testing.T) {
	tests := []struct {
		name string
		edge geom.Edge
		text string
		want Tether
	}{
		{
			name: "named with edge and offset",
			edge: geom.Left, text: "ok>right+5px",
			want: Tether{Form: Named, Target: "ok", TargetEdge: geom.Right, EdgeGiven: true, Offset: measure.Px(5)},
		},
		{
			name: "named negative em offset",
			edge: geom.Right, text: "ok>left-1em",
			want: Tether{Form: Named, Target: "ok", TargetEdge: geom.Left, EdgeGiven: true, Offset: measure.Em(-1)},
		},
		{
			name: "named defaults to opposite edge",
			edge: geom.Top, text: "header>",
			want: Tether{Form: Named, Target: "header", TargetEdge: geom.Bottom},
		},
		{
			name: "sibling via dot target",
			edge: geom.Left, text: ".>5px",
			want: Tether{Form: Sibling, Target: ".", TargetEdge: geom.Right, Offset: measure.Px(5)},
		},
		{
			name: "signed sibling shorthand",
			edge: geom.Top, text: "+4px",
			want: Tether{Form: Sibling, Target: ".", TargetEdge: geom.Bottom, Offset: measure.Px(4)},
		},
		{
			name: "negative sibling shorthand",
			edge: geom.Bottom, text: "-2",
			want: Tether{Form: Sibling, Target: ".", TargetEdge: geom.Top, Offset: measure.Px(-2)},
		},
		{
			name: "absolute within parent",
			edge: geom.Right, text: "10px",
			want: Tether{Form: Parent, TargetEdge: geom.Right, Offset: measure.Px(10)},
		},
		{
			name: "absolute em",
			edge: geom.Top, text: "1.5em",
			want: Tether{Form: Parent, TargetEdge: geom.Top, Offset: measure.Em(1.5)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTether(tt.edge, tt.text)
			require.NoError(t, err)
			tt.want.Text = tt.text
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTether_Invalid(t *testing.T) {
	for _, text := range []string{"", "abc", ">left", "ok>middle", "ok>right5px", "50%", "ok>right+lots", "a b>top"} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseTether(geom.Left, text)
			var ite *uierr.InvalidTetherError
			require.True(t, errors.As(err, &ite), "got %v", err)
			assert.Equal(t, text, ite.Text)
		})
	}
}

func TestParseTether_IncompatibleAxis(t *testing.T) {
	_, err := ParseTether(geom.Left, "ok>top")
	var iae *uierr.IncompatibleAxisError
	require.True(t, errors.As(err, &iae))
	assert.Equal(t, "left", iae.Edge)
	assert.Equal(t, "top", iae.TargetEdge)

	_, err = ParseTether(geom.Bottom, ".>right+2px")
	assert.True(t, errors.As(err, &iae))
}

func TestClass_SetTetherNamesClass(t *testing.T) {
	c := NewClass("box")
	err := c.SetTether(geom.Top, "nope>")
	require.NoError(t, err)

	err = c.SetTether(geom.Top, "x>x")
	var ite *uierr.InvalidTetherError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, "box", ite.Class)
	assert.Contains(t, err.Error(), `"x>x"`)
}

func TestClass_StyleOnlyRestrictions(t *testing.T) {
	c := NewClass(".mixin")
	assert.True(t, c.StyleOnly())
	assert.Error(t, c.SetParent("window"))
	assert.Error(t, c.SetTether(geom.Left, "10px"))

	root := NewClass(RootName)
	assert.Error(t, root.SetParent("other"))
}

func TestAddClassNames_ReversesAndDedupes(t *testing.T) {
	c := NewClass("x")
	c.AddClassNames("b, a")
	assert.Equal(t, []string{"a", "b"}, c.Includes)

	c.AddClassNames("c a x")
	assert.Equal(t, []string{"a", "b", "c"}, c.Includes)
}

func TestSheet_Duplicate(t *testing.T) {
	s := NewSheet()
	require.NoError(t, s.Add(NewClass("a")))
	err := s.Add(NewClass("a"))
	var dup *uierr.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.Name)
}

func TestSheet_ChainDepthFirstAndCycleSafe(t *testing.T) {
	s := NewSheet()
	el := NewClass("el")
	el.Includes = []string{"p", "q"}
	p := NewClass(".p")
	p.Includes = []string{"r"}
	q := NewClass(".q")
	q.Includes = []string{"el"}
	r := NewClass(".r")
	r.Includes = []string{"p"}
	for _, c := range []*Class{el, p, q, r} {
		require.NoError(t, s.Add(c))
	}

	chain := s.Chain("el")
	var names []string
	for _, c := range chain {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"el", ".p", ".r", ".q"}, names)
	require.NoError(t, s.Validate())
}

func TestSheet_ValidateUnknownInclude(t *testing.T) {
	s := NewSheet()
	c := NewClass("el")
	c.AddClassNames("ghost")
	require.NoError(t, s.Add(c))
	var uce *uierr.UnknownClassError
	require.True(t, errors.As(s.Validate(), &uce))
	assert.Equal(t, "ghost", uce.Name)
}

func TestLookup_FirstDefinitionWins(t *testing.T) {
	a := NewClass(".a")
	a.Set(TextColor, 0, color.RGB(1, 0, 0))
	b := NewClass(".b")
	b.Set(TextColor, 0, color.RGB(2, 0, 0))
	b.Set(Label, 0, "from b")

	col, ok := Lookup[color.Color]([]*Class{a, b}, TextColor, 0)
	require.True(t, ok)
	assert.Equal(t, uint8(1), col.R)

	label, ok := Lookup[string]([]*Class{a, b}, Label, 0)
	require.True(t, ok)
	assert.Equal(t, "from b", label)

	_, ok = Lookup[string]([]*Class{a, b}, Value, 0)
	assert.False(t, ok)
}

func TestApply(t *testing.T) {
	c := NewClass("btn")
	pairs := [][2]string{
		{"parent", "panel"},
		{"type", "button"},
		{"bgcolor", "#102030"},
		{"font-color", "rgb(1,2,3)"},
		{"font-size", "10pt"},
		{"font-weight", "bold"},
		{"width", "auto"},
		{"height", "2em"},
		{"padding", "1px 2px"},
		{"border", "red 2px solid"},
		{"border-top", "none"},
		{"border-radius", "4px"},
		{"left", "10px"},
		{"label", "OK"},
		{"text-align", "center"},
		{"opacity", "50%"},
		{"flow", "horizontal"},
		{"on-click", "ui.setLabel('btn', 'hit')"},
	}
	for _, kv := range pairs {
		require.NoError(t, Apply(c, kv[0], kv[1]), "%s=%s", kv[0], kv[1])
	}

	assert.Equal(t, "panel", c.Parent)
	kind, _ := Get[Kind](c, ElementKind, 0)
	assert.Equal(t, Button, kind)
	bg, _ := Get[color.Color](c, BackgroundColor, 0)
	assert.Equal(t, color.RGB(0x10, 0x20, 0x30), bg)
	w, _ := Get[Size](c, Width, 0)
	assert.True(t, w.Auto)
	h, _ := Get[Size](c, Height, 0)
	assert.Equal(t, measure.Em(2), h.Measure)
	pl, _ := Get[measure.Measure](c, Padding, int(geom.Left))
	pt, _ := Get[measure.Measure](c, Padding, int(geom.Top))
	assert.Equal(t, measure.Px(2), pl)
	assert.Equal(t, measure.Px(1), pt)
	bt, _ := Get[measure.Measure](c, BorderWidth, int(geom.Top))
	bl, _ := Get[measure.Measure](c, BorderWidth, int(geom.Left))
	assert.Equal(t, measure.Px(0), bt)
	assert.Equal(t, measure.Px(2), bl)
	bc, _ := Get[color.Color](c, BorderColor, int(geom.Right))
	assert.Equal(t, color.RGB(255, 0, 0), bc)
	op, _ := Get[float64](c, Opacity, 0)
	assert.InDelta(t, 0.5, op, 1e-9)
	w8, _ := Get[int](c, FontWeight, 0)
	assert.Equal(t, 700, w8)
	tether, ok := c.Tether(geom.Left)
	require.True(t, ok)
	assert.Equal(t, Parent, tether.Form)
}

func TestApply_Errors(t *testing.T) {
	tests := [][2]string{
		{"colour", "red"},
		{"width", "-4px"},
		{"type", "slider"},
		{"padding", "1 2 3 4 5"},
		{"border", "2px wobbly"},
		{"font-weight", "450"},
		{"opacity", "2"},
		{"background-color", "#zzzzzz"},
	}
	for _, kv := range tests {
		t.Run(kv[0], func(t *testing.T) {
			assert.Error(t, Apply(NewClass("x"), kv[0], kv[1]))
		})
	}

	err := Apply(NewClass("x"), "colour", "red")
	var pe *uierr.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "colour", pe.Token)
}

func TestKindCapabilities(t *testing.T) {
	assert.True(t, Button.Caps().Focus)
	assert.True(t, Button.Caps().Label)
	assert.True(t, Edit.Caps().Value)
	assert.False(t, ClassOnly.Caps().Native)
	k, ok := ParseKind("ComboBox")
	require.True(t, ok)
	assert.Equal(t, ComboBox, k)
	assert.Equal(t, "combobox", k.String())
}
