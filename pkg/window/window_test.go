package window

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caelus/pkg/color"
	"caelus/pkg/element"
	"caelus/pkg/geom"
	"caelus/pkg/ini"
	"caelus/pkg/layout"
	"caelus/pkg/style"
)

type fixedMetrics struct{}

func (fixedMetrics) LineHeight(style.Font) int { return 20 }
func (fixedMetrics) DPI() int                  { return 96 }
func (fixedMetrics) TextWidth(_ style.Font, s string) int {
	return 8 * utf8.RuneCountInString(s)
}

const doc = `
[window]
background-color=#EEEEEE
[group]
type=class
left=10px
top=10px
padding=5px
[ok]
parent=group
type=button
label=OK
border=2px red
width=80px
height=24px
`

func committed(t *testing.T, src string) (*element.Tree, *layout.Solver) {
	t.Helper()
	sheet, err := ini.Parse(src)
	require.NoError(t, err)
	tree, err := element.Build(sheet)
	require.NoError(t, err)
	s := layout.New(tree, fixedMetrics{}, layout.Options{})
	_, err = s.Run(400, 300)
	require.NoError(t, err)
	return tree, s
}

func TestMaterialize_CreatesThenMoves(t *testing.T) {
	tree, s := committed(t, doc)
	rec := NewRecorder()
	require.NoError(t, Materialize(tree, rec))

	ops := rec.Ops()
	require.Len(t, ops, 4)
	assert.Equal(t, OpCreate, ops[0].Kind)
	assert.Equal(t, "window", ops[0].Name)
	assert.Equal(t, OpCreate, ops[2].Kind)
	assert.Equal(t, "ok", ops[2].Name)
	assert.Equal(t, 2, rec.Len(), "class-only group is not materialised")

	win, ok := rec.Control("window")
	require.True(t, ok)
	okc, ok := rec.Control("ok")
	require.True(t, ok)
	assert.Equal(t, win.Handle, okc.Parent, "children of a class-only element attach to its ancestor")
	assert.Equal(t, geom.Rect{Top: 15, Left: 15, Bottom: 39, Right: 95}, okc.Rect)
	assert.Equal(t, style.Button, okc.Spec.Kind)
	assert.Equal(t, "OK", okc.Spec.Label)
	assert.Equal(t, color.RGB(255, 0, 0), okc.Spec.Border[geom.Top])
	assert.Equal(t, 2, okc.Spec.BorderWidths.Left)
	assert.Equal(t, color.RGB(0xEE, 0xEE, 0xEE), win.Spec.Background)

	el, _ := tree.Element("ok")
	assert.Equal(t, string(okc.Handle), el.Handle)

	rec.Reset()
	_, err := s.Run(200, 100)
	require.NoError(t, err)
	require.NoError(t, Materialize(tree, rec))
	for _, op := range rec.Ops() {
		assert.Equal(t, OpMove, op.Kind, "second commit only moves")
	}
	win, _ = rec.Control("window")
	assert.Equal(t, 200, win.Rect.Width())
}

func TestMaterialize_RequiresCommit(t *testing.T) {
	sheet, err := ini.Parse("[a]\n")
	require.NoError(t, err)
	tree, err := element.Build(sheet)
	require.NoError(t, err)
	err = Materialize(tree, NewRecorder())
	assert.ErrorContains(t, err, "not committed")
}

type failingHost struct{ *Recorder }

func (failingHost) CreateControl(ControlSpec, Handle) (Handle, error) {
	return "", errors.New("no resources")
}

func TestMaterialize_WrapsHostErrors(t *testing.T) {
	tree, _ := committed(t, doc)
	err := Materialize(tree, failingHost{NewRecorder()})
	assert.ErrorContains(t, err, "create control window: no resources")
}

func TestRefresh(t *testing.T) {
	tree, _ := committed(t, doc)
	rec := NewRecorder()
	require.NoError(t, Materialize(tree, rec))

	el, _ := tree.Element("ok")
	sent, err := Refresh(el, rec)
	require.NoError(t, err)
	assert.True(t, sent)
	ops := rec.Ops()
	assert.Equal(t, OpUpdate, ops[len(ops)-1].Kind)

	group, _ := tree.Element("group")
	sent, err = Refresh(group, rec)
	require.NoError(t, err)
	assert.False(t, sent, "never materialised")
}

func TestRecorder_UnknownHandles(t *testing.T) {
	rec := NewRecorder()
	_, err := rec.CreateControl(ControlSpec{Name: "x"}, "nope")
	assert.Error(t, err)
	assert.Error(t, rec.MoveControl("nope", geom.Rect{}))
	assert.Error(t, rec.UpdateControl("nope", ControlSpec{}))
}

func TestNewHandleIsUnique(t *testing.T) {
	assert.NotEqual(t, NewHandle(), NewHandle())
}
