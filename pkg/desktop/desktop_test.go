package desktop

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caelus/pkg/element"
	"caelus/pkg/geom"
	"caelus/pkg/ini"
	"caelus/pkg/layout"
	"caelus/pkg/text"
	"caelus/pkg/window"
)

const doc = `
[window]
label=Test
[ok]
type=button
label=OK
left=10px
top=10px
width=80px
height=30px
[name]
type=edit
value=Ada
left=10px
top=50px
width=120px
height=30px
[agree]
type=checkbox
label=Agree
value=yes
`

func materialized(t *testing.T) (*Host, *element.Tree) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	metrics := text.NewMetrics(text.FontConfig{}, 96, nil)
	h := New(a, "caelus", metrics, nil)

	sheet, err := ini.Parse(doc)
	require.NoError(t, err)
	tree, err := element.Build(sheet)
	require.NoError(t, err)
	_, err = layout.New(tree, metrics, layout.Options{}).Run(320, 240)
	require.NoError(t, err)
	require.NoError(t, window.Materialize(tree, h))
	return h, tree
}

func objectFor(t *testing.T, h *Host, tree *element.Tree, name string) fyne.CanvasObject {
	t.Helper()
	el, ok := tree.Element(name)
	require.True(t, ok)
	c, err := h.control(window.Handle(el.Handle))
	require.NoError(t, err)
	return c.obj
}

func TestHost_PlacesWidgets(t *testing.T) {
	h, tree := materialized(t)
	assert.Equal(t, "Test", h.Window().Title())

	ok := objectFor(t, h, tree, "ok")
	assert.Equal(t, fyne.NewPos(10, 10), ok.Position())
	assert.Equal(t, fyne.NewSize(80, 30), ok.Size())

	entry, isEntry := objectFor(t, h, tree, "name").(*widget.Entry)
	require.True(t, isEntry)
	assert.Equal(t, "Ada", entry.Text)

	check, isCheck := objectFor(t, h, tree, "agree").(*widget.Check)
	require.True(t, isCheck)
	assert.True(t, check.Checked)
}

func TestHost_ReportsEvents(t *testing.T) {
	h, tree := materialized(t)
	var got []Event
	h.OnEvent(func(ev Event) { got = append(got, ev) })

	test.Tap(objectFor(t, h, tree, "ok").(*widget.Button))
	entry := objectFor(t, h, tree, "name").(*widget.Entry)
	entry.SetText("Grace")

	require.Len(t, got, 2)
	assert.Equal(t, Event{Name: "ok", Kind: Click}, got[0])
	assert.Equal(t, Event{Name: "name", Kind: Change, Value: "Grace"}, got[1])
}

func TestHost_UpdateIsQuiet(t *testing.T) {
	h, tree := materialized(t)
	var got []Event
	h.OnEvent(func(ev Event) { got = append(got, ev) })

	el, _ := tree.Element("name")
	spec := window.SpecFor(el)
	spec.Value = "changed"
	require.NoError(t, h.UpdateControl(window.Handle(el.Handle), spec))
	assert.Equal(t, "changed", objectFor(t, h, tree, "name").(*widget.Entry).Text)
	assert.Empty(t, got)
}

func TestHost_UnknownHandle(t *testing.T) {
	h, _ := materialized(t)
	assert.Error(t, h.MoveControl("nope", geom.Rect{}))
	_, err := h.CreateControl(window.ControlSpec{Name: "x"}, "nope")
	assert.Error(t, err)
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, lines(" a \n\n b"))
	assert.Nil(t, lines(""))
}
