package script

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"caelus/pkg/geom"
)

type fakeBinder struct {
	elements map[string]*Info
	sets     []string
}

func newFakeBinder() *fakeBinder {
	return &fakeBinder{elements: map[string]*Info{
		"ok":   {Name: "ok", Kind: "button", Label: "OK", Visible: true, Rect: geom.Rect{Top: 10, Left: 20, Bottom: 40, Right: 100}},
		"name": {Name: "name", Kind: "edit", Value: "Ada", Visible: true},
	}}
}

func (b *fakeBinder) Lookup(name string) (Info, bool) {
	info, ok := b.elements[name]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

func (b *fakeBinder) Set(name, key, value string) error {
	info, ok := b.elements[name]
	if !ok {
		return fmt.Errorf("no element named %s", name)
	}
	b.sets = append(b.sets, name+"."+key+"="+value)
	switch key {
	case "label":
		info.Label = value
	case "value":
		info.Value = value
	case "visibility":
		info.Visible = value == "visible"
	}
	return nil
}

func TestHandle_ReadsAndWritesElements(t *testing.T) {
	b := newFakeBinder()
	e := New(b, 0, nil)
	err := e.Handle(Event{Element: "ok", Type: "click"}, `
		var n = ui.get("name");
		if (n.value !== "Ada") throw new Error("value " + n.value);
		if (self.width !== 80) throw new Error("width " + self.width);
		self.label = "Clicked by " + n.value;
		ui.setValue("name", event.type);
		n.visible = false;
	`)
	require.NoError(t, err)
	assert.Equal(t, "Clicked by Ada", b.elements["ok"].Label)
	assert.Equal(t, "click", b.elements["name"].Value)
	assert.False(t, b.elements["name"].Visible)
	assert.Equal(t, []string{"ok.label=Clicked by Ada", "name.value=click", "name.visibility=hidden"}, b.sets)
}

func TestHandle_GetUnknownIsNull(t *testing.T) {
	e := New(newFakeBinder(), 0, nil)
	err := e.Handle(Event{Element: "ok", Type: "click"}, `
		if (ui.get("ghost") !== null) throw new Error("expected null");
	`)
	assert.NoError(t, err)
}

func TestHandle_BinderErrorsBecomeExceptions(t *testing.T) {
	e := New(newFakeBinder(), 0, nil)
	err := e.Handle(Event{Element: "ok", Type: "click"}, `ui.set("ghost", "label", "x")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "on-click handler of ok")
	assert.Contains(t, err.Error(), "no element named ghost")

	err = e.Handle(Event{Element: "ok", Type: "click"}, `
		try { ui.setLabel("ghost", "x"); } catch (e) { ui.setLabel("ok", "caught"); }
	`)
	require.NoError(t, err)
}

func TestHandle_EventValue(t *testing.T) {
	b := newFakeBinder()
	e := New(b, 0, nil)
	require.NoError(t, e.Handle(Event{Element: "name", Type: "change", Value: "Grace"},
		`ui.setLabel("ok", "Hello " + event.value)`))
	assert.Equal(t, "Hello Grace", b.elements["ok"].Label)

	require.NoError(t, e.Run("leak-check", `if (typeof event !== "undefined") throw new Error("event leaked")`))
}

func TestHandle_EmptySourceIsNoop(t *testing.T) {
	assert.NoError(t, New(newFakeBinder(), 0, nil).Handle(Event{Element: "ok", Type: "click"}, ""))
}

func TestRun_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	e := New(newFakeBinder(), 50*time.Millisecond, nil)
	err := e.Run("spin", `for (;;) {}`)
	assert.ErrorIs(t, err, ErrTimeout)

	// the runtime stays usable afterwards
	assert.NoError(t, e.Run("after", `ui.show("ok")`))
}

func TestConsoleGoesToLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := New(newFakeBinder(), 0, zap.New(core))
	require.NoError(t, e.Run("log", `console.log("hello", 42); console.warn("careful")`))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "hello 42", entries[0].Message)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "script", entries[0].LoggerName)
}
