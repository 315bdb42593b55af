package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caelus/pkg/uierr"
)

const form = `
[window]
padding=10px
[ok]
type=button
label=OK
width=80px
height=24px
[cancel]
type=button
label=Cancel
left=ok>right+8px
top=ok>top
width=80px
height=24px
`

const cycle = `
[a]
left=b>right
width=10px
height=10px
[b]
right=a>left
width=10px
height=10px
`

// run executes the CLI with a throwaway config file and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "caelus.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("logger:\n  level: error\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeDoc(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCheck(t *testing.T) {
	path := writeDoc(t, "form.ini", form)
	out, err := run(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 elements")

	_, err = run(t, "check", writeDoc(t, "bad.ini", "[ok]\nwobble=1\n"))
	var pe *uierr.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, exitDocument, exitCode(err))
}

func TestCheck_CycleAndForceResolve(t *testing.T) {
	path := writeDoc(t, "cycle.ini", cycle)
	_, err := run(t, "check", path)
	require.Error(t, err)
	assert.Equal(t, exitLayout, exitCode(err))

	var buf bytes.Buffer
	report(&buf, err)
	assert.Contains(t, buf.String(), "unresolved a.")

	out, err := run(t, "check", "--force-resolve", path)
	require.NoError(t, err)
	assert.Contains(t, out, "(forced)")
}

func TestLayout_JSON(t *testing.T) {
	path := writeDoc(t, "form.ini", form)
	out, err := run(t, "layout", "--json", "-W", "400", "-H", "300", path)
	require.NoError(t, err)

	var rows []placement
	require.NoError(t, jsoniter.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, placement{Name: "window", Path: "window", Kind: "generic", Width: 400, Height: 300, Visible: true}, rows[0])
	assert.Equal(t, placement{Name: "ok", Path: "window/ok", Kind: "button", Left: 10, Top: 10, Width: 80, Height: 24, Visible: true}, rows[1])
	assert.Equal(t, placement{Name: "cancel", Path: "window/cancel", Kind: "button", Left: 98, Top: 10, Width: 80, Height: 24, Visible: true}, rows[2])
}

func TestLayout_Table(t *testing.T) {
	path := writeDoc(t, "form.ini", form)
	out, err := run(t, "layout", path)
	require.NoError(t, err)
	assert.Contains(t, out, "PATH")
	assert.Regexp(t, `window/cancel\s+button\s+98\s+10\s+80\s+24\s+true`, out)
}

func TestRender(t *testing.T) {
	path := writeDoc(t, "form.ini", form)
	png := filepath.Join(t.TempDir(), "form.png")
	out, err := run(t, "render", "-o", png, "-W", "200", "-H", "100", path)
	require.NoError(t, err)
	assert.Contains(t, out, png)

	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestArgsAndFlags(t *testing.T) {
	_, err := run(t, "check")
	assert.Error(t, err)

	_, err = run(t, "check", "--format", "yaml", writeDoc(t, "form.ini", form))
	assert.ErrorContains(t, err, "unknown document format")

	_, err = run(t, "check", "-W", "0", writeDoc(t, "form.ini", form))
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{errors.New("boom"), exitFailure},
		{fmt.Errorf("load: %w", &uierr.DanglingParentError{Element: "a", Parent: "b"}), exitDocument},
		{fmt.Errorf("load: %w", &uierr.UnknownClassError{Name: ".x", Referrer: "a"}), exitDocument},
		{&uierr.LayoutCycleError{}, exitLayout},
		{&uierr.UnsupportedUnitError{Element: "window"}, exitLayout},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), "%v", tt.err)
	}
}
