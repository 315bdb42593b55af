package layout

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caelus/pkg/element"
	"caelus/pkg/geom"
	"caelus/pkg/ini"
	"caelus/pkg/style"
	"caelus/pkg/uierr"
)

// fixedMetrics has a 20px line height and 8px wide glyphs.
type fixedMetrics struct{}

func (fixedMetrics) LineHeight(style.Font) int { return 20 }
func (fixedMetrics) DPI() int                  { return 96 }
func (fixedMetrics) TextWidth(_ style.Font, s string) int {
	return 8 * utf8.RuneCountInString(s)
}

func build(t *testing.T, src string) *element.Tree {
	t.Helper()
	sheet, err := ini.Parse(src)
	require.NoError(t, err)
	tree, err := element.Build(sheet)
	require.NoError(t, err)
	return tree
}

func solve(t *testing.T, src string) Snapshot {
	t.Helper()
	s := New(build(t, src), fixedMetrics{}, Options{})
	snap, err := s.Run(800, 600)
	require.NoError(t, err)
	return snap
}

func rect(top, left, bottom, right int) geom.Rect {
	return geom.Rect{Top: top, Left: left, Bottom: bottom, Right: right}
}

func TestSolve_BoxWithLabel(t *testing.T) {
	snap := solve(t, `
[window]
[box]
parent=window
left=10px
top=10px
width=100px
height=50px
[label]
parent=box
left=.>5px
top=0px
`)
	want := Snapshot{
		"window": rect(0, 0, 600, 800),
		"box":    rect(10, 10, 60, 110),
		// first child: the adjacent sibling is the box itself
		"label": rect(10, 15, 10, 15),
	}
	assert.Empty(t, cmp.Diff(want, snap))
}

func TestSolve_VerticalFlowStacksSiblings(t *testing.T) {
	snap := solve(t, `
[window]
padding=5px
[a]
width=50px
height=30px
[b]
width=60px
height=30px
[c]
width=70px
height=20px
top=+4px
`)
	assert.Equal(t, rect(5, 5, 35, 55), snap["a"])
	assert.Equal(t, rect(35, 5, 65, 65), snap["b"])
	assert.Equal(t, rect(69, 5, 89, 75), snap["c"])
}

func TestSolve_HorizontalFlowAndAutoSize(t *testing.T) {
	snap := solve(t, `
[panel]
left=10px
top=10px
padding=4px
border=1px solid black
flow=horizontal
[one]
parent=panel
width=40px
height=20px
[two]
parent=panel
width=60px
height=10px
`)
	assert.Equal(t, rect(15, 15, 35, 55), snap["one"])
	assert.Equal(t, rect(15, 55, 25, 115), snap["two"])
	assert.Equal(t, rect(10, 10, 40, 120), snap["panel"])
}

func TestSolve_AutoSizeKeepsSiblingMargin(t *testing.T) {
	snap := solve(t, `
[panel]
left=10px
top=10px
padding=4px
border=1px
flow=horizontal
[one]
parent=panel
width=40px
height=20px
[two]
parent=panel
width=60px
height=10px
right=.>7px
bottom=.>3px
`)
	assert.Equal(t, rect(15, 55, 25, 115), snap["two"])
	// content extent 115+7-15 = 107 wide, 35-15 = 20 high (the 25+3 margin is smaller)
	assert.Equal(t, rect(10, 10, 40, 127), snap["panel"])
}

func TestSolve_SiblingMarginKeepsExplicitSize(t *testing.T) {
	snap := solve(t, `
[a]
top=+5px
bottom=+5px
height=20px
width=10px
[b]
height=10px
width=10px
`)
	assert.Equal(t, rect(5, 0, 25, 10), snap["a"])
	assert.Equal(t, rect(25, 0, 35, 10), snap["b"], "the bottom margin does not move b")
}

// genChild is one generated child of an auto-sized panel.
type genChild struct {
	name          string
	width, height int    // zero when sized from the label
	margin        [2]int // far edge margin by dimension
}

// genPanel writes an auto-sized panel whose children mix explicit
// positions, flow positions, label sizes and far sibling margins.
func genPanel(rng *rand.Rand) (string, []genChild) {
	var b strings.Builder
	flow := "vertical"
	if rng.Intn(2) == 0 {
		flow = "horizontal"
	}
	fmt.Fprintf(&b, "[panel]\nleft=10px\ntop=10px\npadding=3px\nborder=1px\nflow=%s\n", flow)

	children := make([]genChild, 1+rng.Intn(5))
	for i := range children {
		c := genChild{name: fmt.Sprintf("c%d", i)}
		fmt.Fprintf(&b, "[%s]\nparent=panel\n", c.name)
		switch rng.Intn(3) {
		case 0:
			fmt.Fprintf(&b, "left=%dpx\ntop=%dpx\n", rng.Intn(40), rng.Intn(40))
			fallthrough
		case 1:
			c.width, c.height = 1+rng.Intn(80), 1+rng.Intn(40)
			fmt.Fprintf(&b, "width=%dpx\nheight=%dpx\n", c.width, c.height)
		default:
			fmt.Fprintf(&b, "type=text\nlabel=%s\n", strings.Repeat("x", 1+rng.Intn(6)))
		}
		if rng.Intn(2) == 0 {
			c.margin[geom.Width] = rng.Intn(16)
			fmt.Fprintf(&b, "right=.>%dpx\n", c.margin[geom.Width])
		}
		if rng.Intn(2) == 0 {
			c.margin[geom.Height] = rng.Intn(16)
			fmt.Fprintf(&b, "bottom=.>%dpx\n", c.margin[geom.Height])
		}
		children[i] = c
	}
	return b.String(), children
}

func TestSolve_AutoSizeCoversChildren(t *testing.T) {
	const inset = 4 // border plus padding
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		src, children := genPanel(rng)
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			snap := solve(t, src)
			p := snap["panel"]
			top, left := p.Top+inset, p.Left+inset
			bottom, right := top, left
			for _, c := range children {
				r := snap[c.name]
				if c.width > 0 {
					assert.Equal(t, c.width, r.Width(), "%s width\n%s", c.name, src)
					assert.Equal(t, c.height, r.Height(), "%s height\n%s", c.name, src)
				}
				right = max(right, r.Right+c.margin[geom.Width])
				bottom = max(bottom, r.Bottom+c.margin[geom.Height])
			}
			assert.Equal(t, right-left, p.Right-inset-left, "inner width\n%s", src)
			assert.Equal(t, bottom-top, p.Bottom-inset-top, "inner height\n%s", src)
		})
	}
}

func TestSolve_LeafSizedFromLabel(t *testing.T) {
	snap := solve(t, `
[ok]
type=button
label=Save
padding=2px 6px
left=10px
top=10px
[note]
type=text
label="two\nlines!"
left=10px
`)
	// 4 glyphs * 8 + 12 padding, one line of 20 + 4 padding
	assert.Equal(t, rect(10, 10, 34, 54), snap["ok"])
	// top follows the button; widest line is 6 glyphs
	assert.Equal(t, rect(34, 10, 74, 58), snap["note"])
}

func TestSolve_NamedTethersAnchorFromTheRight(t *testing.T) {
	snap := solve(t, `
[ok]
right=10px
bottom=10px
width=80px
height=20px
[cancel]
right=ok>left-5px
top=ok>top
width=80px
height=20px
`)
	assert.Equal(t, rect(570, 710, 590, 790), snap["ok"])
	assert.Equal(t, rect(570, 625, 590, 705), snap["cancel"])
}

func TestSolve_ForwardReferenceConverges(t *testing.T) {
	tree := build(t, `
[a]
left=b>right+10px
top=0
width=20px
height=20px
[b]
left=10px
top=0
width=30px
height=20px
`)
	s := New(tree, fixedMetrics{}, Options{})
	snap, err := s.Run(800, 600)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Passes())
	assert.Equal(t, rect(0, 50, 20, 70), snap["a"])
}

func TestSolve_BothEdgesTetheredStretch(t *testing.T) {
	snap := solve(t, `
[bar]
left=10px
right=10px
top=1em
height=50%
`)
	assert.Equal(t, rect(20, 10, 320, 790), snap["bar"])
}

func TestSolve_PercentAndEmPadding(t *testing.T) {
	snap := solve(t, `
[outer]
left=0
top=0
width=400px
height=200px
padding=10%
[inner]
parent=outer
width=50%
height=1em
`)
	// padding 10% of the window: 80px on the sides, 60px top and bottom
	assert.Equal(t, rect(60, 80, 80, 200), snap["inner"])
}

func TestSolve_MutualTethersReportCycle(t *testing.T) {
	tree := build(t, `
[a]
left=b>right
top=0
width=10px
height=10px
[b]
left=a>right
top=0
width=10px
height=10px
`)
	s := New(tree, fixedMetrics{}, Options{})
	err := s.Solve(800, 600)
	var cycle *uierr.LayoutCycleError
	require.True(t, errors.As(err, &cycle), "got %v", err)
	assert.Equal(t, []string{"a", "b"}, cycle.Elements())
	assert.Contains(t, cycle.Unresolved, uierr.Quantity{Element: "a", Name: "left"})
	assert.Contains(t, cycle.Unresolved, uierr.Quantity{Element: "b", Name: "right"})
	assert.LessOrEqual(t, cycle.Passes, tree.Len()*geom.Quantities)
}

func TestSolve_SelfTetherReportsCycle(t *testing.T) {
	tree := build(t, "[a]\nleft=a>left\n")
	s := New(tree, fixedMetrics{}, Options{})
	err := s.Solve(800, 600)
	var cycle *uierr.LayoutCycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []uierr.Quantity{{Element: "a", Name: "left"}, {Element: "a", Name: "right"}}, cycle.Unresolved)
	assert.Equal(t, 2, cycle.Passes)

	_, err = s.Commit()
	assert.Error(t, err, "commit refuses partial geometry")
}

func TestSolve_ForceResolve(t *testing.T) {
	tree := build(t, `
[window]
padding=3px
[a]
left=a>left
top=6px
width=10px
height=10px
`)
	s := New(tree, fixedMetrics{}, Options{ForceResolve: true})
	snap, err := s.Run(800, 600)
	require.NoError(t, err)
	assert.True(t, s.Forced())
	assert.Equal(t, rect(9, 3, 19, 13), snap["a"])
}

func TestSolve_MaxPasses(t *testing.T) {
	tree := build(t, `
[a]
left=b>right
[b]
left=c>right
[c]
left=5px
`)
	s := New(tree, fixedMetrics{}, Options{MaxPasses: 1})
	var cycle *uierr.LayoutCycleError
	require.True(t, errors.As(s.Solve(800, 600), &cycle))

	s = New(tree, fixedMetrics{}, Options{})
	require.NoError(t, s.Solve(800, 600))
	assert.Equal(t, 3, s.Passes())
}

func TestSolve_PercentOnRootIsUnsupported(t *testing.T) {
	tree := build(t, "[window]\npadding=5%\n")
	err := New(tree, fixedMetrics{}, Options{}).Solve(800, 600)
	var ue *uierr.UnsupportedUnitError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "window", ue.Element)
	assert.Equal(t, "5%", ue.Measure)
}

func TestComputeLayout_IdempotentAfterConvergence(t *testing.T) {
	tree := build(t, `
[box]
left=10px
top=10px
padding=2px
[x]
parent=box
width=30px
height=5px
[y]
parent=box
width=10px
height=5px
`)
	s := New(tree, fixedMetrics{}, Options{})
	before, err := s.Run(640, 480)
	require.NoError(t, err)

	n, err := s.ComputeLayout()
	require.NoError(t, err)
	assert.Zero(t, n)
	after, err := s.Commit()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, after))
}

func TestSolve_ResizeRecomputesFromScratch(t *testing.T) {
	tree := build(t, "[bar]\nleft=0\nright=0\ntop=0\nheight=10px\n")
	s := New(tree, fixedMetrics{}, Options{})
	snap, err := s.Run(800, 600)
	require.NoError(t, err)
	assert.Equal(t, 800, snap["bar"].Width())

	snap, err = s.Run(300, 200)
	require.NoError(t, err)
	assert.Equal(t, 300, snap["bar"].Width())
	bar, _ := tree.Element("bar")
	assert.Equal(t, 300, bar.Current.Width())
	assert.True(t, bar.Committed)
}
