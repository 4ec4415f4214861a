package term_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/term"
	"github.com/plus3/perfui/widgets"
)

type gauge struct {
	label   string
	value   float64
	missing bool
}

func (g *gauge) Label() string { return g.label }

func (g *gauge) UpdateValue(perfui.Sources) (float64, bool) { return g.value, !g.missing }

func (g *gauge) FormatValue(v float64) string { return perfui.FormatFloat(3, 1, v) }

func (g *gauge) MinValueHint() (float64, bool) { return 0, true }
func (g *gauge) MaxValueHint() (float64, bool) { return 100, true }

type hinted struct {
	gauge
	hint int
}

func (h *hinted) WidthHint() int { return h.hint }

func overlay(root perfui.Root, ws ...perfui.Widget) *perfui.Overlay {
	o := perfui.New(root)
	for _, w := range ws {
		o.Attach(w)
	}
	o.Tick(perfui.Sources{})
	return o
}

func TestRender(t *testing.T) {
	r := term.NewPlainRenderer()

	t.Run("vertical rows", func(t *testing.T) {
		o := overlay(perfui.DefaultRoot(),
			perfui.Text[float64](&gauge{label: "Load", value: 42}),
			perfui.Text[float64](&gauge{label: "Temperature", value: 7}),
		)
		out := r.Render(o)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], "╭"))
		assert.Contains(t, lines[1], "Load: ")
		assert.Contains(t, lines[1], "42.0")
		assert.Contains(t, lines[2], "Temperature: ")
		assert.Contains(t, lines[2], "7.0")
		assert.Equal(t, strings.Index(lines[1], "42.0")+1, strings.Index(lines[2], "7.0"),
			"values are right aligned")
	})

	t.Run("width hint sets the value column", func(t *testing.T) {
		o := overlay(perfui.DefaultRoot(), perfui.Text[float64](&hinted{gauge: gauge{label: "X", value: 1}, hint: 8}))
		lines := strings.Split(r.Render(o), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "│ X:      1.0 │", lines[1])

		o = overlay(perfui.DefaultRoot(), perfui.Text[float64](&gauge{label: "X", value: 1}))
		lines = strings.Split(r.Render(o), "\n")
		assert.Equal(t, "│ X:   1.0 │", lines[1])
	})

	t.Run("unavailable value", func(t *testing.T) {
		o := overlay(perfui.DefaultRoot(), perfui.Text[float64](&gauge{label: "Load", missing: true}))
		assert.Contains(t, r.Render(o), "N/A")
	})

	t.Run("bar cells", func(t *testing.T) {
		style := widgets.DefaultBarStyle()
		style.TextPosition = widgets.NoText
		o := overlay(perfui.DefaultRoot(), widgets.NewStyledBar[float64](&gauge{label: "Load", value: 50}, style))

		br := term.NewPlainRenderer()
		br.BarWidth = 10
		out := br.Render(o)
		assert.Contains(t, out, "Load: █████░░░░░")
	})

	t.Run("horizontal", func(t *testing.T) {
		root := perfui.DefaultRoot()
		root.Direction = perfui.Horizontal
		o := overlay(root,
			perfui.Text[float64](&gauge{label: "A", value: 1}),
			perfui.Text[float64](&gauge{label: "B", value: 2}),
		)
		hr := term.NewPlainRenderer()
		hr.Separator = " | "
		lines := strings.Split(hr.Render(o), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[1], "A: ")
		assert.Contains(t, lines[1], " | ")
		assert.Contains(t, lines[1], "B: ")
	})

	t.Run("hidden", func(t *testing.T) {
		o := overlay(perfui.DefaultRoot(), perfui.Text[float64](&gauge{label: "Load", value: 1}))
		o.SetVisible(false)
		assert.Empty(t, r.Render(o))
	})

	t.Run("no labels", func(t *testing.T) {
		root := perfui.DefaultRoot()
		root.DisplayLabels = false
		o := overlay(root, perfui.Text[float64](&gauge{label: "Load", value: 1}))
		assert.NotContains(t, r.Render(o), "Load")
	})
}
