// Package term renders perfui overlays as styled terminal text.
package term

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/plus3/perfui"
)

// DefaultBarWidth is the number of cells a bar takes when it has no fixed
// length.
const DefaultBarWidth = 20

const (
	fillCell  = "█"
	emptyCell = "░"
)

// Renderer turns an overlay tree into a string. Colors are emitted in the
// renderer's color profile; the Ascii profile yields plain text.
type Renderer struct {
	lg       *lipgloss.Renderer
	BarWidth int
	// Separator joins rows of a horizontal overlay.
	Separator string
}

// NewRenderer renders for the terminal behind w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{lg: lipgloss.NewRenderer(w), BarWidth: DefaultBarWidth, Separator: " │ "}
}

// NewPlainRenderer renders without escape sequences.
func NewPlainRenderer() *Renderer {
	r := NewRenderer(io.Discard)
	r.lg.SetColorProfile(termenv.Ascii)
	return r
}

// NewTrueColorRenderer always emits 24-bit colors.
func NewTrueColorRenderer() *Renderer {
	r := NewRenderer(io.Discard)
	r.lg.SetColorProfile(termenv.TrueColor)
	return r
}

type cell struct {
	text  string
	style lipgloss.Style
}

type line struct {
	label cell
	value []cell
	bg    perfui.Color
	// hint is the row's width hint; text is the width of its value text
	// cells, which the hint stands in for.
	hint, text int
}

// opaque flattens c over black; terminals have no alpha.
func opaque(c perfui.Color) lipgloss.Color {
	a := min(max(c.A, 0), 1)
	return lipgloss.Color(perfui.RGB(c.R*a, c.G*a, c.B*a).Hex())
}

// Render returns the overlay as text, or "" while it is hidden.
func (r *Renderer) Render(o *perfui.Overlay) string {
	t := o.Tree()
	panel, ok := t.Get(o.Panel())
	if !ok || panel.Hidden {
		return ""
	}

	var lines []line
	for _, rid := range panel.Children {
		row, ok := t.Get(rid)
		if !ok || row.Hidden {
			continue
		}
		lines = append(lines, r.line(t, row))
	}

	labelW, valueW, hintW := 0, 0, 0
	for _, l := range lines {
		labelW = max(labelW, lipgloss.Width(l.label.text))
		valueW = max(valueW, widthOf(l.value))
		if l.hint > 0 {
			hintW = max(hintW, widthOf(l.value)-l.text+l.hint)
		}
	}
	if hintW > 0 {
		valueW = hintW
	}

	root := o.Root()
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		lw := labelW
		if root.Direction == perfui.Horizontal {
			lw = lipgloss.Width(l.label.text)
		}
		label := l.label.style.Width(lw).Render(l.label.text)

		var sb strings.Builder
		for _, c := range l.value {
			sb.WriteString(c.style.Render(c.text))
		}
		vw := max(valueW, widthOf(l.value))
		value := r.lg.NewStyle().Width(vw).Align(lipgloss.Right).Render(sb.String())

		rowStyle := r.lg.NewStyle()
		if l.bg.Visible() {
			rowStyle = rowStyle.Background(opaque(l.bg))
		}
		out = append(out, rowStyle.Render(label+value))
	}

	var body string
	if root.Direction == perfui.Horizontal {
		body = strings.Join(out, r.Separator)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, out...)
	}

	style := r.lg.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	if root.Background.Visible() {
		style = style.BorderForeground(opaque(root.Background.WithAlpha(1)))
	}
	return style.Render(body)
}

func widthOf(cells []cell) int {
	n := 0
	for _, c := range cells {
		n += lipgloss.Width(c.text)
	}
	return n
}

func (r *Renderer) line(t *perfui.Tree, row *perfui.Element) line {
	l := line{bg: row.Background, hint: row.WidthHint}
	var after []cell
	for _, cid := range row.Children {
		e, ok := t.Get(cid)
		if !ok || e.Hidden {
			continue
		}
		switch {
		case e.Kind == perfui.KindText && e.Role == perfui.RoleLabel:
			l.label = cell{text: e.Text, style: r.textStyle(e)}
		case e.Kind == perfui.KindText && e.Outside && e.Align == perfui.AlignEnd:
			after = append(after, cell{text: " " + e.Text, style: r.textStyle(e)})
			l.text += lipgloss.Width(e.Text)
		case e.Kind == perfui.KindText && e.Outside:
			l.value = append(l.value, cell{text: e.Text + " ", style: r.textStyle(e)})
			l.text += lipgloss.Width(e.Text)
		case e.Kind == perfui.KindText:
			l.value = append(l.value, cell{text: e.Text, style: r.textStyle(e)})
			l.text += lipgloss.Width(e.Text)
		case e.Kind == perfui.KindBar:
			l.value = append(l.value, r.bar(t, e)...)
		}
	}
	l.value = append(l.value, after...)
	return l
}

func (r *Renderer) textStyle(e *perfui.Element) lipgloss.Style {
	s := r.lg.NewStyle().Bold(e.Emphasis)
	if e.Color.Visible() {
		s = s.Foreground(opaque(e.Color.WithAlpha(1)))
	}
	return s
}

func (r *Renderer) bar(t *perfui.Tree, bar *perfui.Element) []cell {
	width := r.BarWidth
	if width <= 0 {
		width = DefaultBarWidth
	}

	var fill *perfui.Element
	var inner []cell
	for _, cid := range bar.Children {
		e, ok := t.Get(cid)
		if !ok || e.Hidden {
			continue
		}
		switch e.Kind {
		case perfui.KindFill:
			fill = e
		case perfui.KindText:
			inner = append(inner, cell{text: " " + e.Text, style: r.textStyle(e)})
		}
	}

	start, end := 0, 0
	if fill != nil {
		start = int(fill.FillStart*float32(width) + 0.5)
		end = int(fill.FillEnd*float32(width) + 0.5)
	}
	empty := r.lg.NewStyle()
	if bar.Background.Visible() {
		empty = empty.Foreground(opaque(bar.Background.WithAlpha(1)))
	}
	filled := r.lg.NewStyle()
	if fill != nil && fill.Color.Visible() {
		filled = filled.Foreground(opaque(fill.Color.WithAlpha(1)))
	}

	cells := []cell{
		{text: strings.Repeat(emptyCell, start), style: empty},
		{text: strings.Repeat(fillCell, max(end-start, 0)), style: filled},
		{text: strings.Repeat(emptyCell, max(width-max(end, start), 0)), style: empty},
	}
	return append(cells, inner...)
}
