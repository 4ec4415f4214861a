package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/perfui"
)

// overlayRow is one overlay row flattened for a two column table.
type overlayRow struct {
	Label      string
	Value      string
	ValueColor perfui.Color
	Emphasis   bool
	// Bar is set when the row draws its value as a bar; Fraction is the
	// filled share and BarColor its color.
	Bar       bool
	Fraction  float32
	BarColor  perfui.Color
	Highlight perfui.Color
	// Hint is the row's value width hint in characters.
	Hint int
}

// overlayRows reads the rendered rows of o in display order.
func overlayRows(o *perfui.Overlay) []overlayRow {
	t := o.Tree()
	var rows []overlayRow
	for _, rid := range t.Children(o.Panel()) {
		re, ok := t.Get(rid)
		if !ok || re.Hidden {
			continue
		}
		r := overlayRow{Highlight: re.Background, Hint: re.WidthHint}
		t.Walk(rid, func(e *perfui.Element, _ int) bool {
			switch {
			case e.Kind == perfui.KindText && e.Role == perfui.RoleLabel:
				r.Label = e.Text
			case e.Kind == perfui.KindText:
				r.Value, r.ValueColor, r.Emphasis = e.Text, e.Color, e.Emphasis
			case e.Kind == perfui.KindBar:
				r.Bar = true
			case e.Kind == perfui.KindFill:
				r.Fraction = e.FillEnd - e.FillStart
				r.BarColor = e.Color
			}
			return true
		})
		rows = append(rows, r)
	}
	return rows
}

func vec4(c perfui.Color) imgui.Vec4 {
	return imgui.NewVec4(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
}

// NewOverlayItem returns a window listing the rows of every overlay
// returned by overlays, typically ecsoverlay.OverlaySystem.Overlays.
func NewOverlayItem(title string, overlays func() []*perfui.Overlay) ImguiItem {
	return ImguiItem{
		Render: func() {
			imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(320, 400), imgui.CondOnce)
			if !imgui.BeginV(title, nil, imgui.WindowFlagsNone) {
				imgui.End()
				return
			}
			for i, o := range overlays() {
				if i > 0 {
					imgui.Separator()
				}
				renderOverlay(i, o)
			}
			imgui.End()
		},
	}
}

func renderOverlay(i int, o *perfui.Overlay) {
	if !o.Visible() {
		imgui.TextColored(imgui.NewVec4(0.5, 0.5, 0.5, 1), fmt.Sprintf("overlay %d hidden", i))
		return
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if !imgui.BeginTableV(fmt.Sprintf("##overlay%d", i), 2, tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}
	rows := overlayRows(o)
	hint := 0
	for _, r := range rows {
		hint = max(hint, r.Hint)
	}
	imgui.TableSetupColumn("Entry")
	if hint > 0 {
		imgui.TableSetupColumnV("Value", imgui.TableColumnFlagsWidthFixed, float32(hint)*imgui.CalcTextSize("0").X, 0)
	} else {
		imgui.TableSetupColumn("Value")
	}
	imgui.TableHeadersRow()

	for _, r := range rows {
		imgui.TableNextRow()
		if r.Highlight.Visible() {
			imgui.TableSetBgColor(imgui.TableBgTargetRowBg1, imgui.ColorU32Vec4(vec4(r.Highlight)))
		}

		imgui.TableNextColumn()
		imgui.Text(r.Label)

		imgui.TableNextColumn()
		if r.Bar {
			imgui.PushStyleColorVec4(imgui.ColPlotHistogram, vec4(r.BarColor))
			imgui.ProgressBarV(r.Fraction, imgui.NewVec2(-1, 0), r.Value)
			imgui.PopStyleColor()
			continue
		}
		text := r.Value
		if r.Emphasis {
			text += " !"
		}
		imgui.TextColored(vec4(r.ValueColor), text)
	}
	imgui.EndTable()
}
