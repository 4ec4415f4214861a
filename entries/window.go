package entries

import (
	"fmt"

	"github.com/plus3/perfui"
)

// Vec2 is a pair of window coordinates.
type Vec2 struct {
	X, Y float64
}

func window(src perfui.Sources) (perfui.WindowInfo, bool) {
	if src.Window == nil {
		return perfui.WindowInfo{}, false
	}
	return src.Window.Window()
}

func formatVec2(v Vec2, precision uint8, sep string, axis, units bool) string {
	unit := ""
	if units {
		unit = " px"
	}
	if axis {
		return fmt.Sprintf("X: %.*f%s%sY: %.*f%s", precision, v.X, unit, sep, precision, v.Y, unit)
	}
	return fmt.Sprintf("%.*f%s%s%.*f%s", precision, v.X, unit, sep, precision, v.Y, unit)
}

// WindowResolution shows the window size.
type WindowResolution struct {
	Style
	Separator string
	Axis      bool
	// Physical reports device pixels instead of logical ones.
	Physical bool
}

func NewWindowResolution() *WindowResolution {
	return &WindowResolution{Separator: "x"}
}

func (e *WindowResolution) Label() string { return e.label("Resolution") }

func (e *WindowResolution) UpdateValue(src perfui.Sources) (Vec2, bool) {
	w, ok := window(src)
	if !ok {
		return Vec2{}, false
	}
	if e.Physical {
		x, y := w.PhysicalSize()
		return Vec2{X: x, Y: y}, true
	}
	return Vec2{X: w.Width, Y: w.Height}, true
}

func (e *WindowResolution) FormatValue(v Vec2) string {
	return formatVec2(v, e.Precision, e.Separator, e.Axis, e.Units)
}

// CursorPosition shows the cursor position inside the window. The value is
// unavailable while the cursor is outside.
type CursorPosition struct {
	Style
	Separator string
	Axis      bool
	Physical  bool
}

func NewCursorPosition() *CursorPosition {
	return &CursorPosition{Separator: ", ", Axis: true}
}

func (e *CursorPosition) Label() string { return e.label("Cursor Position") }

func (e *CursorPosition) UpdateValue(src perfui.Sources) (Vec2, bool) {
	w, ok := window(src)
	if !ok || !w.CursorInside {
		return Vec2{}, false
	}
	if e.Physical && w.ScaleFactor > 0 {
		return Vec2{X: w.CursorX * w.ScaleFactor, Y: w.CursorY * w.ScaleFactor}, true
	}
	return Vec2{X: w.CursorX, Y: w.CursorY}, true
}

func (e *CursorPosition) FormatValue(v Vec2) string {
	return formatVec2(v, e.Precision, e.Separator, e.Axis, e.Units)
}

// WindowScaleFactor shows the ratio of device to logical pixels.
type WindowScaleFactor struct {
	Style
}

func NewWindowScaleFactor() *WindowScaleFactor {
	return &WindowScaleFactor{Style: Style{Digits: 2, Precision: 2}}
}

func (e *WindowScaleFactor) Label() string { return e.label("Scale Factor") }

func (e *WindowScaleFactor) UpdateValue(src perfui.Sources) (float64, bool) {
	w, ok := window(src)
	if !ok {
		return 0, false
	}
	return w.ScaleFactor, true
}

func (e *WindowScaleFactor) FormatValue(v float64) string { return e.formatFloat(v, "") }

// WindowMode shows whether the window is fullscreen.
type WindowMode struct {
	Style
}

func NewWindowMode() *WindowMode { return &WindowMode{} }

func (e *WindowMode) Label() string { return e.label("Window Mode") }

func (e *WindowMode) UpdateValue(src perfui.Sources) (perfui.WindowMode, bool) {
	w, ok := window(src)
	return w.Mode, ok
}

func (e *WindowMode) FormatValue(v perfui.WindowMode) string { return v.String() }

// WindowPresentMode shows the swap interval policy.
type WindowPresentMode struct {
	Style
}

func NewWindowPresentMode() *WindowPresentMode { return &WindowPresentMode{} }

func (e *WindowPresentMode) Label() string { return e.label("Present Mode") }

func (e *WindowPresentMode) UpdateValue(src perfui.Sources) (perfui.PresentMode, bool) {
	w, ok := window(src)
	return w.Present, ok
}

func (e *WindowPresentMode) FormatValue(v perfui.PresentMode) string { return v.String() }

func (e *WindowResolution) WidthHint() int {
	return len(e.FormatValue(Vec2{X: 9999, Y: 9999}))
}

func (e *CursorPosition) WidthHint() int {
	return len(e.FormatValue(Vec2{X: 9999, Y: 9999}))
}

func (e *WindowMode) WidthHint() int { return len(perfui.BorderlessFullscreen.String()) }

func (e *WindowPresentMode) WidthHint() int { return len(perfui.PresentImmediate.String()) }
