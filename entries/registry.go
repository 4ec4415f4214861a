package entries

import (
	"slices"
	"time"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/widgets"
)

func (s *Style) style() *Style { return s }

type styled[V any] interface {
	perfui.Entry[V]
	style() *Style
}

// valued entries honor the value settings of their Style in V's terms.
type valued[V any] interface {
	styled[V]
	perfui.ValueColorer[V]
	perfui.ValueHighlighter[V]
	perfui.RangeHinter[V]
}

// Handle is a freshly built entry of a named kind. Its style and window
// fields can be adjusted before a widget is made from it.
type Handle struct {
	Kind  string
	Entry any
	Style *Style
	// Valued is set when the entry applies Style's gradient, highlight
	// and max hint to its values. Textual entries only use the label and
	// number format.
	Valued bool
	// Window and Smoothed point at the entry's fields, or are nil when the
	// entry has no such setting.
	Window   *int
	Smoothed *bool

	text func() perfui.Widget
	bar  func(widgets.BarStyle) perfui.Widget
}

// Text wraps the entry in a text widget.
func (h Handle) Text() perfui.Widget { return h.text() }

// Bar wraps the entry in a bar widget drawn in style s. Entries with
// non-numeric values cannot be drawn as bars.
func (h Handle) Bar(s widgets.BarStyle) (perfui.Widget, bool) {
	if h.bar == nil {
		return nil, false
	}
	return h.bar(s), true
}

func numeric[V perfui.Number](kind string, e valued[V]) Handle {
	return Handle{
		Kind:   kind,
		Entry:  e,
		Style:  e.style(),
		Valued: true,
		text:   func() perfui.Widget { return perfui.Text[V](e) },
		bar:    func(s widgets.BarStyle) perfui.Widget { return widgets.NewStyledBar[V](e, s) },
	}
}

func textual[V any](kind string, e styled[V]) Handle {
	return Handle{
		Kind:  kind,
		Entry: e,
		Style: e.style(),
		text:  func() perfui.Widget { return perfui.Text[V](e) },
	}
}

type kind struct {
	name string
	make func() Handle
}

var kinds = []kind{
	{"fps", func() Handle {
		e := NewFPS()
		h := numeric[float64]("fps", e)
		h.Smoothed = &e.Smoothed
		return h
	}},
	{"fps_worst", func() Handle {
		e := NewFPSWorst()
		h := numeric[float64]("fps_worst", e)
		h.Window = &e.Window
		return h
	}},
	{"fps_average", func() Handle {
		e := NewFPSAverage()
		h := numeric[float64]("fps_average", e)
		h.Window = &e.Window
		return h
	}},
	{"fps_pct_low", func() Handle {
		e := NewFPSPctLow()
		h := numeric[float64]("fps_pct_low", e)
		h.Window = &e.Window
		return h
	}},
	{"frame_time", func() Handle {
		e := NewFrameTime()
		h := numeric[float64]("frame_time", e)
		h.Smoothed = &e.Smoothed
		return h
	}},
	{"frame_time_worst", func() Handle {
		e := NewFrameTimeWorst()
		h := numeric[float64]("frame_time_worst", e)
		h.Window = &e.Window
		return h
	}},
	{"frame_count", func() Handle { return numeric[float64]("frame_count", NewFrameCount()) }},
	{"entity_count", func() Handle { return numeric[float64]("entity_count", NewEntityCount()) }},
	{"cpu_usage", func() Handle {
		e := NewCPUUsage()
		h := numeric[float64]("cpu_usage", e)
		h.Smoothed = &e.Smoothed
		return h
	}},
	{"mem_usage", func() Handle {
		e := NewMemUsage()
		h := numeric[float64]("mem_usage", e)
		h.Smoothed = &e.Smoothed
		return h
	}},
	{"render_cpu_time", func() Handle {
		e := NewRenderCPUTime()
		h := numeric[float64]("render_cpu_time", e)
		h.Smoothed = &e.Smoothed
		return h
	}},
	{"running_time", func() Handle { return numeric[time.Duration]("running_time", NewRunningTime()) }},
	{"clock", func() Handle { return textual[time.Time]("clock", NewClock()) }},
	{"fixed_time_step", func() Handle { return numeric[time.Duration]("fixed_time_step", NewFixedTimeStep()) }},
	{"fixed_overstep", func() Handle { return numeric[float64]("fixed_overstep", NewFixedOverstep()) }},
	{"window_resolution", func() Handle { return textual[Vec2]("window_resolution", NewWindowResolution()) }},
	{"window_scale_factor", func() Handle { return numeric[float64]("window_scale_factor", NewWindowScaleFactor()) }},
	{"window_mode", func() Handle { return textual[perfui.WindowMode]("window_mode", NewWindowMode()) }},
	{"window_present_mode", func() Handle { return textual[perfui.PresentMode]("window_present_mode", NewWindowPresentMode()) }},
	{"cursor_position", func() Handle { return textual[Vec2]("cursor_position", NewCursorPosition()) }},
}

// New builds the entry registered under name.
func New(name string) (Handle, bool) {
	i := slices.IndexFunc(kinds, func(k kind) bool { return k.name == name })
	if i < 0 {
		return Handle{}, false
	}
	return kinds[i].make(), true
}

// Kinds lists the registered entry names in declaration order.
func Kinds() []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.name
	}
	return names
}

// All returns a text widget for every built-in entry, in declaration order.
func All() []perfui.Widget {
	out := make([]perfui.Widget, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k.make().Text())
	}
	return out
}
