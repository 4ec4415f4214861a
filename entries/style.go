// Package entries provides the built-in overlay entries: frame timing,
// process resources, clocks and window state.
//
// Every entry has a New function returning it with its documented
// defaults. Fields may be changed before the entry is attached.
package entries

import (
	"fmt"
	"math"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/diag"
)

// Threshold is an optional highlight bound.
type Threshold struct {
	Value float64
	// Above highlights values greater than Value; otherwise values less
	// than Value are highlighted.
	Above bool
	Set   bool
}

// Above highlights values greater than v.
func Above(v float64) Threshold { return Threshold{Value: v, Above: true, Set: true} }

// Below highlights values less than v.
func Below(v float64) Threshold { return Threshold{Value: v, Set: true} }

// Hit reports whether v crosses the threshold.
func (t Threshold) Hit(v float64) bool {
	if !t.Set {
		return false
	}
	if t.Above {
		return v > t.Value
	}
	return v < t.Value
}

// Style holds the presentation settings shared by numeric entries.
type Style struct {
	// Name replaces the default label when non-empty.
	Name string
	// Gradient colors the value; nil uses the root's default color.
	Gradient  *perfui.ColorGradient
	Highlight Threshold
	// MaxHint fixes the top of the range for bar widgets. When nil it is
	// derived from the highlight threshold and the gradient.
	MaxHint *float64

	Digits    uint8
	Precision uint8
	// Units appends the unit suffix, where the entry has one.
	Units bool
	// Order sorts the entry's row; zero keeps attach order.
	Order int64
}

func (s *Style) label(def string) string {
	if s.Name != "" {
		return s.Name
	}
	return def
}

func (s *Style) ValueColor(v float64) (perfui.Color, bool) {
	if s.Gradient == nil {
		return perfui.Color{}, false
	}
	return s.Gradient.Evaluate(float32(v)), true
}

func (s *Style) ValueHighlight(v float64) bool {
	return s.Highlight.Hit(v)
}

func (s *Style) MinValueHint() (float64, bool) {
	return 0, true
}

func (s *Style) MaxValueHint() (float64, bool) {
	if s.MaxHint != nil {
		return *s.MaxHint, true
	}
	stop, ok := s.Gradient.MaxStop()
	switch {
	case ok && s.Highlight.Set:
		return max(float64(stop.Value), s.Highlight.Value), true
	case ok:
		return float64(stop.Value), true
	case s.Highlight.Set:
		return s.Highlight.Value, true
	}
	return 0, false
}

func (s *Style) SortKey() int64 {
	return s.Order
}

// WidthHint is the width of a formatted value without units.
func (s *Style) WidthHint() int {
	w := int(max(s.Digits, 1))
	if s.Precision > 0 {
		w += int(s.Precision) + 1
	}
	return w
}

func (s *Style) formatFloat(v float64, unit string) string {
	out := perfui.FormatFloat(s.Digits, s.Precision, v)
	if s.Units && unit != "" {
		out += unit
	}
	return out
}

// formatInt truncates v; out of range values clamp to all nines and NaN
// is shown as is.
func (s *Style) formatInt(v float64) string {
	switch {
	case math.IsNaN(v):
		return fmt.Sprintf("%*s", max(s.Digits, 1), "NaN")
	case v >= math.MaxInt64:
		return perfui.FormatInt(s.Digits, math.MaxInt64)
	case v <= math.MinInt64:
		return perfui.FormatInt(s.Digits, math.MinInt64)
	}
	return perfui.FormatInt(s.Digits, int64(v))
}

func ryg(low, mid, high float32) *perfui.ColorGradient {
	g, err := perfui.NewPresetRYG(low, mid, high)
	if err != nil {
		panic(err)
	}
	return g
}

func gyr(low, mid, high float32) *perfui.ColorGradient {
	g, err := perfui.NewPresetGYR(low, mid, high)
	if err != nil {
		panic(err)
	}
	return g
}

func ptr(v float64) *float64 { return &v }

func lookup(src perfui.Sources, path diag.Path) (*diag.Diagnostic, bool) {
	if src.Diagnostics == nil {
		return nil, false
	}
	return src.Diagnostics.Get(path)
}

// read returns the latest or smoothed value of the diagnostic at path.
func read(src perfui.Sources, path diag.Path, smoothed bool) (float64, bool) {
	d, ok := lookup(src, path)
	if !ok {
		return 0, false
	}
	if smoothed {
		return d.Smoothed()
	}
	return d.Value()
}
