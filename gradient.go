package perfui

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrEmptyGradient    = errors.New("gradient has no stops")
	ErrUnsortedGradient = errors.New("gradient stops are not strictly increasing")
	ErrInvalidStop      = errors.New("gradient stop value is not finite")
)

// GradientStop pins a color to a threshold value.
type GradientStop struct {
	Value float32
	Color Color
}

// ColorGradient maps numbers to colors. Between two stops the color is
// interpolated in OkLch so intermediate hues keep their brightness.
//
// A nil *ColorGradient is valid and means "no gradient".
type ColorGradient struct {
	stops []GradientStop
}

// NewColorGradient validates and copies the stops. Values must be finite
// and strictly increasing.
func NewColorGradient(stops ...GradientStop) (*ColorGradient, error) {
	if len(stops) == 0 {
		return nil, ErrEmptyGradient
	}
	for i, s := range stops {
		v := float64(s.Value)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("stop %d (%v): %w", i, s.Value, ErrInvalidStop)
		}
		if i > 0 && s.Value <= stops[i-1].Value {
			return nil, fmt.Errorf("stop %d (%v) after %v: %w", i, s.Value, stops[i-1].Value, ErrUnsortedGradient)
		}
	}
	return &ColorGradient{stops: append([]GradientStop(nil), stops...)}, nil
}

// MustColorGradient is like NewColorGradient but panics on invalid stops.
// Intended for package-level defaults built from constants.
func MustColorGradient(stops ...GradientStop) *ColorGradient {
	g, err := NewColorGradient(stops...)
	if err != nil {
		panic(err)
	}
	return g
}

// SingleColor returns a gradient that evaluates to c for every input.
func SingleColor(c Color) *ColorGradient {
	return &ColorGradient{stops: []GradientStop{{Color: c}}}
}

// NewPresetRYG builds a red, yellow, green gradient. Use it when higher
// values are better (frame rate).
func NewPresetRYG(low, mid, high float32) (*ColorGradient, error) {
	return NewColorGradient(
		GradientStop{Value: low, Color: Red},
		GradientStop{Value: mid, Color: Yellow},
		GradientStop{Value: high, Color: Green},
	)
}

// NewPresetGYR builds a green, yellow, red gradient. Use it when lower
// values are better (frame time, memory).
func NewPresetGYR(low, mid, high float32) (*ColorGradient, error) {
	return NewColorGradient(
		GradientStop{Value: low, Color: Green},
		GradientStop{Value: mid, Color: Yellow},
		GradientStop{Value: high, Color: Red},
	)
}

// Evaluate returns the color for v. Values outside the stop range clamp to
// the boundary colors and a value equal to a stop returns that stop's color
// unchanged. NaN evaluates to the first stop.
func (g *ColorGradient) Evaluate(v float32) Color {
	if g == nil || len(g.stops) == 0 {
		return Transparent
	}
	first, last := g.stops[0], g.stops[len(g.stops)-1]
	if len(g.stops) == 1 || v != v || v <= first.Value {
		return first.Color
	}
	if v >= last.Value {
		return last.Color
	}

	i := sort.Search(len(g.stops), func(i int) bool { return g.stops[i].Value >= v })
	hi := g.stops[i]
	if hi.Value == v {
		return hi.Color
	}
	lo := g.stops[i-1]
	t := float64(v-lo.Value) / float64(hi.Value-lo.Value)
	return blendOkLch(lo.Color, hi.Color, t)
}

func blendOkLch(a, b Color, t float64) Color {
	c := a.colorful().BlendOkLch(b.colorful(), t).Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: a.A + (b.A-a.A)*t}
}

// MinStop returns the lowest stop.
func (g *ColorGradient) MinStop() (GradientStop, bool) {
	if g == nil || len(g.stops) == 0 {
		return GradientStop{}, false
	}
	return g.stops[0], true
}

// MaxStop returns the highest stop.
func (g *ColorGradient) MaxStop() (GradientStop, bool) {
	if g == nil || len(g.stops) == 0 {
		return GradientStop{}, false
	}
	return g.stops[len(g.stops)-1], true
}

// Len returns the number of stops.
func (g *ColorGradient) Len() int {
	if g == nil {
		return 0
	}
	return len(g.stops)
}

// Stops returns a copy of the stops.
func (g *ColorGradient) Stops() []GradientStop {
	if g == nil {
		return nil
	}
	return append([]GradientStop(nil), g.stops...)
}
