// Package widgets provides widgets beyond the plain text row.
package widgets

import (
	"math"
	"strings"

	"github.com/plus3/perfui"
)

// TextPosition places the value text relative to the bar.
type TextPosition uint8

const (
	TextCenter TextPosition = iota
	NoText
	TextStart
	TextEnd
	TextOutsideStart
	TextOutsideEnd
)

// FillDirection is the side the bar grows from.
type FillDirection uint8

const (
	FillLeft FillDirection = iota
	FillCenter
	FillRight
)

// Bar draws an entry's value as a filled bar scaled between a minimum and
// a maximum.
//
// The range is the union of the bar gradient's stops and the entry's range
// hints. A single-color gradient contributes nothing, and with no range at
// all the bar stays empty.
type Bar[V perfui.Number] struct {
	Entry perfui.Entry[V]
	BarStyle
	Key int64
}

// BarStyle holds the settings of a bar that do not depend on its value
// type.
type BarStyle struct {
	TextPosition TextPosition
	// TextColor overrides the entry's value color when set.
	TextColor *perfui.Color
	Fill      FillDirection

	Color      *perfui.ColorGradient
	Background perfui.Color
	Border     perfui.Color
	BorderPx   float32
	// HeightPx and LengthPx fix the bar size; zero fills the cell.
	HeightPx float32
	LengthPx float32

	// Min and Max override the computed range when both are set.
	Min, Max *float64
}

// DefaultBarStyle is a gray bar on a translucent background.
func DefaultBarStyle() BarStyle {
	return BarStyle{
		Color:      perfui.SingleColor(perfui.Gray),
		Background: perfui.RGBA(0, 0, 0, 0.5),
		Border:     perfui.Black,
		BorderPx:   1,
	}
}

// NewBar wraps e with a gray bar on a translucent background.
func NewBar[V perfui.Number](e perfui.Entry[V]) *Bar[V] {
	return NewStyledBar(e, DefaultBarStyle())
}

// NewStyledBar wraps e with a bar drawn in style s.
func NewStyledBar[V perfui.Number](e perfui.Entry[V], s BarStyle) *Bar[V] {
	b := &Bar[V]{Entry: e, BarStyle: s}
	if s, ok := e.(perfui.Sorter); ok {
		b.Key = s.SortKey()
	}
	return b
}

func (b *Bar[V]) Label() string  { return b.Entry.Label() }
func (b *Bar[V]) SortKey() int64 { return b.Key }

// WidthHint forwards the entry's hint.
func (b *Bar[V]) WidthHint() int {
	if h, ok := b.Entry.(perfui.WidthHinter); ok {
		return h.WidthHint()
	}
	return 0
}

// Range returns the scale of the bar.
func (b *Bar[V]) Range() (lo, hi float64, ok bool) {
	if b.Min != nil && b.Max != nil {
		return *b.Min, *b.Max, true
	}

	var hMin, hMax *float64
	if h, ok := b.Entry.(perfui.RangeHinter[V]); ok {
		if v, ok := h.MinValueHint(); ok {
			f := float64(v)
			hMin = &f
		}
		if v, ok := h.MaxValueHint(); ok {
			f := float64(v)
			hMax = &f
		}
	}

	gMin, okMin := b.Color.MinStop()
	gMax, okMax := b.Color.MaxStop()
	if !okMin || !okMax || gMin.Value == gMax.Value {
		if hMin == nil || hMax == nil {
			return 0, 0, false
		}
		return *hMin, *hMax, true
	}

	lo, hi = float64(gMin.Value), float64(gMax.Value)
	if hMin != nil {
		lo = math.Min(lo, *hMin)
	}
	if hMax != nil {
		hi = math.Max(hi, *hMax)
	}
	return lo, hi, true
}

// Fraction maps v into [0,1] over the bar range.
func (b *Bar[V]) Fraction(v float64) (float64, bool) {
	lo, hi, ok := b.Range()
	if !ok || hi <= lo || math.IsNaN(v) {
		return 0, false
	}
	return math.Max(0, math.Min(1, (v-lo)/(hi-lo))), true
}

func (b *Bar[V]) Spawn(sb *perfui.Builder) perfui.Parts {
	root := sb.Root()
	parts := perfui.Parts{Label: sb.Label(b.Entry.Label())}

	outside := b.TextPosition == TextOutsideStart || b.TextPosition == TextOutsideEnd
	if outside {
		align := perfui.AlignEnd
		if b.TextPosition == TextOutsideStart {
			align = perfui.AlignStart
		}
		parts.Value = b.spawnText(sb, 0, align, root)
	}

	parts.Bar = sb.Spawn(0, perfui.Element{
		Kind:        perfui.KindBar,
		Background:  b.Background,
		Border:      b.Border,
		BorderWidth: b.BorderPx,
		Width:       b.LengthPx,
		Height:      b.HeightPx,
	})
	parts.Fill = sb.Spawn(parts.Bar, perfui.Element{
		Kind:  perfui.KindFill,
		Color: perfui.Transparent,
	})

	if !outside && b.TextPosition != NoText {
		align := perfui.AlignCenter
		switch b.TextPosition {
		case TextStart:
			align = perfui.AlignStart
		case TextEnd:
			align = perfui.AlignEnd
		}
		parts.Value = b.spawnText(sb, parts.Bar, align, root)
	}
	return parts
}

func (b *Bar[V]) spawnText(sb *perfui.Builder, parent perfui.ElementID, align perfui.Align, root *perfui.Root) perfui.ElementID {
	e := perfui.Element{
		Kind:     perfui.KindText,
		Role:     perfui.RoleValue,
		Text:     strings.TrimSpace(root.TextErr),
		Color:    root.ErrColor,
		Font:     root.FontValue,
		FontSize: root.FontSizeValue,
		Align:    align,
		Outside:  parent == 0,
	}
	if b.TextColor != nil {
		e.Color = *b.TextColor
	}
	return sb.Spawn(parent, e)
}

func (b *Bar[V]) Update(u *perfui.Updater, p perfui.Parts) bool {
	tree := u.Tree()
	v, ok := b.Entry.UpdateValue(u.Sources())
	if !ok {
		if h, held := u.Hold(); held {
			return h
		}
		tree.SetFill(p.Fill, 0, 0)
		if b.TextColor != nil {
			u.SetValueText(p.Value, strings.TrimSpace(u.Root().TextErr), *b.TextColor, false)
		} else {
			u.SetUnavailable(p.Value)
		}
		return false
	}

	f := float64(v)
	tree.SetColor(p.Fill, b.Color.Evaluate(float32(f)))

	var start, end float32
	if frac, ok := b.Fraction(f); ok {
		start, end = fillSpan(b.Fill, float32(frac))
	}
	tree.SetFill(p.Fill, start, end)

	highlight := perfui.EntryHighlight(b.Entry, v)
	if p.Value != 0 {
		c := perfui.EntryColor(b.Entry, v, u.Root())
		if b.TextColor != nil {
			c = *b.TextColor
		}
		u.SetValueText(p.Value, strings.TrimSpace(b.Entry.FormatValue(v)), c, highlight)
	}
	return highlight
}

func fillSpan(dir FillDirection, frac float32) (float32, float32) {
	switch dir {
	case FillRight:
		return 1 - frac, 1
	case FillCenter:
		return (1 - frac) / 2, (1 + frac) / 2
	default:
		return 0, frac
	}
}
