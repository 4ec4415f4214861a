package perfui

import (
	"iter"
	"sync/atomic"
	"time"

	"github.com/plus3/perfui/diag"
)

// Entry produces one displayable value per frame.
//
// UpdateValue must only read from src. Returning false means the value is
// not available this frame (for instance a sampler has not published yet);
// it is not an error. Entries may keep their own rolling buffers but never
// mutate the sources they read from.
type Entry[V any] interface {
	Label() string
	UpdateValue(src Sources) (V, bool)
	FormatValue(v V) string
}

// ValueColorer picks a text color for a value. Returning false falls back
// to the root's default value color.
type ValueColorer[V any] interface {
	ValueColor(v V) (Color, bool)
}

// ValueHighlighter flags values that need attention.
type ValueHighlighter[V any] interface {
	ValueHighlight(v V) bool
}

// RangeHinter reports the expected value range, used by widgets that draw
// values relative to a scale.
type RangeHinter[V any] interface {
	MinValueHint() (V, bool)
	MaxValueHint() (V, bool)
}

// WidthHinter reports the widest formatted value in characters. Entries
// without it do not take part in column sizing.
type WidthHinter interface {
	WidthHint() int
}

// Sorter overrides the attach order of an entry's row. Rows with lower keys
// come first; zero keeps attach order.
type Sorter interface {
	SortKey() int64
}

// Number is the set of value types a Bar can scale.
type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64
}

var nextSortKey atomic.Int64

// NextSortKey returns an increasing key, for entries that want to order
// themselves by construction rather than by attach order.
func NextSortKey() int64 {
	return nextSortKey.Add(1)
}

// Sources bundles the read-only services entries draw from. Any field may
// be nil; only the entries depending on it degrade.
type Sources struct {
	Diagnostics Diagnostics
	Clock       Clock
	Window      WindowState
}

// Diagnostics exposes measurement history by path. *diag.Store implements it.
type Diagnostics interface {
	Get(path diag.Path) (*diag.Diagnostic, bool)
	All() iter.Seq[*diag.Diagnostic]
}

var _ Diagnostics = (*diag.Store)(nil)

// Clock provides simulation and wall-clock time.
type Clock interface {
	// Elapsed is the time since the application started.
	Elapsed() time.Duration
	Now() time.Time
	// Fixed reports the fixed-update settings when the host runs one.
	Fixed() (FixedTime, bool)
}

// FixedTime describes a fixed-timestep update loop.
type FixedTime struct {
	Timestep time.Duration
	// Overstep is the accumulated time not yet consumed by a fixed update.
	Overstep time.Duration
}

// OverstepFraction is Overstep relative to Timestep.
func (f FixedTime) OverstepFraction() float64 {
	if f.Timestep <= 0 {
		return 0
	}
	return float64(f.Overstep) / float64(f.Timestep)
}

// WindowState reports the primary window. It returns false when there is
// no window (headless runs).
type WindowState interface {
	Window() (WindowInfo, bool)
}

type WindowMode uint8

const (
	Windowed WindowMode = iota
	BorderlessFullscreen
	Fullscreen
)

func (m WindowMode) String() string {
	switch m {
	case BorderlessFullscreen:
		return "Borderless"
	case Fullscreen:
		return "Fullscreen"
	default:
		return "Windowed"
	}
}

type PresentMode uint8

const (
	PresentVsync PresentMode = iota
	PresentImmediate
	PresentAuto
)

func (m PresentMode) String() string {
	switch m {
	case PresentImmediate:
		return "Immediate"
	case PresentAuto:
		return "Auto"
	default:
		return "VSync"
	}
}

// WindowInfo is a snapshot of window state. Sizes are logical pixels.
type WindowInfo struct {
	Width, Height float64
	ScaleFactor   float64
	Mode          WindowMode
	Present       PresentMode

	CursorX, CursorY float64
	CursorInside     bool
}

// PhysicalSize returns the size in device pixels.
func (w WindowInfo) PhysicalSize() (float64, float64) {
	s := w.ScaleFactor
	if s <= 0 {
		s = 1
	}
	return w.Width * s, w.Height * s
}
