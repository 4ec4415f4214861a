package entries_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/diag"
	"github.com/plus3/perfui/entries"
)

type fakeClock struct {
	elapsed time.Duration
	now     time.Time
	fixed   *perfui.FixedTime
}

func (c *fakeClock) Elapsed() time.Duration { return c.elapsed }
func (c *fakeClock) Now() time.Time         { return c.now }

func (c *fakeClock) Fixed() (perfui.FixedTime, bool) {
	if c.fixed == nil {
		return perfui.FixedTime{}, false
	}
	return *c.fixed, true
}

type fakeWindow struct {
	info *perfui.WindowInfo
}

func (w fakeWindow) Window() (perfui.WindowInfo, bool) {
	if w.info == nil {
		return perfui.WindowInfo{}, false
	}
	return *w.info, true
}

var t0 = time.Date(2024, 3, 1, 13, 4, 5, 0, time.UTC)

func feed(s *diag.Store, path diag.Path, values ...float64) {
	for i, v := range values {
		s.Add(path, v, t0.Add(time.Duration(i)*16*time.Millisecond))
	}
}

func TestWindowedFPS(t *testing.T) {
	t.Run("average slides over the window", func(t *testing.T) {
		store := diag.NewStore()
		src := perfui.Sources{Diagnostics: store}
		e := entries.NewFPSAverage()
		e.Window = 3

		feed(store, diag.FPS, 30, 60, 90)
		v, ok := e.UpdateValue(src)
		require.True(t, ok)
		assert.InDelta(t, 60, v, 1e-9)

		store.Add(diag.FPS, 120, t0.Add(time.Second))
		v, ok = e.UpdateValue(src)
		require.True(t, ok)
		assert.InDelta(t, 90, v, 1e-9)
	})

	t.Run("a sample is consumed once", func(t *testing.T) {
		store := diag.NewStore()
		src := perfui.Sources{Diagnostics: store}
		e := entries.NewFPSAverage()
		e.Window = 2

		feed(store, diag.FPS, 10)
		for range 5 {
			v, ok := e.UpdateValue(src)
			require.True(t, ok)
			assert.InDelta(t, 10, v, 1e-9)
		}
		store.Add(diag.FPS, 20, t0.Add(time.Second))
		v, _ := e.UpdateValue(src)
		assert.InDelta(t, 15, v, 1e-9)
	})

	t.Run("worst and low", func(t *testing.T) {
		store := diag.NewStore()
		src := perfui.Sources{Diagnostics: store}
		worst := entries.NewFPSWorst()
		low := entries.NewFPSPctLow()
		low.Fraction = 0.2

		feed(store, diag.FPS, 60, 55, 12, 61, 58, 20, 60, 59, 60, 60)
		v, ok := worst.UpdateValue(src)
		require.True(t, ok)
		assert.InDelta(t, 12, v, 1e-9)

		v, ok = low.UpdateValue(src)
		require.True(t, ok)
		assert.InDelta(t, 16, v, 1e-9)
	})

	t.Run("frame time worst", func(t *testing.T) {
		store := diag.NewStore()
		e := entries.NewFrameTimeWorst()
		feed(store, diag.FrameTime, 16.6, 33.3, 8.1)
		v, ok := e.UpdateValue(perfui.Sources{Diagnostics: store})
		require.True(t, ok)
		assert.InDelta(t, 33.3, v, 1e-9)
	})

	t.Run("no diagnostic", func(t *testing.T) {
		_, ok := entries.NewFPSAverage().UpdateValue(perfui.Sources{Diagnostics: diag.NewStore()})
		assert.False(t, ok)
		_, ok = entries.NewFPS().UpdateValue(perfui.Sources{})
		assert.False(t, ok)
	})
}

func TestDiagnosticEntries(t *testing.T) {
	t.Run("fps raw and highlight", func(t *testing.T) {
		store := diag.NewStore()
		feed(store, diag.FPS, 59.6)
		e := entries.NewFPS()
		e.Smoothed = false

		v, ok := e.UpdateValue(perfui.Sources{Diagnostics: store})
		require.True(t, ok)
		assert.Equal(t, "  60", e.FormatValue(v))
		assert.False(t, e.ValueHighlight(v))
		assert.True(t, e.ValueHighlight(19))
		assert.Equal(t, "FPS", e.Label())
	})

	t.Run("label override", func(t *testing.T) {
		e := entries.NewFPS()
		e.Name = "Frames"
		assert.Equal(t, "Frames", e.Label())
	})

	t.Run("frame time units", func(t *testing.T) {
		e := entries.NewFrameTime()
		assert.Equal(t, "16.667 ms", e.FormatValue(1000.0/60))
		e.Units = false
		assert.Equal(t, "16.667", e.FormatValue(1000.0/60))
	})

	t.Run("counts clamp to nines", func(t *testing.T) {
		assert.Equal(t, "999999", entries.NewFrameCount().FormatValue(1234567))
		assert.Equal(t, "    42", entries.NewEntityCount().FormatValue(42))
	})

	t.Run("counts of non-finite values", func(t *testing.T) {
		e := entries.NewFrameCount()
		assert.Equal(t, "999999", e.FormatValue(math.Inf(1)))
		assert.Equal(t, "-99999", e.FormatValue(math.Inf(-1)))
		assert.Equal(t, "   NaN", e.FormatValue(math.NaN()))
		assert.Equal(t, "999999", e.FormatValue(1e300))
	})

	t.Run("value hints", func(t *testing.T) {
		lo, ok := entries.NewFPS().MinValueHint()
		require.True(t, ok)
		assert.Zero(t, lo)

		hi, ok := entries.NewFPS().MaxValueHint()
		require.True(t, ok)
		assert.InDelta(t, 120, hi, 1e-9)

		hi, _ = entries.NewFrameTime().MaxValueHint()
		assert.InDelta(t, 50, hi, 1e-9)

		hi, _ = entries.NewCPUUsage().MaxValueHint()
		assert.InDelta(t, 100, hi, 1e-9)

		_, ok = entries.NewFrameCount().MaxValueHint()
		assert.False(t, ok)
	})

	t.Run("gradient colors", func(t *testing.T) {
		e := entries.NewEntityCount()
		c, ok := e.ValueColor(50)
		require.True(t, ok)
		assert.Equal(t, perfui.Green, c)

		_, ok = entries.NewFrameCount().ValueColor(50)
		assert.False(t, ok)
	})

	t.Run("render cpu time sums render passes", func(t *testing.T) {
		store := diag.NewStore()
		feed(store, "render/overlay/elapsed_cpu", 1.5)
		feed(store, "render/world/elapsed_cpu", 2.0)
		feed(store, "render/world/elapsed_gpu", 9.0)
		feed(store, "physics/elapsed_cpu", 9.0)

		e := entries.NewRenderCPUTime()
		v, ok := e.UpdateValue(perfui.Sources{Diagnostics: store})
		require.True(t, ok)
		assert.InDelta(t, 3.5, v, 1e-9)

		_, ok = e.UpdateValue(perfui.Sources{Diagnostics: diag.NewStore()})
		assert.False(t, ok)
	})
}

func TestTimeEntries(t *testing.T) {
	clock := &fakeClock{
		elapsed: 2500 * time.Millisecond,
		now:     t0,
		fixed:   &perfui.FixedTime{Timestep: time.Second / 64, Overstep: time.Second / 256},
	}
	src := perfui.Sources{Clock: clock}

	t.Run("running time", func(t *testing.T) {
		e := entries.NewRunningTime()
		v, ok := e.UpdateValue(src)
		require.True(t, ok)
		assert.Equal(t, "    2.500 s", e.FormatValue(v))

		e.HMS = true
		assert.Equal(t, "       2.500", e.FormatValue(v))
		assert.Equal(t, " 1:01:01.000", e.FormatValue(time.Hour+time.Minute+time.Second))
	})

	t.Run("clock", func(t *testing.T) {
		e := entries.NewClock()
		e.UTC = true
		v, ok := e.UpdateValue(src)
		require.True(t, ok)
		assert.Equal(t, "13:04:05", e.FormatValue(v))
		assert.Equal(t, "Clock (UTC)", e.Label())
	})

	t.Run("fixed time step", func(t *testing.T) {
		e := entries.NewFixedTimeStep()
		v, ok := e.UpdateValue(src)
		require.True(t, ok)
		assert.Equal(t, " 64.00 Hz", e.FormatValue(v))

		e.AsHz = false
		assert.Equal(t, " 20.00 ms", e.FormatValue(20*time.Millisecond))
	})

	t.Run("fixed overstep", func(t *testing.T) {
		e := entries.NewFixedOverstep()
		v, ok := e.UpdateValue(src)
		require.True(t, ok)
		assert.InDelta(t, 25, v, 1e-9)
		assert.Equal(t, " 25.00%", e.FormatValue(v))

		hi, _ := e.MaxValueHint()
		assert.InDelta(t, 100, hi, 1e-9)

		e.Units = false
		assert.Equal(t, " 25.00", e.FormatValue(v))
	})

	t.Run("duration styling", func(t *testing.T) {
		rt := entries.NewRunningTime()
		rt.Gradient = perfui.SingleColor(perfui.Red)
		rt.Highlight = entries.Above(60)
		c, ok := rt.ValueColor(90 * time.Second)
		require.True(t, ok)
		assert.Equal(t, perfui.Red, c)
		assert.True(t, rt.ValueHighlight(90*time.Second))
		assert.False(t, rt.ValueHighlight(30*time.Second))
		hi, ok := rt.MaxValueHint()
		require.True(t, ok)
		assert.Equal(t, time.Minute, hi)

		ts := entries.NewFixedTimeStep()
		ts.Highlight = entries.Below(30)
		assert.True(t, ts.ValueHighlight(time.Second/20), "20 Hz is below 30 Hz")
		assert.False(t, ts.ValueHighlight(time.Second/64))
		_, ok = ts.MaxValueHint()
		assert.False(t, ok)

		ts.AsHz = false
		ts.Highlight = entries.Above(20)
		assert.True(t, ts.ValueHighlight(50*time.Millisecond))
		limit := 40.0
		ts.MaxHint = &limit
		hi, ok = ts.MaxValueHint()
		require.True(t, ok)
		assert.Equal(t, 40*time.Millisecond, hi)
	})

	t.Run("no fixed loop", func(t *testing.T) {
		src := perfui.Sources{Clock: &fakeClock{}}
		_, ok := entries.NewFixedTimeStep().UpdateValue(src)
		assert.False(t, ok)
		_, ok = entries.NewFixedOverstep().UpdateValue(src)
		assert.False(t, ok)
	})

	t.Run("no clock", func(t *testing.T) {
		_, ok := entries.NewRunningTime().UpdateValue(perfui.Sources{})
		assert.False(t, ok)
	})
}

func TestWindowEntries(t *testing.T) {
	info := &perfui.WindowInfo{
		Width: 1280, Height: 720, ScaleFactor: 2,
		Mode: perfui.BorderlessFullscreen, Present: perfui.PresentImmediate,
		CursorX: 10.4, CursorY: 20.6, CursorInside: true,
	}
	src := perfui.Sources{Window: fakeWindow{info}}

	t.Run("resolution", func(t *testing.T) {
		e := entries.NewWindowResolution()
		v, ok := e.UpdateValue(src)
		require.True(t, ok)
		assert.Equal(t, "1280x720", e.FormatValue(v))

		e.Physical = true
		v, _ = e.UpdateValue(src)
		assert.Equal(t, "2560x1440", e.FormatValue(v))
	})

	t.Run("cursor position", func(t *testing.T) {
		e := entries.NewCursorPosition()
		v, ok := e.UpdateValue(src)
		require.True(t, ok)
		assert.Equal(t, "X: 10, Y: 21", e.FormatValue(v))

		outside := *info
		outside.CursorInside = false
		_, ok = e.UpdateValue(perfui.Sources{Window: fakeWindow{&outside}})
		assert.False(t, ok)
	})

	t.Run("modes and scale", func(t *testing.T) {
		mode, ok := entries.NewWindowMode().UpdateValue(src)
		require.True(t, ok)
		assert.Equal(t, "Borderless", entries.NewWindowMode().FormatValue(mode))

		present, _ := entries.NewWindowPresentMode().UpdateValue(src)
		assert.Equal(t, "Immediate", entries.NewWindowPresentMode().FormatValue(present))

		scale, _ := entries.NewWindowScaleFactor().UpdateValue(src)
		assert.Equal(t, " 2.00", entries.NewWindowScaleFactor().FormatValue(scale))
	})

	t.Run("headless", func(t *testing.T) {
		_, ok := entries.NewWindowResolution().UpdateValue(perfui.Sources{Window: fakeWindow{}})
		assert.False(t, ok)
	})
}
