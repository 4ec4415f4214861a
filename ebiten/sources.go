package ebiten

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/perfui"
)

// Clock reports time since its creation and the fixed update step implied
// by ebiten's TPS. Call Tick once per ebiten Update so the overstep can be
// derived from the number of updates run so far.
type Clock struct {
	start   time.Time
	now     func() time.Time
	tps     func() int
	updates int64
}

func NewClock() *Clock {
	return &Clock{start: time.Now(), now: time.Now, tps: ebiten.TPS}
}

// Tick records one fixed update.
func (c *Clock) Tick() { c.updates++ }

func (c *Clock) Elapsed() time.Duration { return c.now().Sub(c.start) }

func (c *Clock) Now() time.Time { return c.now() }

func (c *Clock) Fixed() (perfui.FixedTime, bool) {
	tps := c.tps()
	if tps <= 0 {
		return perfui.FixedTime{}, false
	}
	step := time.Second / time.Duration(tps)
	over := c.Elapsed() - time.Duration(c.updates)*step
	return perfui.FixedTime{Timestep: step, Overstep: min(max(over, 0), step)}, true
}

// Window reports the ebiten window.
type Window struct{}

func (Window) Window() (perfui.WindowInfo, bool) {
	w, h := ebiten.WindowSize()
	if w == 0 || h == 0 {
		return perfui.WindowInfo{}, false
	}
	info := perfui.WindowInfo{
		Width:       float64(w),
		Height:      float64(h),
		ScaleFactor: ebiten.Monitor().DeviceScaleFactor(),
	}
	if ebiten.IsFullscreen() {
		info.Mode = perfui.Fullscreen
	}
	if !ebiten.IsVsyncEnabled() {
		info.Present = perfui.PresentImmediate
	}

	x, y := ebiten.CursorPosition()
	info.CursorX, info.CursorY = float64(x), float64(y)
	info.CursorInside = ebiten.IsFocused() && x >= 0 && y >= 0 && x < w && y < h
	return info, true
}

var (
	_ perfui.Clock       = (*Clock)(nil)
	_ perfui.WindowState = Window{}
)
