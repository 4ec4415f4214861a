package entries

import (
	"github.com/plus3/perfui"
	"github.com/plus3/perfui/diag"
)

// FPS shows the frame rate.
type FPS struct {
	Style
	// Smoothed selects the moving average over the latest sample.
	Smoothed bool
}

// NewFPS returns an FPS entry colored red, yellow, green over 30, 60 and
// 120 FPS, highlighted below 20.
func NewFPS() *FPS {
	return &FPS{
		Style: Style{
			Gradient:  ryg(30, 60, 120),
			Highlight: Below(20),
			Digits:    4,
		},
		Smoothed: true,
	}
}

func (e *FPS) Label() string { return e.label("FPS") }

func (e *FPS) UpdateValue(src perfui.Sources) (float64, bool) {
	return read(src, diag.FPS, e.Smoothed)
}

func (e *FPS) FormatValue(v float64) string { return e.formatFloat(v, "") }

// FPSWorst shows the lowest frame rate of the recent window.
type FPSWorst struct {
	Style
	Window int
	buf    samples
}

func NewFPSWorst() *FPSWorst {
	return &FPSWorst{
		Style: Style{
			Gradient:  ryg(30, 60, 120),
			Highlight: Below(20),
			Digits:    4,
		},
		Window: DefaultWindow,
	}
}

func (e *FPSWorst) Label() string { return e.label("FPS (worst)") }

func (e *FPSWorst) UpdateValue(src perfui.Sources) (float64, bool) {
	d, ok := lookup(src, diag.FPS)
	if !ok {
		return 0, false
	}
	e.buf.feed(d, e.Window)
	return e.buf.min()
}

func (e *FPSWorst) FormatValue(v float64) string { return e.formatFloat(v, "") }

// FPSAverage shows the mean frame rate of the recent window.
type FPSAverage struct {
	Style
	Window int
	buf    samples
}

func NewFPSAverage() *FPSAverage {
	return &FPSAverage{
		Style: Style{
			Gradient:  ryg(30, 60, 120),
			Highlight: Below(20),
			Digits:    4,
		},
		Window: DefaultWindow,
	}
}

func (e *FPSAverage) Label() string { return e.label("FPS (avg)") }

func (e *FPSAverage) UpdateValue(src perfui.Sources) (float64, bool) {
	d, ok := lookup(src, diag.FPS)
	if !ok {
		return 0, false
	}
	e.buf.feed(d, e.Window)
	return e.buf.mean()
}

func (e *FPSAverage) FormatValue(v float64) string { return e.formatFloat(v, "") }

// FPSPctLow shows the "1% low" style metric: the mean of the lowest
// Fraction of the recent window.
type FPSPctLow struct {
	Style
	Window   int
	Fraction float64
	buf      samples
}

// NewFPSPctLow averages the lowest 10% of the last 120 frames.
func NewFPSPctLow() *FPSPctLow {
	return &FPSPctLow{
		Style: Style{
			Gradient:  ryg(30, 60, 120),
			Highlight: Below(20),
			Digits:    4,
		},
		Window:   DefaultWindow,
		Fraction: 0.1,
	}
}

func (e *FPSPctLow) Label() string { return e.label("FPS (low)") }

func (e *FPSPctLow) UpdateValue(src perfui.Sources) (float64, bool) {
	d, ok := lookup(src, diag.FPS)
	if !ok {
		return 0, false
	}
	e.buf.feed(d, e.Window)
	return e.buf.lowMean(e.Fraction)
}

func (e *FPSPctLow) FormatValue(v float64) string { return e.formatFloat(v, "") }

// FrameTime shows the duration of the last frame in milliseconds.
type FrameTime struct {
	Style
	Smoothed bool
}

// NewFrameTime colors green, yellow, red at the frame times of 120, 60
// and 30 FPS and highlights anything slower than 20 FPS.
func NewFrameTime() *FrameTime {
	return &FrameTime{
		Style: Style{
			Gradient:  gyr(1000.0/120, 1000.0/60, 1000.0/30),
			Highlight: Above(1000.0 / 20),
			Digits:    2,
			Precision: 3,
			Units:     true,
		},
	}
}

func (e *FrameTime) Label() string { return e.label("Frame Time") }

func (e *FrameTime) UpdateValue(src perfui.Sources) (float64, bool) {
	return read(src, diag.FrameTime, e.Smoothed)
}

func (e *FrameTime) FormatValue(v float64) string { return e.formatFloat(v, " ms") }

// FrameTimeWorst shows the longest frame time of the recent window.
type FrameTimeWorst struct {
	Style
	Window int
	buf    samples
}

func NewFrameTimeWorst() *FrameTimeWorst {
	return &FrameTimeWorst{
		Style: Style{
			Gradient:  gyr(1000.0/120, 1000.0/60, 1000.0/30),
			Highlight: Above(1000.0 / 20),
			Digits:    2,
			Precision: 3,
			Units:     true,
		},
		Window: DefaultWindow,
	}
}

func (e *FrameTimeWorst) Label() string { return e.label("Frame Time (max)") }

func (e *FrameTimeWorst) UpdateValue(src perfui.Sources) (float64, bool) {
	d, ok := lookup(src, diag.FrameTime)
	if !ok {
		return 0, false
	}
	e.buf.feed(d, e.Window)
	return e.buf.max()
}

func (e *FrameTimeWorst) FormatValue(v float64) string { return e.formatFloat(v, " ms") }

// FrameCount shows the number of frames since start.
type FrameCount struct {
	Style
}

func NewFrameCount() *FrameCount {
	return &FrameCount{Style: Style{Digits: 6}}
}

func (e *FrameCount) Label() string { return e.label("Frame Count") }

func (e *FrameCount) UpdateValue(src perfui.Sources) (float64, bool) {
	return read(src, diag.FrameCount, false)
}

func (e *FrameCount) FormatValue(v float64) string { return e.formatInt(v) }

// EntityCount shows the number of live entities.
type EntityCount struct {
	Style
}

// NewEntityCount colors green, yellow, red at 100, 1000 and 10000 entities
// and highlights more than 20000.
func NewEntityCount() *EntityCount {
	return &EntityCount{
		Style: Style{
			Gradient:  gyr(100, 1000, 10000),
			Highlight: Above(20000),
			Digits:    6,
		},
	}
}

func (e *EntityCount) Label() string { return e.label("Entity Count") }

func (e *EntityCount) UpdateValue(src perfui.Sources) (float64, bool) {
	return read(src, diag.EntityCount, false)
}

func (e *EntityCount) FormatValue(v float64) string { return e.formatInt(v) }

// CPUUsage shows the process CPU usage in percent of one core.
type CPUUsage struct {
	Style
	Smoothed bool
}

func NewCPUUsage() *CPUUsage {
	return &CPUUsage{
		Style: Style{
			Gradient:  gyr(25, 50, 75),
			Highlight: Above(90),
			MaxHint:   ptr(100),
			Digits:    2,
			Precision: 2,
			Units:     true,
		},
		Smoothed: true,
	}
}

func (e *CPUUsage) Label() string { return e.label("CPU Usage") }

func (e *CPUUsage) UpdateValue(src perfui.Sources) (float64, bool) {
	return read(src, diag.CPUUsage, e.Smoothed)
}

func (e *CPUUsage) FormatValue(v float64) string { return e.formatFloat(v, "%") }

// MemUsage shows the memory obtained from the OS by the process, in GiB.
type MemUsage struct {
	Style
	Smoothed bool
}

func NewMemUsage() *MemUsage {
	return &MemUsage{
		Style: Style{
			Gradient:  gyr(0.5, 1, 2),
			Highlight: Above(3),
			MaxHint:   ptr(4),
			Digits:    2,
			Precision: 3,
			Units:     true,
		},
		Smoothed: true,
	}
}

func (e *MemUsage) Label() string { return e.label("RAM Usage") }

func (e *MemUsage) UpdateValue(src perfui.Sources) (float64, bool) {
	return read(src, diag.MemUsage, e.Smoothed)
}

func (e *MemUsage) FormatValue(v float64) string { return e.formatFloat(v, " GiB") }

// RenderCPUTime sums every "render/.../elapsed_cpu" diagnostic, in
// milliseconds.
type RenderCPUTime struct {
	Style
	Smoothed bool
}

func NewRenderCPUTime() *RenderCPUTime {
	return &RenderCPUTime{
		Style: Style{
			Gradient:  gyr(1000.0/120, 1000.0/60, 1000.0/30),
			Highlight: Above(1000.0 / 20),
			Digits:    2,
			Precision: 3,
			Units:     true,
		},
	}
}

func (e *RenderCPUTime) Label() string { return e.label("Render CPU Time") }

func (e *RenderCPUTime) UpdateValue(src perfui.Sources) (float64, bool) {
	if src.Diagnostics == nil {
		return 0, false
	}
	var total float64
	found := false
	for d := range src.Diagnostics.All() {
		if !d.Path().HasPrefix("render") || !d.Path().HasSuffix("elapsed_cpu") {
			continue
		}
		var v float64
		var ok bool
		if e.Smoothed {
			v, ok = d.Smoothed()
		} else {
			v, ok = d.Value()
		}
		if ok {
			total += v
			found = true
		}
	}
	return total, found
}

func (e *RenderCPUTime) FormatValue(v float64) string { return e.formatFloat(v, " ms") }
