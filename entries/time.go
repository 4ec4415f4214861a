package entries

import (
	"time"

	"github.com/plus3/perfui"
)

// RunningTime shows how long the application has been running.
type RunningTime struct {
	Style
	// Start is subtracted from the elapsed time.
	Start time.Duration
	// HMS formats as hours, minutes and seconds instead of plain seconds.
	HMS bool
}

func NewRunningTime() *RunningTime {
	return &RunningTime{Style: Style{Digits: 5, Precision: 3, Units: true}}
}

func (e *RunningTime) Label() string { return e.label("Running Time") }

func (e *RunningTime) UpdateValue(src perfui.Sources) (time.Duration, bool) {
	if src.Clock == nil {
		return 0, false
	}
	return max(src.Clock.Elapsed()-e.Start, 0), true
}

func (e *RunningTime) FormatValue(v time.Duration) string {
	if e.HMS {
		return perfui.FormatDuration(e.Precision, v)
	}
	return e.formatFloat(v.Seconds(), " s")
}

// Gradient stops, the highlight threshold and MaxHint are in seconds.

func (e *RunningTime) ValueColor(v time.Duration) (perfui.Color, bool) {
	return e.Style.ValueColor(v.Seconds())
}

func (e *RunningTime) ValueHighlight(v time.Duration) bool {
	return e.Style.ValueHighlight(v.Seconds())
}

func (e *RunningTime) MinValueHint() (time.Duration, bool) { return 0, true }

func (e *RunningTime) MaxValueHint() (time.Duration, bool) {
	hi, ok := e.Style.MaxValueHint()
	return time.Duration(hi * float64(time.Second)), ok
}

// Clock shows the wall-clock time of day.
type Clock struct {
	Style
	UTC bool
}

func NewClock() *Clock {
	return &Clock{}
}

func (e *Clock) Label() string {
	if e.UTC {
		return e.label("Clock (UTC)")
	}
	return e.label("Clock")
}

func (e *Clock) UpdateValue(src perfui.Sources) (time.Time, bool) {
	if src.Clock == nil {
		return time.Time{}, false
	}
	now := src.Clock.Now()
	if e.UTC {
		now = now.UTC()
	}
	return now, true
}

func (e *Clock) FormatValue(v time.Time) string {
	return perfui.FormatHMS(e.Precision, uint32(v.Hour()), uint32(v.Minute()), uint32(v.Second()), uint32(v.Nanosecond()))
}

// FixedTimeStep shows the fixed-update period, as a rate by default.
type FixedTimeStep struct {
	Style
	AsHz bool
}

func NewFixedTimeStep() *FixedTimeStep {
	return &FixedTimeStep{
		Style: Style{Digits: 3, Precision: 2, Units: true},
		AsHz:  true,
	}
}

func (e *FixedTimeStep) Label() string { return e.label("Fixed Time Step") }

func (e *FixedTimeStep) UpdateValue(src perfui.Sources) (time.Duration, bool) {
	if src.Clock == nil {
		return 0, false
	}
	f, ok := src.Clock.Fixed()
	if !ok || f.Timestep <= 0 {
		return 0, false
	}
	return f.Timestep, true
}

// shown converts v to the unit it is displayed in.
func (e *FixedTimeStep) shown(v time.Duration) float64 {
	if e.AsHz {
		return float64(time.Second) / float64(v)
	}
	return float64(v) / float64(time.Millisecond)
}

func (e *FixedTimeStep) FormatValue(v time.Duration) string {
	if e.AsHz {
		return e.formatFloat(e.shown(v), " Hz")
	}
	return e.formatFloat(e.shown(v), " ms")
}

// Gradient stops and the highlight threshold are in the displayed unit,
// Hz or milliseconds.

func (e *FixedTimeStep) ValueColor(v time.Duration) (perfui.Color, bool) {
	return e.Style.ValueColor(e.shown(v))
}

func (e *FixedTimeStep) ValueHighlight(v time.Duration) bool {
	return e.Style.ValueHighlight(e.shown(v))
}

// MinValueHint and MaxValueHint give a millisecond scale. A rate does not
// map onto a duration range, so in Hz mode there is none.
func (e *FixedTimeStep) MinValueHint() (time.Duration, bool) { return 0, !e.AsHz }

func (e *FixedTimeStep) MaxValueHint() (time.Duration, bool) {
	if e.AsHz {
		return 0, false
	}
	hi, ok := e.Style.MaxValueHint()
	return time.Duration(hi * float64(time.Millisecond)), ok
}

// FixedOverstep shows how far the frame is into the next fixed update,
// as a percentage of the step or in milliseconds.
type FixedOverstep struct {
	Style
	AsPercent bool
}

func NewFixedOverstep() *FixedOverstep {
	return &FixedOverstep{
		Style:     Style{Digits: 3, Precision: 2, Units: true, MaxHint: ptr(100)},
		AsPercent: true,
	}
}

func (e *FixedOverstep) Label() string { return e.label("Fixed Overstep") }

func (e *FixedOverstep) UpdateValue(src perfui.Sources) (float64, bool) {
	if src.Clock == nil {
		return 0, false
	}
	f, ok := src.Clock.Fixed()
	if !ok {
		return 0, false
	}
	if e.AsPercent {
		return f.OverstepFraction() * 100, true
	}
	return float64(f.Overstep) / float64(time.Millisecond), true
}

func (e *FixedOverstep) FormatValue(v float64) string {
	if e.AsPercent {
		return e.formatFloat(v, "%")
	}
	return e.formatFloat(v, " ms")
}
