// Package diag stores timestamped diagnostic measurements such as frame
// rate or memory usage. Producers append measurements once per frame and
// readers query the latest, smoothed or averaged value.
package diag

import (
	"iter"
	"strings"
	"time"
)

// Path identifies a diagnostic. Segments are separated by '/'.
type Path string

// Well-known paths published by the measurement systems.
const (
	FPS         Path = "fps"
	FrameTime   Path = "frame_time"
	FrameCount  Path = "frame_count"
	EntityCount Path = "entity_count"
	CPUUsage    Path = "process/cpu_usage"
	MemUsage    Path = "process/mem_usage"
)

const (
	DefaultHistoryLength   = 120
	DefaultSmoothingFactor = 2.0 / 21.0
)

// Segments splits the path on '/'.
func (p Path) Segments() []string {
	return strings.Split(string(p), "/")
}

// HasPrefix reports whether the first segment of p is seg.
func (p Path) HasPrefix(seg string) bool {
	first, _, _ := strings.Cut(string(p), "/")
	return first == seg
}

// HasSuffix reports whether the last segment of p is seg.
func (p Path) HasSuffix(seg string) bool {
	i := strings.LastIndexByte(string(p), '/')
	return string(p)[i+1:] == seg
}

// Measurement is a single sample.
type Measurement struct {
	Time  time.Time
	Value float64
}

// Diagnostic keeps a bounded history of measurements for one path along
// with an exponential moving average weighted by elapsed time.
type Diagnostic struct {
	path      Path
	suffix    string
	smoothing float64

	history []Measurement
	head    int
	n       int
	sum     float64
	ema     float64
	count   uint64
}

// Option configures a Diagnostic.
type Option func(*Diagnostic)

// WithSuffix sets the unit suffix shown after the value, e.g. "ms".
func WithSuffix(s string) Option {
	return func(d *Diagnostic) { d.suffix = s }
}

// WithHistoryLength bounds how many measurements are kept.
func WithHistoryLength(n int) Option {
	return func(d *Diagnostic) {
		if n > 0 {
			d.history = make([]Measurement, n)
		}
	}
}

// WithSmoothingFactor sets the EMA time constant in seconds. Zero disables
// smoothing (the smoothed value tracks the latest measurement).
func WithSmoothingFactor(secs float64) Option {
	return func(d *Diagnostic) { d.smoothing = max(secs, 0) }
}

func NewDiagnostic(path Path, opts ...Option) *Diagnostic {
	d := &Diagnostic{
		path:      path,
		smoothing: DefaultSmoothingFactor,
		history:   make([]Measurement, DefaultHistoryLength),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add appends a measurement, evicting the oldest one once the history is
// full.
func (d *Diagnostic) Add(m Measurement) {
	if prev, ok := d.Measurement(); ok && d.smoothing > 0 {
		delta := m.Time.Sub(prev.Time).Seconds()
		alpha := min(max(delta/d.smoothing, 0), 1)
		d.ema += alpha * (m.Value - d.ema)
	} else {
		d.ema = m.Value
	}

	if d.n == len(d.history) {
		d.sum -= d.history[d.head].Value
		d.history[d.head] = m
		d.head = (d.head + 1) % len(d.history)
	} else {
		d.history[(d.head+d.n)%len(d.history)] = m
		d.n++
	}
	d.sum += m.Value
	d.count++
}

func (d *Diagnostic) Path() Path     { return d.path }
func (d *Diagnostic) Suffix() string { return d.suffix }

// Len is the number of measurements in the history.
func (d *Diagnostic) Len() int { return d.n }

// Count is the number of measurements ever added. Readers use it to tell
// whether a new sample arrived since they last looked.
func (d *Diagnostic) Count() uint64 { return d.count }

// Measurement returns the newest measurement.
func (d *Diagnostic) Measurement() (Measurement, bool) {
	if d.n == 0 {
		return Measurement{}, false
	}
	return d.history[(d.head+d.n-1)%len(d.history)], true
}

// Value returns the newest value.
func (d *Diagnostic) Value() (float64, bool) {
	m, ok := d.Measurement()
	return m.Value, ok
}

// Smoothed returns the exponential moving average.
func (d *Diagnostic) Smoothed() (float64, bool) {
	if d.n == 0 {
		return 0, false
	}
	return d.ema, true
}

// Average returns the mean of the history.
func (d *Diagnostic) Average() (float64, bool) {
	if d.n == 0 {
		return 0, false
	}
	return d.sum / float64(d.n), true
}

// Values yields the history from oldest to newest.
func (d *Diagnostic) Values() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i := range d.n {
			if !yield(d.history[(d.head+i)%len(d.history)].Value) {
				return
			}
		}
	}
}

// Clear drops the history. Count keeps increasing across clears.
func (d *Diagnostic) Clear() {
	d.head, d.n, d.sum, d.ema = 0, 0, 0, 0
}
