package entries

import (
	"math"
	"slices"

	"github.com/plus3/perfui/diag"
)

// DefaultWindow is the number of recent samples kept by the windowed
// entries.
const DefaultWindow = 120

// samples is a sliding window over a diagnostic. It consumes a measurement
// only once, using the diagnostic's running count to notice new ones.
type samples struct {
	buf     []float64
	head, n int
	seen    uint64
	scratch []float64
}

// feed pulls measurements added to d since the last call. It resizes the
// window when size changed.
func (s *samples) feed(d *diag.Diagnostic, size int) {
	size = max(size, 1)
	if len(s.buf) != size {
		s.buf = make([]float64, size)
		s.head, s.n = 0, 0
	}

	fresh := d.Count() - s.seen
	s.seen = d.Count()
	if fresh == 0 {
		return
	}
	fresh = min(fresh, uint64(d.Len()), uint64(size))
	skip := d.Len() - int(fresh)
	i := 0
	for v := range d.Values() {
		if i >= skip {
			s.push(v)
		}
		i++
	}
}

func (s *samples) push(v float64) {
	if s.n < len(s.buf) {
		s.buf[(s.head+s.n)%len(s.buf)] = v
		s.n++
		return
	}
	s.buf[s.head] = v
	s.head = (s.head + 1) % len(s.buf)
}

func (s *samples) len() int { return s.n }

func (s *samples) each(fn func(float64)) {
	for i := range s.n {
		fn(s.buf[(s.head+i)%len(s.buf)])
	}
}

func (s *samples) mean() (float64, bool) {
	if s.n == 0 {
		return 0, false
	}
	var sum float64
	s.each(func(v float64) { sum += v })
	return sum / float64(s.n), true
}

func (s *samples) min() (float64, bool) {
	if s.n == 0 {
		return 0, false
	}
	lo := math.Inf(1)
	s.each(func(v float64) { lo = math.Min(lo, v) })
	return lo, true
}

func (s *samples) max() (float64, bool) {
	if s.n == 0 {
		return 0, false
	}
	hi := math.Inf(-1)
	s.each(func(v float64) { hi = math.Max(hi, v) })
	return hi, true
}

// lowMean averages the lowest fraction of the window, rounding the count
// up so at least one sample is used.
func (s *samples) lowMean(fraction float64) (float64, bool) {
	if s.n == 0 {
		return 0, false
	}
	s.scratch = s.scratch[:0]
	s.each(func(v float64) { s.scratch = append(s.scratch, v) })
	slices.Sort(s.scratch)

	k := int(math.Ceil(float64(s.n) * math.Max(0, math.Min(1, fraction))))
	k = max(k, 1)
	var sum float64
	for _, v := range s.scratch[:k] {
		sum += v
	}
	return sum / float64(k), true
}
