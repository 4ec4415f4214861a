package systems

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/diag"
	"github.com/plus3/perfui/ecs"
)

// DefaultSampleInterval is how often the sampler probes the process.
const DefaultSampleInterval = time.Second

const gib = 1 << 30

// Sample is one reading of process resource usage.
type Sample struct {
	At time.Time
	// CPUPercent is CPU time over wall time, in percent of one core.
	CPUPercent float64
	// MemGiB is the memory obtained from the OS by the Go runtime.
	MemGiB float64
	// CPUValid is false when the platform has no CPU time source or the
	// sample is the first one.
	CPUValid bool
}

// probe reports the process CPU time and memory in bytes.
type probe func() (cpu time.Duration, cpuOK bool, mem uint64)

func defaultProbe() (time.Duration, bool, uint64) {
	cpu, ok := processCPUTime()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return cpu, ok, ms.Sys
}

// Sampler probes resource usage on its own goroutine so the frame loop
// never pays for it. The newest sample is handed over through an atomic
// pointer.
type Sampler struct {
	interval time.Duration
	probe    probe
	now      func() time.Time
	latest   atomic.Pointer[Sample]

	lastCPU  time.Duration
	lastWall time.Time
	primed   bool
}

// NewSampler returns a sampler probing every interval, or every
// DefaultSampleInterval when interval is not positive.
func NewSampler(interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Sampler{interval: interval, probe: defaultProbe, now: time.Now}
}

// Run samples until ctx is cancelled. It takes one sample immediately.
func (s *Sampler) Run(ctx context.Context) {
	log := perfui.Logger().With("interval", s.interval)
	log.Debug("sampler started")
	defer log.Debug("sampler stopped")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sample()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

// Start runs the sampler on a new goroutine. The returned function stops
// it and waits for the goroutine to exit.
func (s *Sampler) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (s *Sampler) sample() {
	cpu, cpuOK, mem := s.probe()
	now := s.now()
	out := &Sample{At: now, MemGiB: float64(mem) / gib}

	if cpuOK && s.primed {
		if wall := now.Sub(s.lastWall); wall > 0 {
			out.CPUPercent = float64(cpu-s.lastCPU) / float64(wall) * 100
			out.CPUValid = true
		}
	}
	s.lastCPU, s.lastWall, s.primed = cpu, now, cpuOK

	s.latest.Store(out)
}

// Latest returns the newest sample. It is safe to call from any goroutine.
func (s *Sampler) Latest() (Sample, bool) {
	p := s.latest.Load()
	if p == nil {
		return Sample{}, false
	}
	return *p, true
}

// SystemInfoSystem publishes each new sampler reading as cpu_usage and
// mem_usage diagnostics.
type SystemInfoSystem struct {
	Diagnostics ecs.Singleton[diag.Store]
	Sampler     *Sampler
	published   time.Time
}

func (s *SystemInfoSystem) Execute(frame *ecs.UpdateFrame) {
	store := s.Diagnostics.Get()
	if store == nil || s.Sampler == nil {
		return
	}
	sample, ok := s.Sampler.Latest()
	if !ok || !sample.At.After(s.published) {
		return
	}
	s.published = sample.At

	if sample.CPUValid {
		store.Add(diag.CPUUsage, sample.CPUPercent, sample.At)
	}
	store.Add(diag.MemUsage, sample.MemGiB, sample.At)
}
