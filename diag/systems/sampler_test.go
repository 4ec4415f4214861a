package systems

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/perfui/diag"
	"github.com/plus3/perfui/ecs"
)

type fakeProcess struct {
	cpu  time.Duration
	mem  uint64
	wall time.Time
}

func (f *fakeProcess) probe() (time.Duration, bool, uint64) { return f.cpu, true, f.mem }
func (f *fakeProcess) now() time.Time                       { return f.wall }

func newFakeSampler() (*Sampler, *fakeProcess) {
	f := &fakeProcess{wall: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), mem: gib / 2}
	s := NewSampler(time.Hour)
	s.probe = f.probe
	s.now = f.now
	return s, f
}

func TestSampler(t *testing.T) {
	t.Run("no sample before the first probe", func(t *testing.T) {
		s, _ := newFakeSampler()
		_, ok := s.Latest()
		assert.False(t, ok)
	})

	t.Run("cpu needs two probes", func(t *testing.T) {
		s, f := newFakeSampler()
		s.sample()
		first, ok := s.Latest()
		require.True(t, ok)
		assert.False(t, first.CPUValid)
		assert.InDelta(t, 0.5, first.MemGiB, 1e-9)

		f.wall = f.wall.Add(time.Second)
		f.cpu += 250 * time.Millisecond
		s.sample()
		second, _ := s.Latest()
		assert.True(t, second.CPUValid)
		assert.InDelta(t, 25, second.CPUPercent, 1e-9)
	})

	t.Run("run takes a sample and stops", func(t *testing.T) {
		s, _ := newFakeSampler()
		stop := s.Start(context.Background())
		require.Eventually(t, func() bool {
			_, ok := s.Latest()
			return ok
		}, time.Second, time.Millisecond)
		stop()
	})

	t.Run("default probe reads the process", func(t *testing.T) {
		_, _, mem := defaultProbe()
		assert.Positive(t, mem)
	})
}

func TestSystemInfoSystem(t *testing.T) {
	s, f := newFakeSampler()
	store := diag.NewStore()
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	storage.AddSingleton(store)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&SystemInfoSystem{Sampler: s})

	scheduler.Once(0.016)
	_, ok := store.Get(diag.MemUsage)
	assert.False(t, ok, "nothing sampled yet")

	s.sample()
	f.wall = f.wall.Add(time.Second)
	f.cpu += time.Second
	s.sample()

	scheduler.Once(0.016)
	scheduler.Once(0.016)

	cpu, ok := store.Get(diag.CPUUsage)
	require.True(t, ok)
	assert.Equal(t, 1, cpu.Len(), "a sample is published once")
	v, _ := cpu.Value()
	assert.InDelta(t, 100, v, 1e-9)

	mem, _ := store.Get(diag.MemUsage)
	assert.Equal(t, 1, mem.Len())
}
