package ecs_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/plus3/perfui/ecs"
)

type sumSystem struct {
	Gauges ecs.Query[struct{ *Gauge }]
	Total  float64
	Runs   int
}

func (s *sumSystem) Execute(frame *ecs.UpdateFrame) {
	s.Runs++
	s.Total = 0
	for item := range s.Gauges.Values() {
		s.Total += item.Value
	}
}

type scaleSystem struct {
	Gauges   ecs.Query[struct{ *Gauge }]
	Settings ecs.Singleton[Settings]
}

func (s *scaleSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Gauges.Values() {
		item.Value *= s.Settings.Get().Scale
	}
}

// gatedSystem only runs while an unhidden label exists.
type gatedSystem struct {
	Labels ecs.Query[struct {
		*Label
		Hidden *Hidden `ecs:"optional"`
	}]
	Runs int
}

func (s *gatedSystem) ShouldRun(frame *ecs.UpdateFrame) bool {
	for item := range s.Labels.Values() {
		if item.Hidden == nil {
			return true
		}
	}
	return false
}

func (s *gatedSystem) Execute(frame *ecs.UpdateFrame) { s.Runs++ }

type frameRecorder struct {
	frames  []uint64
	elapsed time.Duration
}

func (s *frameRecorder) Execute(frame *ecs.UpdateFrame) {
	s.frames = append(s.frames, frame.Frame)
	s.elapsed = frame.Elapsed
}

type spawnOnce struct {
	done bool
}

func (s *spawnOnce) Execute(frame *ecs.UpdateFrame) {
	if !s.done {
		frame.Commands.Spawn(Gauge{Value: 5})
		s.done = true
	}
}

func TestScheduler(t *testing.T) {
	t.Run("queries are executed before each system", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		storage.Spawn(Gauge{Value: 1})
		storage.Spawn(Gauge{Value: 2})

		sum := &sumSystem{}
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(sum)
		scheduler.Once(0.016)

		if sum.Total != 3 {
			t.Errorf("expected total 3, got %v", sum.Total)
		}
	})

	t.Run("systems run in registration order", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		storage.AddSingleton(Settings{Scale: 10})
		storage.Spawn(Gauge{Value: 1})

		sum := &sumSystem{}
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&scaleSystem{})
		scheduler.Register(sum)
		scheduler.Once(0.016)

		if sum.Total != 10 {
			t.Errorf("expected scaled total 10, got %v", sum.Total)
		}
	})

	t.Run("conditional systems are skipped and counted", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		id := storage.Spawn(Label{Text: "overlay"})

		gated := &gatedSystem{}
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(gated)

		scheduler.Once(0.016)
		id = storage.AddComponent(id, Hidden{})
		scheduler.Once(0.016)
		scheduler.Once(0.016)

		if gated.Runs != 1 {
			t.Errorf("expected 1 run, got %d", gated.Runs)
		}
		stats := scheduler.GetStats()
		if stats.Systems[0].SkipCount != 2 || stats.TotalSkips != 2 {
			t.Errorf("expected 2 skips, got %+v", stats.Systems[0])
		}
		if stats.Systems[0].ExecutionCount != 1 {
			t.Errorf("skips must not count as executions: %+v", stats.Systems[0])
		}

		storage.RemoveComponent(id, reflect.TypeFor[Hidden]())
		scheduler.Once(0.016)
		if gated.Runs != 2 {
			t.Errorf("expected the system to resume, got %d runs", gated.Runs)
		}
	})

	t.Run("frame counter and elapsed time", func(t *testing.T) {
		rec := &frameRecorder{}
		scheduler := ecs.NewScheduler(ecs.NewStorage(newTestRegistry()))
		scheduler.Register(rec)
		scheduler.Once(0.5)
		scheduler.Once(0.25)

		if len(rec.frames) != 2 || rec.frames[0] != 1 || rec.frames[1] != 2 {
			t.Errorf("unexpected frames %v", rec.frames)
		}
		if rec.elapsed != 750*time.Millisecond {
			t.Errorf("expected 750ms elapsed, got %v", rec.elapsed)
		}
		if scheduler.GetStats().Frames != 2 {
			t.Errorf("expected 2 frames in stats")
		}
	})

	t.Run("commands become visible next frame", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		sum := &sumSystem{}
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&spawnOnce{})
		scheduler.Register(sum)

		scheduler.Once(0.016)
		if sum.Total != 0 {
			t.Errorf("spawn should be deferred, got total %v", sum.Total)
		}
		scheduler.Once(0.016)
		if sum.Total != 5 {
			t.Errorf("expected spawned gauge, got total %v", sum.Total)
		}
		if n := scheduler.GetStats().Commands; n != 1 {
			t.Errorf("expected 1 flushed command, got %d", n)
		}
	})

	t.Run("stats", func(t *testing.T) {
		scheduler := ecs.NewScheduler(ecs.NewStorage(newTestRegistry()))
		scheduler.Register(&sumSystem{})
		scheduler.Register(&frameRecorder{})

		stats := scheduler.GetStats()
		if stats.SystemCount != 2 || stats.TotalExecutions != 0 {
			t.Errorf("unexpected initial stats %+v", stats)
		}
		if stats.Systems[0].MinDuration != 0 {
			t.Error("min duration should be zero before the first run")
		}

		for range 3 {
			scheduler.Once(0.016)
		}
		stats = scheduler.GetStats()
		if stats.TotalExecutions != 6 {
			t.Errorf("expected 6 executions, got %d", stats.TotalExecutions)
		}
		if stats.Systems[0].Name != "sumSystem" || stats.Systems[1].Name != "frameRecorder" {
			t.Errorf("unexpected names %q %q", stats.Systems[0].Name, stats.Systems[1].Name)
		}
		for _, s := range stats.Systems {
			if s.MinDuration > s.AvgDuration || s.AvgDuration > s.MaxDuration {
				t.Errorf("durations out of order: %+v", s)
			}
		}
	})

	t.Run("run stops on cancellation", func(t *testing.T) {
		rec := &frameRecorder{}
		scheduler := ecs.NewScheduler(ecs.NewStorage(newTestRegistry()))
		scheduler.Register(rec)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			scheduler.Run(ctx, time.Millisecond)
			close(done)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop after context cancellation")
		}
		if len(rec.frames) == 0 {
			t.Error("expected at least one frame")
		}
	})
}
