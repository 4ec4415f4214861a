// Package systems feeds a diag.Store from an ECS world: frame timing, entity
// counts and process resource usage.
package systems

import (
	"time"

	"github.com/plus3/perfui/diag"
	"github.com/plus3/perfui/ecs"
)

// Register adds store as a singleton and registers the frame time and
// entity count systems. Timestamps are taken relative to start.
func Register(scheduler *ecs.Scheduler, store *diag.Store, start time.Time) {
	scheduler.Storage().AddSingleton(store)
	scheduler.Register(&FrameTimeSystem{Start: start})
	scheduler.Register(&EntityCountSystem{Start: start})
}

func stamp(start *time.Time, frame *ecs.UpdateFrame) time.Time {
	if start.IsZero() {
		*start = time.Now().Add(-frame.Elapsed)
	}
	return start.Add(frame.Elapsed)
}

// FrameTimeSystem records fps, frame_time in milliseconds and frame_count.
type FrameTimeSystem struct {
	Diagnostics ecs.Singleton[diag.Store]
	// Start anchors measurement times; zero means the first frame.
	Start time.Time
}

func (s *FrameTimeSystem) Execute(frame *ecs.UpdateFrame) {
	store := s.Diagnostics.Get()
	if store == nil {
		return
	}
	at := stamp(&s.Start, frame)
	if frame.DeltaTime > 0 {
		store.Add(diag.FPS, 1/frame.DeltaTime, at)
		store.Add(diag.FrameTime, frame.DeltaTime*1000, at)
	}
	store.Add(diag.FrameCount, float64(frame.Frame), at)
}

// EntityCountSystem records entity_count.
type EntityCountSystem struct {
	Diagnostics ecs.Singleton[diag.Store]
	Start       time.Time
}

func (s *EntityCountSystem) Execute(frame *ecs.UpdateFrame) {
	store := s.Diagnostics.Get()
	if store == nil {
		return
	}
	store.Add(diag.EntityCount, float64(frame.Storage.EntityCount()), stamp(&s.Start, frame))
}
