package main

import (
	"math/rand/v2"
	"time"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/ecs"
)

type Position struct{ X, Y float64 }

type Velocity struct{ X, Y float64 }

// Lifetime despawns an entity once Remaining drops to zero.
type Lifetime struct{ Remaining float64 }

func registerWorld(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Lifetime](registry)
}

func spawnRandomEntity(storage *ecs.Storage, rng *rand.Rand) {
	pos := Position{X: rng.Float64() * 1000, Y: rng.Float64() * 1000}
	vel := Velocity{X: rng.NormFloat64() * 10, Y: rng.NormFloat64() * 10}
	switch rng.IntN(3) {
	case 0:
		storage.Spawn(pos)
	case 1:
		storage.Spawn(pos, vel)
	default:
		storage.Spawn(pos, vel, Lifetime{Remaining: 1 + rng.Float64()*4})
	}
}

// MoveSystem integrates velocities.
type MoveSystem struct {
	Movers ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (s *MoveSystem) Execute(frame *ecs.UpdateFrame) {
	for m := range s.Movers.Values() {
		m.Position.X += m.Velocity.X * frame.DeltaTime
		m.Position.Y += m.Velocity.Y * frame.DeltaTime
	}
}

// ChurnSystem expires entities and spawns replacements so the archetypes
// keep changing while the overlay watches the entity count.
type ChurnSystem struct {
	Mortal ecs.Query[struct{ *Lifetime }]
	rng    *rand.Rand
}

func (s *ChurnSystem) Execute(frame *ecs.UpdateFrame) {
	for id, m := range s.Mortal.Iter() {
		m.Lifetime.Remaining -= frame.DeltaTime
		if m.Lifetime.Remaining > 0 {
			continue
		}
		frame.Commands.Delete(id)
		frame.Commands.Spawn(
			Position{X: s.rng.Float64() * 1000, Y: s.rng.Float64() * 1000},
			Velocity{X: s.rng.NormFloat64() * 10, Y: s.rng.NormFloat64() * 10},
			Lifetime{Remaining: 1 + s.rng.Float64()*4},
		)
	}
}

// clock serves the overlay's time entries from the scheduler's elapsed
// time. With a tick rate it also reports a fixed timestep.
type clock struct {
	start   time.Time
	elapsed time.Duration
	step    time.Duration
}

func (c *clock) Elapsed() time.Duration { return c.elapsed }
func (c *clock) Now() time.Time         { return c.start.Add(c.elapsed) }

func (c *clock) Fixed() (perfui.FixedTime, bool) {
	if c.step <= 0 {
		return perfui.FixedTime{}, false
	}
	return perfui.FixedTime{Timestep: c.step}, true
}

// ClockSystem advances the clock; it runs first.
type ClockSystem struct {
	Clock *clock
}

func (s *ClockSystem) Execute(frame *ecs.UpdateFrame) {
	s.Clock.elapsed = frame.Elapsed
}
