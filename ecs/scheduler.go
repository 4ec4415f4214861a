package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats is a snapshot of scheduler activity.
type SchedulerStats struct {
	SystemCount     int
	Frames          uint64
	TotalExecutions int64
	TotalSkips      int64
	// Commands is the number of buffered commands flushed so far.
	Commands int64
	Systems  []SystemStats
}

// SystemStats describes one registered system. Durations are zero until
// the system has run once.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	// SkipCount is the number of frames a Conditional system declined.
	SkipCount     int64
	MinDuration   time.Duration
	MaxDuration   time.Duration
	AvgDuration   time.Duration
	LastDuration  time.Duration
	TotalDuration time.Duration
}

func (s *SystemStats) record(d time.Duration) {
	if s.ExecutionCount == 0 || d < s.MinDuration {
		s.MinDuration = d
	}
	s.MaxDuration = max(s.MaxDuration, d)
	s.ExecutionCount++
	s.LastDuration = d
	s.TotalDuration += d
	s.AvgDuration = s.TotalDuration / time.Duration(s.ExecutionCount)
}

// fieldInit is implemented by the Query and Singleton system fields.
type fieldInit interface {
	Init(storage *Storage)
}

// executable is a Query field; it is refreshed before its system runs.
type executable interface {
	Execute()
}

type registeredSystem struct {
	system  System
	queries []executable
	stats   SystemStats
}

// Scheduler runs systems in registration order against one storage.
type Scheduler struct {
	storage  *Storage
	systems  []*registeredSystem
	frame    uint64
	elapsed  time.Duration
	commands int64
}

func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register adds a system. Exported Query and Singleton fields of a struct
// system are bound to the scheduler's storage here.
func (s *Scheduler) Register(system System) {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.systems = append(s.systems, &registeredSystem{
		system:  system,
		queries: s.bindFields(system),
		stats:   SystemStats{Name: t.Name()},
	})
}

func (s *Scheduler) bindFields(system System) []executable {
	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var queries []executable
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		init, ok := field.Addr().Interface().(fieldInit)
		if !ok {
			continue
		}
		init.Init(s.storage)
		if q, ok := init.(executable); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

// Once runs every system for one frame of dt seconds. Each system's
// queries are executed right before it runs, so it sees the entities
// present at that point; structural changes made through Commands apply
// after the last system.
func (s *Scheduler) Once(dt float64) {
	s.frame++
	s.elapsed += time.Duration(dt * float64(time.Second))
	frame := newUpdateFrame(dt, s.frame, s.elapsed, s.storage)

	for _, rs := range s.systems {
		for _, q := range rs.queries {
			q.Execute()
		}
		if c, ok := rs.system.(Conditional); ok && !c.ShouldRun(frame) {
			rs.stats.SkipCount++
			continue
		}
		start := time.Now()
		rs.system.Execute(frame)
		rs.stats.record(time.Since(start))
	}

	s.commands += int64(frame.Commands.Flush(s.storage))
}

// Run calls Once every interval, with the measured delta time, until ctx
// is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Once(now.Sub(last).Seconds())
			last = now
		}
	}
}

func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// GetStats returns a copy of the current statistics.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frame,
		Commands:    s.commands,
		Systems:     make([]SystemStats, len(s.systems)),
	}
	for i, rs := range s.systems {
		stats.Systems[i] = rs.stats
		stats.TotalExecutions += rs.stats.ExecutionCount
		stats.TotalSkips += rs.stats.SkipCount
	}
	return stats
}
