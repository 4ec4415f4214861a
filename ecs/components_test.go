package ecs_test

import "github.com/plus3/perfui/ecs"

type Gauge struct {
	Value float64
}

type Label struct {
	Text string
}

type Hidden struct{}

type Settings struct {
	Scale float64
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Gauge](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Hidden](registry)
	ecs.RegisterComponent[int](registry)
	ecs.RegisterComponent[string](registry)
	ecs.RegisterComponent[float64](registry)
	return registry
}
