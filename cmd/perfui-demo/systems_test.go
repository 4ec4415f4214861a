package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/ecs"
	"github.com/plus3/perfui/ecs/debugui"
	"github.com/plus3/perfui/ecsoverlay"
)

func TestBounceSystem(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Sprite](registry)
	storage := ecs.NewStorage(registry)
	storage.Spawn(Sprite{X: 99, Y: 50, VX: 10, VY: -10})

	scheduler := ecs.NewScheduler(storage)
	bounce := &BounceSystem{Width: 100, Height: 100}
	scheduler.Register(bounce)
	scheduler.Once(0.5)

	for item := range bounce.Sprites.Values() {
		assert.Equal(t, 100.0, item.X)
		assert.Equal(t, -10.0, item.VX)
		assert.Equal(t, 45.0, item.Y)
		assert.Equal(t, -10.0, item.VY)
	}
}

func TestToggleSystem(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecsoverlay.Register(registry)
	storage := ecs.NewStorage(registry)
	storage.AddSingleton(debugui.ImguiState{})
	ecsoverlay.Spawn(storage, perfui.DefaultRoot())

	scheduler := ecs.NewScheduler(storage)
	toggles := &ToggleSystem{}
	scheduler.Register(toggles)

	scheduler.Once(0.016)
	require.Equal(t, int64(1), scheduler.GetStats().Systems[0].SkipCount, "idle frames are skipped")

	toggles.hide, toggles.corner = true, true
	scheduler.Once(0.016)

	for item := range toggles.Roots.Values() {
		assert.True(t, item.Hidden)
		assert.Equal(t, perfui.BottomRight, item.Config.Position)
	}
	assert.True(t, ecs.ReadSingleton[debugui.ImguiState](storage).Hidden)
	assert.False(t, toggles.hide)
}

func TestNextCorner(t *testing.T) {
	c := perfui.TopLeft
	seen := map[perfui.Corner]bool{}
	for range 4 {
		seen[c] = true
		c = nextCorner(c)
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, perfui.TopLeft, c)
}
