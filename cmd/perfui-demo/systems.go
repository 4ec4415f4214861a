package main

import (
	"image/color"
	"math/rand/v2"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/ecs"
	"github.com/plus3/perfui/ecs/debugui"
	"github.com/plus3/perfui/ecsoverlay"
)

// Sprite is a point bouncing inside the window.
type Sprite struct {
	X, Y   float64
	VX, VY float64
	Color  color.RGBA
}

func newSprite(rng *rand.Rand, w, h float64) Sprite {
	return Sprite{
		X:     rng.Float64() * w,
		Y:     rng.Float64() * h,
		VX:    (rng.Float64() - 0.5) * 240,
		VY:    (rng.Float64() - 0.5) * 240,
		Color: color.RGBA{R: uint8(96 + rng.IntN(160)), G: uint8(96 + rng.IntN(160)), B: 0xff, A: 0xff},
	}
}

type BounceSystem struct {
	Sprites       ecs.Query[struct{ *Sprite }]
	Width, Height float64
}

func (s *BounceSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Sprites.Values() {
		sp := item.Sprite
		sp.X += sp.VX * frame.DeltaTime
		sp.Y += sp.VY * frame.DeltaTime
		if sp.X < 0 || sp.X > s.Width {
			sp.VX = -sp.VX
			sp.X = min(max(sp.X, 0), s.Width)
		}
		if sp.Y < 0 || sp.Y > s.Height {
			sp.VY = -sp.VY
			sp.Y = min(max(sp.Y, 0), s.Height)
		}
	}
}

// ToggleSystem applies key presses recorded by the game loop: hide flips
// every overlay and the imgui windows, corner moves overlays clockwise.
type ToggleSystem struct {
	Roots ecs.Query[struct{ *ecsoverlay.Root }]
	Imgui ecs.Singleton[debugui.ImguiState]

	hide   bool
	corner bool
}

func (s *ToggleSystem) ShouldRun(*ecs.UpdateFrame) bool {
	return s.hide || s.corner
}

func (s *ToggleSystem) Execute(*ecs.UpdateFrame) {
	for item := range s.Roots.Values() {
		if s.hide {
			item.Hidden = !item.Hidden
		}
		if s.corner {
			item.Config.Position = nextCorner(item.Config.Position)
		}
	}
	if state := s.Imgui.Get(); state != nil && s.hide {
		state.Hidden = !state.Hidden
	}
	s.hide, s.corner = false, false
}

func nextCorner(c perfui.Corner) perfui.Corner {
	switch c {
	case perfui.TopLeft:
		return perfui.TopRight
	case perfui.TopRight:
		return perfui.BottomRight
	case perfui.BottomRight:
		return perfui.BottomLeft
	default:
		return perfui.TopLeft
	}
}
