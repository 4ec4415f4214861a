package ebiten_test

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/diag"
	"github.com/plus3/perfui/ecs"
	"github.com/plus3/perfui/ecs/debugui"
	debugui_ebiten "github.com/plus3/perfui/ecs/debugui/ebiten"
	"github.com/plus3/perfui/ecsoverlay"
	"github.com/plus3/perfui/entries"
)

// Game implements ebiten.Game and runs the ECS with the overlay windows.
type Game struct {
	scheduler    *ecs.Scheduler
	imguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func (g *Game) Update() error {
	g.imguiBackend.Get().Frame(func() {
		g.scheduler.Once(1.0 / 60.0)
	})
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.imguiBackend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	registry := ecs.NewComponentRegistry()
	debugui.RegisterComponents(registry)
	ecsoverlay.Register(registry)

	storage := ecs.NewStorage(registry)
	storage.AddSingleton(debugui.ImguiState{})
	storage.AddSingleton(diag.NewStore())
	ecs.NewSingleton(storage, debugui_ebiten.NewImguiBackend("perfui", 1280, 720))

	ecsoverlay.Spawn(storage, perfui.DefaultRoot(), entries.All()...)

	overlays := &ecsoverlay.OverlaySystem{}
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(overlays)
	scheduler.Register(&debugui.ImguiSystem{})

	storage.Spawn(debugui.NewOverlayItem("Overlay", overlays.Overlays))
	storage.Spawn(debugui.NewStatsWindow(scheduler, 120).Item())

	game := &Game{
		scheduler:    scheduler,
		imguiBackend: ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage),
	}
	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
