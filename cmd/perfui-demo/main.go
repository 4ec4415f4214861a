// Command perfui-demo opens a window with bouncing sprites, the performance
// overlay drawn by ebiten, and imgui windows mirroring the overlay and the
// scheduler statistics. F12 toggles everything; F10 moves the overlay to
// the next corner.
package main

import (
	"context"
	"flag"
	"image/color"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/config"
	"github.com/plus3/perfui/diag"
	"github.com/plus3/perfui/diag/systems"
	perfuiebiten "github.com/plus3/perfui/ebiten"
	"github.com/plus3/perfui/ecs"
	"github.com/plus3/perfui/ecs/debugui"
	debugui_ebiten "github.com/plus3/perfui/ecs/debugui/ebiten"
	"github.com/plus3/perfui/ecsoverlay"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

type Game struct {
	storage      *ecs.Storage
	scheduler    *ecs.Scheduler
	overlays     *ecsoverlay.OverlaySystem
	toggles      *ToggleSystem
	clock        *perfuiebiten.Clock
	renderer     *perfuiebiten.Renderer
	sprites      ecs.Query[struct{ *Sprite }]
	imguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func (g *Game) Update() error {
	g.clock.Tick()
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.toggles.hide = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		g.toggles.corner = true
	}

	g.imguiBackend.Get().Frame(func() {
		g.scheduler.Once(1.0 / float64(ebiten.TPS()))
	})
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x18, G: 0x1c, B: 0x24, A: 0xff})

	g.sprites.Execute()
	for s := range g.sprites.Values() {
		vector.DrawFilledRect(screen, float32(s.X)-2, float32(s.Y)-2, 4, 4, s.Color, false)
	}

	for _, o := range g.overlays.Overlays() {
		g.renderer.Draw(screen, o)
	}
	g.imguiBackend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func main() {
	configPath := flag.String("config", "", "Overlay YAML file; defaults to perfui.yaml in the working directory.")
	sprites := flag.Int("sprites", 2000, "Number of bouncing sprites.")
	verbose := flag.Bool("v", false, "Log overlay debug messages to stderr.")
	flag.Parse()

	if *verbose {
		perfui.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadOptional(".")
	}
	if err != nil {
		log.Fatalf("Failed to load overlay config: %v", err)
	}
	root, widgets, err := cfg.Build()
	if err != nil {
		log.Fatalf("Invalid overlay config: %v", err)
	}

	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Sprite](registry)
	ecsoverlay.Register(registry)
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	imguiBackend := debugui_ebiten.NewImguiBackend("perfui demo", screenWidth, screenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ecs.NewSingleton(storage, imguiBackend)
	storage.AddSingleton(debugui.ImguiState{})

	clock := perfuiebiten.NewClock()
	storage.AddSingleton(ecsoverlay.Services{Clock: clock, Window: perfuiebiten.Window{}})

	store := diag.NewStore()
	sampler := systems.NewSampler(0)
	stop := sampler.Start(context.Background())
	defer stop()

	scheduler := ecs.NewScheduler(storage)
	systems.Register(scheduler, store, clock.Now())
	scheduler.Register(&systems.SystemInfoSystem{Sampler: sampler})
	scheduler.Register(&BounceSystem{Width: screenWidth, Height: screenHeight})
	toggles := &ToggleSystem{}
	scheduler.Register(toggles)
	overlays := &ecsoverlay.OverlaySystem{}
	scheduler.Register(overlays)
	scheduler.Register(&debugui.ImguiSystem{})

	rng := rand.New(rand.NewPCG(7, 11))
	for range *sprites {
		storage.Spawn(newSprite(rng, screenWidth, screenHeight))
	}
	ecsoverlay.Spawn(storage, root, widgets...)
	storage.Spawn(debugui.NewOverlayItem("Overlay", overlays.Overlays))
	storage.Spawn(debugui.NewStatsWindow(scheduler, 120).Item())

	game := &Game{
		storage:      storage,
		scheduler:    scheduler,
		overlays:     overlays,
		toggles:      toggles,
		clock:        clock,
		renderer:     perfuiebiten.NewRenderer(store),
		imguiBackend: ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage),
	}
	game.sprites.Init(storage)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
