// Command perfui-bench runs a headless ECS workload with the performance
// overlay attached and prints the overlay to the terminal while it runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/config"
	"github.com/plus3/perfui/diag"
	"github.com/plus3/perfui/diag/systems"
	"github.com/plus3/perfui/ecs"
	"github.com/plus3/perfui/ecsoverlay"
	"github.com/plus3/perfui/term"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the run should last.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	tps := flag.Int("tps", 0, "Updates per second; 0 runs as fast as possible.")
	configPath := flag.String("config", "", "Overlay YAML file; defaults to perfui.yaml in the working directory.")
	live := flag.Duration("live", time.Second, "Interval between overlay prints; 0 disables them.")
	color := flag.Bool("color", false, "Print the overlay with 24-bit colors.")
	verbose := flag.Bool("v", false, "Log overlay debug messages to stderr.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	if *verbose {
		perfui.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load overlay config: %v", err)
	}
	root, widgets, err := cfg.Build()
	if err != nil {
		log.Fatalf("Invalid overlay config: %v", err)
	}

	log.Println("Starting perfui benchmark...")

	registry := ecs.NewComponentRegistry()
	registerWorld(registry)
	ecsoverlay.Register(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	clk := &clock{start: time.Now()}
	if *tps > 0 {
		clk.step = time.Second / time.Duration(*tps)
	}
	storage.AddSingleton(ecsoverlay.Services{Clock: clk})

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	sampler := systems.NewSampler(0)
	stopSampler := sampler.Start(ctx)
	defer stopSampler()

	rng := rand.New(rand.NewPCG(1, 2))
	scheduler.Register(&ClockSystem{Clock: clk})
	systems.Register(scheduler, diag.NewStore(), clk.start)
	scheduler.Register(&systems.SystemInfoSystem{Sampler: sampler})
	scheduler.Register(&MoveSystem{})
	scheduler.Register(&ChurnSystem{rng: rng})
	overlays := &ecsoverlay.OverlaySystem{}
	scheduler.Register(overlays)

	log.Printf("Populating storage with %d entities...\n", *entityCount)
	for range *entityCount {
		spawnRandomEntity(storage, rng)
	}
	ecsoverlay.Spawn(storage, root, widgets...)

	renderer := term.NewPlainRenderer()
	if *color {
		renderer = term.NewTrueColorRenderer()
	}

	report := &Report{
		Duration: *duration,
		Entities: *entityCount,
		Rows:     len(widgets),
		TPS:      *tps,

		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemBefore)

	log.Printf("Running for %s...\n", *duration)
	startTime := time.Now()
	lastFrameTime := startTime
	lastPrint := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		deltaTime := time.Since(lastFrameTime)
		lastFrameTime = time.Now()

		updateStart := time.Now()
		scheduler.Once(deltaTime.Seconds())
		report.Frames.Add(time.Since(updateStart))

		if *live > 0 && time.Since(lastPrint) >= *live {
			lastPrint = time.Now()
			for _, o := range overlays.Overlays() {
				fmt.Println(renderer.Render(o))
			}
		}

		if clk.step > 0 {
			if wait := clk.step - time.Since(lastFrameTime); wait > 0 {
				time.Sleep(wait)
			}
		}
	}

	report.Wall = time.Since(startTime)
	report.Frames.Finalize()
	runtime.ReadMemStats(&report.MemAfter)
	report.Scheduler = scheduler.GetStats()
	report.FinalEntities = storage.EntityCount()
	for _, o := range overlays.Overlays() {
		report.Overlays = append(report.Overlays, renderer.Render(o))
	}

	log.Println("Run finished.")

	fmt.Println("\n\n--- perfui Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOptional(".")
}
