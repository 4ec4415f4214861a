package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/perfui/ecs"
)

// StatsWindow shows storage occupancy, a frame time graph and per-system
// timings of a scheduler.
type StatsWindow struct {
	scheduler *ecs.Scheduler
	history   []float32
	index     int
	filled    int
	last      time.Time
	now       func() time.Time
}

func NewStatsWindow(scheduler *ecs.Scheduler, historyFrames int) *StatsWindow {
	return &StatsWindow{
		scheduler: scheduler,
		history:   make([]float32, max(historyFrames, 1)),
		now:       time.Now,
	}
}

// Item wraps the window for spawning.
func (w *StatsWindow) Item() ImguiItem {
	return ImguiItem{Render: w.Render}
}

// record stores the wall time since the previous call in milliseconds.
func (w *StatsWindow) record() {
	now := w.now()
	if !w.last.IsZero() {
		w.history[w.index] = float32(now.Sub(w.last).Seconds() * 1000)
		w.index = (w.index + 1) % len(w.history)
		w.filled = min(w.filled+1, len(w.history))
	}
	w.last = now
}

// average is the mean recorded frame time in milliseconds.
func (w *StatsWindow) average() (float32, bool) {
	if w.filled == 0 {
		return 0, false
	}
	var sum float32
	for _, ft := range w.history[:w.filled] {
		sum += ft
	}
	return sum / float32(w.filled), true
}

func (w *StatsWindow) Render() {
	w.record()

	imgui.SetNextWindowPosV(imgui.NewVec2(340, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 400), imgui.CondOnce)
	if !imgui.BeginV("Scheduler Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := w.scheduler.Storage().CollectStats()
	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	if avg, ok := w.average(); ok && avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &w.history[0], int32(len(w.history)))

	sched := w.scheduler.GetStats()
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Frames: %d  Runs: %d  Skips: %d  Commands: %d", sched.Frames, sched.TotalExecutions, sched.TotalSkips, sched.Commands))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("System")
		imgui.TableSetupColumn("Runs")
		imgui.TableSetupColumn("Skips")
		imgui.TableSetupColumn("Last")
		imgui.TableSetupColumn("Avg / Max")
		imgui.TableHeadersRow()

		for _, s := range sched.Systems {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(s.Name)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", s.SkipCount))
			imgui.TableNextColumn()
			imgui.Text(s.LastDuration.String())
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%s / %s", s.AvgDuration, s.MaxDuration))
		}
		imgui.EndTable()
	}

	if imgui.TreeNodeStr("Archetype Details") {
		if imgui.BeginTableV("ArchStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Archetype ID")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, arch := range stats.ArchetypeBreakdown {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("0x%X", arch.ID))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", len(arch.ComponentTypes)))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singleton Details") {
		for _, name := range stats.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}

	imgui.End()
}
