package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/perfui/ecs"
)

// Report summarizes one benchmark run.
type Report struct {
	Duration time.Duration
	Entities int
	Rows     int
	TPS      int

	Frames        Durations
	Wall          time.Duration
	FinalEntities int
	Scheduler     *ecs.SchedulerStats
	// Overlays holds the last terminal render of each overlay.
	Overlays []string

	GCPauseMetrics bool
	MemBefore      runtime.MemStats
	MemAfter       runtime.MemStats
}

// Durations collects per-frame update times.
type Durations struct {
	Samples []time.Duration

	Min, Max, Avg, P99 time.Duration
}

func (d *Durations) Add(v time.Duration) {
	d.Samples = append(d.Samples, v)
}

// Finalize computes the summary fields. Samples keep their order.
func (d *Durations) Finalize() {
	if len(d.Samples) == 0 {
		return
	}
	sorted := slices.Clone(d.Samples)
	slices.Sort(sorted)

	var total time.Duration
	for _, v := range sorted {
		total += v
	}
	d.Avg = total / time.Duration(len(sorted))
	d.Min, d.Max = sorted[0], sorted[len(sorted)-1]
	d.P99 = sorted[(len(sorted)-1)*99/100]
}

// OverlayShare is the fraction of system time spent in the overlay system.
func (r *Report) OverlayShare() (float64, bool) {
	if r.Scheduler == nil {
		return 0, false
	}
	var total, overlay time.Duration
	for _, s := range r.Scheduler.Systems {
		total += s.TotalDuration
		if s.Name == "OverlaySystem" {
			overlay += s.TotalDuration
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(overlay) / float64(total), true
}

const reportTemplate = `# perfui Benchmark Report

## Run
- **Duration:** {{.Duration}} ({{.Wall}} wall)
- **Entities:** {{.Entities}} initial, {{.FinalEntities}} final
- **Overlay Rows:** {{.Rows}}
- **Tick Rate:** {{if .TPS}}{{.TPS}}/s{{else}}unbounded{{end}}

## Frames
- **Updates:** {{len .Frames.Samples}}
- **Avg / Min / Max:** {{.Frames.Avg}} / {{.Frames.Min}} / {{.Frames.Max}}
- **P99:** {{.Frames.P99}}
{{with .Scheduler}}
## Systems
| System | Runs | Skips | Avg | Max |
|---|---|---|---|---|
{{range .Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.SkipCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{end}}
Buffered commands flushed: {{.Commands}}
{{end}}{{with share .}}
Overlay share of system time: {{.}}
{{end}}
## Memory
| | Before | After |
|---|---|---|
| Heap Alloc (MiB) | {{mb .MemBefore.HeapAlloc}} | {{mb .MemAfter.HeapAlloc}} |
| Total Alloc (MiB) | {{mb .MemBefore.TotalAlloc}} | {{mb .MemAfter.TotalAlloc}} |
| Sys (MiB) | {{mb .MemBefore.Sys}} | {{mb .MemAfter.Sys}} |
| GC Cycles | {{.MemBefore.NumGC}} | {{.MemAfter.NumGC}} |
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{ns .MemAfter.PauseTotalNs}}
{{end}}{{if .Overlays}}
## Final Overlay
{{range .Overlays}}
{{.}}
{{end}}{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"share": func(r *Report) string {
			if f, ok := r.OverlayShare(); ok {
				return fmt.Sprintf("%.1f%%", f*100)
			}
			return ""
		},
	}
	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
