package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/interstellar/config"
	"github.com/plus3/interstellar/sim"
)

type Report struct {
	Config *config.Config

	// Population
	Systems int
	Stars   int
	Fleets  int

	// Results
	GenerateTime   time.Duration
	TotalTicks     int64
	TotalTime      time.Duration
	TickTime       Stats
	Contacts       int64
	Arrived        int
	IndexedIds     int
	Scheduler      *sim.SchedulerStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]
	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Galaxy Simulation Report

## Configuration
- **Seed:** {{.Config.Galaxy.Seed}}
- **Star Formula:** {{.Config.Stars.Formula}} (IMF exponent {{.Config.Stars.IMFExponent}})
- **Broad Phase Cell:** {{.Config.Spatial.CellSize}} ly, prediction {{.Config.Spatial.PredictionDistance}} ly
- **Tick Rate:** {{.Config.Simulation.TickRate}}
- **Run Duration:** {{.Config.Simulation.Duration}}

## Population
- **Systems:** {{.Systems}} (generated in {{.GenerateTime}})
- **Stars:** {{.Stars}}
- **Fleets:** {{.Fleets}} ({{.Arrived}} arrived)
- **Indexed Ids:** {{.IndexedIds}}

## Performance
- **Total Ticks:** {{.TotalTicks}}
- **Total Time:** {{.TotalTime}}
- **Contacts Observed:** {{.Contacts}}
- **Tick Time:**
  - **Avg:** {{.TickTime.Avg}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}
{{with .Scheduler}}
## Systems
{{range .Systems}}- {{.Name}}: avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
