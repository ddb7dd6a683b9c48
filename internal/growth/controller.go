// Package growth implements the spiral stress-growth controller: a second
// actor that keeps expanding the world until one simulated frame exceeds
// its real-time budget, then stops and reports a summary.
package growth

import (
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"thermworld/internal/core"
	"thermworld/internal/material"
	"thermworld/internal/simserver"
	"thermworld/internal/telemetry"
	"thermworld/internal/voxel"
)

const (
	heatCapMin, heatCapMax = 200, 1200
	kMin, kMax             = 1, 500
	massMin, massMax       = 500, 4000
	molarMin, molarMax     = 0.01, 0.10
	tempMin, tempMax       = 0, 6000

	bootstrapSectionY = 8
	sleepPerIteration  = 4 * time.Millisecond
	progressInterval   = 100 * time.Millisecond
	barWidth           = 40
)

// Summary captures the state of a trip event for the final report.
type Summary struct {
	Seed               int64
	TargetDTMs         float64
	ChunkCount         int
	TotalSectionsLoaded uint64
	WorldMs            float64
	MaxChunkMs         float64
	SumChunkMs         float64
}

// StressGrowthController drives a Server's World outward on a square spiral
// centered at chunk (0,0), adding random materials and sections until the
// measured world frame time exceeds the server's tick budget.
type StressGrowthController struct {
	server *simserver.Server
	rng    *core.RNG
	spiral *SpiralCursor
	seed   int64

	current *voxel.Chunk

	tripped             atomic.Bool
	totalSectionsLoaded atomic.Uint64
	lastWorldMsBits      atomic.Uint64
	iteration           uint64

	progress *core.FixedStep
	out      io.Writer
	tel      *telemetry.Writer
}

// SetTelemetry attaches a telemetry writer. Run then exports one
// chunk-timing-plus-summary row set per growth iteration, in addition to
// the progress-bar/summary-block stdout protocol. A nil writer (the
// default) disables export entirely.
func (c *StressGrowthController) SetTelemetry(tel *telemetry.Writer) {
	c.tel = tel
}

// New creates a controller and bootstraps the server's world with a single
// filled section at chunk (0,0), per the growth-termination invariant's
// starting condition. The server must not yet be simulating concurrently
// with this call.
func New(server *simserver.Server, seed int64, out io.Writer) *StressGrowthController {
	c := &StressGrowthController{
		server:   server,
		rng:      core.NewRNG(seed),
		spiral:   NewSpiralCursor(),
		seed:     seed,
		progress: core.NewFixedStep(int(time.Second / progressInterval)),
		out:      out,
	}

	server.WithWorldLocked(func(w *voxel.World) {
		firstMat := w.Materials.Add(c.randomMaterial())

		chunk := w.Ensure(0, 0)
		chunk.FillSection(bootstrapSectionY, firstMat, c.rng.Float32Range(tempMin, tempMax), w.Materials)
		c.current = chunk
	})
	c.totalSectionsLoaded.Store(1)

	return c
}

func (c *StressGrowthController) randomMaterial() material.Material {
	return material.Material{
		HeatCapacity:        c.rng.Float32Range(heatCapMin, heatCapMax),
		ThermalConductivity: c.rng.Float32Range(kMin, kMax),
		DefaultMass:         c.rng.Float32Range(massMin, massMax),
		MolarMass:           c.rng.Float32Range(molarMin, molarMax),
	}
}

// IsTripped reports whether the budget has been exceeded.
func (c *StressGrowthController) IsTripped() bool {
	return c.tripped.Load()
}

// LastWorldMs returns the most recently sampled world_total_ms_last value.
func (c *StressGrowthController) LastWorldMs() float64 {
	return math.Float64frombits(c.lastWorldMsBits.Load())
}

// Run drives growth iterations until tripped or stopCh is closed. It prints
// the progress bar roughly every 100 ms and, on trip, the final bar line
// followed by the "=== STRESS RESULT ===" summary block.
func (c *StressGrowthController) Run(stopCh <-chan struct{}) Summary {
	for {
		select {
		case <-stopCh:
			return c.summary()
		default:
		}

		var worldMs float64
		c.server.WithWorldLocked(func(w *voxel.World) {
			worldMs = voxel.WorldTotalMsLast(w)
		})
		c.lastWorldMsBits.Store(math.Float64bits(worldMs))

		targetMs := float64(c.server.DT()) * 1000

		if c.progress.ShouldStep() {
			c.printBar(worldMs, targetMs, false)
		}

		if worldMs > targetMs {
			c.tripped.Store(true)
			c.server.SetPaused(true)
			c.printBar(worldMs, targetMs, true)
			summary := c.summary()
			c.printSummary(summary)
			return summary
		}

		c.server.WithWorldLocked(func(w *voxel.World) {
			c.growOneStep(w)
			c.exportTelemetry(w)
		})

		time.Sleep(sleepPerIteration)
	}
}

// growOneStep performs one growth iteration's content-adding half (rule 3
// of the spiral growth contract). Caller must hold the world lock.
func (c *StressGrowthController) growOneStep(w *voxel.World) {
	sy := pickEmptySection(c.current, c.rng)
	if sy >= 0 {
		mat := w.Materials.Add(c.randomMaterial())
		c.current.FillSection(sy, mat, c.rng.Float32Range(tempMin, tempMax), w.Materials)
		c.totalSectionsLoaded.Add(1)
		return
	}

	ncx, ncz := c.spiral.Next()
	chunk := w.Ensure(ncx, ncz)
	mat := w.Materials.Add(c.randomMaterial())
	chunk.FillSection(bootstrapSectionY, mat, c.rng.Float32Range(tempMin, tempMax), w.Materials)
	c.current = chunk
	c.totalSectionsLoaded.Add(1)
}

// exportTelemetry writes one row set for the iteration just performed.
// Caller must hold the world lock. A nil c.tel makes every Writer method a
// no-op, so this is safe to call unconditionally.
func (c *StressGrowthController) exportTelemetry(w *voxel.World) {
	c.iteration++

	records := make([]telemetry.ChunkTimingRecord, 0, len(w.Chunks))
	for coord, ch := range w.Chunks {
		records = append(records, telemetry.ChunkTimingRecord{
			Frame:       c.iteration,
			ChunkX:      coord.CX,
			ChunkZ:      coord.CZ,
			ChunkMs:     ch.LastChunkMs,
			SectionsHot: countSectionsLoaded(ch),
		})
	}
	if err := c.tel.WriteChunkTimings(records); err != nil {
		fmt.Fprintf(c.out, "telemetry: %v\n", err)
	}

	summary := telemetry.SummaryRecord{
		Frame:               c.iteration,
		WorldMs:             voxel.WorldTotalMsLast(w),
		ChunkCount:          len(w.Chunks),
		TotalSectionsLoaded: int(c.totalSectionsLoaded.Load()),
	}
	if err := c.tel.WriteSummary(summary); err != nil {
		fmt.Fprintf(c.out, "telemetry: %v\n", err)
	}
}

func countSectionsLoaded(c *voxel.Chunk) int {
	n := 0
	for sy := 0; sy < voxel.SectionsY; sy++ {
		if c.SectionLoaded[sy] {
			n++
		}
	}
	return n
}

func pickEmptySection(c *voxel.Chunk, rng *core.RNG) int {
	var empty []int
	for sy := 0; sy < voxel.SectionsY; sy++ {
		if !c.SectionLoaded[sy] {
			empty = append(empty, sy)
		}
	}
	if len(empty) == 0 {
		return -1
	}
	return empty[rng.Uint16n(uint16(len(empty)))]
}

func (c *StressGrowthController) summary() Summary {
	var worldMs, maxChunk, sumChunk float64
	var chunkCount int
	c.server.WithWorldLocked(func(w *voxel.World) {
		chunkCount = len(w.Chunks)
		for _, ch := range w.Chunks {
			sumChunk += ch.LastChunkMs
			if ch.LastChunkMs > maxChunk {
				maxChunk = ch.LastChunkMs
			}
		}
		worldMs = voxel.WorldTotalMsLast(w)
	})
	return Summary{
		Seed:                c.seed,
		TargetDTMs:          float64(c.server.DT()) * 1000,
		ChunkCount:          chunkCount,
		TotalSectionsLoaded: c.totalSectionsLoaded.Load(),
		WorldMs:             worldMs,
		MaxChunkMs:          maxChunk,
		SumChunkMs:          sumChunk,
	}
}

func (c *StressGrowthController) printBar(worldMs, targetMs float64, final bool) {
	if c.out == nil {
		return
	}
	frac := 0.0
	if targetMs > 0 {
		frac = worldMs / targetMs
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(barWidth))
	bar := make([]byte, barWidth)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = ' '
		}
	}
	line := fmt.Sprintf("[%s] %.2f / %.2f ms (%.1f%%)", string(bar), worldMs, targetMs, frac*100)
	if final {
		fmt.Fprintln(c.out, "\r"+line)
	} else {
		fmt.Fprint(c.out, "\r"+line)
	}
}

func (c *StressGrowthController) printSummary(s Summary) {
	if c.out == nil {
		return
	}
	fmt.Fprintln(c.out, "\n=== STRESS RESULT ===")
	fmt.Fprintf(c.out, "Seed: %d\n", s.Seed)
	fmt.Fprintf(c.out, "Target dt: %.3f ms\n", s.TargetDTMs)
	fmt.Fprintf(c.out, "Total chunks: %d\n", s.ChunkCount)
	fmt.Fprintf(c.out, "Total sections loaded: %d (max per chunk: %d)\n", s.TotalSectionsLoaded, voxel.SectionsY)
	fmt.Fprintf(c.out, "World frame time: %.3f ms (max chunk: %.3f ms, sum: %.3f ms)\n", s.WorldMs, s.MaxChunkMs, s.SumChunkMs)
}

// Parameters reports the controller's tunables for HUD/telemetry consumers.
func (c *StressGrowthController) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{
		Groups: []core.ParameterGroup{
			{
				Name: "Growth",
				Params: []core.Parameter{
					{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Value: fmt.Sprintf("%d", c.seed)},
					{Key: "tripped", Label: "Tripped", Type: core.ParamTypeBool, Value: fmt.Sprintf("%v", c.IsTripped())},
					{Key: "total_sections_loaded", Label: "Total sections loaded", Type: core.ParamTypeInt, Value: fmt.Sprintf("%d", c.totalSectionsLoaded.Load())},
				},
			},
		},
	}
}
