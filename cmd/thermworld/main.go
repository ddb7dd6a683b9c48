// Command thermworld runs the voxel thermal-diffusion core, either
// headless (optionally under stress growth) or with the ebiten-based
// renderer built separately in the ui/ submodule.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"thermworld/internal/growth"
	"thermworld/internal/simserver"
	"thermworld/internal/telemetry"
	"thermworld/internal/voxel"
)

func main() {
	stress := flag.Bool("stress", false, "enable spiral growth until the tick budget trips")
	headless := flag.Bool("headless", false, "do not start a renderer")
	seed := flag.Int64("seed", 0, "seed the growth RNG (default: nondeterministic)")
	dt := flag.Float64("dt", 1.0, "simulation tick interval, in seconds")
	sleepMs := flag.Int("sleep-ms", 1, "post-tick sleep, in milliseconds (0 for max speed)")
	telemetryDir := flag.String("telemetry", "", "directory to write per-tick CSV telemetry (disabled when empty)")
	flag.Parse()

	seedVal := *seed
	if !seedFlagWasSet() {
		seedVal = int64(rand.Uint64() >> 1)
	}

	w := voxel.NewWorld()
	server := simserver.New(w, float32(*dt), *sleepMs)

	telemetryWriter, err := telemetry.NewWriter(*telemetryDir)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	defer telemetryWriter.Close()

	if !*headless {
		runInteractive(server)
		return
	}

	if *stress {
		runHeadlessStress(server, seedVal, telemetryWriter)
		return
	}

	runHeadlessLogger(server, telemetryWriter)
}

func seedFlagWasSet() bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			set = true
		}
	})
	return set
}

// runInteractive is the exit point for any invocation that didn't pass
// --headless. This binary carries no renderer: the GUI lives in the ui/
// submodule's own cmd/thermworld-ui, which imports ebiten directly and
// does not need a build-tag stub here.
func runInteractive(server *simserver.Server) {
	fmt.Fprintln(os.Stderr, "thermworld core has no renderer; build and run ./ui/cmd/thermworld-ui for the interactive view.")
	fmt.Fprintln(os.Stderr, "Re-run with --headless to drive the core directly.")
	os.Exit(2)
}

func runHeadlessStress(server *simserver.Server, seed int64, tel *telemetry.Writer) {
	controller := growth.New(server, seed, os.Stdout)
	controller.SetTelemetry(tel)
	stopCh := make(chan struct{})

	server.Start()
	controller.Run(stopCh)
	server.Stop()
	server.Join()
}

func runHeadlessLogger(server *simserver.Server, tel *telemetry.Writer) {
	server.Start()
	defer func() {
		server.Stop()
		server.Join()
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		frames := server.FramesSimulated()
		fmt.Printf("frames=%d\n", frames)

		server.WithWorldLocked(func(w *voxel.World) {
			record := telemetry.SummaryRecord{
				Frame:               frames,
				WorldMs:             voxel.WorldTotalMsLast(w),
				ChunkCount:          len(w.Chunks),
				TotalSectionsLoaded: countLoadedSections(w),
			}
			if err := tel.WriteSummary(record); err != nil {
				log.Printf("telemetry: %v", err)
			}
			if err := tel.WriteChunkTimings(chunkTimingRecords(frames, w)); err != nil {
				log.Printf("telemetry: %v", err)
			}
		})
	}
}

func countLoadedSections(w *voxel.World) int {
	n := 0
	for _, c := range w.Chunks {
		for sy := 0; sy < voxel.SectionsY; sy++ {
			if c.SectionLoaded[sy] {
				n++
			}
		}
	}
	return n
}

func chunkTimingRecords(frame uint64, w *voxel.World) []telemetry.ChunkTimingRecord {
	records := make([]telemetry.ChunkTimingRecord, 0, len(w.Chunks))
	for coord, c := range w.Chunks {
		sections := 0
		for sy := 0; sy < voxel.SectionsY; sy++ {
			if c.SectionLoaded[sy] {
				sections++
			}
		}
		records = append(records, telemetry.ChunkTimingRecord{
			Frame:       frame,
			ChunkX:      coord.CX,
			ChunkZ:      coord.CZ,
			ChunkMs:     c.LastChunkMs,
			SectionsHot: sections,
		})
	}
	return records
}
