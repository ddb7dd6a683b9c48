package growth

import (
	"bytes"
	"testing"
	"time"

	"thermworld/internal/simserver"
	"thermworld/internal/voxel"
)

// Invariant 8 / Scenario F — growth termination and stress trip. With a
// fixed seed and dt=1s, the controller must eventually trip exactly once,
// pause the server, and stop adding chunks/sections.
func TestGrowthTripsAndStopsAddingContent(t *testing.T) {
	w := voxel.NewWorld()
	server := simserver.New(w, 1, 0)

	var out bytes.Buffer
	controller := New(server, 1, &out)

	stopCh := make(chan struct{})
	done := make(chan Summary, 1)
	go func() {
		done <- controller.Run(stopCh)
	}()

	server.Start()

	var summary Summary
	select {
	case summary = <-done:
	case <-time.After(90 * time.Second):
		close(stopCh)
		t.Fatal("growth controller did not trip within timeout")
	}
	server.Stop()
	server.Join()

	if !controller.IsTripped() {
		t.Fatal("expected controller to be tripped")
	}
	if summary.Seed != 1 {
		t.Fatalf("expected seed 1 in summary, got %d", summary.Seed)
	}
	if summary.WorldMs <= summary.TargetDTMs {
		t.Fatalf("expected world_ms > target dt at trip, got world=%v target=%v", summary.WorldMs, summary.TargetDTMs)
	}

	chunksAfterTrip := len(w.Chunks)
	sectionsAfterTrip := 0
	for _, c := range w.Chunks {
		for sy := 0; sy < voxel.SectionsY; sy++ {
			if c.SectionLoaded[sy] {
				sectionsAfterTrip++
			}
		}
	}

	time.Sleep(200 * time.Millisecond)

	if len(w.Chunks) != chunksAfterTrip {
		t.Fatalf("chunk count changed after trip: %d -> %d", chunksAfterTrip, len(w.Chunks))
	}
	sectionsNow := 0
	for _, c := range w.Chunks {
		for sy := 0; sy < voxel.SectionsY; sy++ {
			if c.SectionLoaded[sy] {
				sectionsNow++
			}
		}
	}
	if sectionsNow != sectionsAfterTrip {
		t.Fatalf("section count changed after trip: %d -> %d", sectionsAfterTrip, sectionsNow)
	}
	if !bytes.Contains(out.Bytes(), []byte("=== STRESS RESULT ===")) {
		t.Fatal("expected the summary block to be printed")
	}
}

func TestSpiralCursorLegLengthsGrowAfterEveryTwoLegs(t *testing.T) {
	s := NewSpiralCursor()
	var coords [][2]int
	for i := 0; i < 8; i++ {
		x, z := s.Next()
		coords = append(coords, [2]int{x, z})
	}
	want := [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	for i, w := range want {
		if coords[i] != w {
			t.Fatalf("step %d: got %v, want %v", i, coords[i], w)
		}
	}
}
