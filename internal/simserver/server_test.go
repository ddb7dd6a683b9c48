package simserver

import (
	"testing"
	"time"

	"thermworld/internal/material"
	"thermworld/internal/voxel"
)

func newTestServer() (*Server, *voxel.Chunk, uint16) {
	w := voxel.NewWorld()
	solid := w.Materials.Add(material.Material{HeatCapacity: 500, ThermalConductivity: 100, DefaultMass: 1000})
	c := w.Ensure(0, 0)
	c.FillSection(8, solid, 300, w.Materials)
	hot := voxel.CellIndex(8, 8*voxel.SectionEdge+8, 8)
	c.Front[hot] = 6000
	c.Back[hot] = 6000
	return New(w, 1, 0), c, solid
}

func TestStepOnceAdvancesFrameCount(t *testing.T) {
	s, _, _ := newTestServer()
	if s.FramesSimulated() != 0 {
		t.Fatal("expected zero frames before any step")
	}
	s.StepOnce()
	if s.FramesSimulated() != 1 {
		t.Fatalf("expected 1 frame simulated, got %d", s.FramesSimulated())
	}
}

// Scenario E — pause/resume: run 10 ticks, pause, snapshot, sleep, snapshot
// again; front buffers must be bitwise-equal and frames_simulated must not
// advance while paused.
func TestScenarioPauseResumeFreezesState(t *testing.T) {
	s, c, _ := newTestServer()
	s.Start()
	defer func() {
		s.Stop()
		s.Join()
	}()

	for i := 0; i < 200 && s.FramesSimulated() < 10; i++ {
		time.Sleep(time.Millisecond)
	}
	if s.FramesSimulated() < 10 {
		t.Fatal("server did not reach 10 ticks in time")
	}

	s.SetPaused(true)
	time.Sleep(20 * time.Millisecond) // let the worker observe the pause

	var snap1 []float32
	s.TrySnapshot(func(w *voxel.World) {
		snap1 = append(snap1, c.Front...)
	})

	framesAtPause := s.FramesSimulated()
	time.Sleep(50 * time.Millisecond)

	var snap2 []float32
	s.TrySnapshot(func(w *voxel.World) {
		snap2 = append(snap2, c.Front...)
	})

	if s.FramesSimulated() != framesAtPause {
		t.Fatalf("frames_simulated advanced while paused: %d -> %d", framesAtPause, s.FramesSimulated())
	}
	if len(snap1) != len(snap2) {
		t.Fatal("snapshots have different lengths")
	}
	for i := range snap1 {
		if snap1[i] != snap2[i] {
			t.Fatalf("front buffer changed while paused at index %d: %v -> %v", i, snap1[i], snap2[i])
		}
	}
}

func TestWithWorldLockedDualWritesSurviveNextPublish(t *testing.T) {
	s, c, solid := newTestServer()

	s.WithWorldLocked(func(w *voxel.World) {
		c.SetCell(3, 8*voxel.SectionEdge+3, 3, solid, 1234, w.Materials)
	})

	s.StepOnce()

	i := voxel.CellIndex(3, 8*voxel.SectionEdge+3, 3)
	if c.Front[i] == 0 {
		t.Fatal("mutation should have survived the publish swap")
	}
}
