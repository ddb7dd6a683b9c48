package voxel

import "testing"

func TestEnsureIsIdempotent(t *testing.T) {
	w := NewWorld()
	a := w.Ensure(3, -2)
	b := w.Ensure(3, -2)
	if a != b {
		t.Fatal("Ensure should return the same chunk for the same coordinates")
	}
}

func TestFindMissingReturnsNil(t *testing.T) {
	w := NewWorld()
	if w.Find(9, 9) != nil {
		t.Fatal("expected nil for an absent chunk")
	}
}

func TestNeighborSampleYClampsNoWraparound(t *testing.T) {
	w, _, solid := newTestWorld()
	c := w.Ensure(0, 0)
	c.FillSection(0, solid, 123, w.Materials)

	below := w.NeighborSample(c, 5, 0, 5, 0, -1, 0)
	if below.Exists {
		t.Fatal("y-1 below the world should not exist")
	}

	above := w.NeighborSample(c, 5, ChunkH-1, 5, 0, 1, 0)
	if above.Exists {
		t.Fatal("y+1 above the world should not exist")
	}
}

func TestNeighborSampleCrossesChunkBoundaryOnXZ(t *testing.T) {
	w, _, solid := newTestWorld()
	c0 := w.Ensure(0, 0)
	c1 := w.Ensure(1, 0)
	c0.FillSection(8, solid, 1000, w.Materials)
	c1.FillSection(8, solid, 0, w.Materials)

	// Cell (15, 128, 8) in chunk (0,0), its +X neighbor is (0, 128, 8) in chunk (1,0).
	nb := w.NeighborSample(c0, 15, 128, 8, 1, 0, 0)
	if !nb.Exists {
		t.Fatal("expected the cross-chunk neighbor to exist")
	}
	if nb.T != 0 {
		t.Fatalf("expected neighbor temperature 0, got %v", nb.T)
	}
	if nb.MatIx != solid {
		t.Fatalf("expected neighbor material %d, got %d", solid, nb.MatIx)
	}
}

func TestNeighborSampleMissingChunkDoesNotExist(t *testing.T) {
	w, _, solid := newTestWorld()
	c0 := w.Ensure(0, 0)
	c0.FillSection(8, solid, 1000, w.Materials)

	nb := w.NeighborSample(c0, 15, 128, 8, 1, 0, 0)
	if nb.Exists {
		t.Fatal("neighbor chunk was never created, should not exist")
	}
}
