package voxel

import "thermworld/internal/material"

// ChunkCoord identifies a chunk by its world column coordinates.
type ChunkCoord struct {
	CX, CZ int
}

// World is a sparse map from (cx, cz) to a uniquely-owned Chunk, plus the
// Material Table shared by every chunk. Iteration order over Chunks is
// unspecified; callers that need determinism must sort the keys themselves.
type World struct {
	Chunks    map[ChunkCoord]*Chunk
	Materials *material.Table
}

// NewWorld returns an empty world seeded with a fresh material table (void
// already registered at index 0).
func NewWorld() *World {
	return &World{
		Chunks:    make(map[ChunkCoord]*Chunk),
		Materials: material.NewTable(),
	}
}

// Ensure returns the chunk at (cx, cz), creating a zero-initialized one if
// absent. Idempotent.
func (w *World) Ensure(cx, cz int) *Chunk {
	key := ChunkCoord{cx, cz}
	if c, ok := w.Chunks[key]; ok {
		return c
	}
	c := NewChunk(cx, cz)
	w.Chunks[key] = c
	return c
}

// Find returns the chunk at (cx, cz), or nil if it does not exist.
func (w *World) Find(cx, cz int) *Chunk {
	return w.Chunks[ChunkCoord{cx, cz}]
}

// NeighborSample is the result of resolving one axis-neighbor cell, possibly
// across a chunk boundary.
type NeighborSample struct {
	T      float32 // neighbor temperature, from its FRONT buffer
	MatIx  uint16  // neighbor material index; meaningless when !Exists
	Exists bool
}

// NeighborSample resolves the cell at (x+dx, y+dy, z+dz) relative to origin,
// crossing into neighbor chunks on X/Z and clamping (no wraparound) on Y.
// Exists is false when the Y coordinate leaves [0, ChunkH), or the resolved
// chunk is not present in the world. The temperature is always read from the
// neighbor's front buffer, never its back buffer, so a Jacobi-style stencil
// stays consistent regardless of chunk iteration order.
func (w *World) NeighborSample(origin *Chunk, x, y, z, dx, dy, dz int) NeighborSample {
	nx, ny, nz := x+dx, y+dy, z+dz

	if ny < 0 || ny >= ChunkH {
		return NeighborSample{MatIx: origin.VoidIx, Exists: false}
	}

	ncx, ncz := origin.CX, origin.CZ
	lx, lz := nx, nz

	switch {
	case nx < 0:
		ncx = origin.CX - 1
		lx = ChunkW - 1
	case nx >= ChunkW:
		ncx = origin.CX + 1
		lx = 0
	}
	switch {
	case nz < 0:
		ncz = origin.CZ - 1
		lz = ChunkD - 1
	case nz >= ChunkD:
		ncz = origin.CZ + 1
		lz = 0
	}

	cc := origin
	if ncx != origin.CX || ncz != origin.CZ {
		cc = w.Find(ncx, ncz)
		if cc == nil {
			return NeighborSample{MatIx: origin.VoidIx, Exists: false}
		}
	}

	i := CellIndex(lx, ny, lz)
	return NeighborSample{T: cc.Front[i], MatIx: cc.Mat[i], Exists: true}
}

// RecomputeAllSectionLoaded rescans every chunk in the world.
func (w *World) RecomputeAllSectionLoaded() {
	for _, c := range w.Chunks {
		c.RecomputeSectionLoaded()
	}
}
