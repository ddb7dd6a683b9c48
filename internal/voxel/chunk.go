package voxel

import "thermworld/internal/material"

// Chunk is a fixed-size 16x384x16 column of cells. Temperatures live in two
// separate buffers: Front is externally visible between ticks, Back is the
// staging buffer written by the in-progress tick. A tick's Publish phase
// swaps the two buffer handles in O(1); it never copies element by element.
type Chunk struct {
	Mat []uint16 // material index per cell

	Front []float32 // front temperature buffer, Kelvin
	Back  []float32 // back temperature buffer, Kelvin

	Mass []float32 // kilograms per cell; 0 iff the cell is void

	VoidIx uint16
	CX, CZ int

	// SectionLoaded[sy] is true iff section sy contains at least one
	// non-void cell. Determines which sections the kernel visits.
	SectionLoaded [SectionsY]bool

	// Per-tick timing, reported for observability only.
	LastChunkMs   float64
	LastSectionMs [SectionsY]float64
}

// NewChunk allocates a zero-initialized chunk at world coordinates (cx, cz).
// All cells start as void (material index 0, temperature 0, mass 0).
func NewChunk(cx, cz int) *Chunk {
	return &Chunk{
		Mat:    make([]uint16, ChunkN),
		Front:  make([]float32, ChunkN),
		Back:   make([]float32, ChunkN),
		Mass:   make([]float32, ChunkN),
		VoidIx: material.VoidIndex,
		CX:     cx,
		CZ:     cz,
	}
}

// FillSection sets every cell of section sy to (matIx, temp) in both
// buffers, deriving each cell's mass from the material's default mass (or
// zero if matIx is void). Out-of-range sy is a no-op, matching spec.md's
// "fails silently" contract. It also updates SectionLoaded for sy.
func (c *Chunk) FillSection(sy int, matIx uint16, temp float32, materials *material.Table) {
	if sy < 0 || sy >= SectionsY {
		return
	}
	mdef := materials.Get(matIx).DefaultMass
	mass := float32(0)
	if matIx != c.VoidIx {
		mass = mdef
	}

	y0 := sy * SectionEdge
	y1 := y0 + SectionEdge
	for z := 0; z < ChunkD; z++ {
		for y := y0; y < y1; y++ {
			for x := 0; x < ChunkW; x++ {
				i := CellIndex(x, y, z)
				c.Mat[i] = matIx
				c.Front[i] = temp
				c.Back[i] = temp
				c.Mass[i] = mass
			}
		}
	}
	c.MarkSectionLoaded(sy, matIx != c.VoidIx)
}

// MarkSectionLoaded explicitly sets the loaded flag for section sy.
func (c *Chunk) MarkSectionLoaded(sy int, loaded bool) {
	if sy < 0 || sy >= SectionsY {
		return
	}
	c.SectionLoaded[sy] = loaded
}

// RecomputeSectionLoaded fully rescans the chunk and derives SectionLoaded
// from Mat, per spec.md invariant 2.
func (c *Chunk) RecomputeSectionLoaded() {
	for sy := 0; sy < SectionsY; sy++ {
		y0 := sy * SectionEdge
		y1 := y0 + SectionEdge
		any := false
		for z := 0; z < ChunkD && !any; z++ {
			for y := y0; y < y1 && !any; y++ {
				for x := 0; x < ChunkW; x++ {
					if c.Mat[CellIndex(x, y, z)] != c.VoidIx {
						any = true
						break
					}
				}
			}
		}
		c.SectionLoaded[sy] = any
	}
}

// SetCell writes a single cell's material, temperature, and mass, writing
// both buffers so the next Publish does not reintroduce stale data. This is
// the single-cell primitive mutators (such as paint) use outside of a tick, per
// spec.md §4.2/§5's dual-write contract.
func (c *Chunk) SetCell(x, y, z int, matIx uint16, temp float32, materials *material.Table) {
	i := CellIndex(x, y, z)
	c.Mat[i] = matIx
	c.Front[i] = temp
	c.Back[i] = temp
	if matIx == c.VoidIx {
		c.Mass[i] = 0
	} else {
		c.Mass[i] = materials.Get(matIx).DefaultMass
	}
}

// SwapBuffers exchanges Front and Back in O(1) via a handle swap, the
// publish-phase primitive spec.md §4.5/§9 requires.
func (c *Chunk) SwapBuffers() {
	c.Front, c.Back = c.Back, c.Front
}
