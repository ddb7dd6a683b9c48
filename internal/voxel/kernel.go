package voxel

import "thermworld/internal/material"

// minHeatCapacity floors a cell's thermal capacity away from zero so a
// division by (mass*c) never blows up for a freshly-created, near-massless
// cell.
const minHeatCapacity = 1e-8

// MaxTemperature is the defensive clamp ceiling. Spec parity note (i): this
// 6000 K bound is unrelated to any physical rationale and is retained only
// because the source this engine is modeled on used it; it is not a
// correctness mechanism.
const MaxTemperature = 6000

// SimulateSection runs one explicit forward-Euler conduction step over
// every cell of section sy of chunk c, writing Back and leaving Front
// untouched. Missing neighbors (world edge, outside [0, ChunkH), or void)
// contribute zero flux, equivalent to an adiabatic boundary.
func SimulateSection(w *World, c *Chunk, sy int, dtSeconds float32) {
	y0 := sy * SectionEdge
	y1 := y0 + SectionEdge

	for z := 0; z < ChunkD; z++ {
		for y := y0; y < y1; y++ {
			for x := 0; x < ChunkW; x++ {
				i := CellIndex(x, y, z)
				mix := c.Mat[i]
				if mix == c.VoidIx {
					c.Back[i] = c.Front[i]
					continue
				}

				m := w.Materials.Get(mix)
				cth := c.Mass[i] * m.HeatCapacity
				if cth < minHeatCapacity {
					cth = minHeatCapacity
				}
				tc := c.Front[i]

				var dT float32
				dT += fluxTerm(w, c, m, x, y, z, +1, 0, 0, tc)
				dT += fluxTerm(w, c, m, x, y, z, -1, 0, 0, tc)
				dT += fluxTerm(w, c, m, x, y, z, 0, +1, 0, tc)
				dT += fluxTerm(w, c, m, x, y, z, 0, -1, 0, tc)
				dT += fluxTerm(w, c, m, x, y, z, 0, 0, +1, tc)
				dT += fluxTerm(w, c, m, x, y, z, 0, 0, -1, tc)

				tNew := tc + (dtSeconds/cth)*dT
				if tNew < 0 {
					tNew = 0
				} else if tNew > MaxTemperature {
					tNew = MaxTemperature
				}
				c.Back[i] = tNew
			}
		}
	}
}

// fluxTerm samples one axis neighbor and returns its contribution to dT,
// using a harmonic-mean interface conductivity (cell pitch dx=1, so
// 1/dx^2 = 1). Spec parity note (ii): a missing neighbor's MatIx is never
// interpreted — NeighborSample.Exists gates every use of it.
func fluxTerm(w *World, c *Chunk, m material.Material, x, y, z, dx, dy, dz int, tc float32) float32 {
	nb := w.NeighborSample(c, x, y, z, dx, dy, dz)
	if !nb.Exists {
		return 0
	}
	mn := w.Materials.Get(nb.MatIx)

	var kEff float32
	if m.ThermalConductivity > 0 && mn.ThermalConductivity > 0 {
		kEff = 2 * m.ThermalConductivity * mn.ThermalConductivity / (m.ThermalConductivity + mn.ThermalConductivity)
	}
	return kEff * (nb.T - tc)
}
