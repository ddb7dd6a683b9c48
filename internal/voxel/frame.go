package voxel

import "time"

// ComputeFrame runs the conduction kernel over every loaded section of
// every chunk in the world, writing only back buffers and reading only
// front buffers. It requires no locking between chunks: chunks are disjoint
// and every neighbor read comes from the unchanging front buffer. Each
// chunk's LastChunkMs/LastSectionMs are reset and repopulated from a
// monotonic clock.
func ComputeFrame(w *World, dtSeconds float32) {
	for _, c := range w.Chunks {
		c.LastChunkMs = 0
		c.LastSectionMs = [SectionsY]float64{}

		for sy := 0; sy < SectionsY; sy++ {
			if !c.SectionLoaded[sy] {
				continue
			}
			start := time.Now()
			SimulateSection(w, c, sy, dtSeconds)
			ms := float64(time.Since(start)) / float64(time.Millisecond)
			c.LastSectionMs[sy] = ms
			c.LastChunkMs += ms
		}
	}
}

// PublishFrame swaps front and back buffers for every chunk in O(1) per
// chunk. Callers must hold the world lock while calling this so the swap is
// atomic relative to any mutator or snapshot reader.
func PublishFrame(w *World) {
	for _, c := range w.Chunks {
		c.SwapBuffers()
	}
}

// WorldTotalMsLast sums every chunk's LastChunkMs from the most recently
// computed frame.
func WorldTotalMsLast(w *World) float64 {
	total := 0.0
	for _, c := range w.Chunks {
		total += c.LastChunkMs
	}
	return total
}
