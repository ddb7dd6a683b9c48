// Package render draws a voxel.World as a temperature heat map, generalizing
// the teacher's binary-cell GridPainter to a continuous color ramp.
package render

import (
	"image/color"

	"thermworld/internal/voxel"

	"github.com/hajimehoshi/ebiten/v2"
)

// SlicePainter blits one horizontal Y-slice (the X-Z plane at a fixed Y) of
// a single chunk's front temperature buffer.
type SlicePainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte

	temps []float32
	mats  []uint16
}

// NewSlicePainter allocates a painter sized for one chunk's X-Z extent.
func NewSlicePainter() *SlicePainter {
	w, h := voxel.ChunkW, voxel.ChunkD
	sp := &SlicePainter{
		w:     w,
		h:     h,
		buf:   make([]byte, 4*w*h),
		temps: make([]float32, w*h),
		mats:  make([]uint16, w*h),
	}
	sp.img = ebiten.NewImage(w, h)
	return sp
}

// Blit samples chunk c's front buffer at y=ySlice and draws it to dst,
// scaled. Caller must hold (or have just released under a successful
// try-lock) the world lock for the duration of the read into temps/mats;
// Blit itself performs no locking.
func (sp *SlicePainter) Blit(dst *ebiten.Image, c *voxel.Chunk, ySlice int, scale int) {
	if c == nil {
		return
	}
	i := 0
	for z := 0; z < sp.h; z++ {
		for x := 0; x < sp.w; x++ {
			ci := voxel.CellIndex(x, ySlice, z)
			sp.temps[i] = c.Front[ci]
			sp.mats[i] = c.Mat[ci]
			i++
		}
	}
	scaleMin, scaleMax := sliceMinMaxNonVoid(sp.temps, sp.mats, c.VoidIx)
	fillHeatmapRGBA(sp.buf, sp.temps, sp.mats, c.VoidIx, scaleMin, scaleMax)
	sp.img.ReplacePixels(sp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(sp.img, op)
}

// Size returns the pixel dimensions of one unscaled slice.
func (sp *SlicePainter) Size() (int, int) { return sp.w, sp.h }

// sliceMinMaxNonVoid returns the temperature range of a slice's non-void
// cells, or [0, MaxTemperature] when the slice is entirely void.
func sliceMinMaxNonVoid(temps []float32, mats []uint16, voidIx uint16) (float32, float32) {
	mn := float32(voxel.MaxTemperature)
	mx := float32(0)
	any := false
	for i, m := range mats {
		if m == voidIx {
			continue
		}
		v := temps[i]
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
		any = true
	}
	if !any {
		return 0, voxel.MaxTemperature
	}
	if mx-mn < 1e-6 {
		return 0, voxel.MaxTemperature
	}
	return mn, mx
}

// WorldTilePainter draws one filled tile per chunk in a world-map view,
// colored by that chunk's average non-void temperature.
type WorldTilePainter struct {
	tile  int
	pixel *ebiten.Image
}

// NewWorldTilePainter allocates a painter drawing tile x tile pixel tiles.
func NewWorldTilePainter(tile int) *WorldTilePainter {
	if tile <= 0 {
		tile = 8
	}
	p := &WorldTilePainter{tile: tile}
	p.pixel = ebiten.NewImage(1, 1)
	p.pixel.Fill(color.White)
	return p
}

// Draw renders every chunk in w as a tile at (originX + cx*tile, originY +
// cz*tile), using the world's global non-void temperature range for a
// stable color scale across tiles.
func (p *WorldTilePainter) Draw(dst *ebiten.Image, w *voxel.World, originX, originY int) {
	scaleMin, scaleMax := worldMinMaxNonVoid(w)
	for coord, c := range w.Chunks {
		avg, any := chunkAverageNonVoid(c)
		col := color.RGBA{A: 255}
		if any {
			col = temperatureToColor(avg, scaleMin, scaleMax)
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(p.tile), float64(p.tile))
		op.GeoM.Translate(float64(originX+coord.CX*p.tile), float64(originY+coord.CZ*p.tile))
		op.ColorM.Scale(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, float64(col.A)/255)
		dst.DrawImage(p.pixel, op)
	}
}

func chunkAverageNonVoid(c *voxel.Chunk) (float32, bool) {
	var sum float32
	var n int
	for i, m := range c.Mat {
		if m == c.VoidIx {
			continue
		}
		sum += c.Front[i]
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float32(n), true
}

func worldMinMaxNonVoid(w *voxel.World) (float32, float32) {
	mn := float32(voxel.MaxTemperature)
	mx := float32(0)
	any := false
	for _, c := range w.Chunks {
		avg, ok := chunkAverageNonVoid(c)
		if !ok {
			continue
		}
		if avg < mn {
			mn = avg
		}
		if avg > mx {
			mx = avg
		}
		any = true
	}
	if !any || mx-mn < 1e-6 {
		return 0, voxel.MaxTemperature
	}
	return mn, mx
}
