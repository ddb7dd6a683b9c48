package app

import (
	"fmt"
	"image/color"

	"thermworld/internal/growth"
	"thermworld/internal/material"
	"thermworld/internal/simserver"
	"thermworld/internal/voxel"
	"thermworld/ui/internal/render"
	"thermworld/ui/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const worldMapOriginX, worldMapOriginY = 8, 8

// Game adapts a Server (and optionally a growth controller) to the
// ebiten.Game interface. All world reads happen through TrySnapshot; a
// failed try-lock skips that frame's world drawing rather than blocking or
// reading partial state. The previous frame is not kept on screen: ebiten
// clears the screen every frame by default and this viewer leaves that on.
type Game struct {
	server   *simserver.Server
	growth   *growth.StressGrowthController
	slice    *render.SlicePainter
	worldMap *render.WorldTilePainter
	hud      *ui.HUD

	scale        int
	tile         int
	showMap      bool
	ySlice       int
	focusCX      int
	focusCZ      int
	paintMat     uint16
	havePaintMat bool
}

// New constructs a Game around server. growthCtrl may be nil when no
// stress controller is running.
func New(server *simserver.Server, growthCtrl *growth.StressGrowthController, scale, tile int) *Game {
	g := &Game{
		server:   server,
		growth:   growthCtrl,
		slice:    render.NewSlicePainter(),
		worldMap: render.NewWorldTilePainter(tile),
		scale:    scale,
		tile:     tile,
	}
	var growthProvider ui.ParameterProvider
	if growthCtrl != nil {
		growthProvider = growthCtrl
	}
	g.hud = ui.NewHUD(server, growthProvider, 220)
	return g
}

// Update handles input and advances HUD state. The simulation itself
// advances on the server's own background goroutine.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.server.SetPaused(!g.server.IsPaused())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.showMap = !g.showMap
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		g.ySlice = clampSlice(g.ySlice + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		g.ySlice = clampSlice(g.ySlice - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.focusCX++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.focusCX--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.focusCZ++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.focusCZ--
	}

	g.hud.Update(g.sliceViewWidth())

	if !g.showMap && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.paintAt(mx, my)
	}
	return nil
}

// paintAt sets the cell under the cursor to a fixed bright paint material
// at MaxTemperature, dual-writing through WithWorldLocked per the mutator
// contract.
func (g *Game) paintAt(mx, my int) {
	x := mx / g.scale
	z := my / g.scale
	if x < 0 || x >= voxel.ChunkW || z < 0 || z >= voxel.ChunkD {
		return
	}
	g.server.WithWorldLocked(func(w *voxel.World) {
		if !g.havePaintMat {
			g.paintMat = w.Materials.Add(material.Material{
				HeatCapacity:        500,
				ThermalConductivity: 200,
				DefaultMass:         1000,
				MolarMass:           0.05,
			})
			g.havePaintMat = true
		}
		c := w.Ensure(g.focusCX, g.focusCZ)
		c.SetCell(x, g.ySlice, z, g.paintMat, voxel.MaxTemperature, w.Materials)
		c.RecomputeSectionLoaded()
	})
}

// Draw renders the current view. A failed try-lock skips the world drawing
// for this frame, so the view area is blank (black in map view) and only
// the HUD is drawn; no prior frame or placeholder is shown.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.showMap {
		screen.Fill(color.Black)
		g.server.TrySnapshot(func(w *voxel.World) {
			g.worldMap.Draw(screen, w, worldMapOriginX, worldMapOriginY)
		})
	} else {
		g.server.TrySnapshot(func(w *voxel.World) {
			c := w.Find(g.focusCX, g.focusCZ)
			if c != nil {
				g.slice.Blit(screen, c, g.ySlice, g.scale)
			}
		})
	}

	g.hud.Draw(screen, g.sliceViewWidth(), g.statusLine())
}

func (g *Game) sliceViewWidth() int {
	w, _ := g.slice.Size()
	return w * g.scale
}

func (g *Game) statusLine() string {
	mode := "slice"
	if g.showMap {
		mode = "map"
	}
	return fmt.Sprintf("chunk=(%d,%d) y=%d mode=%s", g.focusCX, g.focusCZ, g.ySlice, mode)
}

// Layout returns the logical screen size: slice view plus the HUD panel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.slice.Size()
	return w*g.scale + g.hud.Width(), h * g.scale
}

func clampSlice(y int) int {
	if y < 0 {
		return 0
	}
	if y >= voxel.ChunkH {
		return voxel.ChunkH - 1
	}
	return y
}
