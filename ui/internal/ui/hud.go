package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"thermworld/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type ParameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// HUD renders a read-only parameter panel (server + growth-controller
// snapshots) with +/- adjustment buttons for whichever keys the server
// exposes as ParameterControls. Adapted from the teacher's single-sim HUD
// to fan the same control-adjustment idiom out over two providers.
type HUD struct {
	providers []ParameterProvider
	setter    intFloatSetter

	width int
	panel *ebiten.Image
	pixel *ebiten.Image

	rows     []hudRow
	controls []hudControlState

	status       string
	panelOffsetX int
}

type intFloatSetter interface {
	core.IntParameterSetter
	core.FloatParameterSetter
}

type hudRow struct {
	label string
	value string
}

type hudControlState struct {
	control  core.ParameterControl
	intVal   int
	floatVal float64
	top      int

	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// NewHUD constructs a HUD panel of the given pixel width. server is
// required (the only adjustable provider); growthCtrl may be nil.
func NewHUD(server ParameterProvider, growthCtrl ParameterProvider, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{width: width}
	if server != nil {
		h.providers = append(h.providers, server)
	}
	if growthCtrl != nil {
		h.providers = append(h.providers, growthCtrl)
	}
	if setter, ok := server.(intFloatSetter); ok {
		h.setter = setter
	}
	if provider, ok := server.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			h.controls = append(h.controls, hudControlState{control: ctrl})
		}
	}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.layoutControls()
	return h
}

// Width reports the panel's pixel width, for Layout calculations.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes cached rows/control values and handles +/- clicks.
// panelOffsetX is the panel's current screen-space left edge, needed to
// translate cursor coordinates into panel-local coordinates for hit testing.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.rows = h.rows[:0]
	paramByKey := map[string]core.Parameter{}
	for _, p := range h.providers {
		snap := p.Parameters()
		for _, group := range snap.Groups {
			for _, param := range group.Params {
				h.rows = append(h.rows, hudRow{label: param.Label, value: param.Value})
				paramByKey[param.Key] = param
			}
		}
	}
	for i := range h.controls {
		c := &h.controls[i]
		param, ok := paramByKey[c.control.Key]
		if !ok {
			continue
		}
		switch c.control.Type {
		case core.ParamTypeInt:
			if v, err := strconv.Atoi(param.Value); err == nil {
				c.intVal = v
				c.floatVal = float64(v)
			}
		case core.ParamTypeFloat:
			if v, err := strconv.ParseFloat(param.Value, 64); err == nil {
				c.floatVal = v
			}
		}
	}
	h.handleInput()
}

func (h *HUD) handleInput() {
	if h.setter == nil || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	px := mx - h.panelOffsetX
	for i := range h.controls {
		c := &h.controls[i]
		if pointInRect(px, my, c.minusRect) {
			h.adjust(c, -1)
			return
		}
		if pointInRect(px, my, c.plusRect) {
			h.adjust(c, 1)
			return
		}
	}
}

func (h *HUD) adjust(c *hudControlState, dir int) {
	switch c.control.Type {
	case core.ParamTypeInt:
		step := int(math.Round(c.control.Step))
		if step <= 0 {
			step = 1
		}
		target := c.intVal + dir*step
		target = clampInt(target, c.control)
		h.setter.SetIntParameter(c.control.Key, target)
	case core.ParamTypeFloat:
		step := c.control.Step
		if step <= 0 {
			step = 0.05
		}
		target := c.floatVal + float64(dir)*step
		target = clampFloat(target, c.control)
		h.setter.SetFloatParameter(c.control.Key, target)
	}
}

func clampInt(v int, c core.ParameterControl) int {
	if c.HasMin && float64(v) < c.Min {
		return int(math.Round(c.Min))
	}
	if c.HasMax && float64(v) > c.Max {
		return int(math.Round(c.Max))
	}
	return v
}

func clampFloat(v float64, c core.ParameterControl) float64 {
	if c.HasMin && v < c.Min {
		return c.Min
	}
	if c.HasMax && v > c.Max {
		return c.Max
	}
	return v
}

// Draw paints the panel to the right of offsetX, plus a one-line status
// string handed in by the caller (focused chunk, slice, view mode).
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, status string) {
	if h == nil || h.width <= 0 {
		return
	}
	h.status = status
	bounds := screen.Bounds()
	height := bounds.Dy()
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, "thermworld", face, panelPadding, y, color.RGBA{R: 210, G: 210, B: 220, A: 255})
	y += infoSpacing
	text.Draw(h.panel, h.status, face, panelPadding, y, color.RGBA{R: 170, G: 170, B: 180, A: 255})
	y += infoSpacing

	for _, row := range h.rows {
		text.Draw(h.panel, row.label+": "+row.value, face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
		y += lineHeight / 2
	}

	for i := range h.controls {
		h.drawControlButtons(&h.controls[i])
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawControlButtons(c *hudControlState) {
	face := basicfont.Face7x13
	labelY := c.top + labelBaseline
	text.Draw(h.panel, c.control.Label, face, panelPadding, labelY, color.RGBA{R: 220, G: 220, B: 230, A: 255})
	h.drawButton(c.minusRect, "-")
	h.drawButton(c.plusRect, "+")
}

func (h *HUD) drawButton(rect image.Rectangle, label string) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	op.ColorM.Scale(float64(bg.R)/255, float64(bg.G)/255, float64(bg.B)/255, float64(bg.A)/255)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()+bounds.Dy())/2
	text.Draw(h.panel, label, face, x, y, color.RGBA{R: 230, G: 230, B: 240, A: 255})
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	top := controlsTop
	for i := range h.controls {
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
		top += lineHeight
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 20
	controlsTop    = 160
)
