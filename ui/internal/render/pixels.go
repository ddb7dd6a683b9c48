package render

import "image/color"

// temperatureToColor maps a temperature in [scaleMin, scaleMax] onto a
// blue-green-red ramp: blue at the cold end, green at the midpoint, red at
// the hot end.
func temperatureToColor(temp, scaleMin, scaleMax float32) color.RGBA {
	if scaleMax-scaleMin < 1e-6 {
		return color.RGBA{A: 255}
	}
	t := (temp - scaleMin) / (scaleMax - scaleMin)
	t = clamp01(t)

	r := clampByte(255 * (2*t - 0.5))
	g := clampByte(255 * (1 - abs32(2*t-1)))
	b := clampByte(255 * (1 - 2*t))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// fillHeatmapRGBA converts one slice's temperature/material data into RGBA
// pixels, leaving void cells black. temps and mats must be the same length
// as buf/4.
func fillHeatmapRGBA(buf []byte, temps []float32, mats []uint16, voidIx uint16, scaleMin, scaleMax float32) {
	for i, m := range mats {
		base := i * 4
		if m == voidIx {
			buf[base+0], buf[base+1], buf[base+2], buf[base+3] = 0, 0, 0, 255
			continue
		}
		col := temperatureToColor(temps[i], scaleMin, scaleMax)
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampByte(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
