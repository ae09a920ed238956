package render

import (
	"image"
	"image/color"

	"rps-swarm/internal/core"
	"rps-swarm/internal/sims/swarm"
)

// Background is the arena fill.
var Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// GridPalette maps raster cell values to colours: 0 is the background and
// kind k is stored as k+1.
func GridPalette() []color.RGBA {
	return append([]color.RGBA{Background}, swarm.Palette()...)
}

// Image converts a rasterized grid into an RGBA image using palette.
func Image(g *core.ByteGrid, palette []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	fillPaletteRGBA(img.Pix, g.Cells(), palette)
	return img
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black. Values past
// the end of the palette use its last entry.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}
	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		col := palette[idx]
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
