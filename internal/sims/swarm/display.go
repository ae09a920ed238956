package swarm

import "image/color"

var kindPalette = [numKinds]color.RGBA{
	Rock:     {R: 120, G: 120, B: 120, A: 255},
	Paper:    {R: 244, G: 242, B: 232, A: 255},
	Scissors: {R: 220, G: 40, B: 90, A: 255},
}

// Color is the fill color used to draw entities of kind k.
func (k Kind) Color() color.RGBA {
	if !k.Valid() {
		return color.RGBA{A: 255}
	}
	return kindPalette[k]
}

// Palette exposes the per-kind colors indexed by Kind.
func Palette() []color.RGBA {
	p := kindPalette
	return p[:]
}
