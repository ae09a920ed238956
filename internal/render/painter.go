//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"rps-swarm/internal/sims/swarm"
)

var (
	shadowColor  = color.RGBA{A: 20}
	outlineColor = color.RGBA{R: 64, G: 64, B: 64, A: 255}
	paperEdge    = color.RGBA{R: 192, G: 192, B: 192, A: 255}
	foldColor    = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	handleEdge   = color.RGBA{A: 255}
)

// EntityPainter draws a snapshot of the arena, one glyph per kind.
type EntityPainter struct {
	scale float32
}

// NewEntityPainter returns a painter mapping world units to scale pixels.
func NewEntityPainter(scale float64) *EntityPainter {
	if scale <= 0 {
		scale = 1
	}
	return &EntityPainter{scale: float32(scale)}
}

// Draw fills dst with the background and paints every entity in order.
func (p *EntityPainter) Draw(dst *ebiten.Image, states []swarm.EntityState) {
	dst.Fill(Background)
	for i := range states {
		p.drawEntity(dst, &states[i])
	}
}

func (p *EntityPainter) drawEntity(dst *ebiten.Image, s *swarm.EntityState) {
	cx := float32(s.X) * p.scale
	cy := float32(s.Y) * p.scale
	r := float32(s.Radius) * p.scale
	fill := s.Kind.Color()

	vector.DrawFilledCircle(dst, cx, cy, r, shadowColor, true)

	switch s.Kind {
	case swarm.Rock:
		vector.DrawFilledCircle(dst, cx, cy, r, fill, true)
		vector.StrokeCircle(dst, cx, cy, r, 2, outlineColor, true)
	case swarm.Paper:
		w, h := r*1.6, r*1.9
		x, y := cx-w/2, cy-h/2
		vector.DrawFilledRect(dst, x, y, w, h, fill, true)
		vector.StrokeRect(dst, x, y, w, h, 1, paperEdge, true)
		fold := 6 * p.scale
		vector.DrawFilledRect(dst, x+w-fold, y, fold, fold, foldColor, true)
		vector.StrokeLine(dst, x+w-fold, y, x+w, y+fold, 1, outlineColor, true)
	case swarm.Scissors:
		vector.StrokeLine(dst, cx-r, cy-r, cx+r, cy+r, 3, outlineColor, true)
		vector.StrokeLine(dst, cx+r, cy-r, cx-r, cy+r, 3, outlineColor, true)
		hr := 7 * p.scale
		for _, c := range [2][2]float32{{cx - r + 1, cy - r + 1}, {cx + r - 1, cy + r - 1}} {
			vector.DrawFilledCircle(dst, c[0], c[1], hr, fill, true)
			vector.StrokeCircle(dst, c[0], c[1], hr, 1, handleEdge, true)
		}
	}
}
