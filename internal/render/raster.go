package render

import (
	"math"

	"rps-swarm/internal/core"
	"rps-swarm/internal/sims/swarm"
)

// Rasterize paints every entity's disc into g, storing kind+1 per covered cell
// and 0 elsewhere. The world is stretched to the grid on each axis, so discs
// become ellipses when the aspect ratios differ. Later entities overwrite
// earlier ones. An entity smaller than a cell still marks the cell holding its
// center.
func Rasterize(g *core.ByteGrid, states []swarm.EntityState, world core.Size) {
	g.Clear()
	if world.W <= 0 || world.H <= 0 {
		return
	}
	sx := float64(g.W) / world.W
	sy := float64(g.H) / world.H
	for _, s := range states {
		v := uint8(s.Kind) + 1
		cx, cy := s.X*sx, s.Y*sy
		rx, ry := s.Radius*sx, s.Radius*sy
		if rx <= 0 || ry <= 0 {
			continue
		}
		x0, x1 := int(math.Floor(cx-rx)), int(math.Ceil(cx+rx))
		y0, y1 := int(math.Floor(cy-ry)), int(math.Ceil(cy+ry))
		hit := false
		for y := y0; y <= y1; y++ {
			dy := (float64(y) + 0.5 - cy) / ry
			for x := x0; x <= x1; x++ {
				dx := (float64(x) + 0.5 - cx) / rx
				if dx*dx+dy*dy <= 1 && g.In(x, y) {
					g.Set(x, y, v)
					hit = true
				}
			}
		}
		if !hit {
			g.Set(int(cx), int(cy), v)
		}
	}
}
