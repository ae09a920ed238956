package swarm

import "math"

// reflectWalls clamps e inside a w×h arena and reverses the velocity component
// of every axis it hit. Axes are handled independently, so a corner hit
// reflects both.
func reflectWalls(e *Entity, w, h float64) bool {
	rx := reflectAxis(&e.X, &e.VX, e.radius, w)
	ry := reflectAxis(&e.Y, &e.VY, e.radius, h)
	return rx || ry
}

func reflectAxis(p, v *float64, r, extent float64) bool {
	hit := false
	if *p-r < 0 {
		*p = r
		*v = -*v
		hit = true
	}
	if *p+r > extent {
		*p = extent - r
		*v = -*v
		hit = true
	}
	return hit
}

// overlapping reports contact between a and b. Tangent circles count.
func overlapping(a, b *Entity) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	reach := a.radius + b.radius
	return dx*dx+dy*dy <= reach*reach
}

// separate applies an inelastic impulse along the line of centers so a
// colliding pair drifts apart. Only velocities change. It reports whether any
// velocity was modified.
func separate(a, b *Entity, restitution float64) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		// Coincident centers have no normal; reversing both is not guaranteed
		// to separate them.
		a.VX, a.VY = -a.VX, -a.VY
		b.VX, b.VY = -b.VX, -b.VY
		return true
	}
	nx := dx / dist
	ny := dy / dist
	rel := (b.VX-a.VX)*nx + (b.VY-a.VY)*ny
	if rel > 0 {
		return false
	}
	impulse := -rel * restitution
	a.VX -= impulse * nx
	a.VY -= impulse * ny
	b.VX += impulse * nx
	b.VY += impulse * ny
	return true
}
