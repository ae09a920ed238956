package swarm

import "math"

// EntityID identifies an entity for the lifetime of its arena.
type EntityID uint64

// Entity is one circular particle. Radius is fixed at creation.
type Entity struct {
	ID     EntityID
	X, Y   float64
	VX, VY float64
	Kind   Kind

	radius float64
}

// Radius returns the immutable collision radius.
func (e *Entity) Radius() float64 { return e.radius }

// Speed returns the velocity magnitude.
func (e *Entity) Speed() float64 { return math.Hypot(e.VX, e.VY) }

func (e *Entity) integrate() {
	e.X += e.VX
	e.Y += e.VY
}

func (e *Entity) state() EntityState {
	return EntityState{
		ID:     e.ID,
		X:      e.X,
		Y:      e.Y,
		VX:     e.VX,
		VY:     e.VY,
		Radius: e.radius,
		Kind:   e.Kind,
	}
}

// EntityState is a read-only copy of an entity taken between ticks.
type EntityState struct {
	ID     EntityID
	X, Y   float64
	VX, VY float64
	Radius float64
	Kind   Kind
}

// CountKinds tallies a snapshot by kind.
func CountKinds(states []EntityState) Counts {
	var c Counts
	for _, s := range states {
		if s.Kind.Valid() {
			c[s.Kind]++
		}
	}
	return c
}
