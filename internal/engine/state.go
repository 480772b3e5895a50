package engine

import "gonum.org/v1/gonum/spatial/r3"

// Include selects which quantities a Snapshot carries. Values combine as a
// bit set.
type Include uint8

const (
	IncludePositions Include = 1 << iota
	IncludeVelocities
	IncludeForces
	IncludeEnergy
)

// Snapshot is an immutable point-in-time copy of simulation state. Slices
// are owned by the snapshot; later mutation of the originating context does
// not affect it.
type Snapshot struct {
	Time            float64
	Positions       []r3.Vec
	Velocities      []r3.Vec
	Forces          []r3.Vec
	KineticEnergy   float64
	PotentialEnergy float64
}

func (s Snapshot) TotalEnergy() float64 {
	return s.KineticEnergy + s.PotentialEnergy
}

func cloneVecs(v []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(v))
	copy(out, v)
	return out
}
