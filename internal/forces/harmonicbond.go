// Package forces contains the built-in interaction types. Each force names
// the backend operation that evaluates it and hands that operation an
// immutable descriptor when the context is bound.
package forces

import "fmt"

// Operation names for the built-in forces.
const (
	OpCalcHarmonicBondForce = "CalcHarmonicBondForce"
	OpCalcNonbondedForce    = "CalcNonbondedForce"
	OpCalcExternalWellForce = "CalcExternalWellForce"
)

// Bond is a harmonic spring between two particles:
// E = (k/2)·(r − length)².
type Bond struct {
	Particle1 int
	Particle2 int
	Length    float64
	K         float64
}

// HarmonicBond holds a set of two-particle harmonic springs.
type HarmonicBond struct {
	bonds []Bond
}

func NewHarmonicBond() *HarmonicBond {
	return &HarmonicBond{}
}

func (f *HarmonicBond) AddBond(p1, p2 int, length, k float64) int {
	f.bonds = append(f.bonds, Bond{Particle1: p1, Particle2: p2, Length: length, K: k})
	return len(f.bonds) - 1
}

func (f *HarmonicBond) NumBonds() int { return len(f.bonds) }

// Bonds returns a copy of the bond descriptors, so operations that cache it
// are insulated from later mutation of the force.
func (f *HarmonicBond) Bonds() []Bond {
	out := make([]Bond, len(f.bonds))
	copy(out, f.bonds)
	return out
}

func (f *HarmonicBond) OperationName() string { return OpCalcHarmonicBondForce }

func (f *HarmonicBond) GlobalParameters() map[string]float64 { return nil }

func (f *HarmonicBond) ValidateIndices(numParticles int) error {
	for i, b := range f.bonds {
		if b.Particle1 < 0 || b.Particle1 >= numParticles || b.Particle2 < 0 || b.Particle2 >= numParticles {
			return fmt.Errorf("bond %d references particle out of range [0,%d)", i, numParticles)
		}
	}
	return nil
}
