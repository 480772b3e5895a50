package forces

import "fmt"

// NonbondedParticle holds the nonbonded parameters of one particle.
type NonbondedParticle struct {
	Charge  float64 // elementary charges
	Sigma   float64 // nm
	Epsilon float64 // kJ/mol
}

// Nonbonded is a pairwise Lennard-Jones plus Coulomb interaction over all
// particle pairs. Pair parameters follow Lorentz-Berthelot mixing:
// sigma = (si+sj)/2, epsilon = sqrt(ei*ej).
type Nonbonded struct {
	particles []NonbondedParticle
}

func NewNonbonded() *Nonbonded {
	return &Nonbonded{}
}

// AddParticle appends nonbonded parameters for the next particle. Particles
// must be added in model index order, one entry per model particle.
func (f *Nonbonded) AddParticle(charge, sigma, epsilon float64) int {
	f.particles = append(f.particles, NonbondedParticle{Charge: charge, Sigma: sigma, Epsilon: epsilon})
	return len(f.particles) - 1
}

func (f *Nonbonded) NumParticles() int { return len(f.particles) }

func (f *Nonbonded) Particles() []NonbondedParticle {
	out := make([]NonbondedParticle, len(f.particles))
	copy(out, f.particles)
	return out
}

func (f *Nonbonded) OperationName() string { return OpCalcNonbondedForce }

func (f *Nonbonded) GlobalParameters() map[string]float64 { return nil }

func (f *Nonbonded) ValidateIndices(numParticles int) error {
	if len(f.particles) != numParticles {
		return fmt.Errorf("nonbonded force declares %d particles, model has %d", len(f.particles), numParticles)
	}
	return nil
}
