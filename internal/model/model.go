// Package model describes the system to be simulated: particles, forces,
// and pairwise distance constraints. A Model is pure data; binding it to a
// Context caches a backend-resident copy, so later mutations are invisible
// until the Context is reinitialized.
package model

import "fmt"

// Force is an interaction contributing energy and forces to the system.
// Concrete force types expose typed descriptors (bond lists, per-particle
// parameters) that backend operations read once when they are created.
type Force interface {
	// OperationName is the name of the backend operation that evaluates
	// this force.
	OperationName() string

	// GlobalParameters lists the adjustable global parameters this force
	// declares, mapped to their default values. Parameter values can be
	// overridden per simulation through the Context.
	GlobalParameters() map[string]float64
}

// Constraint holds two particles at a fixed distance.
type Constraint struct {
	Particle1 int
	Particle2 int
	Distance  float64
}

type Model struct {
	masses      []float64
	forces      []Force
	constraints []Constraint
}

func New() *Model {
	return &Model{}
}

// AddParticle appends a particle and returns its index. A mass <= 0 marks
// the particle as fixed: it never moves and receives no random forces.
func (m *Model) AddParticle(mass float64) int {
	m.masses = append(m.masses, mass)
	return len(m.masses) - 1
}

func (m *Model) NumParticles() int { return len(m.masses) }

func (m *Model) Mass(i int) float64 { return m.masses[i] }

func (m *Model) SetMass(i int, mass float64) { m.masses[i] = mass }

func (m *Model) AddForce(f Force) {
	m.forces = append(m.forces, f)
}

func (m *Model) NumForces() int { return len(m.forces) }

// Forces returns the forces in the order they were added. This order is
// also the force accumulation order used during evaluation.
func (m *Model) Forces() []Force { return m.forces }

func (m *Model) AddConstraint(p1, p2 int, distance float64) {
	m.constraints = append(m.constraints, Constraint{Particle1: p1, Particle2: p2, Distance: distance})
}

func (m *Model) NumConstraints() int { return len(m.constraints) }

func (m *Model) Constraints() []Constraint { return m.constraints }

// Validate checks internal consistency: every particle index referenced by
// a constraint or an index-aware force must exist, and constraint distances
// must be positive.
func (m *Model) Validate() error {
	n := len(m.masses)
	for i, c := range m.constraints {
		if c.Particle1 < 0 || c.Particle1 >= n || c.Particle2 < 0 || c.Particle2 >= n {
			return fmt.Errorf("constraint %d references particle out of range [0,%d)", i, n)
		}
		if c.Particle1 == c.Particle2 {
			return fmt.Errorf("constraint %d references the same particle twice", i)
		}
		if c.Distance <= 0 {
			return fmt.Errorf("constraint %d has non-positive distance %g", i, c.Distance)
		}
	}
	for i, f := range m.forces {
		if v, ok := f.(interface{ ValidateIndices(numParticles int) error }); ok {
			if err := v.ValidateIndices(n); err != nil {
				return fmt.Errorf("force %d (%s): %w", i, f.OperationName(), err)
			}
		}
	}
	return nil
}
