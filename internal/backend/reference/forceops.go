package reference

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/forces"
	"github.com/san-kum/moldyn/internal/model"
	"github.com/san-kum/moldyn/internal/units"
)

type harmonicBondOp struct {
	bonds []forces.Bond
}

func (op *harmonicBondOp) OperationName() string { return forces.OpCalcHarmonicBondForce }

func (op *harmonicBondOp) InitForce(c *engine.Coordinator, f model.Force) error {
	hb, ok := f.(*forces.HarmonicBond)
	if !ok {
		return fmt.Errorf("%w: %s given %T", engine.ErrNotSupported, op.OperationName(), f)
	}
	op.bonds = hb.Bonds()
	return nil
}

func (op *harmonicBondOp) Execute(c *engine.Coordinator, includeForces, includeEnergy bool) (float64, error) {
	pos := c.Positions()
	frc := c.Forces()
	var energy float64
	for _, b := range op.bonds {
		delta := r3.Sub(pos[b.Particle2], pos[b.Particle1])
		r := r3.Norm(delta)
		dr := r - b.Length
		if includeEnergy {
			energy += 0.5 * b.K * dr * dr
		}
		if includeForces && r > 0 {
			// dE/dr along the bond, divided by r to scale delta.
			s := b.K * dr / r
			frc[b.Particle1] = r3.Add(frc[b.Particle1], r3.Scale(s, delta))
			frc[b.Particle2] = r3.Sub(frc[b.Particle2], r3.Scale(s, delta))
		}
	}
	return energy, nil
}

type nonbondedOp struct {
	particles []forces.NonbondedParticle
}

func (op *nonbondedOp) OperationName() string { return forces.OpCalcNonbondedForce }

func (op *nonbondedOp) InitForce(c *engine.Coordinator, f model.Force) error {
	nb, ok := f.(*forces.Nonbonded)
	if !ok {
		return fmt.Errorf("%w: %s given %T", engine.ErrNotSupported, op.OperationName(), f)
	}
	op.particles = nb.Particles()
	return nil
}

func (op *nonbondedOp) Execute(c *engine.Coordinator, includeForces, includeEnergy bool) (float64, error) {
	pos := c.Positions()
	frc := c.Forces()
	var energy float64
	n := len(op.particles)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			e, s := PairInteraction(op.particles[i], op.particles[j], pos[i], pos[j])
			if includeEnergy {
				energy += e
			}
			if includeForces {
				delta := r3.Sub(pos[j], pos[i])
				frc[i] = r3.Add(frc[i], r3.Scale(s, delta))
				frc[j] = r3.Sub(frc[j], r3.Scale(s, delta))
			}
		}
	}
	return energy, nil
}

// PairInteraction returns the pair energy and dE/dr divided by r, so the
// force on particle i is s·(rj−ri). Lorentz-Berthelot mixing. Exported so
// faster backends can reuse the same kernel math and stay bit-comparable.
func PairInteraction(pi, pj forces.NonbondedParticle, ri, rj r3.Vec) (e, s float64) {
	delta := r3.Sub(rj, ri)
	r2 := r3.Norm2(delta)
	r := math.Sqrt(r2)
	sigma := 0.5 * (pi.Sigma + pj.Sigma)
	eps := math.Sqrt(pi.Epsilon * pj.Epsilon)
	sr2 := sigma * sigma / r2
	sr6 := sr2 * sr2 * sr2
	sr12 := sr6 * sr6
	qq := units.CoulombFactor * pi.Charge * pj.Charge
	e = 4*eps*(sr12-sr6) + qq/r
	// dE/dr = 4ε(−12σ¹²/r¹³ + 6σ⁶/r⁷) − qq/r²
	dEdR := (24*eps*(sr6-2*sr12) - qq/r) / r
	return e, dEdR / r
}

type externalWellOp struct {
	terms []forces.WellTerm
}

func (op *externalWellOp) OperationName() string { return forces.OpCalcExternalWellForce }

func (op *externalWellOp) InitForce(c *engine.Coordinator, f model.Force) error {
	w, ok := f.(*forces.ExternalWell)
	if !ok {
		return fmt.Errorf("%w: %s given %T", engine.ErrNotSupported, op.OperationName(), f)
	}
	op.terms = w.Terms()
	return nil
}

func (op *externalWellOp) Execute(c *engine.Coordinator, includeForces, includeEnergy bool) (float64, error) {
	scale, err := c.Parameter(forces.WellScaleParameter)
	if err != nil {
		return 0, err
	}
	pos := c.Positions()
	frc := c.Forces()
	var energy float64
	for _, t := range op.terms {
		delta := r3.Sub(pos[t.Particle], t.Center)
		if includeEnergy {
			energy += 0.5 * scale * t.K * r3.Norm2(delta)
		}
		if includeForces {
			frc[t.Particle] = r3.Sub(frc[t.Particle], r3.Scale(scale*t.K, delta))
		}
	}
	return energy, nil
}
