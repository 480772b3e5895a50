package reference

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/engine"
)

type verletStepOp struct {
	xPrime []r3.Vec
}

func (op *verletStepOp) OperationName() string { return engine.OpIntegrateVerletStep }

// Execute performs one leapfrog velocity-Verlet step: kick, drift,
// constraint projection, then velocities from the constrained displacement.
func (op *verletStepOp) Execute(c *engine.Coordinator, stepSize, constraintTol float64) error {
	pos := c.Positions()
	vel := c.Velocities()
	frc := c.Forces()
	inv := c.InvMasses()
	n := len(pos)
	if len(op.xPrime) != n {
		op.xPrime = make([]r3.Vec, n)
	}
	for i := 0; i < n; i++ {
		if inv[i] == 0 {
			op.xPrime[i] = pos[i]
			continue
		}
		vel[i] = r3.Add(vel[i], r3.Scale(stepSize*inv[i], frc[i]))
		op.xPrime[i] = r3.Add(pos[i], r3.Scale(stepSize, vel[i]))
	}
	if cop := c.ConstraintOp(); cop != nil {
		if err := cop.Apply(pos, op.xPrime, constraintTol); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if inv[i] != 0 {
				vel[i] = r3.Scale(1/stepSize, r3.Sub(op.xPrime[i], pos[i]))
			}
		}
	}
	copy(pos, op.xPrime)
	c.AdvanceTime(stepSize)
	c.InvalidateForces()
	return nil
}
