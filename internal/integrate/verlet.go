package integrate

import (
	"github.com/san-kum/moldyn/internal/engine"
)

// Verlet is the deterministic leapfrog velocity-Verlet integrator.
type Verlet struct {
	bindGuard
	stepSize      float64
	constraintTol float64
	op            engine.VerletStepOperation
}

// NewVerlet creates a Verlet integrator with the given step size in ps.
func NewVerlet(stepSize float64) *Verlet {
	return &Verlet{stepSize: stepSize, constraintTol: defaultConstraintTol}
}

func (v *Verlet) OperationNames() []string {
	return []string{engine.OpIntegrateVerletStep}
}

func (v *Verlet) StepSize() float64 { return v.stepSize }

func (v *Verlet) SetStepSize(dt float64) { v.stepSize = dt }

func (v *Verlet) ConstraintTolerance() float64 { return v.constraintTol }

func (v *Verlet) SetConstraintTolerance(tol float64) { v.constraintTol = tol }

func (v *Verlet) Initialize(c *engine.Coordinator) error {
	if err := v.bindTo(c); err != nil {
		return err
	}
	op, err := typedOperation[engine.VerletStepOperation](c, engine.OpIntegrateVerletStep)
	if err != nil {
		v.Unbind()
		return err
	}
	v.op = op
	return nil
}

func (v *Verlet) Step(c *engine.Coordinator, n int) error {
	for s := 0; s < n; s++ {
		if err := c.UpdateState(); err != nil {
			return err
		}
		if _, err := c.CalcForcesAndEnergy(true, false); err != nil {
			return err
		}
		if err := v.op.Execute(c, v.stepSize, v.constraintTol); err != nil {
			return err
		}
	}
	return nil
}
