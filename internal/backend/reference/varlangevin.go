package reference

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/engine"
)

// maxStepGrowth limits how fast the adaptive step may grow between calls,
// so a transient zero-force configuration cannot blow the step size up.
const maxStepGrowth = 2.0

type variableLangevinStepOp struct {
	langevinStepOp
	lastStepSize float64
}

func (op *variableLangevinStepOp) OperationName() string {
	return engine.OpIntegrateVariableLangevinStep
}

// Execute chooses the step size so the estimated local displacement error
// (dt²·a, measured by the RMS acceleration) stays at errorTol, then runs an
// ordinary Langevin step of that size. The chosen size is returned.
func (op *variableLangevinStepOp) Execute(c *engine.Coordinator, maxStepSize, errorTol, temperature, friction, constraintTol float64) (float64, error) {
	frc := c.Forces()
	inv := c.InvMasses()
	var sum float64
	var dof int
	for i, f := range frc {
		if inv[i] == 0 {
			continue
		}
		a := r3.Scale(inv[i], f)
		sum += r3.Norm2(a)
		dof += 3
	}
	stepSize := maxStepSize
	if dof > 0 && sum > 0 {
		rms := math.Sqrt(sum / float64(dof))
		stepSize = math.Sqrt(errorTol / rms)
	}
	if op.lastStepSize > 0 && stepSize > op.lastStepSize*maxStepGrowth {
		stepSize = op.lastStepSize * maxStepGrowth
	}
	if maxStepSize > 0 && stepSize > maxStepSize {
		stepSize = maxStepSize
	}
	if err := op.langevinStepOp.Execute(c, stepSize, temperature, friction, constraintTol); err != nil {
		return 0, err
	}
	op.lastStepSize = stepSize
	return stepSize, nil
}
