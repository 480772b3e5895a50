package reference

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/engine"
)

type kineticEnergyOp struct{}

func (op *kineticEnergyOp) OperationName() string { return engine.OpCalcKineticEnergy }

func (op *kineticEnergyOp) Execute(c *engine.Coordinator) (float64, error) {
	vel := c.Velocities()
	masses := c.Masses()
	var ke float64
	for i, v := range vel {
		if masses[i] > 0 {
			ke += 0.5 * masses[i] * r3.Norm2(v)
		}
	}
	return ke, nil
}
