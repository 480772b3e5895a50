// Package reference implements the sequential reference backend. Every
// operation runs on the calling goroutine in plain loops; other backends
// must agree with it numerically within a stated tolerance.
package reference

import (
	"fmt"

	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/forces"
)

type Backend struct {
	ops map[string]func(c *engine.Coordinator) engine.Operation
}

func New() *Backend {
	b := &Backend{}
	b.ops = map[string]func(c *engine.Coordinator) engine.Operation{
		forces.OpCalcHarmonicBondForce: func(c *engine.Coordinator) engine.Operation { return &harmonicBondOp{} },
		forces.OpCalcNonbondedForce:    func(c *engine.Coordinator) engine.Operation { return &nonbondedOp{} },
		forces.OpCalcExternalWellForce: func(c *engine.Coordinator) engine.Operation { return &externalWellOp{} },
		engine.OpCalcKineticEnergy:     func(c *engine.Coordinator) engine.Operation { return &kineticEnergyOp{} },
		engine.OpApplyConstraints:      newConstraintOp,
		engine.OpIntegrateVerletStep:   func(c *engine.Coordinator) engine.Operation { return &verletStepOp{} },
		engine.OpIntegrateLangevinStep: func(c *engine.Coordinator) engine.Operation { return &langevinStepOp{} },
		engine.OpIntegrateVariableLangevinStep: func(c *engine.Coordinator) engine.Operation {
			return &variableLangevinStepOp{}
		},
		engine.OpIntegrateRPMDStep: func(c *engine.Coordinator) engine.Operation { return &rpmdStepOp{} },
	}
	return b
}

func (b *Backend) Name() string { return "reference" }

func (b *Backend) Speed() float64 { return 1 }

func (b *Backend) Supports(name string) bool {
	_, ok := b.ops[name]
	return ok
}

func (b *Backend) NewOperation(name string, c *engine.Coordinator) (engine.Operation, error) {
	ctor, ok := b.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (backend %s)", engine.ErrNotSupported, name, b.Name())
	}
	return ctor(c), nil
}
