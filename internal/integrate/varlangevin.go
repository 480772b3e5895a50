package integrate

import (
	"github.com/san-kum/moldyn/internal/engine"
)

// VariableLangevin is the adaptive-step Langevin integrator: each step the
// size is chosen so the estimated local error stays at the error tolerance.
// Smooth regions take large steps, steep ones small.
type VariableLangevin struct {
	bindGuard
	temperature   float64
	friction      float64
	errorTol      float64
	maxStepSize   float64
	constraintTol float64
	seed          int64
	lastStepSize  float64
	op            engine.VariableLangevinStepOperation
}

// NewVariableLangevin creates an adaptive Langevin integrator. The step
// size ceiling defaults to 1 ps.
func NewVariableLangevin(temperature, friction, errorTol float64) *VariableLangevin {
	return &VariableLangevin{
		temperature:   temperature,
		friction:      friction,
		errorTol:      errorTol,
		maxStepSize:   1.0,
		constraintTol: defaultConstraintTol,
	}
}

func (l *VariableLangevin) OperationNames() []string {
	return []string{engine.OpIntegrateVariableLangevinStep}
}

func (l *VariableLangevin) Temperature() float64 { return l.temperature }

func (l *VariableLangevin) SetTemperature(t float64) { l.temperature = t }

func (l *VariableLangevin) Friction() float64 { return l.friction }

func (l *VariableLangevin) SetFriction(g float64) { l.friction = g }

func (l *VariableLangevin) ErrorTolerance() float64 { return l.errorTol }

func (l *VariableLangevin) SetErrorTolerance(tol float64) { l.errorTol = tol }

func (l *VariableLangevin) MaxStepSize() float64 { return l.maxStepSize }

func (l *VariableLangevin) SetMaxStepSize(dt float64) { l.maxStepSize = dt }

func (l *VariableLangevin) ConstraintTolerance() float64 { return l.constraintTol }

func (l *VariableLangevin) SetConstraintTolerance(tol float64) { l.constraintTol = tol }

func (l *VariableLangevin) SetRandomSeed(seed int64) { l.seed = seed }

func (l *VariableLangevin) RandomSeed() int64 { return l.seed }

// LastStepSize reports the size of the most recent step, 0 before the
// first one.
func (l *VariableLangevin) LastStepSize() float64 { return l.lastStepSize }

func (l *VariableLangevin) Initialize(c *engine.Coordinator) error {
	if err := l.bindTo(c); err != nil {
		return err
	}
	op, err := typedOperation[engine.VariableLangevinStepOperation](c, engine.OpIntegrateVariableLangevinStep)
	if err != nil {
		l.Unbind()
		return err
	}
	op.Initialize(l.seed)
	l.op = op
	return nil
}

func (l *VariableLangevin) Step(c *engine.Coordinator, n int) error {
	for s := 0; s < n; s++ {
		if err := c.UpdateState(); err != nil {
			return err
		}
		if _, err := c.CalcForcesAndEnergy(true, false); err != nil {
			return err
		}
		taken, err := l.op.Execute(c, l.maxStepSize, l.errorTol, l.temperature, l.friction, l.constraintTol)
		if err != nil {
			return err
		}
		l.lastStepSize = taken
	}
	return nil
}
