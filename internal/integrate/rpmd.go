package integrate

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/engine"
)

// RPMD is the ring-polymer molecular dynamics integrator: numCopies replicas
// of the system joined into ring polymers whose classical dynamics sample
// approximate quantum statistics. Constraints are not supported; they have
// no consistent meaning across coupled replicas.
type RPMD struct {
	bindGuard
	copies          int
	temperature     float64
	friction        float64
	stepSize        float64
	applyThermostat bool
	seed            int64
	op              engine.RPMDStepOperation
}

// NewRPMD creates a ring-polymer integrator with numCopies beads per
// particle. The internal thermostat is enabled by default.
func NewRPMD(numCopies int, temperature, friction, stepSize float64) *RPMD {
	return &RPMD{
		copies:          numCopies,
		temperature:     temperature,
		friction:        friction,
		stepSize:        stepSize,
		applyThermostat: true,
	}
}

func (r *RPMD) OperationNames() []string {
	return []string{engine.OpIntegrateRPMDStep}
}

func (r *RPMD) NumCopies() int { return r.copies }

func (r *RPMD) Temperature() float64 { return r.temperature }

func (r *RPMD) SetTemperature(t float64) { r.temperature = t }

func (r *RPMD) Friction() float64 { return r.friction }

func (r *RPMD) SetFriction(g float64) { r.friction = g }

func (r *RPMD) StepSize() float64 { return r.stepSize }

func (r *RPMD) SetStepSize(dt float64) { r.stepSize = dt }

// SetApplyThermostat toggles the internal thermostat. Disable it to run
// constant-energy ring-polymer trajectories.
func (r *RPMD) SetApplyThermostat(on bool) { r.applyThermostat = on }

func (r *RPMD) ApplyThermostat() bool { return r.applyThermostat }

func (r *RPMD) SetRandomSeed(seed int64) { r.seed = seed }

func (r *RPMD) RandomSeed() int64 { return r.seed }

func (r *RPMD) Initialize(c *engine.Coordinator) error {
	if c.Model().NumConstraints() > 0 {
		return fmt.Errorf("%w: ring-polymer dynamics does not support constraints", engine.ErrInvalidModel)
	}
	if err := r.bindTo(c); err != nil {
		return err
	}
	op, err := typedOperation[engine.RPMDStepOperation](c, engine.OpIntegrateRPMDStep)
	if err != nil {
		r.Unbind()
		return err
	}
	if err := op.Initialize(r.copies, r.seed); err != nil {
		r.Unbind()
		return err
	}
	r.op = op
	return nil
}

func (r *RPMD) Step(c *engine.Coordinator, n int) error {
	for s := 0; s < n; s++ {
		if err := c.UpdateState(); err != nil {
			return err
		}
		if err := r.op.Execute(c, r.stepSize, r.temperature, r.friction, r.applyThermostat); err != nil {
			return err
		}
	}
	return nil
}

// SetCopyPositions sets the positions of one replica. Until any copy is set
// explicitly, all replicas start from the context's positions on the first
// step.
func (r *RPMD) SetCopyPositions(copy int, positions []r3.Vec) error {
	if !r.bound() {
		return fmt.Errorf("%w: not bound to a context", engine.ErrIntegratorBound)
	}
	return r.op.SetCopyPositions(copy, positions)
}

func (r *RPMD) SetCopyVelocities(copy int, velocities []r3.Vec) error {
	if !r.bound() {
		return fmt.Errorf("%w: not bound to a context", engine.ErrIntegratorBound)
	}
	return r.op.SetCopyVelocities(copy, velocities)
}

// State loads the chosen replica into the owning context and snapshots it.
func (r *RPMD) State(copy int, include engine.Include) (engine.Snapshot, error) {
	if !r.bound() {
		return engine.Snapshot{}, fmt.Errorf("%w: not bound to a context", engine.ErrIntegratorBound)
	}
	if err := r.op.CopyToContext(copy, r.owner.Coordinator()); err != nil {
		return engine.Snapshot{}, err
	}
	return r.owner.State(include)
}
