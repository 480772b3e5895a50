package engine

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/model"
)

// Operation names that are not tied to a specific force type. Force
// operation names are declared next to the force types themselves.
const (
	OpCalcKineticEnergy             = "CalcKineticEnergy"
	OpApplyConstraints              = "ApplyConstraints"
	OpIntegrateVerletStep           = "IntegrateVerletStep"
	OpIntegrateLangevinStep         = "IntegrateLangevinStep"
	OpIntegrateVariableLangevinStep = "IntegrateVariableLangevinStep"
	OpIntegrateRPMDStep             = "IntegrateRPMDStep"
)

// Backend is a compute provider: a catalog of named operations. Dispatch
// from generic code to concrete numeric routines happens purely through
// NewOperation; backends that cannot provide a name return ErrNotSupported.
type Backend interface {
	Name() string

	// Speed ranks backends for default selection: among the candidates
	// supporting every required operation, the highest Speed wins.
	Speed() float64

	Supports(name string) bool

	// NewOperation creates the named operation bound to c. The returned
	// operation belongs to c for its whole lifetime.
	NewOperation(name string, c *Coordinator) (Operation, error)
}

// Operation is a stateful unit of backend-executed numeric work. Concrete
// kinds are reached through the typed sub-interfaces below; the single type
// assertion happens once at bind time, so a missing capability is a
// configuration error surfaced before the first step.
type Operation interface {
	OperationName() string
}

// ForceOperation evaluates one force's contribution. InitForce is called
// once at bind with the originating force; implementations snapshot the
// descriptors they need so later model mutation has no effect until
// reinitialization.
type ForceOperation interface {
	Operation
	InitForce(c *Coordinator, f model.Force) error

	// Execute accumulates into the coordinator's force array when
	// includeForces is set and returns the potential-energy contribution
	// when includeEnergy is set. No other side effects.
	Execute(c *Coordinator, includeForces, includeEnergy bool) (float64, error)
}

// KineticEnergyOperation computes the total kinetic energy of the current
// velocities.
type KineticEnergyOperation interface {
	Operation
	Execute(c *Coordinator) (float64, error)
}

// ConstraintOperation projects positions and velocities onto the constraint
// manifold by iterative relaxation. Apply moves pos so that every
// constrained distance matches its target within tol, using directions
// taken from ref; ApplyToVelocities removes velocity components along the
// constrained directions in pos.
type ConstraintOperation interface {
	Operation
	Apply(ref, pos []r3.Vec, tol float64) error
	ApplyToVelocities(pos []r3.Vec, vel []r3.Vec, tol float64) error
}

// VerletStepOperation advances the state by one leapfrog velocity-Verlet
// step of the given size, projecting constraints to constraintTol.
type VerletStepOperation interface {
	Operation
	Execute(c *Coordinator, stepSize, constraintTol float64) error
}

// LangevinStepOperation advances the state by one fixed-size Langevin step.
// Initialize seeds the operation's Gaussian source; recreating the
// operation with the same seed reproduces the trajectory bit for bit.
type LangevinStepOperation interface {
	Operation
	Initialize(seed int64)
	Execute(c *Coordinator, stepSize, temperature, friction, constraintTol float64) error
}

// VariableLangevinStepOperation picks the step size from a local error
// estimate against errorTol, bounded by maxStepSize, then performs a
// Langevin step of that size. It reports the step size actually taken.
type VariableLangevinStepOperation interface {
	Operation
	Initialize(seed int64)
	Execute(c *Coordinator, maxStepSize, errorTol, temperature, friction, constraintTol float64) (float64, error)
}

// RPMDStepOperation advances a ring-polymer system of numCopies coupled
// replicas. Per-copy state lives backend-side; CopyToContext materializes
// one copy into the shared coordinator state for snapshotting.
type RPMDStepOperation interface {
	Operation
	Initialize(numCopies int, seed int64) error
	Execute(c *Coordinator, stepSize, temperature, friction float64, applyThermostat bool) error
	SetCopyPositions(copy int, positions []r3.Vec) error
	SetCopyVelocities(copy int, velocities []r3.Vec) error
	CopyToContext(copy int, c *Coordinator) error
}

// selectBackend implements the documented default selection: the
// highest-Speed backend that supports every required operation name.
func selectBackend(candidates []Backend, required []string) (Backend, error) {
	var best Backend
	for _, b := range candidates {
		ok := true
		for _, name := range required {
			if !b.Supports(name) {
				ok = false
				break
			}
		}
		if ok && (best == nil || b.Speed() > best.Speed()) {
			best = b
		}
	}
	if best == nil {
		return nil, ErrNoBackend
	}
	return best, nil
}
