// Package engine binds a model and an integrator to a compute backend and
// owns the live simulation state. The Context is the caller-facing handle;
// the Coordinator does the cache management and state mediation behind it.
package engine

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/model"
)

// Context stores the complete state of one simulation: current time,
// particle positions and velocities, and the values of adjustable
// parameters declared by the model's forces. It is not safe for concurrent
// use; independent Contexts run fully in parallel.
type Context struct {
	model      *model.Model
	integrator Integrator
	coord      *Coordinator
}

// NewContext binds m and integ to a backend. With exactly one candidate
// backend, that backend is used; with several, the highest-Speed backend
// supporting every required operation wins. The bind is atomic: an
// already-bound integrator or an unsupported operation leaves no partial
// state anywhere.
func NewContext(m *model.Model, integ Integrator, backends ...Backend) (*Context, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	required := requiredOperations(m, integ)
	b, err := selectBackend(backends, required)
	if err != nil {
		return nil, err
	}
	x := &Context{model: m, integrator: integ}
	coord, err := newCoordinator(m, b, integ.OperationNames())
	if err != nil {
		return nil, err
	}
	coord.owner = x
	if err := integ.Initialize(coord); err != nil {
		return nil, err
	}
	x.coord = coord
	return x, nil
}

func requiredOperations(m *model.Model, integ Integrator) []string {
	names := []string{OpCalcKineticEnergy}
	if m.NumConstraints() > 0 {
		names = append(names, OpApplyConstraints)
	}
	for _, f := range m.Forces() {
		names = append(names, f.OperationName())
	}
	return append(names, integ.OperationNames()...)
}

func (x *Context) Model() *model.Model { return x.model }

func (x *Context) Integrator() Integrator { return x.integrator }

func (x *Context) Backend() Backend { return x.coord.backend }

// Coordinator exposes the internal driver to integrator implementations.
func (x *Context) Coordinator() *Coordinator { return x.coord }

// Step advances the simulation by n integrator steps.
func (x *Context) Step(n int) error {
	return x.integrator.Step(x.coord, n)
}

// State returns a snapshot of the requested quantities. Requesting forces
// or energy triggers an on-demand evaluation; the simulation time is never
// mutated.
func (x *Context) State(include Include) (Snapshot, error) {
	snap := Snapshot{Time: x.coord.time}
	if include&(IncludeForces|IncludeEnergy) != 0 {
		wantForces := include&IncludeForces != 0
		wantEnergy := include&IncludeEnergy != 0
		pe, err := x.coord.CalcForcesAndEnergy(wantForces, wantEnergy)
		if err != nil {
			return Snapshot{}, err
		}
		if wantEnergy {
			snap.PotentialEnergy = pe
			ke, err := x.coord.KineticEnergy()
			if err != nil {
				return Snapshot{}, err
			}
			snap.KineticEnergy = ke
		}
		if wantForces {
			snap.Forces = cloneVecs(x.coord.forces)
		}
	}
	if include&IncludePositions != 0 {
		snap.Positions = cloneVecs(x.coord.positions)
	}
	if include&IncludeVelocities != 0 {
		snap.Velocities = cloneVecs(x.coord.velocities)
	}
	return snap, nil
}

func (x *Context) SetTime(t float64) { x.coord.SetTime(t) }

func (x *Context) SetPositions(positions []r3.Vec) error {
	return x.coord.setPositions(positions)
}

func (x *Context) SetVelocities(velocities []r3.Vec) error {
	return x.coord.setVelocities(velocities)
}

func (x *Context) Parameter(name string) (float64, error) {
	return x.coord.Parameter(name)
}

func (x *Context) SetParameter(name string, value float64) error {
	return x.coord.SetParameter(name, value)
}

// Reinitialize rebuilds the backend-resident model representation and every
// operation from the model's current contents. Positions, velocities, time,
// and parameter overrides are reset and must be re-supplied. Expensive;
// intended for topology changes, not parameter updates.
func (x *Context) Reinitialize() error {
	if err := x.model.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	coord, err := newCoordinator(x.model, x.coord.backend, x.integrator.OperationNames())
	if err != nil {
		return err
	}
	coord.owner = x
	if err := x.integrator.Initialize(coord); err != nil {
		return err
	}
	x.coord = coord
	return nil
}

type unbinder interface {
	Unbind()
}

// Close releases the coordinator and all operations and detaches the
// integrator so it can be bound elsewhere. The context must not be used
// afterwards.
func (x *Context) Close() {
	if u, ok := x.integrator.(unbinder); ok {
		u.Unbind()
	}
	x.coord = nil
}
