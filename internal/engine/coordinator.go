package engine

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/model"
)

// StateUpdater is implemented by forces that adjust simulation state at the
// start of every outer step (barostat-like rescaling and similar).
type StateUpdater interface {
	UpdateState(c *Coordinator) error
}

type boundForceOp struct {
	op    ForceOperation
	force model.Force
}

// Coordinator owns the live mutable simulation state and the backend
// operations derived from one model. It is created and destroyed with its
// owning Context and is rebuilt in place on Reinitialize.
type Coordinator struct {
	owner   *Context
	model   *model.Model
	backend Backend

	time       float64
	positions  []r3.Vec
	velocities []r3.Vec
	forces     []r3.Vec
	params     map[string]float64

	masses    []float64
	invMasses []float64

	forceOps     []boundForceOp
	constraintOp ConstraintOperation
	kineticOp    KineticEnergyOperation
	integOps     map[string]Operation

	forcesValid  bool
	energyValid  bool
	cachedEnergy float64
}

func newCoordinator(m *model.Model, b Backend, integOpNames []string) (*Coordinator, error) {
	n := m.NumParticles()
	c := &Coordinator{
		model:      m,
		backend:    b,
		positions:  make([]r3.Vec, n),
		velocities: make([]r3.Vec, n),
		forces:     make([]r3.Vec, n),
		params:     make(map[string]float64),
		masses:     make([]float64, n),
		invMasses:  make([]float64, n),
		integOps:   make(map[string]Operation),
	}
	for i := 0; i < n; i++ {
		mass := m.Mass(i)
		c.masses[i] = mass
		if mass > 0 {
			c.invMasses[i] = 1 / mass
		}
	}

	for _, f := range m.Forces() {
		for name, value := range f.GlobalParameters() {
			c.params[name] = value
		}
		op, err := b.NewOperation(f.OperationName(), c)
		if err != nil {
			return nil, err
		}
		fop, ok := op.(ForceOperation)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a force operation", ErrNotSupported, f.OperationName())
		}
		if err := fop.InitForce(c, f); err != nil {
			return nil, err
		}
		c.forceOps = append(c.forceOps, boundForceOp{op: fop, force: f})
	}

	if m.NumConstraints() > 0 {
		op, err := b.NewOperation(OpApplyConstraints, c)
		if err != nil {
			return nil, err
		}
		cop, ok := op.(ConstraintOperation)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a constraint operation", ErrNotSupported, OpApplyConstraints)
		}
		c.constraintOp = cop
	}

	op, err := b.NewOperation(OpCalcKineticEnergy, c)
	if err != nil {
		return nil, err
	}
	kop, ok := op.(KineticEnergyOperation)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a kinetic-energy operation", ErrNotSupported, OpCalcKineticEnergy)
	}
	c.kineticOp = kop

	for _, name := range integOpNames {
		iop, err := b.NewOperation(name, c)
		if err != nil {
			return nil, err
		}
		c.integOps[name] = iop
	}
	return c, nil
}

// Owner returns the context this coordinator belongs to. Integrator bind
// guards compare owners, so rebinding after Reinitialize of the same
// context succeeds while binding to a second context fails.
func (c *Coordinator) Owner() *Context { return c.owner }

func (c *Coordinator) Model() *model.Model { return c.model }

func (c *Coordinator) Backend() Backend { return c.backend }

func (c *Coordinator) NumParticles() int { return len(c.positions) }

func (c *Coordinator) Time() float64 { return c.time }

func (c *Coordinator) SetTime(t float64) { c.time = t }

// AdvanceTime is used by integrator step operations.
func (c *Coordinator) AdvanceTime(dt float64) { c.time += dt }

// Positions returns the live backend-resident position array. Operations
// mutate it in place and must call InvalidateForces afterwards; everything
// outside the backend goes through Context setters instead.
func (c *Coordinator) Positions() []r3.Vec { return c.positions }

func (c *Coordinator) Velocities() []r3.Vec { return c.velocities }

func (c *Coordinator) Forces() []r3.Vec { return c.forces }

func (c *Coordinator) Masses() []float64 { return c.masses }

// InvMasses returns per-particle inverse masses; fixed particles (mass <= 0)
// have inverse mass zero.
func (c *Coordinator) InvMasses() []float64 { return c.invMasses }

func (c *Coordinator) setPositions(p []r3.Vec) error {
	if len(p) != len(c.positions) {
		return fmt.Errorf("%w: got %d positions, model has %d particles", ErrSizeMismatch, len(p), len(c.positions))
	}
	copy(c.positions, p)
	c.InvalidateForces()
	return nil
}

func (c *Coordinator) setVelocities(v []r3.Vec) error {
	if len(v) != len(c.velocities) {
		return fmt.Errorf("%w: got %d velocities, model has %d particles", ErrSizeMismatch, len(v), len(c.velocities))
	}
	copy(c.velocities, v)
	return nil
}

func (c *Coordinator) Parameter(name string) (float64, error) {
	value, ok := c.params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return value, nil
}

func (c *Coordinator) SetParameter(name string, value float64) error {
	if _, ok := c.params[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	c.params[name] = value
	c.InvalidateForces()
	return nil
}

// InvalidateForces marks cached forces and energy stale. Every state
// mutation calls it; the next CalcForcesAndEnergy recomputes.
func (c *Coordinator) InvalidateForces() {
	c.forcesValid = false
	c.energyValid = false
}

// UpdateState gives every force a chance to apply state-dependent
// adjustments before a step. Called once per outer step by convention.
func (c *Coordinator) UpdateState() error {
	for _, bf := range c.forceOps {
		if u, ok := bf.force.(StateUpdater); ok {
			if err := u.UpdateState(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// CalcForcesAndEnergy evaluates every force operation in model order (the
// fixed accumulation order) and returns the total potential energy when
// wantEnergy is set. Results are memoized until the next state mutation, so
// repeated calls with unchanged state do no work.
func (c *Coordinator) CalcForcesAndEnergy(wantForces, wantEnergy bool) (float64, error) {
	if (!wantForces || c.forcesValid) && (!wantEnergy || c.energyValid) {
		return c.cachedEnergy, nil
	}
	if wantForces {
		for i := range c.forces {
			c.forces[i] = r3.Vec{}
		}
	}
	var energy float64
	for _, bf := range c.forceOps {
		e, err := bf.op.Execute(c, wantForces, wantEnergy)
		if err != nil {
			return 0, err
		}
		energy += e
	}
	if wantForces {
		c.forcesValid = true
	}
	if wantEnergy {
		c.cachedEnergy = energy
		c.energyValid = true
	}
	return energy, nil
}

// KineticEnergy computes the kinetic energy of the current velocities.
func (c *Coordinator) KineticEnergy() (float64, error) {
	return c.kineticOp.Execute(c)
}

// ApplyConstraints projects current positions onto the constraint manifold
// within tol. Returns ErrConstraintConvergence if the iteration cap is hit.
func (c *Coordinator) ApplyConstraints(tol float64) error {
	if c.constraintOp == nil {
		return nil
	}
	if err := c.constraintOp.Apply(c.positions, c.positions, tol); err != nil {
		return err
	}
	c.InvalidateForces()
	return nil
}

// ApplyVelocityConstraints removes velocity components along constrained
// directions.
func (c *Coordinator) ApplyVelocityConstraints(tol float64) error {
	if c.constraintOp == nil {
		return nil
	}
	return c.constraintOp.ApplyToVelocities(c.positions, c.velocities, tol)
}

// ConstraintOp exposes the shared constraint operation to integrator step
// operations; nil when the model has no constraints.
func (c *Coordinator) ConstraintOp() ConstraintOperation { return c.constraintOp }

// Operation returns an integrator operation created at bind, or nil.
func (c *Coordinator) Operation(name string) Operation { return c.integOps[name] }
