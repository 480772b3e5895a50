package engine_test

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/backend/parallel"
	"github.com/san-kum/moldyn/internal/backend/reference"
	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/forces"
	"github.com/san-kum/moldyn/internal/integrate"
	"github.com/san-kum/moldyn/internal/model"
)

func bondModel() (*model.Model, []r3.Vec) {
	m := model.New()
	m.AddParticle(2.0)
	m.AddParticle(2.0)
	hb := forces.NewHarmonicBond()
	hb.AddBond(0, 1, 1.0, 1.0)
	m.AddForce(hb)
	return m, []r3.Vec{{X: -1}, {X: 1}}
}

func TestNewContext_AutoSelectsFastestBackend(t *testing.T) {
	m, pos := bondModel()
	x, err := engine.NewContext(m, integrate.NewVerlet(0.001), reference.New(), parallel.New())
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer x.Close()
	if err := x.SetPositions(pos); err != nil {
		t.Fatal(err)
	}
	if name := x.Backend().Name(); name != "parallel" {
		t.Errorf("expected parallel backend, got %s", name)
	}
}

type bogusIntegrator struct{ integrate.Verlet }

func (b *bogusIntegrator) OperationNames() []string { return []string{"NoSuchOperation"} }

func TestNewContext_NoCapableBackend(t *testing.T) {
	m, _ := bondModel()
	_, err := engine.NewContext(m, &bogusIntegrator{}, reference.New(), parallel.New())
	if !errors.Is(err, engine.ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}
}

func TestNewContext_InvalidModel(t *testing.T) {
	m := model.New()
	m.AddParticle(1.0)
	m.AddParticle(1.0)
	m.AddConstraint(0, 1, -0.5)
	_, err := engine.NewContext(m, integrate.NewVerlet(0.001), reference.New())
	if !errors.Is(err, engine.ErrInvalidModel) {
		t.Errorf("expected ErrInvalidModel, got %v", err)
	}
}

func TestIntegratorDoubleBind(t *testing.T) {
	m1, pos := bondModel()
	m2, _ := bondModel()
	integ := integrate.NewVerlet(0.001)

	x1, err := engine.NewContext(m1, integ, reference.New())
	if err != nil {
		t.Fatalf("first bind: %v", err)
	}
	defer x1.Close()
	if err := x1.SetPositions(pos); err != nil {
		t.Fatal(err)
	}

	if _, err := engine.NewContext(m2, integ, reference.New()); !errors.Is(err, engine.ErrIntegratorBound) {
		t.Fatalf("expected ErrIntegratorBound, got %v", err)
	}

	// The failed bind must not have disturbed the first context.
	if err := x1.Step(5); err != nil {
		t.Errorf("first context broken after failed rebind: %v", err)
	}
}

func TestSetPositions_SizeMismatch(t *testing.T) {
	m, _ := bondModel()
	x, err := engine.NewContext(m, integrate.NewVerlet(0.001), reference.New())
	if err != nil {
		t.Fatal(err)
	}
	defer x.Close()

	if err := x.SetPositions([]r3.Vec{{X: 1}}); !errors.Is(err, engine.ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
	if err := x.SetVelocities(make([]r3.Vec, 5)); !errors.Is(err, engine.ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestParameters(t *testing.T) {
	m, pos := bondModel()
	well := forces.NewExternalWell()
	well.AddTerm(0, r3.Vec{}, 10.0)
	m.AddForce(well)

	x, err := engine.NewContext(m, integrate.NewVerlet(0.001), reference.New())
	if err != nil {
		t.Fatal(err)
	}
	defer x.Close()
	if err := x.SetPositions(pos); err != nil {
		t.Fatal(err)
	}

	v, err := x.Parameter(forces.WellScaleParameter)
	if err != nil {
		t.Fatalf("default parameter: %v", err)
	}
	if v != 1.0 {
		t.Errorf("expected default 1.0, got %g", v)
	}

	if _, err := x.Parameter("no_such"); !errors.Is(err, engine.ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}
	if err := x.SetParameter("no_such", 2.0); !errors.Is(err, engine.ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}

	// Scaling the wells must scale their energy contribution.
	before, err := x.State(engine.IncludeEnergy)
	if err != nil {
		t.Fatal(err)
	}
	if err := x.SetParameter(forces.WellScaleParameter, 2.0); err != nil {
		t.Fatal(err)
	}
	after, err := x.State(engine.IncludeEnergy)
	if err != nil {
		t.Fatal(err)
	}
	if after.PotentialEnergy <= before.PotentialEnergy {
		t.Errorf("well scale had no effect: %g -> %g", before.PotentialEnergy, after.PotentialEnergy)
	}
}

func TestState_IncludesOnlyRequested(t *testing.T) {
	m, pos := bondModel()
	x, err := engine.NewContext(m, integrate.NewVerlet(0.001), reference.New())
	if err != nil {
		t.Fatal(err)
	}
	defer x.Close()
	if err := x.SetPositions(pos); err != nil {
		t.Fatal(err)
	}

	snap, err := x.State(engine.IncludePositions)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Positions == nil || snap.Velocities != nil || snap.Forces != nil {
		t.Errorf("unexpected categories in snapshot: %+v", snap)
	}

	snap, err = x.State(engine.IncludeForces | engine.IncludeEnergy)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Forces == nil {
		t.Error("forces missing")
	}
	// Bond stretched from 1.0 to 2.0: E = (1/2)·k·dr² = 0.5.
	if diff := snap.PotentialEnergy - 0.5; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("potential energy %g, expected 0.5", snap.PotentialEnergy)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m, pos := bondModel()
	x, err := engine.NewContext(m, integrate.NewVerlet(0.001), reference.New())
	if err != nil {
		t.Fatal(err)
	}
	defer x.Close()
	if err := x.SetPositions(pos); err != nil {
		t.Fatal(err)
	}

	snap, err := x.State(engine.IncludePositions)
	if err != nil {
		t.Fatal(err)
	}
	snap.Positions[0] = r3.Vec{X: 99}

	again, err := x.State(engine.IncludePositions)
	if err != nil {
		t.Fatal(err)
	}
	if again.Positions[0].X != -1 {
		t.Errorf("snapshot mutation leaked into context: %v", again.Positions[0])
	}
}

func TestReinitialize_RebindsSameIntegrator(t *testing.T) {
	m, pos := bondModel()
	integ := integrate.NewVerlet(0.001)
	x, err := engine.NewContext(m, integ, reference.New())
	if err != nil {
		t.Fatal(err)
	}
	defer x.Close()
	if err := x.SetPositions(pos); err != nil {
		t.Fatal(err)
	}
	if err := x.Step(3); err != nil {
		t.Fatal(err)
	}

	if err := x.Reinitialize(); err != nil {
		t.Fatalf("reinitialize: %v", err)
	}

	// State was reset and must be re-supplied.
	snap, err := x.State(engine.IncludePositions)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Positions[0] != (r3.Vec{}) {
		t.Errorf("expected zeroed positions after reinitialize, got %v", snap.Positions[0])
	}

	if err := x.SetPositions(pos); err != nil {
		t.Fatal(err)
	}
	if err := x.Step(3); err != nil {
		t.Errorf("step after reinitialize: %v", err)
	}
}

func TestClose_ReleasesIntegrator(t *testing.T) {
	m1, _ := bondModel()
	m2, pos := bondModel()
	integ := integrate.NewVerlet(0.001)

	x1, err := engine.NewContext(m1, integ, reference.New())
	if err != nil {
		t.Fatal(err)
	}
	x1.Close()

	x2, err := engine.NewContext(m2, integ, reference.New())
	if err != nil {
		t.Fatalf("bind after close: %v", err)
	}
	defer x2.Close()
	if err := x2.SetPositions(pos); err != nil {
		t.Fatal(err)
	}
	if err := x2.Step(1); err != nil {
		t.Errorf("step on rebound integrator: %v", err)
	}
}
