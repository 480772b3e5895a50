package integrate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/backend/reference"
	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/forces"
	"github.com/san-kum/moldyn/internal/integrate"
	"github.com/san-kum/moldyn/internal/model"
	"github.com/san-kum/moldyn/internal/units"
)

// oscillatorModel is two particles of mass 2 joined by a unit-stiffness
// spring of rest length 1.5, started stretched to separation 2. The reduced
// mass is 1, so the relative coordinate is an analytically solvable damped
// oscillator.
func oscillatorModel() (*model.Model, []r3.Vec) {
	m := model.New()
	m.AddParticle(2.0)
	m.AddParticle(2.0)
	hb := forces.NewHarmonicBond()
	hb.AddBond(0, 1, 1.5, 1.0)
	m.AddForce(hb)
	return m, []r3.Vec{{X: -1}, {X: 1}}
}

// idealGasModel is n free particles of unit mass: no forces at all.
func idealGasModel(n int) (*model.Model, []r3.Vec) {
	m := model.New()
	for i := 0; i < n; i++ {
		m.AddParticle(1.0)
	}
	pos := make([]r3.Vec, n)
	for i := range pos {
		pos[i] = r3.Vec{X: float64(i)}
	}
	return m, pos
}

func TestVariableLangevin_DampedOscillator(t *testing.T) {
	m, pos := oscillatorModel()
	integ := integrate.NewVariableLangevin(0, 0.1, 1e-6)

	x, err := engine.NewContext(m, integ, reference.New())
	require.NoError(t, err)
	defer x.Close()
	require.NoError(t, x.SetPositions(pos))

	// At temperature 0 the stochastic term vanishes and the relative
	// coordinate follows 1.5 + 0.5·exp(-t/20)·cos(w·t).
	freq := math.Sqrt(1 - 0.05*0.05)
	for i := 0; i < 1000; i++ {
		snap, err := x.State(engine.IncludePositions)
		require.NoError(t, err)

		dist := snap.Positions[1].X - snap.Positions[0].X
		expected := 1.5 + 0.5*math.Exp(-0.05*snap.Time)*math.Cos(freq*snap.Time)
		require.InDelta(t, expected, dist, 0.02, "step %d, t=%g", i, snap.Time)

		require.NoError(t, x.Step(1))
	}
}

func TestVariableLangevin_RespectsMaxStepSize(t *testing.T) {
	m, pos := oscillatorModel()
	integ := integrate.NewVariableLangevin(0, 0.1, 10.0)
	integ.SetMaxStepSize(0.005)

	x, err := engine.NewContext(m, integ, reference.New())
	require.NoError(t, err)
	defer x.Close()
	require.NoError(t, x.SetPositions(pos))

	for i := 0; i < 50; i++ {
		require.NoError(t, x.Step(1))
		require.LessOrEqual(t, integ.LastStepSize(), 0.005)
		require.Greater(t, integ.LastStepSize(), 0.0)
	}
}

func TestLangevin_NearZeroFrictionConservesEnergy(t *testing.T) {
	m, pos := oscillatorModel()
	// At T=0 with negligible friction the dynamics is effectively Verlet:
	// the damping removes 2·gamma·t of relative energy over the run, far
	// below the tolerance.
	integ := integrate.NewLangevin(0, 5e-5, 0.01)

	x, err := engine.NewContext(m, integ, reference.New())
	require.NoError(t, err)
	defer x.Close()
	require.NoError(t, x.SetPositions(pos))

	initial, err := x.State(engine.IncludeEnergy)
	require.NoError(t, err)
	e0 := initial.TotalEnergy()
	require.Greater(t, e0, 0.0)

	for i := 0; i < 10; i++ {
		require.NoError(t, x.Step(100))
		snap, err := x.State(engine.IncludeEnergy)
		require.NoError(t, err)
		require.InDelta(t, e0, snap.TotalEnergy(), 0.05*e0)
	}
}

func TestLangevin_IdealGasTemperature(t *testing.T) {
	const (
		n           = 64
		temperature = 300.0
		friction    = 10.0
		stepSize    = 0.01
	)
	m, pos := idealGasModel(n)
	integ := integrate.NewLangevin(temperature, friction, stepSize)
	integ.SetRandomSeed(7)

	x, err := engine.NewContext(m, integ, reference.New())
	require.NoError(t, err)
	defer x.Close()
	require.NoError(t, x.SetPositions(pos))

	// Equilibrate, then average the kinetic energy. The velocity update is
	// an exact Ornstein-Uhlenbeck solution, so the stationary distribution
	// is exactly Maxwell-Boltzmann.
	require.NoError(t, x.Step(200))

	var meanKE float64
	const samples = 200
	for i := 0; i < samples; i++ {
		require.NoError(t, x.Step(10))
		snap, err := x.State(engine.IncludeEnergy)
		require.NoError(t, err)
		meanKE += snap.KineticEnergy
	}
	meanKE /= samples

	expected := 1.5 * float64(n) * units.KB * temperature
	require.InDelta(t, expected, meanKE, 0.05*expected)
}

func TestLangevin_SeedDeterminism(t *testing.T) {
	run := func(seed int64) []r3.Vec {
		m, pos := oscillatorModel()
		integ := integrate.NewLangevin(300, 1.0, 0.002)
		integ.SetRandomSeed(seed)

		x, err := engine.NewContext(m, integ, reference.New())
		require.NoError(t, err)
		defer x.Close()
		require.NoError(t, x.SetPositions(pos))
		require.NoError(t, x.Step(100))

		snap, err := x.State(engine.IncludePositions)
		require.NoError(t, err)
		return snap.Positions
	}

	a := run(42)
	b := run(42)
	c := run(43)

	require.Equal(t, a, b, "same seed must reproduce the trajectory exactly")
	require.NotEqual(t, a, c, "different seeds must diverge")
}

func TestLangevin_ReinitializeReproducesTrajectory(t *testing.T) {
	m, pos := oscillatorModel()
	integ := integrate.NewLangevin(300, 1.0, 0.002)
	integ.SetRandomSeed(11)

	x, err := engine.NewContext(m, integ, reference.New())
	require.NoError(t, err)
	defer x.Close()
	require.NoError(t, x.SetPositions(pos))
	require.NoError(t, x.Step(100))
	first, err := x.State(engine.IncludePositions)
	require.NoError(t, err)

	// Reinitialize resets all state and reseeds the random stream, so
	// re-supplying the same start reproduces the same trajectory.
	require.NoError(t, x.Reinitialize())
	require.NoError(t, x.SetPositions(pos))
	require.NoError(t, x.Step(100))
	second, err := x.State(engine.IncludePositions)
	require.NoError(t, err)

	require.Equal(t, first.Positions, second.Positions)
}

func TestLangevin_ConstrainedChain(t *testing.T) {
	const (
		n        = 8
		distance = 1.0
	)
	m := model.New()
	pos := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		m.AddParticle(10.0)
		pos[i] = r3.Vec{X: distance * float64(i)}
		if i > 0 {
			m.AddConstraint(i-1, i, distance)
		}
	}

	integ := integrate.NewLangevin(300, 1.0, 0.001)
	integ.SetRandomSeed(3)

	x, err := engine.NewContext(m, integ, reference.New())
	require.NoError(t, err)
	defer x.Close()
	require.NoError(t, x.SetPositions(pos))

	for step := 0; step < 500; step++ {
		require.NoError(t, x.Step(1))
		snap, err := x.State(engine.IncludePositions)
		require.NoError(t, err)
		for i := 1; i < n; i++ {
			d := r3.Norm(r3.Sub(snap.Positions[i], snap.Positions[i-1]))
			require.InDelta(t, distance, d, 2e-5, "constraint %d at step %d", i, step)
		}
	}
}
