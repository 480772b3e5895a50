package integrate_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/backend/reference"
	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/forces"
	"github.com/san-kum/moldyn/internal/integrate"
	"github.com/san-kum/moldyn/internal/model"
)

func TestVerlet_ConservesEnergy(t *testing.T) {
	m, pos := oscillatorModel()
	integ := integrate.NewVerlet(0.005)

	x, err := engine.NewContext(m, integ, reference.New())
	require.NoError(t, err)
	defer x.Close()
	require.NoError(t, x.SetPositions(pos))

	initial, err := x.State(engine.IncludeEnergy)
	require.NoError(t, err)
	e0 := initial.TotalEnergy()

	for i := 0; i < 20; i++ {
		require.NoError(t, x.Step(100))
		snap, err := x.State(engine.IncludeEnergy)
		require.NoError(t, err)
		require.InDelta(t, e0, snap.TotalEnergy(), 0.05*e0)
	}
}

func TestVerlet_FixedParticleNeverMoves(t *testing.T) {
	m := model.New()
	m.AddParticle(0) // fixed anchor
	m.AddParticle(1.0)
	hb := forces.NewHarmonicBond()
	hb.AddBond(0, 1, 1.0, 100.0)
	m.AddForce(hb)

	integ := integrate.NewVerlet(0.001)
	x, err := engine.NewContext(m, integ, reference.New())
	require.NoError(t, err)
	defer x.Close()

	anchor := r3.Vec{X: 1, Y: 2, Z: 3}
	require.NoError(t, x.SetPositions([]r3.Vec{anchor, {X: 1, Y: 2, Z: 4.5}}))
	require.NoError(t, x.Step(500))

	snap, err := x.State(engine.IncludePositions | engine.IncludeVelocities)
	require.NoError(t, err)
	require.Equal(t, anchor, snap.Positions[0])
	require.Equal(t, r3.Vec{}, snap.Velocities[0])
	require.NotEqual(t, r3.Vec{X: 1, Y: 2, Z: 4.5}, snap.Positions[1], "mobile particle should have moved")
}

func TestVerlet_ConstrainedBondHoldsUnderTension(t *testing.T) {
	m := model.New()
	m.AddParticle(1.0)
	m.AddParticle(1.0)
	m.AddConstraint(0, 1, 1.0)

	integ := integrate.NewVerlet(0.001)
	x, err := engine.NewContext(m, integ, reference.New())
	require.NoError(t, err)
	defer x.Close()

	require.NoError(t, x.SetPositions([]r3.Vec{{}, {X: 1}}))
	// Velocities pulling the particles apart must be absorbed by the
	// constraint.
	require.NoError(t, x.SetVelocities([]r3.Vec{{X: -1}, {X: 1}}))

	for i := 0; i < 100; i++ {
		require.NoError(t, x.Step(10))
		snap, err := x.State(engine.IncludePositions)
		require.NoError(t, err)
		d := r3.Norm(r3.Sub(snap.Positions[1], snap.Positions[0]))
		require.InDelta(t, 1.0, d, 2e-5)
	}
}
