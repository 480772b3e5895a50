// Package experiment builds ready-to-run simulations from configuration:
// named model presets, named integrators, and the sampling loop that turns
// a context into trajectory frames.
package experiment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/config"
	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/forces"
	"github.com/san-kum/moldyn/internal/integrate"
	"github.com/san-kum/moldyn/internal/metrics"
	"github.com/san-kum/moldyn/internal/model"
)

// InitialState holds the starting positions and velocities for a preset.
type InitialState struct {
	Positions  []r3.Vec
	Velocities []r3.Vec
}

type Registry struct {
	presets     map[string]func(cfg *config.Config) (*model.Model, *InitialState, error)
	integrators map[string]func(cfg *config.Config) (engine.Integrator, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		presets:     make(map[string]func(cfg *config.Config) (*model.Model, *InitialState, error)),
		integrators: make(map[string]func(cfg *config.Config) (engine.Integrator, error)),
	}

	r.presets["argon"] = buildArgon
	r.presets["chain"] = buildChain
	r.presets["bead-chain"] = buildBeadChain

	r.integrators["verlet"] = func(cfg *config.Config) (engine.Integrator, error) {
		return integrate.NewVerlet(cfg.StepSize), nil
	}
	r.integrators["langevin"] = func(cfg *config.Config) (engine.Integrator, error) {
		l := integrate.NewLangevin(cfg.Temperature, cfg.Friction, cfg.StepSize)
		l.SetRandomSeed(cfg.Seed)
		return l, nil
	}
	r.integrators["variable-langevin"] = func(cfg *config.Config) (engine.Integrator, error) {
		l := integrate.NewVariableLangevin(cfg.Temperature, cfg.Friction, cfg.ErrorTol)
		l.SetRandomSeed(cfg.Seed)
		return l, nil
	}
	r.integrators["rpmd"] = func(cfg *config.Config) (engine.Integrator, error) {
		if cfg.Copies < 1 {
			return nil, fmt.Errorf("rpmd needs at least one copy, got %d", cfg.Copies)
		}
		rp := integrate.NewRPMD(cfg.Copies, cfg.Temperature, cfg.Friction, cfg.StepSize)
		rp.SetRandomSeed(cfg.Seed)
		return rp, nil
	}

	return r
}

func (r *Registry) GetPreset(name string, cfg *config.Config) (*model.Model, *InitialState, error) {
	fn, ok := r.presets[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown preset: %s", name)
	}
	return fn(cfg)
}

func (r *Registry) GetIntegrator(name string, cfg *config.Config) (engine.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(cfg)
}

func (r *Registry) ListPresets() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	return names
}

// DefaultMetrics returns the standard observables for a model.
func (r *Registry) DefaultMetrics(m *model.Model) []metrics.Metric {
	return []metrics.Metric{
		metrics.NewTemperature(MobileDOF(m)),
		metrics.NewEnergyDrift(),
		metrics.NewMeanPotential(),
	}
}

// MobileDOF counts translational degrees of freedom, excluding fixed
// particles and one per distance constraint.
func MobileDOF(m *model.Model) int {
	dof := 0
	for i := 0; i < m.NumParticles(); i++ {
		if m.Mass(i) > 0 {
			dof += 3
		}
	}
	return dof - m.NumConstraints()
}

// Argon parameters, in MD units (nm, kJ/mol, amu).
const (
	argonMass    = 39.948
	argonSigma   = 0.3405
	argonEpsilon = 0.996
)

// buildArgon places n Lennard-Jones atoms on a cubic lattice. A weak
// harmonic well at the box center keeps the cluster from evaporating, since
// there are no periodic boundaries.
func buildArgon(cfg *config.Config) (*model.Model, *InitialState, error) {
	n := cfg.Particles
	if n < 2 {
		return nil, nil, fmt.Errorf("argon preset needs at least 2 particles, got %d", n)
	}
	m := model.New()
	nb := forces.NewNonbonded()
	for i := 0; i < n; i++ {
		m.AddParticle(argonMass)
		nb.AddParticle(0, argonSigma, argonEpsilon)
	}
	m.AddForce(nb)

	side := int(math.Ceil(math.Cbrt(float64(n))))
	const spacing = 0.4
	center := 0.5 * spacing * float64(side-1)
	positions := make([]r3.Vec, n)
	well := forces.NewExternalWell()
	for i := 0; i < n; i++ {
		positions[i] = r3.Vec{
			X: spacing * float64(i%side),
			Y: spacing * float64((i/side)%side),
			Z: spacing * float64(i/(side*side)),
		}
		well.AddTerm(i, r3.Vec{X: center, Y: center, Z: center}, 1.0)
	}
	m.AddForce(well)

	return m, &InitialState{
		Positions:  positions,
		Velocities: make([]r3.Vec, n),
	}, nil
}

// buildChain makes a linear chain of harmonically bonded particles with the
// first particle anchored near the origin.
func buildChain(cfg *config.Config) (*model.Model, *InitialState, error) {
	n := cfg.Particles
	if n < 2 {
		return nil, nil, fmt.Errorf("chain preset needs at least 2 particles, got %d", n)
	}
	const (
		mass       = 12.0
		bondLength = 0.15
		bondK      = 10000.0
	)
	m := model.New()
	hb := forces.NewHarmonicBond()
	positions := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		m.AddParticle(mass)
		positions[i] = r3.Vec{X: bondLength * float64(i)}
		if i > 0 {
			hb.AddBond(i-1, i, bondLength, bondK)
		}
	}
	m.AddForce(hb)

	well := forces.NewExternalWell()
	well.AddTerm(0, r3.Vec{}, 100.0)
	m.AddForce(well)

	return m, &InitialState{
		Positions:  positions,
		Velocities: make([]r3.Vec, n),
	}, nil
}

// buildBeadChain makes a chain of rigidly constrained beads with harmonic
// wells pulling the two ends toward fixed anchors.
func buildBeadChain(cfg *config.Config) (*model.Model, *InitialState, error) {
	n := cfg.Particles
	if n < 2 {
		return nil, nil, fmt.Errorf("bead-chain preset needs at least 2 particles, got %d", n)
	}
	const (
		mass       = 10.0
		beadLength = 0.1
	)
	m := model.New()
	positions := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		m.AddParticle(mass)
		positions[i] = r3.Vec{X: beadLength * float64(i)}
		if i > 0 {
			m.AddConstraint(i-1, i, beadLength)
		}
	}

	span := beadLength * float64(n-1)
	well := forces.NewExternalWell()
	well.AddTerm(0, r3.Vec{}, 50.0)
	well.AddTerm(n-1, r3.Vec{X: 0.9 * span}, 50.0)
	m.AddForce(well)

	return m, &InitialState{
		Positions:  positions,
		Velocities: make([]r3.Vec, n),
	}, nil
}
