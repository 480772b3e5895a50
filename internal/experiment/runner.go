package experiment

import (
	"context"

	"github.com/san-kum/moldyn/internal/backend"
	"github.com/san-kum/moldyn/internal/config"
	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/metrics"
	"github.com/san-kum/moldyn/internal/model"
	"github.com/san-kum/moldyn/internal/units"
)

// Frame is one sampled point of a trajectory.
type Frame struct {
	Time        float64
	Kinetic     float64
	Potential   float64
	Temperature float64
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
}

// Simulation is a fully wired run: the context plus everything needed to
// sample and summarize it.
type Simulation struct {
	Context *engine.Context
	Model   *model.Model
	Metrics []metrics.Metric
	DOF     int
}

// Build assembles a ready-to-step simulation from cfg. With no backend set
// in cfg, the fastest capable backend is chosen automatically.
func Build(cfg *config.Config) (*Simulation, error) {
	reg := NewRegistry()
	m, init, err := reg.GetPreset(cfg.Preset, cfg)
	if err != nil {
		return nil, err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator, cfg)
	if err != nil {
		return nil, err
	}

	candidates := backend.All()
	if cfg.Backend != "" {
		b, err := backend.ByName(cfg.Backend)
		if err != nil {
			return nil, err
		}
		candidates = []engine.Backend{b}
	}

	x, err := engine.NewContext(m, integ, candidates...)
	if err != nil {
		return nil, err
	}
	if err := x.SetPositions(init.Positions); err != nil {
		return nil, err
	}
	if err := x.SetVelocities(init.Velocities); err != nil {
		return nil, err
	}

	return &Simulation{
		Context: x,
		Model:   m,
		Metrics: reg.DefaultMetrics(m),
		DOF:     MobileDOF(m),
	}, nil
}

// Sample snapshots the current energies as a Frame and feeds the metrics.
func (s *Simulation) Sample() (Frame, error) {
	snap, err := s.Context.State(engine.IncludeEnergy)
	if err != nil {
		return Frame{}, err
	}
	frame := Frame{
		Time:      snap.Time,
		Kinetic:   snap.KineticEnergy,
		Potential: snap.PotentialEnergy,
	}
	if s.DOF > 0 {
		frame.Temperature = 2 * snap.KineticEnergy / (float64(s.DOF) * units.KB)
	}
	for _, m := range s.Metrics {
		m.Observe(snap)
	}
	return frame, nil
}

// Run executes cfg.Steps integrator steps, sampling every cfg.SampleEvery
// steps. Cancelling ctx returns the frames collected so far along with the
// context error.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	sim, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	defer sim.Context.Close()

	sampleEvery := cfg.SampleEvery
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Steps/sampleEvery+1),
		Metrics: make(map[string]float64),
	}
	for _, m := range sim.Metrics {
		m.Reset()
	}

	frame, err := sim.Sample()
	if err != nil {
		return nil, err
	}
	result.Frames = append(result.Frames, frame)

	for done := 0; done < cfg.Steps; {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		batch := sampleEvery
		if rest := cfg.Steps - done; batch > rest {
			batch = rest
		}
		if err := sim.Context.Step(batch); err != nil {
			return result, err
		}
		done += batch
		result.StepsTaken = done

		frame, err := sim.Sample()
		if err != nil {
			return result, err
		}
		result.Frames = append(result.Frames, frame)
	}

	for _, m := range sim.Metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
