// Package metrics accumulates scalar observables over sampled trajectory
// frames.
package metrics

import (
	"math"

	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/units"
)

type Metric interface {
	Name() string
	Observe(snap engine.Snapshot)
	Value() float64
	Reset()
}

// Temperature reports the mean instantaneous temperature, 2·KE/(dof·kB).
type Temperature struct {
	dof     int
	total   float64
	samples int
}

func NewTemperature(dof int) *Temperature {
	return &Temperature{dof: dof}
}

func (t *Temperature) Name() string { return "temperature" }

func (t *Temperature) Observe(snap engine.Snapshot) {
	if t.dof == 0 {
		return
	}
	t.total += 2 * snap.KineticEnergy / (float64(t.dof) * units.KB)
	t.samples++
}

func (t *Temperature) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return t.total / float64(t.samples)
}

func (t *Temperature) Reset() {
	t.total = 0
	t.samples = 0
}

// EnergyDrift reports the largest relative deviation of the total energy
// from its value at the first observed frame.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(snap engine.Snapshot) {
	total := snap.TotalEnergy()
	if e.samples == 0 {
		e.initial = total
	}
	e.samples++
	if e.initial != 0 {
		drift := math.Abs(total-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// MeanPotential reports the mean potential energy over observed frames.
type MeanPotential struct {
	total   float64
	samples int
}

func NewMeanPotential() *MeanPotential {
	return &MeanPotential{}
}

func (m *MeanPotential) Name() string { return "mean_potential" }

func (m *MeanPotential) Observe(snap engine.Snapshot) {
	m.total += snap.PotentialEnergy
	m.samples++
}

func (m *MeanPotential) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanPotential) Reset() {
	m.total = 0
	m.samples = 0
}
