package parallel

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/backend/reference"
	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/forces"
	"github.com/san-kum/moldyn/internal/model"
)

// Below this size the goroutine overhead beats the loop cost.
const serialThreshold = 16

type nonbondedOp struct {
	workers   int
	particles []forces.NonbondedParticle
	energies  []float64
}

func (op *nonbondedOp) OperationName() string { return forces.OpCalcNonbondedForce }

func (op *nonbondedOp) InitForce(c *engine.Coordinator, f model.Force) error {
	nb, ok := f.(*forces.Nonbonded)
	if !ok {
		return fmt.Errorf("%w: %s given %T", engine.ErrNotSupported, op.OperationName(), f)
	}
	op.particles = nb.Particles()
	op.energies = make([]float64, op.workers)
	return nil
}

// Execute computes the same pair interactions as the reference backend.
// Each worker owns a disjoint range of rows and accumulates the force on
// its own rows against all other particles, so no force slot is written by
// two goroutines. Energy partials are reduced in worker order to keep the
// summation order independent of scheduling.
func (op *nonbondedOp) Execute(c *engine.Coordinator, includeForces, includeEnergy bool) (float64, error) {
	pos := c.Positions()
	frc := c.Forces()
	n := len(op.particles)

	if n < serialThreshold || op.workers < 2 {
		return op.serial(pos, frc, includeForces, includeEnergy), nil
	}

	var wg sync.WaitGroup
	chunkSize := (n + op.workers - 1) / op.workers
	for w := 0; w < op.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			start := worker * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}
			var energy float64
			for i := start; i < end; i++ {
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					e, s := reference.PairInteraction(op.particles[i], op.particles[j], pos[i], pos[j])
					if includeEnergy && j > i {
						energy += e
					}
					if includeForces {
						delta := r3.Sub(pos[j], pos[i])
						frc[i] = r3.Add(frc[i], r3.Scale(s, delta))
					}
				}
			}
			op.energies[worker] = energy
		}(w)
	}
	wg.Wait()

	var energy float64
	for _, e := range op.energies {
		energy += e
	}
	return energy, nil
}

func (op *nonbondedOp) serial(pos, frc []r3.Vec, includeForces, includeEnergy bool) float64 {
	var energy float64
	n := len(op.particles)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			e, s := reference.PairInteraction(op.particles[i], op.particles[j], pos[i], pos[j])
			if includeEnergy {
				energy += e
			}
			if includeForces {
				delta := r3.Sub(pos[j], pos[i])
				frc[i] = r3.Add(frc[i], r3.Scale(s, delta))
				frc[j] = r3.Sub(frc[j], r3.Scale(s, delta))
			}
		}
	}
	return energy
}
