// Package parallel implements a multicore backend. It delegates everything
// to the reference backend except the nonbonded force, which dominates the
// cost of any pairwise model and splits cleanly across workers.
package parallel

import (
	"runtime"

	"github.com/san-kum/moldyn/internal/backend/reference"
	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/forces"
)

type Backend struct {
	inner   *reference.Backend
	workers int
}

func New() *Backend {
	return &Backend{
		inner:   reference.New(),
		workers: runtime.NumCPU(),
	}
}

func (b *Backend) Name() string { return "parallel" }

func (b *Backend) Speed() float64 { return 10 }

func (b *Backend) Supports(name string) bool { return b.inner.Supports(name) }

func (b *Backend) NewOperation(name string, c *engine.Coordinator) (engine.Operation, error) {
	if name == forces.OpCalcNonbondedForce {
		return &nonbondedOp{workers: b.workers}, nil
	}
	return b.inner.NewOperation(name, c)
}
