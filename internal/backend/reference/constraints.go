package reference

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/model"
)

// maxConstraintIterations caps the SHAKE/RATTLE relaxation loops. Exceeding
// it is a numerical convergence error, never a silent fallback.
const maxConstraintIterations = 150

type constraintOp struct {
	constraints []model.Constraint
	invMasses   []float64
}

func newConstraintOp(c *engine.Coordinator) engine.Operation {
	cons := make([]model.Constraint, c.Model().NumConstraints())
	copy(cons, c.Model().Constraints())
	inv := make([]float64, c.NumParticles())
	copy(inv, c.InvMasses())
	return &constraintOp{constraints: cons, invMasses: inv}
}

func (op *constraintOp) OperationName() string { return engine.OpApplyConstraints }

// Apply is SHAKE: corrections are applied along the reference directions
// until every constrained distance matches its target within tol
// (relative).
func (op *constraintOp) Apply(ref, pos []r3.Vec, tol float64) error {
	lowerTol := 1 - 2*tol + tol*tol
	upperTol := 1 + 2*tol + tol*tol
	for iter := 0; iter < maxConstraintIterations; iter++ {
		converged := true
		for _, cn := range op.constraints {
			i, j := cn.Particle1, cn.Particle2
			totalInv := op.invMasses[i] + op.invMasses[j]
			if totalInv == 0 {
				continue
			}
			d2 := cn.Distance * cn.Distance
			delta := r3.Sub(pos[j], pos[i])
			r2 := r3.Norm2(delta)
			if r2 < lowerTol*d2 || r2 > upperTol*d2 {
				converged = false
				refDelta := r3.Sub(ref[j], ref[i])
				dot := r3.Dot(refDelta, delta)
				if dot <= 0 {
					// Degenerate geometry: fall back to the current direction.
					refDelta = delta
					dot = r2
				}
				g := (r2 - d2) / (2 * totalInv * dot)
				pos[i] = r3.Add(pos[i], r3.Scale(g*op.invMasses[i], refDelta))
				pos[j] = r3.Sub(pos[j], r3.Scale(g*op.invMasses[j], refDelta))
			}
		}
		if converged {
			return nil
		}
	}
	return fmt.Errorf("%w: %d iterations (tolerance %g)", engine.ErrConstraintConvergence, maxConstraintIterations, tol)
}

// ApplyToVelocities is RATTLE: it removes relative velocity components
// along each constrained direction in pos.
func (op *constraintOp) ApplyToVelocities(pos []r3.Vec, vel []r3.Vec, tol float64) error {
	for iter := 0; iter < maxConstraintIterations; iter++ {
		converged := true
		for _, cn := range op.constraints {
			i, j := cn.Particle1, cn.Particle2
			totalInv := op.invMasses[i] + op.invMasses[j]
			if totalInv == 0 {
				continue
			}
			delta := r3.Sub(pos[j], pos[i])
			relv := r3.Dot(r3.Sub(vel[j], vel[i]), delta)
			if math.Abs(relv) > tol*cn.Distance {
				converged = false
				k := relv / (r3.Norm2(delta) * totalInv)
				vel[i] = r3.Add(vel[i], r3.Scale(k*op.invMasses[i], delta))
				vel[j] = r3.Sub(vel[j], r3.Scale(k*op.invMasses[j], delta))
			}
		}
		if converged {
			return nil
		}
	}
	return fmt.Errorf("%w: velocity projection, %d iterations", engine.ErrConstraintConvergence, maxConstraintIterations)
}
