package reference

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/units"
)

type langevinStepOp struct {
	normal distuv.Normal
	xPrime []r3.Vec
}

func (op *langevinStepOp) OperationName() string { return engine.OpIntegrateLangevinStep }

func (op *langevinStepOp) Initialize(seed int64) {
	op.normal = distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(uint64(seed))}
}

// Execute performs one fixed-size Langevin step. The velocity update is an
// exact Ornstein-Uhlenbeck solution over the step, so a free particle
// samples the Maxwell-Boltzmann distribution exactly; friction 0 reduces to
// plain leapfrog Verlet.
func (op *langevinStepOp) Execute(c *engine.Coordinator, stepSize, temperature, friction, constraintTol float64) error {
	vScale, fScale, kT := langevinCoefficients(stepSize, temperature, friction)
	noiseScale := math.Sqrt(kT * (1 - vScale*vScale))

	pos := c.Positions()
	vel := c.Velocities()
	frc := c.Forces()
	inv := c.InvMasses()
	n := len(pos)
	if len(op.xPrime) != n {
		op.xPrime = make([]r3.Vec, n)
	}
	for i := 0; i < n; i++ {
		if inv[i] == 0 {
			op.xPrime[i] = pos[i]
			continue
		}
		noise := r3.Vec{X: op.normal.Rand(), Y: op.normal.Rand(), Z: op.normal.Rand()}
		vel[i] = r3.Add(
			r3.Add(r3.Scale(vScale, vel[i]), r3.Scale(fScale*inv[i], frc[i])),
			r3.Scale(noiseScale*math.Sqrt(inv[i]), noise),
		)
		op.xPrime[i] = r3.Add(pos[i], r3.Scale(stepSize, vel[i]))
	}
	if cop := c.ConstraintOp(); cop != nil {
		if err := cop.Apply(pos, op.xPrime, constraintTol); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if inv[i] != 0 {
				vel[i] = r3.Scale(1/stepSize, r3.Sub(op.xPrime[i], pos[i]))
			}
		}
	}
	copy(pos, op.xPrime)
	c.AdvanceTime(stepSize)
	c.InvalidateForces()
	return nil
}

func langevinCoefficients(stepSize, temperature, friction float64) (vScale, fScale, kT float64) {
	kT = units.KB * temperature
	if friction == 0 {
		return 1, stepSize, kT
	}
	vScale = math.Exp(-stepSize * friction)
	fScale = (1 - vScale) / friction
	return vScale, fScale, kT
}
