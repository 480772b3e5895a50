package reference

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/moldyn/internal/engine"
	"github.com/san-kum/moldyn/internal/units"
)

// rpmdStepOp holds the ring-polymer replicas backend-side. The shared
// coordinator state only sees one copy at a time: whichever copy was loaded
// last for force evaluation, or the copy requested via CopyToContext.
type rpmdStepOp struct {
	copies   int
	pos      [][]r3.Vec
	vel      [][]r3.Vec
	frc      [][]r3.Vec
	normal   distuv.Normal
	hasState bool

	q, v []complex128
}

func (op *rpmdStepOp) OperationName() string { return engine.OpIntegrateRPMDStep }

func (op *rpmdStepOp) Initialize(numCopies int, seed int64) error {
	if numCopies < 1 {
		return fmt.Errorf("%w: ring polymer needs at least one copy, got %d", engine.ErrInvalidModel, numCopies)
	}
	op.copies = numCopies
	op.normal = distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(uint64(seed))}
	op.pos = nil
	op.vel = nil
	op.frc = nil
	op.hasState = false
	op.q = make([]complex128, numCopies)
	op.v = make([]complex128, numCopies)
	return nil
}

func (op *rpmdStepOp) ensure(numParticles int) {
	if op.pos != nil {
		return
	}
	op.pos = make([][]r3.Vec, op.copies)
	op.vel = make([][]r3.Vec, op.copies)
	op.frc = make([][]r3.Vec, op.copies)
	for k := 0; k < op.copies; k++ {
		op.pos[k] = make([]r3.Vec, numParticles)
		op.vel[k] = make([]r3.Vec, numParticles)
		op.frc[k] = make([]r3.Vec, numParticles)
	}
}

func (op *rpmdStepOp) checkCopy(index, length, numParticles int) error {
	if index < 0 || index >= op.copies {
		return fmt.Errorf("%w: copy index %d out of range [0,%d)", engine.ErrSizeMismatch, index, op.copies)
	}
	if length != numParticles {
		return fmt.Errorf("%w: got %d entries, model has %d particles", engine.ErrSizeMismatch, length, numParticles)
	}
	return nil
}

func (op *rpmdStepOp) SetCopyPositions(index int, positions []r3.Vec) error {
	if op.pos == nil {
		op.ensure(len(positions))
	}
	if err := op.checkCopy(index, len(positions), len(op.pos[0])); err != nil {
		return err
	}
	copy(op.pos[index], positions)
	op.hasState = true
	return nil
}

func (op *rpmdStepOp) SetCopyVelocities(index int, velocities []r3.Vec) error {
	if op.vel == nil {
		op.ensure(len(velocities))
	}
	if err := op.checkCopy(index, len(velocities), len(op.vel[0])); err != nil {
		return err
	}
	copy(op.vel[index], velocities)
	op.hasState = true
	return nil
}

func (op *rpmdStepOp) CopyToContext(index int, c *engine.Coordinator) error {
	op.ensure(c.NumParticles())
	if err := op.checkCopy(index, c.NumParticles(), c.NumParticles()); err != nil {
		return err
	}
	copy(c.Positions(), op.pos[index])
	copy(c.Velocities(), op.vel[index])
	c.InvalidateForces()
	return nil
}

// Execute advances the ring polymer by one step: optional thermostat on the
// bead velocities, half kick from the physical forces of every copy,
// analytic free-ring-polymer drift in normal modes, then the second half
// kick from recomputed forces.
func (op *rpmdStepOp) Execute(c *engine.Coordinator, stepSize, temperature, friction float64, applyThermostat bool) error {
	op.ensure(c.NumParticles())
	inv := c.InvMasses()
	if !op.hasState {
		for k := 0; k < op.copies; k++ {
			copy(op.pos[k], c.Positions())
			copy(op.vel[k], c.Velocities())
		}
		op.hasState = true
	}

	// Bead momenta equilibrate at n·T in the extended ring-polymer system.
	kTn := float64(op.copies) * units.KB * temperature
	if applyThermostat && friction > 0 && temperature > 0 {
		c1 := math.Exp(-friction * stepSize)
		c2 := math.Sqrt(kTn * (1 - c1*c1))
		for k := 0; k < op.copies; k++ {
			for i := range op.vel[k] {
				if inv[i] == 0 {
					continue
				}
				noise := r3.Vec{X: op.normal.Rand(), Y: op.normal.Rand(), Z: op.normal.Rand()}
				op.vel[k][i] = r3.Add(r3.Scale(c1, op.vel[k][i]), r3.Scale(c2*math.Sqrt(inv[i]), noise))
			}
		}
	}

	if err := op.evalForces(c); err != nil {
		return err
	}
	op.kick(inv, 0.5*stepSize)
	op.driftNormalModes(inv, stepSize, temperature)
	if err := op.evalForces(c); err != nil {
		return err
	}
	op.kick(inv, 0.5*stepSize)

	c.AdvanceTime(stepSize)
	c.InvalidateForces()
	return nil
}

// evalForces evaluates the physical forces once per copy by loading each
// copy into the shared coordinator state.
func (op *rpmdStepOp) evalForces(c *engine.Coordinator) error {
	for k := 0; k < op.copies; k++ {
		copy(c.Positions(), op.pos[k])
		c.InvalidateForces()
		if _, err := c.CalcForcesAndEnergy(true, false); err != nil {
			return err
		}
		copy(op.frc[k], c.Forces())
	}
	return nil
}

func (op *rpmdStepOp) kick(inv []float64, dt float64) {
	for k := 0; k < op.copies; k++ {
		for i := range op.vel[k] {
			if inv[i] == 0 {
				continue
			}
			op.vel[k][i] = r3.Add(op.vel[k][i], r3.Scale(dt*inv[i], op.frc[k][i]))
		}
	}
}

// driftNormalModes propagates the free ring polymer analytically: positions
// and velocities are transformed across copies, each normal mode is rotated
// at its own frequency, and the result transformed back.
func (op *rpmdStepOp) driftNormalModes(inv []float64, dt, temperature float64) {
	nc := op.copies
	if nc == 1 {
		for i := range op.pos[0] {
			if inv[i] != 0 {
				op.pos[0][i] = r3.Add(op.pos[0][i], r3.Scale(dt, op.vel[0][i]))
			}
		}
		return
	}
	omegaN := float64(nc) * units.KB * temperature / units.Hbar
	numParticles := len(op.pos[0])
	for i := 0; i < numParticles; i++ {
		if inv[i] == 0 {
			continue
		}
		for comp := 0; comp < 3; comp++ {
			for k := 0; k < nc; k++ {
				op.q[k] = complex(vecComponent(op.pos[k][i], comp), 0)
				op.v[k] = complex(vecComponent(op.vel[k][i], comp), 0)
			}
			qm := fft.FFT(op.q)
			vm := fft.FFT(op.v)
			for k := 0; k < nc; k++ {
				w := 2 * omegaN * math.Sin(math.Pi*float64(k)/float64(nc))
				if w == 0 {
					qm[k] += vm[k] * complex(dt, 0)
					continue
				}
				cos := complex(math.Cos(w*dt), 0)
				sin := math.Sin(w * dt)
				q0 := qm[k]
				qm[k] = q0*cos + vm[k]*complex(sin/w, 0)
				vm[k] = vm[k]*cos - q0*complex(w*sin, 0)
			}
			qb := fft.IFFT(qm)
			vb := fft.IFFT(vm)
			for k := 0; k < nc; k++ {
				setVecComponent(&op.pos[k][i], comp, real(qb[k]))
				setVecComponent(&op.vel[k][i], comp, real(vb[k]))
			}
		}
	}
}

func vecComponent(v r3.Vec, comp int) float64 {
	switch comp {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func setVecComponent(v *r3.Vec, comp int, value float64) {
	switch comp {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
}

