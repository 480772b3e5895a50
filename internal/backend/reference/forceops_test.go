package reference

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/forces"
	"github.com/san-kum/moldyn/internal/units"
)

func TestPairInteractionLennardJones(t *testing.T) {
	const (
		sigma = 0.3
		eps   = 0.5
	)
	a := forces.NonbondedParticle{Sigma: sigma, Epsilon: eps}
	b := forces.NonbondedParticle{Sigma: sigma, Epsilon: eps}

	// At r = sigma the LJ energy crosses zero.
	e, _ := PairInteraction(a, b, r3.Vec{}, r3.Vec{X: sigma})
	if math.Abs(e) > 1e-12 {
		t.Errorf("energy at r=sigma: %g, want 0", e)
	}

	// At the minimum r = 2^(1/6)·sigma the energy is -eps and the force
	// vanishes.
	rmin := math.Pow(2, 1.0/6.0) * sigma
	e, s := PairInteraction(a, b, r3.Vec{}, r3.Vec{X: rmin})
	if math.Abs(e+eps) > 1e-12 {
		t.Errorf("energy at minimum: %g, want %g", e, -eps)
	}
	if math.Abs(s) > 1e-9 {
		t.Errorf("force at minimum: %g, want 0", s*rmin)
	}
}

func TestPairInteractionCoulomb(t *testing.T) {
	a := forces.NonbondedParticle{Charge: 1, Sigma: 0.1, Epsilon: 0}
	b := forces.NonbondedParticle{Charge: -1, Sigma: 0.1, Epsilon: 0}

	const r = 2.0
	e, s := PairInteraction(a, b, r3.Vec{}, r3.Vec{X: r})
	want := -units.CoulombFactor / r
	if math.Abs(e-want) > 1e-9 {
		t.Errorf("coulomb energy: %g, want %g", e, want)
	}
	// Opposite charges attract: the force on a points toward b, so the
	// scale factor on (rb - ra) must be positive.
	if s <= 0 {
		t.Errorf("attractive pair has scale %g", s)
	}
}

func TestPairInteractionMixingRules(t *testing.T) {
	a := forces.NonbondedParticle{Sigma: 0.2, Epsilon: 1.0}
	b := forces.NonbondedParticle{Sigma: 0.4, Epsilon: 4.0}

	// Lorentz-Berthelot: sigma averages to 0.3, epsilon mixes to 2. The
	// mixed-pair well depth at 2^(1/6)·0.3 must then be exactly -2.
	rmin := math.Pow(2, 1.0/6.0) * 0.3
	e, _ := PairInteraction(a, b, r3.Vec{}, r3.Vec{X: rmin})
	if math.Abs(e+2.0) > 1e-12 {
		t.Errorf("mixed well depth: %g, want -2", e)
	}
}

func TestPairInteractionForceMatchesFiniteDifference(t *testing.T) {
	a := forces.NonbondedParticle{Charge: 0.2, Sigma: 0.3, Epsilon: 0.8}
	b := forces.NonbondedParticle{Charge: -0.1, Sigma: 0.35, Epsilon: 1.2}

	const (
		r = 0.5
		h = 1e-6
	)
	_, s := PairInteraction(a, b, r3.Vec{}, r3.Vec{X: r})
	ePlus, _ := PairInteraction(a, b, r3.Vec{}, r3.Vec{X: r + h})
	eMinus, _ := PairInteraction(a, b, r3.Vec{}, r3.Vec{X: r - h})
	dEdR := (ePlus - eMinus) / (2 * h)

	// s is dE/dr divided by r.
	if math.Abs(s*r-dEdR) > 1e-4*math.Abs(dEdR) {
		t.Errorf("analytic dE/dr %g vs finite difference %g", s*r, dEdR)
	}
}
