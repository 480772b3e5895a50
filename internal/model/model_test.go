package model_test

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/moldyn/internal/forces"
	"github.com/san-kum/moldyn/internal/model"
)

func TestAddParticleReturnsIndex(t *testing.T) {
	m := model.New()
	for i := 0; i < 5; i++ {
		if got := m.AddParticle(1.0); got != i {
			t.Errorf("particle %d: got index %d", i, got)
		}
	}
	if m.NumParticles() != 5 {
		t.Errorf("NumParticles = %d", m.NumParticles())
	}
}

func TestFixedParticleMass(t *testing.T) {
	m := model.New()
	m.AddParticle(0)
	m.AddParticle(-1)
	m.AddParticle(12.0)
	if m.Mass(0) != 0 || m.Mass(1) != -1 || m.Mass(2) != 12.0 {
		t.Errorf("masses not stored as given: %g %g %g", m.Mass(0), m.Mass(1), m.Mass(2))
	}
	m.SetMass(2, 14.0)
	if m.Mass(2) != 14.0 {
		t.Errorf("SetMass ignored: %g", m.Mass(2))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *model.Model
		wantErr bool
	}{
		{
			name: "empty model",
			build: func() *model.Model {
				return model.New()
			},
		},
		{
			name: "valid constraint",
			build: func() *model.Model {
				m := model.New()
				m.AddParticle(1)
				m.AddParticle(1)
				m.AddConstraint(0, 1, 0.5)
				return m
			},
		},
		{
			name: "constraint index out of range",
			build: func() *model.Model {
				m := model.New()
				m.AddParticle(1)
				m.AddConstraint(0, 3, 0.5)
				return m
			},
			wantErr: true,
		},
		{
			name: "constraint on itself",
			build: func() *model.Model {
				m := model.New()
				m.AddParticle(1)
				m.AddParticle(1)
				m.AddConstraint(1, 1, 0.5)
				return m
			},
			wantErr: true,
		},
		{
			name: "non-positive constraint distance",
			build: func() *model.Model {
				m := model.New()
				m.AddParticle(1)
				m.AddParticle(1)
				m.AddConstraint(0, 1, -0.5)
				return m
			},
			wantErr: true,
		},
		{
			name: "bond index out of range",
			build: func() *model.Model {
				m := model.New()
				m.AddParticle(1)
				hb := forces.NewHarmonicBond()
				hb.AddBond(0, 7, 1.0, 100.0)
				m.AddForce(hb)
				return m
			},
			wantErr: true,
		},
		{
			name: "well index out of range",
			build: func() *model.Model {
				m := model.New()
				m.AddParticle(1)
				w := forces.NewExternalWell()
				w.AddTerm(2, r3.Vec{}, 1.0)
				m.AddForce(w)
				return m
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestForcesPreserveOrder(t *testing.T) {
	m := model.New()
	m.AddParticle(1)
	m.AddParticle(1)
	hb := forces.NewHarmonicBond()
	hb.AddBond(0, 1, 1.0, 1.0)
	nb := forces.NewNonbonded()
	nb.AddParticle(0, 0.3, 0.5)
	nb.AddParticle(0, 0.3, 0.5)
	m.AddForce(hb)
	m.AddForce(nb)

	fs := m.Forces()
	if len(fs) != 2 {
		t.Fatalf("NumForces = %d", m.NumForces())
	}
	if fs[0].OperationName() != forces.OpCalcHarmonicBondForce {
		t.Errorf("first force = %s", fs[0].OperationName())
	}
	if fs[1].OperationName() != forces.OpCalcNonbondedForce {
		t.Errorf("second force = %s", fs[1].OperationName())
	}
}
