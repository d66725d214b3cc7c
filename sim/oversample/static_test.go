package oversample

import (
	"testing"

	"github.com/gekko3d/gravity/sim"
)

func TestStatic_SplitsIntoEqualSubsteps(t *testing.T) {
	var dts []float64
	step := func(bodies []*sim.Body, dt float64) {
		dts = append(dts, dt)
	}

	s := NewStatic(4)
	diag := sim.NewDiagnostics()
	n := s.Run(nil, 1.0, diag, step)

	if n != 4 {
		t.Fatalf("expected 4 substeps, got %d", n)
	}
	for i, dt := range dts {
		if dt != 0.25 {
			t.Errorf("substep %d: dt = %v, want 0.25", i, dt)
		}
	}
	if v, _ := diag.Get(sim.KeySubsteps); v != 4 {
		t.Errorf("expected Substeps=4, got %v", v)
	}
	if v, _ := diag.Get(sim.KeyOversampling); v != "4x" {
		t.Errorf("expected Oversampling=4x, got %v", v)
	}
}

func TestStatic_NLessThanOneClampsToOne(t *testing.T) {
	s := NewStatic(0)
	if s.N != 1 {
		t.Errorf("expected N clamped to 1, got %d", s.N)
	}
	n := s.Run(nil, 2.0, sim.NewDiagnostics(), func(bodies []*sim.Body, dt float64) {})
	if n != 1 {
		t.Errorf("expected 1 substep, got %d", n)
	}
}

func TestStatic_NEqualsOnePublishesOff(t *testing.T) {
	s := NewStatic(1)
	diag := sim.NewDiagnostics()
	s.Run(nil, 1.0, diag, func(bodies []*sim.Body, dt float64) {})
	if v, _ := diag.Get(sim.KeyOversampling); v != "Off" {
		t.Errorf("expected Oversampling=Off for N=1, got %v", v)
	}
}
