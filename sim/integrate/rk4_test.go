package integrate

import (
	"testing"

	"github.com/gekko3d/gravity/sim"
)

// RK4 integrates a constant (state-independent) acceleration field exactly,
// same closed form as TestLeapfrog_ExactUnderConstantAcceleration.
func TestRK4_ExactUnderConstantAcceleration(t *testing.T) {
	b, _ := sim.NewBody(1, sim.NewVector3(0, 0, 0), sim.NewVector3(1, 0, 0), 1, 0.1)
	bodies := []*sim.Body{&b}
	a := sim.NewVector3(0, -9.8, 0)
	dt := 0.1

	NewRK4().Step(bodies, dt, constantAccel(a))

	wantV := sim.NewVector3(1, -0.98, 0)
	wantX := sim.NewVector3(0.1, -0.049, 0)
	approxEqualVec(t, "velocity", b.Velocity, wantV, 1e-9)
	approxEqualVec(t, "position", b.Position, wantX, 1e-9)
}

func TestRK4_RestoresPositionBetweenStages(t *testing.T) {
	// A compute func that records the position it is invoked at; RK4 must
	// call it once per stage and place every stage point relative to x0,
	// not relative to the previous stage's point.
	b, _ := sim.NewBody(1, sim.NewVector3(0, 0, 0), sim.NewVector3(2, 0, 0), 1, 0.1)
	bodies := []*sim.Body{&b}

	var samples []sim.Vector3
	compute := func(bs []*sim.Body) {
		samples = append(samples, bs[0].Position)
		bs[0].Acceleration = sim.ZeroVector
	}

	NewRK4().Step(bodies, 0.2, compute)

	if len(samples) != 4 {
		t.Fatalf("expected 4 compute invocations (one per RK4 stage), got %d", len(samples))
	}
	// With zero acceleration, velocity never changes, so stage k samples
	// x0 + v0*frac_k*dt with frac = 0, 0.5, 0.5, 1.
	if samples[0] != (sim.NewVector3(0, 0, 0)) {
		t.Errorf("stage 1 sample = %v, want x0", samples[0])
	}
	want := []sim.Vector3{sim.NewVector3(0.2, 0, 0), sim.NewVector3(0.2, 0, 0), sim.NewVector3(0.4, 0, 0)}
	for k, w := range want {
		if samples[k+1] != w {
			t.Errorf("stage %d sample = %v, want %v", k+2, samples[k+1], w)
		}
	}
}

func TestRK4_SkipsAbsorbedBodies(t *testing.T) {
	b, _ := sim.NewBody(1, sim.ZeroVector, sim.ZeroVector, 1, 0.1)
	b.Absorbed = true
	bodies := []*sim.Body{&b}

	NewRK4().Step(bodies, 0.1, constantAccel(sim.NewVector3(1, 1, 1)))

	if b.Velocity != sim.ZeroVector || b.Position != sim.ZeroVector {
		t.Errorf("absorbed body should not move, got position=%v velocity=%v", b.Position, b.Velocity)
	}
}
