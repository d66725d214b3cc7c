package integrate

import (
	"testing"

	"github.com/gekko3d/gravity/sim"
)

func TestSemiImplicit_VelocityThenPosition(t *testing.T) {
	b, _ := sim.NewBody(1, sim.ZeroVector, sim.ZeroVector, 1, 0.1)
	bodies := []*sim.Body{&b}
	a := sim.NewVector3(0, -10, 0)
	dt := 0.5

	NewSemiImplicit().Step(bodies, dt, constantAccel(a))

	wantV := sim.NewVector3(0, -5, 0) // v = v0 + a*dt
	wantX := sim.NewVector3(0, -2.5, 0) // x = x0 + v1*dt (uses updated velocity)
	approxEqualVec(t, "velocity", b.Velocity, wantV, 1e-12)
	approxEqualVec(t, "position", b.Position, wantX, 1e-12)
}

func TestSemiImplicit_SkipsAbsorbedBodies(t *testing.T) {
	b, _ := sim.NewBody(1, sim.ZeroVector, sim.ZeroVector, 1, 0.1)
	b.Absorbed = true
	bodies := []*sim.Body{&b}

	NewSemiImplicit().Step(bodies, 0.1, constantAccel(sim.NewVector3(1, 1, 1)))

	if b.Velocity != sim.ZeroVector {
		t.Errorf("absorbed body should not gain velocity, got %v", b.Velocity)
	}
}
