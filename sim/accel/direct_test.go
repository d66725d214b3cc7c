package accel

import (
	"math"
	"testing"

	"github.com/gekko3d/gravity/sim"
)

func twoBodies(sep float64) []*sim.Body {
	b1, _ := sim.NewBody(1, sim.NewVector3(-sep/2, 0, 0), sim.ZeroVector, 5e10, 1)
	b2, _ := sim.NewBody(2, sim.NewVector3(sep/2, 0, 0), sim.ZeroVector, 5e10, 1)
	return []*sim.Body{&b1, &b2}
}

// §8 property 6: attraction direction, acceleration on each body points
// toward the other.
func TestDirect_AttractionDirection(t *testing.T) {
	bodies := twoBodies(10)
	diag := sim.NewDiagnostics()
	NewDirect().Compute(nil, bodies, diag)

	r21 := bodies[1].Position.Sub(bodies[0].Position)
	if bodies[0].Acceleration.Dot(r21) <= 0 {
		t.Errorf("body 1's acceleration should point toward body 2, got a=%v r=%v", bodies[0].Acceleration, r21)
	}
	r12 := bodies[0].Position.Sub(bodies[1].Position)
	if bodies[1].Acceleration.Dot(r12) <= 0 {
		t.Errorf("body 2's acceleration should point toward body 1, got a=%v r=%v", bodies[1].Acceleration, r12)
	}
}

func TestDirect_PublishesStrategyDiagnostic(t *testing.T) {
	diag := sim.NewDiagnostics()
	NewDirect().Compute(nil, twoBodies(10), diag)
	v, ok := diag.Get(sim.KeyStrategy)
	if !ok || v != "Direct" {
		t.Errorf("expected Strategy=Direct, got %v (ok=%v)", v, ok)
	}
}

func TestDirect_CoincidentBodiesDegenerateToZero(t *testing.T) {
	b1, _ := sim.NewBody(1, sim.ZeroVector, sim.ZeroVector, 1, 0)
	b2, _ := sim.NewBody(2, sim.ZeroVector, sim.ZeroVector, 1, 0)
	bodies := []*sim.Body{&b1, &b2}

	NewDirect().Compute(nil, bodies, nil)
	if !sim.IsFiniteVector(bodies[0].Acceleration) || bodies[0].Acceleration != sim.ZeroVector {
		t.Errorf("expected zero acceleration for coincident zero-radius bodies, got %v", bodies[0].Acceleration)
	}
}

func TestDirect_KeplerMagnitude(t *testing.T) {
	// a = G*M/r^2 for the acceleration one body imparts on a test point.
	bodies := twoBodies(10)
	NewDirect().Compute(nil, bodies, nil)

	want := sim.G * bodies[1].Mass / (10 * 10)
	got := bodies[0].Acceleration.Len()
	if math.Abs(got-want)/want > 1e-9 {
		t.Errorf("acceleration magnitude = %v, want %v", got, want)
	}
}

// §4.1.1: "both active" — an absorbed body must neither pull on survivors
// nor have its own acceleration computed from bodies it was merged into.
func TestDirect_AbsorbedBodyExcludedFromPairSums(t *testing.T) {
	bodies := twoBodies(10)
	bodies[1].Absorbed = true

	NewDirect().Compute(nil, bodies, nil)

	if bodies[0].Acceleration != sim.ZeroVector {
		t.Errorf("expected no pull from an absorbed body, got acceleration %v", bodies[0].Acceleration)
	}
}
