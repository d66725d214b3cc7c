package collide

import (
	"testing"

	"github.com/gekko3d/gravity/sim"
)

type fakeWorld struct {
	elastic bool
	closed  bool
}

func (w fakeWorld) ActiveBodies() []*sim.Body                { return nil }
func (w fakeWorld) ClosedBoundaries() bool                   { return w.closed }
func (w fakeWorld) ElasticCollisions() bool                  { return w.elastic }
func (w fakeWorld) Viewport() sim.Viewport                   { return sim.Viewport{} }
func (w fakeWorld) RemoveBodies(absorbed map[sim.BodyID]bool) {}

func headOnPair(sep float64, v1, v2 sim.Vector3, m1, m2 float64) []*sim.Body {
	b1, _ := sim.NewBody(1, sim.NewVector3(-sep/2, 0, 0), v1, m1, 0.5)
	b2, _ := sim.NewBody(2, sim.NewVector3(sep/2, 0, 0), v2, m2, 0.5)
	return []*sim.Body{&b1, &b2}
}

// §8 property 3: momentum conservation for an inelastic merge.
func TestUniformGrid_InelasticMergeConservesMomentum(t *testing.T) {
	bodies := headOnPair(0.9, sim.NewVector3(1, 0, 0), sim.NewVector3(-1, 0, 0), 2, 1)
	before := bodies[0].Velocity.Mul(bodies[0].Mass).Add(bodies[1].Velocity.Mul(bodies[1].Mass))

	NewUniformGrid().Resolve(fakeWorld{elastic: false}, bodies, sim.NewDiagnostics())

	if !bodies[1].Absorbed {
		t.Fatalf("expected lighter body to be absorbed")
	}
	survivor := bodies[0]
	after := survivor.Velocity.Mul(survivor.Mass)
	diff := before.Sub(after).Len()
	if diff > 1e-9 {
		t.Errorf("momentum not conserved: before=%v after=%v diff=%v", before, after, diff)
	}
}

func TestUniformGrid_InelasticHeavierSurvives(t *testing.T) {
	bodies := headOnPair(0.9, sim.NewVector3(0, 0, 0), sim.NewVector3(0, 0, 0), 1, 5)
	NewUniformGrid().Resolve(fakeWorld{elastic: false}, bodies, sim.NewDiagnostics())

	if !bodies[0].Absorbed || bodies[1].Absorbed {
		t.Errorf("expected the lighter body (id 1) to be absorbed and the heavier (id 2) to survive")
	}
}

func TestUniformGrid_InelasticEqualMassTieBreaksOnLowerID(t *testing.T) {
	bodies := headOnPair(0.9, sim.ZeroVector, sim.ZeroVector, 3, 3)
	NewUniformGrid().Resolve(fakeWorld{elastic: false}, bodies, sim.NewDiagnostics())

	if bodies[0].Absorbed || !bodies[1].Absorbed {
		t.Errorf("expected lower id (1) to survive an exact mass tie")
	}
}

func TestUniformGrid_ElasticConservesMomentumAndEnergy(t *testing.T) {
	bodies := headOnPair(0.9, sim.NewVector3(2, 0, 0), sim.NewVector3(-1, 0, 0), 1, 2)
	beforeP := bodies[0].Velocity.Mul(bodies[0].Mass).Add(bodies[1].Velocity.Mul(bodies[1].Mass))
	beforeE := 0.5*bodies[0].Mass*bodies[0].Velocity.Dot(bodies[0].Velocity) + 0.5*bodies[1].Mass*bodies[1].Velocity.Dot(bodies[1].Velocity)

	NewUniformGrid().Resolve(fakeWorld{elastic: true}, bodies, sim.NewDiagnostics())

	if bodies[0].Absorbed || bodies[1].Absorbed {
		t.Fatalf("elastic collisions must not absorb either body")
	}

	afterP := bodies[0].Velocity.Mul(bodies[0].Mass).Add(bodies[1].Velocity.Mul(bodies[1].Mass))
	afterE := 0.5*bodies[0].Mass*bodies[0].Velocity.Dot(bodies[0].Velocity) + 0.5*bodies[1].Mass*bodies[1].Velocity.Dot(bodies[1].Velocity)

	if diff := beforeP.Sub(afterP).Len(); diff > 1e-9 {
		t.Errorf("momentum not conserved: before=%v after=%v", beforeP, afterP)
	}
	if diffE := beforeE - afterE; diffE > 1e-9 || diffE < -1e-9 {
		t.Errorf("energy not conserved: before=%v after=%v", beforeE, afterE)
	}
}

// Overlap cancellation must push overlapping bodies apart until their
// separation is no less than the sum of their radii.
func TestUniformGrid_OverlapCancellationSeparatesToContact(t *testing.T) {
	bodies := headOnPair(0.5, sim.ZeroVector, sim.ZeroVector, 1, 1) // overlapping: sep 0.5 < radii sum 1.0
	NewUniformGrid().Resolve(fakeWorld{elastic: true}, bodies, sim.NewDiagnostics())

	dist := bodies[0].Position.Sub(bodies[1].Position).Len()
	want := bodies[0].Radius + bodies[1].Radius
	if dist < want-1e-9 {
		t.Errorf("bodies still overlapping after cancellation: dist=%v want>=%v", dist, want)
	}
}

func TestUniformGrid_NonOverlappingPairUntouched(t *testing.T) {
	bodies := headOnPair(10, sim.NewVector3(1, 0, 0), sim.NewVector3(-1, 0, 0), 1, 1)
	v1, v2 := bodies[0].Velocity, bodies[1].Velocity

	NewUniformGrid().Resolve(fakeWorld{elastic: true}, bodies, sim.NewDiagnostics())

	if bodies[0].Velocity != v1 || bodies[1].Velocity != v2 {
		t.Errorf("far-apart bodies should be untouched by collision resolution")
	}
}

func TestUniformGrid_PublishesGridDiagnostics(t *testing.T) {
	bodies := headOnPair(5, sim.ZeroVector, sim.ZeroVector, 1, 1)
	diag := sim.NewDiagnostics()
	NewUniformGrid().Resolve(fakeWorld{elastic: true}, bodies, diag)

	if _, ok := diag.Get(sim.KeyGridSize); !ok {
		t.Errorf("expected GridSize diagnostic to be published")
	}
	if v, ok := diag.Get(sim.KeyBodies); !ok || v != 2 {
		t.Errorf("expected Bodies=2, got %v (ok=%v)", v, ok)
	}
}
