package integrate

import (
	"github.com/gekko3d/gravity/sim"
	"github.com/gekko3d/gravity/sim/internal/parallel"
)

// SemiImplicit is the symplectic Euler integrator: one acceleration
// evaluation per step, velocity updated before position (§4.2).
type SemiImplicit struct{}

func NewSemiImplicit() *SemiImplicit { return &SemiImplicit{} }

func (s *SemiImplicit) Step(bodies []*sim.Body, dt float64, compute ComputeFunc) {
	compute(bodies)
	parallel.For(len(bodies), func(i int) {
		b := bodies[i]
		if b.Absorbed {
			return
		}
		b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	})
}
