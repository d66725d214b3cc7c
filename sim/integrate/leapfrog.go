package integrate

import (
	"github.com/gekko3d/gravity/sim"
	"github.com/gekko3d/gravity/sim/internal/parallel"
)

// Leapfrog is the kick-drift-kick (KDK) symplectic integrator and the
// recommended default (§4.2): compute at t, half-kick, drift, compute at
// t+dt, half-kick.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog { return &Leapfrog{} }

func (l *Leapfrog) Step(bodies []*sim.Body, dt float64, compute ComputeFunc) {
	compute(bodies)
	halfKick(bodies, dt)
	drift(bodies, dt)
	compute(bodies)
	halfKick(bodies, dt)
}

func halfKick(bodies []*sim.Body, dt float64) {
	parallel.For(len(bodies), func(i int) {
		b := bodies[i]
		if b.Absorbed {
			return
		}
		b.Velocity = b.Velocity.Add(b.Acceleration.Mul(0.5 * dt))
	})
}

func drift(bodies []*sim.Body, dt float64) {
	parallel.For(len(bodies), func(i int) {
		b := bodies[i]
		if b.Absorbed {
			return
		}
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	})
}
