// Package integrate provides the time integrators (§4.2): semi-implicit
// Euler, Leapfrog (kick-drift-kick), RK4 and velocity-Verlet-with-warm-start.
// Every integrator skips absorbed bodies and parallelizes over body index.
package integrate

import "github.com/gekko3d/gravity/sim"

// ComputeFunc recomputes body.Acceleration for every active body in bodies,
// typically by delegating to an accel.Strategy closed over the calling
// engine's world and diagnostics.
type ComputeFunc func(bodies []*sim.Body)

// Integrator advances (position, velocity) for every active body by dt.
type Integrator interface {
	Step(bodies []*sim.Body, dt float64, compute ComputeFunc)
}
