// Package accel provides the pluggable acceleration strategies (§4.1):
// Direct summation, Barnes-Hut, Particle-Mesh and Fast Multipole Method.
// Every strategy writes body.Acceleration for each active body from the
// mutual gravitational field and publishes identifying diagnostics.
package accel

import "github.com/gekko3d/gravity/sim"

// Strategy computes gravitational acceleration for every active body.
type Strategy interface {
	Compute(world sim.World, bodies []*sim.Body, diag *sim.Diagnostics)
}
