// Package collide implements the broad-phase collision resolver (§4.4): a
// uniform spatial grid over the bodies' XY projection, elastic/inelastic
// response and overlap cancellation. It runs once per integrator substep,
// after the substep's positions have been updated.
package collide

import "github.com/gekko3d/gravity/sim"

// Resolver detects and resolves pairwise collisions among active bodies.
// Absorbed bodies are marked on the Body itself (§3: "absorbed" is sticky);
// the caller (engine) removes them from the World at the end of the full
// step, not after every substep.
type Resolver interface {
	Resolve(world sim.World, bodies []*sim.Body, diag *sim.Diagnostics)
}
