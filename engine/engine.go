// Package engine wires an acceleration strategy, an integrator, an
// oversampler and a collision resolver into the single composed step
// described in §4.5: oversample, then per substep integrate-and-collide,
// then remove absorbed bodies and reflect off closed boundaries.
package engine

import (
	"github.com/gekko3d/gravity/logging"
	"github.com/gekko3d/gravity/sim"
	"github.com/gekko3d/gravity/sim/accel"
	"github.com/gekko3d/gravity/sim/collide"
	"github.com/gekko3d/gravity/sim/integrate"
	"github.com/gekko3d/gravity/sim/oversample"
)

// Engine is the facade described in §6: Simulate advances a World by Δt;
// GetDiagnostics reads back the last step's published fields.
type Engine struct {
	Strategy    accel.Strategy
	Integrator  integrate.Integrator
	Oversampler oversample.Oversampler
	Resolver    collide.Resolver
	Logger      logging.Logger

	diag *sim.Diagnostics
}

// New composes an engine from its four subsystems. Any of Resolver may be
// nil, in which case collision resolution is skipped entirely (useful for
// scenarios like §8 property 3-5 that isolate gravity from collisions).
// Logging defaults to a no-op; set Engine.Logger to trace steps.
func New(strategy accel.Strategy, integrator integrate.Integrator, oversampler oversample.Oversampler, resolver collide.Resolver) *Engine {
	return &Engine{
		Strategy:    strategy,
		Integrator:  integrator,
		Oversampler: oversampler,
		Resolver:    resolver,
		Logger:      logging.NewNopLogger(),
		diag:        sim.NewDiagnostics(),
	}
}

// GetDiagnostics returns the fields published during the last Simulate call.
func (e *Engine) GetDiagnostics() map[string]any {
	return e.diag.Snapshot()
}

// Simulate advances world by deltaT, following §4.5 exactly: oversample,
// integrate+collide per substep, remove absorbed bodies, reflect off closed
// boundaries. Per §4.6/§7, a substep that drives any body's position or
// velocity to NaN/±Inf aborts the rest of the step and restores the state
// the world was in before Simulate was called, instead of leaving it
// corrupted.
func (e *Engine) Simulate(world sim.World, deltaT float64) {
	e.diag.Reset()

	bodies := world.ActiveBodies()
	if len(bodies) == 0 || deltaT <= 0 {
		e.Logger.Debugf("simulate: skipped (bodies=%d deltaT=%g)", len(bodies), deltaT)
		return
	}

	snapshot := snapshotBodies(bodies)
	aborted := false

	compute := func(bs []*sim.Body) {
		e.Strategy.Compute(world, bs, e.diag)
	}

	substep := func(bs []*sim.Body, dt float64) {
		if aborted {
			return
		}
		e.Integrator.Step(bs, dt, compute)
		if e.Resolver != nil {
			e.Resolver.Resolve(world, bs, e.diag)
		}
		if !allFinite(bs) {
			aborted = true
		}
	}

	substeps := e.Oversampler.Run(bodies, deltaT, e.diag, substep)

	if aborted {
		restoreBodies(bodies, snapshot)
		e.Logger.Warnf("simulate: non-finite position/velocity detected, step aborted and prior state restored (bodies=%d)", len(bodies))
		return
	}

	absorbed := collectAbsorbed(bodies)
	world.RemoveBodies(absorbed)

	if world.ClosedBoundaries() {
		viewport := world.Viewport()
		for _, b := range bodies {
			if b.Active() {
				reflect(b, viewport)
			}
		}
	}

	e.Logger.Debugf("simulate: bodies=%d substeps=%d absorbed=%d", len(bodies), substeps, len(absorbed))
}

// snapshotBodies captures every body's full value (position, velocity,
// acceleration, mass, absorbed flag) so a failed step can be rolled back.
func snapshotBodies(bodies []*sim.Body) []sim.Body {
	out := make([]sim.Body, len(bodies))
	for i, b := range bodies {
		out[i] = *b
	}
	return out
}

// restoreBodies writes a snapshot taken by snapshotBodies back onto the
// same bodies, in the same order (§6: the active-bodies sequence is stable
// for the duration of the step that reads it).
func restoreBodies(bodies []*sim.Body, snapshot []sim.Body) {
	for i, b := range bodies {
		*b = snapshot[i]
	}
}

// allFinite reports whether every active body's position and velocity are
// free of NaN/±Inf (§4.6's position/velocity finiteness requirement).
func allFinite(bodies []*sim.Body) bool {
	for _, b := range bodies {
		if b.Absorbed {
			continue
		}
		if !sim.IsFiniteVector(b.Position) || !sim.IsFiniteVector(b.Velocity) {
			return false
		}
	}
	return true
}

func collectAbsorbed(bodies []*sim.Body) map[sim.BodyID]bool {
	absorbed := make(map[sim.BodyID]bool)
	for _, b := range bodies {
		if b.Absorbed {
			absorbed[b.ID] = true
		}
	}
	return absorbed
}

// reflect clamps position inside the viewport inset by the body's radius
// and negates the velocity component of any axis that was out of bounds
// (§4.5).
func reflect(b *sim.Body, viewport sim.Viewport) {
	low := viewport.TopLeft
	high := viewport.BottomRight
	for axis := 0; axis < 3; axis++ {
		min := low[axis] + b.Radius
		max := high[axis] - b.Radius
		if b.Position[axis] < min {
			b.Position[axis] = min
			b.Velocity[axis] = -b.Velocity[axis]
		} else if b.Position[axis] > max {
			b.Position[axis] = max
			b.Velocity[axis] = -b.Velocity[axis]
		}
	}
}
