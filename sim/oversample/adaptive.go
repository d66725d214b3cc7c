package oversample

import "github.com/gekko3d/gravity/sim"

// AdaptiveSafety scales the fastest body's diameter-crossing time down to a
// conservative substep length (§4.3).
const AdaptiveSafety = 0.65

// MinDT floors the chosen substep so a body with an extreme velocity/radius
// ratio cannot force an unbounded number of substeps; MaxSubsteps (in
// oversample.go) is the other half of that guarantee.
const MinDT = 1e-4

// Adaptive is the CFL-like oversampler: each substep's length is clamped
// between MinDT and the remaining Δt, targeting the time for the fastest
// body to cross one diameter (§4.3).
type Adaptive struct{}

func NewAdaptive() *Adaptive { return &Adaptive{} }

func (a *Adaptive) Run(bodies []*sim.Body, deltaT float64, diag *sim.Diagnostics, step StepFunc) int {
	remaining := deltaT
	substeps := 0

	for remaining > 0 && substeps < MaxSubsteps {
		dt := chooseSubstep(bodies, remaining)
		step(bodies, dt)
		remaining -= dt
		substeps++
	}

	publishOversamplerDiagnostics(diag, substeps)
	return substeps
}

// chooseSubstep returns the crossing-time-limited substep length, clamped
// to [MinDT, remaining].
func chooseSubstep(bodies []*sim.Body, remaining float64) float64 {
	crossing := fastestCrossingTime(bodies)
	if crossing <= 0 {
		// No body has both non-zero velocity and non-zero radius: take the
		// whole remainder in one shot (§4.3).
		return remaining
	}
	dt := AdaptiveSafety * crossing
	if dt > remaining {
		dt = remaining
	}
	if dt < MinDT {
		dt = MinDT
		if dt > remaining {
			dt = remaining
		}
	}
	return dt
}

// fastestCrossingTime returns min_i(2*radius_i/|v_i|) over active bodies
// with both non-zero radius and non-zero speed, or 0 if no such body
// exists.
func fastestCrossingTime(bodies []*sim.Body) float64 {
	best := 0.0
	found := false
	for _, b := range bodies {
		if b.Absorbed || b.Radius <= 0 {
			continue
		}
		speed := b.Velocity.Len()
		if speed <= 0 {
			continue
		}
		t := 2 * b.Radius / speed
		if !found || t < best {
			best = t
			found = true
		}
	}
	if !found {
		return 0
	}
	return best
}
