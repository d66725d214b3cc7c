// Package oversample chooses how a frame's Δt is sliced into one or more
// substeps before the integrator advances state (§4.3): Static uses N
// equal-length substeps; Adaptive sizes each substep from the bodies'
// current speeds and radii.
package oversample

import (
	"fmt"

	"github.com/gekko3d/gravity/sim"
)

// StepFunc advances the simulation by dt (one substep: integrator +
// collision resolution) and is invoked once per substep chosen.
type StepFunc func(bodies []*sim.Body, dt float64)

// Oversampler slices a frame's Δt into substeps, invoking step once per
// substep, and returns how many substeps ran.
type Oversampler interface {
	Run(bodies []*sim.Body, deltaT float64, diag *sim.Diagnostics, step StepFunc) int
}

// MaxSubsteps bounds the per-frame substep count regardless of strategy
// (§4.3, §5: "a pathological (N,Δt) combination is bounded only by
// MaxSubsteps = 64 per frame").
const MaxSubsteps = 64

func publishOversamplerDiagnostics(diag *sim.Diagnostics, substeps int) {
	if diag == nil {
		return
	}
	diag.Set(sim.KeySubsteps, substeps)
	if substeps == 1 {
		diag.Set(sim.KeyOversampling, "Off")
	} else {
		diag.Set(sim.KeyOversampling, fmt.Sprintf("%dx", substeps))
	}
}
