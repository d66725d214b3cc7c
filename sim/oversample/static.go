package oversample

import "github.com/gekko3d/gravity/sim"

// Static slices Δt into a fixed N equal substeps. N=1 is the no-op variant
// (§4.3).
type Static struct {
	N int
}

// NewStatic returns a Static oversampler with N substeps per frame. N<1 is
// treated as 1.
func NewStatic(n int) *Static {
	if n < 1 {
		n = 1
	}
	return &Static{N: n}
}

func (s *Static) Run(bodies []*sim.Body, deltaT float64, diag *sim.Diagnostics, step StepFunc) int {
	n := s.N
	if n < 1 {
		n = 1
	}
	dt := deltaT / float64(n)
	for i := 0; i < n; i++ {
		step(bodies, dt)
	}
	publishOversamplerDiagnostics(diag, n)
	return n
}
