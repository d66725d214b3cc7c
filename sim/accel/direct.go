package accel

import (
	"math"

	"github.com/gekko3d/gravity/sim"
	"github.com/gekko3d/gravity/sim/internal/parallel"
)

// Direct is the reference O(N^2) softened pairwise kernel (§4.1.1).
type Direct struct{}

// NewDirect returns the reference kernel.
func NewDirect() *Direct { return &Direct{} }

func (d *Direct) Compute(world sim.World, bodies []*sim.Body, diag *sim.Diagnostics) {
	computeDirect(bodies)
	if diag != nil {
		diag.Set(sim.KeyStrategy, "Direct")
	}
}

// computeDirect is shared with the small-N bypasses of Barnes-Hut and FMM.
// Absorbed bodies are skipped on both sides of the pair (§4.1.1: "both
// active"): a body merged mid-frame by the collision resolver must neither
// receive nor exert a force for the rest of that Simulate call, since its
// mass already lives in the survivor it was merged into.
func computeDirect(bodies []*sim.Body) {
	n := len(bodies)
	parallel.For(n, func(i int) {
		bi := bodies[i]
		if bi.Absorbed {
			return
		}
		acc := sim.ZeroVector
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			bj := bodies[j]
			if bj.Absorbed {
				continue
			}
			acc = acc.Add(pairAcceleration(bi, bj))
		}
		bi.Acceleration = acc
	})
}

// pairAcceleration returns the acceleration contribution body j exerts on
// body i: a = -G*mj*(ri-rj)/|ri-rj|^3, with the squared distance clamped
// from below by (ri+rj)^2 so the kernel softens at contact (§4.1.1).
func pairAcceleration(bi, bj *sim.Body) sim.Vector3 {
	d := bi.Position.Sub(bj.Position)
	distSq := d.Dot(d)
	minSep := bi.Radius + bj.Radius
	minSepSq := minSep * minSep
	if distSq < minSepSq {
		distSq = minSepSq
	}
	if distSq == 0 {
		// Exactly coincident bodies with zero combined radius: treat as a
		// numeric degeneracy and contribute nothing (§4.6).
		return sim.ZeroVector
	}
	dist := math.Sqrt(distSq)
	factor := -sim.G * bj.Mass / (distSq * dist)
	return d.Mul(factor)
}
