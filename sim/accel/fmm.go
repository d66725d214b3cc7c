package accel

import (
	"math"

	"github.com/gekko3d/gravity/sim"
	"github.com/gekko3d/gravity/sim/internal/parallel"
)

const (
	fmmLeafCapacity = 32
	fmmMaxDepth     = 10
	fmmTheta        = 0.5
	fmmSmallN       = 64
)

// quad3 is a traceless 3x3 quadrupole tensor.
type quad3 [3][3]float64

func (q quad3) add(o quad3) quad3 {
	var r quad3
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			r[a][b] = q[a][b] + o[a][b]
		}
	}
	return r
}

// FMM is the Fast Multipole Method strategy: an octree of monopole +
// traceless-quadrupole expansions evaluated with a well-separated test
// (§4.1.4).
type FMM struct {
	// LeafCapacity, when non-zero, overrides the default of 32 bodies/leaf.
	LeafCapacity int
}

// NewFMM returns an FMM strategy with the default leaf capacity.
func NewFMM() *FMM { return &FMM{LeafCapacity: fmmLeafCapacity} }

type fmmNode struct {
	min, max sim.Vector3
	side     float64 // longest side, used for the well-separated test

	children    [8]int32
	hasChildren bool

	bodies []int32 // only populated for leaves

	mass float64
	com  sim.Vector3
	quad quad3
}

type fmmTree struct {
	nodes   []fmmNode
	bodies  []*sim.Body
	leafCap int
	cells   int
}

func (s *FMM) Compute(world sim.World, bodies []*sim.Body, diag *sim.Diagnostics) {
	// §4.1.1's "both active" requirement applies here too: a body absorbed
	// earlier in the same frame must drop out of the tree entirely, or its
	// already-merged mass would be double-counted for the rest of the step.
	active := activeOnly(bodies)
	n := len(active)
	if n == 0 {
		return
	}
	if n <= fmmSmallN {
		computeDirect(active)
		if diag != nil {
			diag.Set(sim.KeyStrategy, "FMM")
			diag.Set(sim.KeyBodies, n)
			diag.Set(sim.KeyCells, 0)
			diag.Set(sim.KeyMaxDepth, 0)
		}
		return
	}

	leafCap := s.LeafCapacity
	if leafCap <= 0 {
		leafCap = fmmLeafCapacity
	}

	min, max := boundingBox(active)
	t := &fmmTree{bodies: active, leafCap: leafCap}
	all := make([]int32, n)
	for i := range all {
		all[i] = int32(i)
	}
	root := t.build(min, max, all, 0)
	maxDepth := t.upward(root)

	parallel.For(n, func(i int) {
		active[i].Acceleration = t.accelerationOn(active[i], int32(i), root)
	})

	if diag != nil {
		diag.Set(sim.KeyStrategy, "FMM")
		diag.Set(sim.KeyBodies, n)
		diag.Set(sim.KeyCells, len(t.nodes))
		diag.Set(sim.KeyMaxDepth, maxDepth)
	}
}

func (t *fmmTree) newNode(min, max sim.Vector3) int32 {
	ext := max.Sub(min)
	side := ext[0]
	if ext[1] > side {
		side = ext[1]
	}
	if ext[2] > side {
		side = ext[2]
	}
	n := fmmNode{min: min, max: max, side: side}
	for i := range n.children {
		n.children[i] = absent
	}
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

// build recursively subdivides by body count, up to fmmLeafCapacity bodies
// per leaf and fmmMaxDepth levels (§4.1.4).
func (t *fmmTree) build(min, max sim.Vector3, idxs []int32, depth int) int32 {
	nodeIdx := t.newNode(min, max)
	if len(idxs) <= t.leafCap || depth >= fmmMaxDepth {
		t.nodes[nodeIdx].bodies = idxs
		return nodeIdx
	}

	center := min.Add(max).Mul(0.5)
	var buckets [8][]int32
	for _, bi := range idxs {
		oct := octantOf(center, t.bodies[bi].Position)
		buckets[oct] = append(buckets[oct], bi)
	}

	node := &t.nodes[nodeIdx]
	node.hasChildren = true
	for oct, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		cmin, cmax := childBounds(min, max, center, oct)
		child := t.build(cmin, cmax, bucket, depth+1)
		t.nodes[nodeIdx].children[oct] = child
	}
	return nodeIdx
}

// upward computes each leaf's monopole and traceless quadrupole about its
// own center of mass, then combines children into their parent's
// expansion via the parallel-axis theorem (§4.1.4). Returns the depth of
// the deepest node in the subtree rooted at nodeIdx (the root is depth 0).
func (t *fmmTree) upward(nodeIdx int32) int {
	return t.upwardAt(nodeIdx, 0)
}

func (t *fmmTree) upwardAt(nodeIdx int32, depth int) int {
	node := &t.nodes[nodeIdx]
	t.cells++

	if !node.hasChildren {
		var mass float64
		com := sim.ZeroVector
		for _, bi := range node.bodies {
			b := t.bodies[bi]
			mass += b.Mass
			com = com.Add(b.Position.Mul(b.Mass))
		}
		if mass > 0 {
			com = com.Mul(1 / mass)
		}
		node.mass = mass
		node.com = com
		node.quad = leafQuadrupole(t.bodies, node.bodies, com)
		return depth
	}

	var totalMass float64
	totalCom := sim.ZeroVector
	type childInfo struct {
		idx  int32
		mass float64
		com  sim.Vector3
		quad quad3
	}
	var kids []childInfo
	maxDepth := depth
	for _, c := range node.children {
		if c == absent {
			continue
		}
		d := t.upwardAt(c, depth+1)
		if d > maxDepth {
			maxDepth = d
		}
		cn := &t.nodes[c]
		totalMass += cn.mass
		totalCom = totalCom.Add(cn.com.Mul(cn.mass))
		kids = append(kids, childInfo{idx: c, mass: cn.mass, com: cn.com, quad: cn.quad})
	}
	if totalMass > 0 {
		totalCom = totalCom.Mul(1 / totalMass)
	}

	var quad quad3
	for _, k := range kids {
		shifted := shiftQuadrupole(k.quad, k.mass, k.com, totalCom)
		quad = quad.add(shifted)
	}

	node = &t.nodes[nodeIdx]
	node.mass = totalMass
	node.com = totalCom
	node.quad = quad
	return maxDepth
}

// leafQuadrupole computes Qab = sum m*(3*ra*rb - r^2*delta_ab) about com.
func leafQuadrupole(bodies []*sim.Body, idxs []int32, com sim.Vector3) quad3 {
	var q quad3
	for _, bi := range idxs {
		b := bodies[bi]
		r := b.Position.Sub(com)
		r2 := r.Dot(r)
		for a := 0; a < 3; a++ {
			for bdim := 0; bdim < 3; bdim++ {
				delta := 0.0
				if a == bdim {
					delta = 1
				}
				q[a][bdim] += b.Mass * (3*r[a]*r[bdim] - r2*delta)
			}
		}
	}
	return q
}

// shiftQuadrupole moves a child's quadrupole (computed about childCom) to
// be about parentCom via the parallel-axis theorem.
func shiftQuadrupole(q quad3, mass float64, childCom, parentCom sim.Vector3) quad3 {
	d := childCom.Sub(parentCom)
	d2 := d.Dot(d)
	var shifted quad3
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			delta := 0.0
			if a == b {
				delta = 1
			}
			shifted[a][b] = q[a][b] + mass*(3*d[a]*d[b]-d2*delta)
		}
	}
	return shifted
}

// accelerationOn evaluates the field on body bi (excluded from leaf direct
// sums by index) via a well-separated traversal (§4.1.4).
func (t *fmmTree) accelerationOn(b *sim.Body, selfIdx int32, root int32) sim.Vector3 {
	acc := sim.ZeroVector
	stack := make([]int32, 0, 64)
	stack = append(stack, root)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[idx]
		if n.mass <= 0 {
			continue
		}
		r := b.Position.Sub(n.com)
		d2 := r.Dot(r)
		if d2 == 0 && !n.hasChildren && len(n.bodies) == 1 {
			continue
		}
		d := math.Sqrt(d2)

		if !n.hasChildren {
			// Leaf: exact pairwise sum, excluding self.
			for _, bi := range n.bodies {
				if bi == selfIdx {
					continue
				}
				acc = acc.Add(pairAcceleration(b, t.bodies[bi]))
			}
			continue
		}

		if d > n.side/fmmTheta {
			acc = acc.Add(multipoleAcceleration(r, d, n.mass, n.quad))
			continue
		}

		for _, c := range n.children {
			if c != absent {
				stack = append(stack, c)
			}
		}
	}
	return acc
}

// multipoleAcceleration evaluates the monopole + traceless-quadrupole
// analytic acceleration contribution (§4.1.4).
func multipoleAcceleration(r sim.Vector3, d, mass float64, q quad3) sim.Vector3 {
	d3 := d * d * d
	mono := r.Mul(-sim.G * mass / d3)

	var qr sim.Vector3
	for a := 0; a < 3; a++ {
		var s float64
		for bdim := 0; bdim < 3; bdim++ {
			s += q[a][bdim] * r[bdim]
		}
		qr[a] = s
	}
	rQr := qr.Dot(r)
	d5 := d3 * d * d
	quadTerm := qr.Sub(r.Mul(5 * rQr / (d * d))).Mul(sim.G / (2 * d5))

	return mono.Add(quadTerm)
}
