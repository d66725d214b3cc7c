package accel

import (
	"math"
	"sync/atomic"

	"github.com/gekko3d/gravity/sim"
	"github.com/gekko3d/gravity/sim/internal/parallel"
)

const (
	bhMaxDepth = 32
	bhEps      = 1e-12
)

// BarnesHut approximates the mutual gravitational field with an
// arena-backed octree and a multipole-acceptance traversal (§4.1.2).
type BarnesHut struct {
	// Theta, when non-zero, overrides the adaptive opening-angle curve.
	// Leave zero to use the adaptive selection described in §4.1.2.
	Theta float64
}

// NewBarnesHut returns a Barnes-Hut strategy using the adaptive theta curve.
func NewBarnesHut() *BarnesHut { return &BarnesHut{} }

type bhTree struct {
	nodes  []arenaNode
	bodies []*sim.Body
}

func (s *BarnesHut) Compute(world sim.World, bodies []*sim.Body, diag *sim.Diagnostics) {
	// Absorbed bodies neither exert nor receive force for the rest of the
	// frame they were merged in (§4.1.1: "both active"): the tree is built
	// over active bodies only, and only active bodies are traversed for.
	active := activeOnly(bodies)
	n := len(active)
	if n == 0 {
		return
	}
	if n <= 3 {
		computeDirect(active)
		publishBarnesHutDiagnostics(diag, 0, 0, 0, 0, len(active))
		return
	}

	min, max := boundingBox(active)
	order := mortonOrder(active, min, max)

	t := &bhTree{bodies: active}
	root := t.newNode(min, max)
	maxDepth := 0
	for _, bi := range order {
		d := t.insert(root, int32(bi), 0)
		if d > maxDepth {
			maxDepth = d
		}
	}
	t.aggregate(root)

	theta := s.Theta
	if theta == 0 {
		theta = adaptiveTheta(n, separationRatio(active))
	}
	theta2 := theta * theta

	var visits int64
	parallel.For(n, func(i int) {
		b := active[i]
		acc, v := t.accelerationOn(b, root, theta2)
		b.Acceleration = acc
		atomic.AddInt64(&visits, int64(v))
	})

	publishBarnesHutDiagnostics(diag, len(t.nodes), maxDepth, visits, theta, n)
}

// activeOnly returns the non-absorbed subset of bodies, preserving order.
func activeOnly(bodies []*sim.Body) []*sim.Body {
	out := make([]*sim.Body, 0, len(bodies))
	for _, b := range bodies {
		if !b.Absorbed {
			out = append(out, b)
		}
	}
	return out
}

func publishBarnesHutDiagnostics(diag *sim.Diagnostics, nodes, maxDepth int, visits int64, theta float64, bodies int) {
	if diag == nil {
		return
	}
	diag.Set(sim.KeyStrategy, "Barnes-Hut")
	diag.Set(sim.KeyNodes, nodes)
	diag.Set(sim.KeyMaxDepth, maxDepth)
	diag.Set(sim.KeyVisits, visits)
	diag.Set(sim.KeyTheta, theta)
	diag.Set(sim.KeyBodies, bodies)
}

// adaptiveTheta implements the N- and separation-dependent opening angle of
// §4.1.2.
func adaptiveTheta(n int, s float64) float64 {
	switch {
	case n <= 3:
		return 0
	case n <= 10:
		return 0.1
	case n <= 50:
		return 0.2
	default:
		base := 0.62 + 0.22*math.Log10(float64(n))
		base = clamp(base, 0.6, 1.0)
		return base * (0.9 + 0.2*s)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// separationRatio samples the first <=32 bodies and returns the minimum
// pairwise separation over the bounding box's max extent, clamped to [0,1].
func separationRatio(bodies []*sim.Body) float64 {
	n := len(bodies)
	if n > 32 {
		n = 32
	}
	sample := bodies[:n]
	min, max := boundingBox(sample)
	extent := max.Sub(min)
	maxExtent := extent[0]
	if extent[1] > maxExtent {
		maxExtent = extent[1]
	}
	if extent[2] > maxExtent {
		maxExtent = extent[2]
	}
	if maxExtent <= 0 {
		return 0
	}
	minSep := math.MaxFloat64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := sample[i].Position.Sub(sample[j].Position).Len()
			if d < minSep {
				minSep = d
			}
		}
	}
	if minSep == math.MaxFloat64 {
		return 0
	}
	return clamp(minSep/maxExtent, 0, 1)
}

func (t *bhTree) newNode(min, max sim.Vector3) int32 {
	t.nodes = append(t.nodes, newArenaNode(min, max))
	return int32(len(t.nodes) - 1)
}

// insert places body bi into the subtree rooted at nodeIdx, subdividing as
// needed (§4.1.2), and returns the depth reached.
func (t *bhTree) insert(nodeIdx, bi int32, depth int) int {
	node := &t.nodes[nodeIdx]

	if node.aggregate {
		b := t.bodies[bi]
		node.sumMass += b.Mass
		node.sumMassPos = node.sumMassPos.Add(b.Position.Mul(b.Mass))
		node.aggCount++
		return depth
	}

	if node.hasChildren {
		center := node.center()
		octant := octantOf(center, t.bodies[bi].Position)
		if node.children[octant] == absent {
			cmin, cmax := childBounds(node.min, node.max, center, octant)
			node.children[octant] = t.newNode(cmin, cmax)
			node = &t.nodes[nodeIdx] // re-fetch: append may have reallocated
		}
		return t.insert(node.children[octant], bi, depth+1)
	}

	if node.bodyIdx == absent {
		node.bodyIdx = bi
		return depth
	}

	// Single-body leaf receiving a second body: subdivide, unless the depth
	// or size cutoff forces degeneration into an aggregate leaf.
	if depth >= bhMaxDepth || node.width2 <= bhEps*bhEps {
		existing := node.bodyIdx
		eb := t.bodies[existing]
		nb := t.bodies[bi]
		node.aggregate = true
		node.bodyIdx = absent
		node.sumMass = eb.Mass + nb.Mass
		node.sumMassPos = eb.Position.Mul(eb.Mass).Add(nb.Position.Mul(nb.Mass))
		node.aggCount = 2
		return depth
	}

	existing := node.bodyIdx
	node.bodyIdx = absent
	node.hasChildren = true
	var maxD int
	maxD = t.insert(nodeIdx, existing, depth)
	d2 := t.insert(nodeIdx, bi, depth)
	if d2 > maxD {
		maxD = d2
	}
	return maxD
}

// aggregate is the single post-order pass computing each node's mass and
// center of mass (§4.1.2).
func (t *bhTree) aggregate(nodeIdx int32) (float64, sim.Vector3) {
	node := &t.nodes[nodeIdx]
	switch {
	case node.aggregate:
		node.mass = node.sumMass
		if node.mass > 0 {
			node.com = node.sumMassPos.Mul(1 / node.mass)
		}
		return node.mass, node.sumMassPos
	case node.hasChildren:
		var totalMass float64
		totalMassPos := sim.ZeroVector
		for _, c := range node.children {
			if c == absent {
				continue
			}
			m, mp := t.aggregate(c)
			totalMass += m
			totalMassPos = totalMassPos.Add(mp)
		}
		node.mass = totalMass
		if totalMass > 0 {
			node.com = totalMassPos.Mul(1 / totalMass)
		}
		return totalMass, totalMassPos
	case node.bodyIdx != absent:
		b := t.bodies[node.bodyIdx]
		node.mass = b.Mass
		node.com = b.Position
		return b.Mass, b.Position.Mul(b.Mass)
	default:
		return 0, sim.ZeroVector
	}
}

// accelerationOn traverses the tree for a single body using a thread-local
// stack (§5), returning the accumulated acceleration and the number of
// nodes visited.
func (t *bhTree) accelerationOn(b *sim.Body, root int32, theta2 float64) (sim.Vector3, int) {
	acc := sim.ZeroVector
	visits := 0
	stack := make([]int32, 0, 64)
	stack = append(stack, root)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visits++
		n := &t.nodes[idx]
		if n.mass <= 0 {
			continue
		}
		d := b.Position.Sub(n.com)
		distSq := d.Dot(d)
		if distSq == 0 {
			continue
		}
		leaf := (!n.hasChildren)
		if leaf || n.width2/distSq < theta2 {
			dist := math.Sqrt(distSq)
			factor := -sim.G * n.mass / (distSq * dist)
			acc = acc.Add(d.Mul(factor))
			continue
		}
		for _, c := range n.children {
			if c != absent {
				stack = append(stack, c)
			}
		}
	}
	return acc, visits
}
