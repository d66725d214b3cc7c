package accel

import "github.com/gekko3d/gravity/sim"

// absent marks a missing child slot in an arena-backed tree (§3, §9 design
// note: "object-by-reference trees become arena+index: nodes live in a
// growable buffer owned by the tree; children are i32 indices, -1 = absent").
const absent int32 = -1

// arenaNode is the node type shared by the Barnes-Hut octree. FMM uses its
// own node type (fmmNode, in fmm.go) because it additionally carries a
// quadrupole tensor; duplicating the struct rather than parameterizing it
// keeps each tree's hot traversal loop free of unused fields.
type arenaNode struct {
	min, max sim.Vector3
	width2   float64 // cached squared longest side

	children    [8]int32
	hasChildren bool

	bodyIdx int32 // index into the tree's body slice; absent if none

	aggregate bool // degenerated leaf: many bodies merged analytically
	aggCount  int32

	mass          float64
	com           sim.Vector3
	sumMass       float64 // running Σm, meaningful only while aggregate
	sumMassPos    sim.Vector3
}

func newArenaNode(min, max sim.Vector3) arenaNode {
	ext := max.Sub(min)
	longest := ext[0]
	if ext[1] > longest {
		longest = ext[1]
	}
	if ext[2] > longest {
		longest = ext[2]
	}
	n := arenaNode{min: min, max: max, width2: longest * longest, bodyIdx: absent}
	for i := range n.children {
		n.children[i] = absent
	}
	return n
}

func (n *arenaNode) center() sim.Vector3 {
	return n.min.Add(n.max).Mul(0.5)
}

// octantOf returns which of the 8 children (bit 0=x, bit 1=y, bit 2=z) a
// position falls into relative to this node's center.
func octantOf(center, pos sim.Vector3) int {
	idx := 0
	if pos[0] >= center[0] {
		idx |= 1
	}
	if pos[1] >= center[1] {
		idx |= 2
	}
	if pos[2] >= center[2] {
		idx |= 4
	}
	return idx
}

func childBounds(min, max, center sim.Vector3, octant int) (sim.Vector3, sim.Vector3) {
	cmin, cmax := min, max
	if octant&1 != 0 {
		cmin[0] = center[0]
	} else {
		cmax[0] = center[0]
	}
	if octant&2 != 0 {
		cmin[1] = center[1]
	} else {
		cmax[1] = center[1]
	}
	if octant&4 != 0 {
		cmin[2] = center[2]
	} else {
		cmax[2] = center[2]
	}
	return cmin, cmax
}

// boundingBox returns the axis-aligned box covering every active body. Any
// axis spanning less than 1 length unit (including a degenerate, zero-width
// one) is widened to exactly 1 around its center (§4.1.2).
func boundingBox(bodies []*sim.Body) (sim.Vector3, sim.Vector3) {
	min := bodies[0].Position
	max := bodies[0].Position
	for _, b := range bodies[1:] {
		min = sim.MinVector(min, b.Position)
		max = sim.MaxVector(max, b.Position)
	}
	const pad = 1.0
	for i := 0; i < 3; i++ {
		if max[i]-min[i] < pad {
			center := (max[i] + min[i]) / 2
			min[i] = center - pad/2
			max[i] = center + pad/2
		}
	}
	return min, max
}
