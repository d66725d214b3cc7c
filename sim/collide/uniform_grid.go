package collide

import (
	"math"
	"sort"

	"github.com/gekko3d/gravity/sim"
)

// UniformGrid buckets bodies into a 2D grid over their XY projection and
// resolves collisions within a forward half-plane neighborhood, so no pair
// is visited twice per substep (§4.4, §8 property 8). A pair is found only
// when one body lies within the other's neighbor reach (see neighborReach).
//
// §9 leaves open whether a 3D grid or this XY projection is canonical; this
// module implements the projection, which is the variant spec.md spells
// out algorithmically (see SPEC_FULL.md's "supplemented features" section).
type UniformGrid struct{}

// NewUniformGrid returns the 2D-projected broad-phase resolver.
func NewUniformGrid() *UniformGrid { return &UniformGrid{} }

type gridBody struct {
	body *sim.Body
	cx   int
	cy   int
}

func (r *UniformGrid) Resolve(world sim.World, bodies []*sim.Body, diag *sim.Diagnostics) {
	active := activeOnly(bodies)
	if len(active) < 2 {
		publishDiagnostics(diag, 0, 0, 0, len(active))
		return
	}

	minX, minY, maxX, maxY, maxRadius, meanRadius, medianRadius := boundsAndRadiusStats(active)
	cellSize := math.Max(1e-9, 2*clamp(medianRadius, 0.25*maxRadius, maxRadius))

	cols := int(math.Ceil((maxX-minX)/cellSize)) + 1
	rows := int(math.Ceil((maxY-minY)/cellSize)) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]int, cols*rows)
	placed := make([]gridBody, len(active))
	for i, b := range active {
		cx := clampInt(int((b.Position[0]-minX)/cellSize), 0, cols-1)
		cy := clampInt(int((b.Position[1]-minY)/cellSize), 0, rows-1)
		placed[i] = gridBody{body: b, cx: cx, cy: cy}
		idx := cy*cols + cx
		cells[idx] = append(cells[idx], i)
	}

	elastic := world.ElasticCollisions()

	for i, gb := range placed {
		bi := gb.body
		if bi.Absorbed {
			continue
		}
		reach := neighborReach(bi.Radius, cellSize)
		for dy := -reach; dy <= reach; dy++ {
			yy := gb.cy + dy
			if yy < 0 || yy >= rows {
				continue
			}
			for dx := -reach; dx <= reach; dx++ {
				xx := gb.cx + dx
				if xx < 0 || xx >= cols {
					continue
				}
				if yy < gb.cy || (yy == gb.cy && xx < gb.cx) {
					continue // already covered from the other body's pass
				}
				for _, j := range cells[yy*cols+xx] {
					if yy == gb.cy && xx == gb.cx && j <= i {
						continue // own cell: each pair once, lower index first
					}
					bj := placed[j].body
					if bj.Absorbed {
						continue
					}
					resolvePair(bi, bj, elastic)
				}
			}
		}
	}

	publishDiagnostics(diag, cols, rows, cols*rows, len(active))
}

// neighborReach picks the cell radius to scan for a body of the given
// radius against a cell size c (§4.4 step 4).
func neighborReach(radius, cellSize float64) int {
	switch {
	case radius <= 0.5*cellSize:
		return 1
	case radius <= 2*cellSize:
		return 2
	default:
		return int(math.Ceil(radius/cellSize)) + 1
	}
}

func resolvePair(bi, bj *sim.Body, elastic bool) {
	minSep := bi.Radius + bj.Radius
	d := bi.Position.Sub(bj.Position)
	if math.Abs(d[0]) > minSep || math.Abs(d[1]) > minSep {
		return
	}
	distSq := d.Dot(d)
	if distSq > minSep*minSep {
		return
	}

	if elastic {
		elasticCollision(bi, bj)
		cancelOverlap(bi, bj)
		return
	}

	// inelasticMerge marks the absorbed body Absorbed; the engine rescans
	// for that flag once at the end of the step (engine.go:collectAbsorbed)
	// to build the removal set, so resolvePair does not need to track ids.
	inelasticMerge(bi, bj)
}

// elasticCollision decomposes velocities along the line of centers and
// applies the standard 1D elastic exchange on the normal components,
// leaving tangential components unchanged (§4.4 step 5).
func elasticCollision(bi, bj *sim.Body) {
	d := bi.Position.Sub(bj.Position)
	dist := d.Len()
	if dist == 0 {
		return // coincident bodies: no well-defined normal (§4.6)
	}
	normal := d.Mul(1 / dist)

	vi := bi.Velocity.Dot(normal)
	vj := bj.Velocity.Dot(normal)
	mi, mj := bi.Mass, bj.Mass

	// Standard 1D elastic collision exchange along the normal.
	viAfter := (vi*(mi-mj) + 2*mj*vj) / (mi + mj)
	vjAfter := (vj*(mj-mi) + 2*mi*vi) / (mi + mj)

	bi.Velocity = bi.Velocity.Add(normal.Mul(viAfter - vi))
	bj.Velocity = bj.Velocity.Add(normal.Mul(vjAfter - vj))
}

// inelasticMerge computes the momentum-conserving merged velocity and marks
// the lighter body absorbed, transferring its mass and velocity into the
// survivor (§4.4 step 5). Equal masses are broken by lower id surviving.
func inelasticMerge(bi, bj *sim.Body) (survivor, absorbedBody *sim.Body) {
	totalMass := bi.Mass + bj.Mass
	merged := bi.Velocity.Mul(bi.Mass).Add(bj.Velocity.Mul(bj.Mass)).Mul(1 / totalMass)

	switch {
	case bi.Mass > bj.Mass:
		survivor, absorbedBody = bi, bj
	case bj.Mass > bi.Mass:
		survivor, absorbedBody = bj, bi
	case bi.ID < bj.ID:
		survivor, absorbedBody = bi, bj
	default:
		survivor, absorbedBody = bj, bi
	}

	survivor.Velocity = merged
	survivor.Mass = totalMass
	absorbedBody.Absorbed = true
	return survivor, absorbedBody
}

// cancelOverlap separates two surviving bodies' centers along their line of
// centers so their distance equals the sum of their radii, splitting the
// displacement inversely to mass (§4.4 step 6).
func cancelOverlap(bi, bj *sim.Body) {
	d := bi.Position.Sub(bj.Position)
	dist := d.Len()
	target := bi.Radius + bj.Radius
	if dist == 0 || dist >= target {
		return
	}
	normal := d.Mul(1 / dist)
	overlap := target - dist

	var shareI, shareJ float64
	switch {
	case bi.Mass == bj.Mass:
		shareI, shareJ = 0.5, 0.5
	default:
		total := bi.Mass + bj.Mass
		shareI = bj.Mass / total
		shareJ = bi.Mass / total
	}

	bi.Position = bi.Position.Add(normal.Mul(overlap * shareI))
	bj.Position = bj.Position.Sub(normal.Mul(overlap * shareJ))
}

func activeOnly(bodies []*sim.Body) []*sim.Body {
	out := make([]*sim.Body, 0, len(bodies))
	for _, b := range bodies {
		if b.Active() {
			out = append(out, b)
		}
	}
	return out
}

// boundsAndRadiusStats returns the XY bounding box and max/mean/sampled
// median radius over active bodies (§4.4 step 1).
func boundsAndRadiusStats(bodies []*sim.Body) (minX, minY, maxX, maxY, maxR, meanR, medianR float64) {
	minX, minY = bodies[0].Position[0], bodies[0].Position[1]
	maxX, maxY = minX, minY
	var sumR float64
	for _, b := range bodies {
		if b.Position[0] < minX {
			minX = b.Position[0]
		}
		if b.Position[0] > maxX {
			maxX = b.Position[0]
		}
		if b.Position[1] < minY {
			minY = b.Position[1]
		}
		if b.Position[1] > maxY {
			maxY = b.Position[1]
		}
		if b.Radius > maxR {
			maxR = b.Radius
		}
		sumR += b.Radius
	}
	meanR = sumR / float64(len(bodies))

	sampleN := len(bodies)
	if sampleN > 32 {
		sampleN = 32
	}
	sample := make([]float64, sampleN)
	for i := 0; i < sampleN; i++ {
		sample[i] = bodies[i].Radius
	}
	sort.Float64s(sample)
	medianR = sample[sampleN/2]
	return
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func publishDiagnostics(diag *sim.Diagnostics, cols, rows, cells, bodies int) {
	if diag == nil {
		return
	}
	diag.Set(sim.KeyGridSize, [2]int{cols, rows})
	diag.Set(sim.KeyCells, cells)
	diag.Set(sim.KeyBodies, bodies)
}
