package accel

import (
	"sort"

	"github.com/gekko3d/gravity/sim"
)

// mortonBits is the per-dimension coordinate resolution: 21 bits per
// dimension interleaved into a 63-bit key (§4.1.2).
const mortonBits = 21
const mortonScale = (1 << mortonBits) - 1

// mortonOrder returns the indices of bodies sorted by Morton (Z-order) code
// within the given bounding box, improving cache locality during insertion.
func mortonOrder(bodies []*sim.Body, min, max sim.Vector3) []int {
	idx := make([]int, len(bodies))
	keys := make([]uint64, len(bodies))
	extent := max.Sub(min)
	for i := 0; i < 3; i++ {
		if extent[i] <= 0 {
			extent[i] = 1
		}
	}
	for i, b := range bodies {
		idx[i] = i
		keys[i] = mortonKey(b.Position, min, extent)
	}
	sort.Slice(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })
	return idx
}

func mortonKey(pos, min, extent sim.Vector3) uint64 {
	x := quantize((pos[0] - min[0]) / extent[0])
	y := quantize((pos[1] - min[1]) / extent[1])
	z := quantize((pos[2] - min[2]) / extent[2])
	return interleave3(x) | (interleave3(y) << 1) | (interleave3(z) << 2)
}

func quantize(frac float64) uint32 {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return uint32(frac * float64(mortonScale))
}

// interleave3 spreads the low 21 bits of v so that each bit is followed by
// two zero bits, ready to be OR'd with the other two (shifted) dimensions.
func interleave3(v uint32) uint64 {
	x := uint64(v) & 0x1fffff // 21 bits
	x = (x | (x << 32)) & 0x1f00000000ffff
	x = (x | (x << 16)) & 0x1f0000ff0000ff
	x = (x | (x << 8)) & 0x100f00f00f00f00f
	x = (x | (x << 4)) & 0x10c30c30c30c30c3
	x = (x | (x << 2)) & 0x1249249249249249
	return x
}
