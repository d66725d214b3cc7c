// Package sim holds the value types shared by every acceleration strategy,
// integrator, oversampler and collision resolver: vectors, bodies, the world
// contract, diagnostics and the engine's error taxonomy.
package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3 is a double precision 3D vector. It is a value type (an array, not
// a pointer) so copying a Body copies its vectors, matching the teacher's
// use of mgl32.Vec3 throughout mod_physics.go and mod_spatialgrid.go.
type Vector3 = mgl64.Vec3

// NewVector3 builds a Vector3 from its components.
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{x, y, z}
}

// ZeroVector is the additive identity.
var ZeroVector = Vector3{0, 0, 0}

// IsFiniteVector reports whether every component is neither NaN nor ±Inf.
// §3 requires this to hold for position/velocity/acceleration of every
// non-absorbed body after any step.
func IsFiniteVector(v Vector3) bool {
	return isFinite(v[0]) && isFinite(v[1]) && isFinite(v[2])
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MinVector and MaxVector return the componentwise min/max of two vectors,
// used when accumulating an axis-aligned bounding box.
func MinVector(a, b Vector3) Vector3 {
	return Vector3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func MaxVector(a, b Vector3) Vector3 {
	return Vector3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}
