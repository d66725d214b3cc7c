package accel

import (
	"math"

	"github.com/gekko3d/gravity/sim"
	"gonum.org/v1/gonum/dsp/fourier"
)

// directFallbackThreshold is the body count below which the grid
// discretization error dominates and the direct kernel is used instead
// (§4.1.3: "A direct fallback MUST be used for N below a small threshold").
const directFallbackThreshold = 100

// ParticleMesh is the long-range solver: Cloud-in-Cell assignment, a
// separable 3D FFT, a spectral Poisson solve and trilinear interpolation
// back onto the bodies (§4.1.3).
type ParticleMesh struct {
	// GridSize is the cubic grid resolution N (recommended 64, must be a
	// power of two). Zero selects the recommended default.
	GridSize int
}

// NewParticleMesh returns a Particle-Mesh solver with the recommended grid
// size.
func NewParticleMesh() *ParticleMesh { return &ParticleMesh{GridSize: 64} }

func (s *ParticleMesh) Compute(world sim.World, bodies []*sim.Body, diag *sim.Diagnostics) {
	// An absorbed body must drop out of both CIC assignment and the final
	// interpolation (§4.1.1: "both active"), or its mass — already folded
	// into the body that absorbed it — keeps being deposited onto the mesh
	// for the rest of the frame.
	active := activeOnly(bodies)
	n := len(active)
	if n == 0 {
		return
	}
	if n < directFallbackThreshold {
		computeDirect(active)
		if diag != nil {
			diag.Set(sim.KeyStrategy, "Particle-Mesh")
			diag.Set(sim.KeyGridSize, 0)
			diag.Set(sim.KeyBodies, n)
		}
		return
	}

	gridN := s.GridSize
	if gridN <= 0 {
		gridN = 64
	}

	min, max := boundingBox(active)
	// Pad by 10% to reduce boundary bias, then square up into a cube.
	ext := max.Sub(min)
	padded := ext.Mul(1.1)
	center := min.Add(max).Mul(0.5)
	side := padded[0]
	if padded[1] > side {
		side = padded[1]
	}
	if padded[2] > side {
		side = padded[2]
	}
	if side <= 0 {
		side = 1
	}
	origin := center.Sub(sim.NewVector3(side/2, side/2, side/2))
	h := side / float64(gridN)

	grid := newPMGrid(gridN)
	grid.assign(active, origin, h)
	grid.solve(side)
	grid.interpolate(active, origin, h)

	if diag != nil {
		diag.Set(sim.KeyStrategy, "Particle-Mesh")
		diag.Set(sim.KeyGridSize, gridN)
		diag.Set(sim.KeyBodies, n)
	}
}

// pmGrid owns the density and acceleration-spectrum buffers for one call
// to ParticleMesh.Compute; it is created anew per call (§3: "Trees, grids,
// FFT buffers ... are owned by their component and are created anew per
// call").
type pmGrid struct {
	n       int
	density []complex128
	ax, ay, az []complex128
	fft *fourier.CmplxFFT
}

func newPMGrid(n int) *pmGrid {
	size := n * n * n
	return &pmGrid{
		n:       n,
		density: make([]complex128, size),
		ax:      make([]complex128, size),
		ay:      make([]complex128, size),
		az:      make([]complex128, size),
		fft:     fourier.NewCmplxFFT(n),
	}
}

func (g *pmGrid) index(x, y, z int) int {
	n := g.n
	x = ((x % n) + n) % n
	y = ((y % n) + n) % n
	z = ((z % n) + n) % n
	return x + n*(y+n*z)
}

// assign distributes each body's mass across the 8 enclosing grid vertices
// with trilinear (Cloud-in-Cell) weights (§4.1.3 step 2).
func (g *pmGrid) assign(bodies []*sim.Body, origin sim.Vector3, h float64) {
	for _, b := range bodies {
		gx := (b.Position[0] - origin[0]) / h
		gy := (b.Position[1] - origin[1]) / h
		gz := (b.Position[2] - origin[2]) / h
		x0, fx := splitFrac(gx)
		y0, fy := splitFrac(gy)
		z0, fz := splitFrac(gz)
		for dx := 0; dx <= 1; dx++ {
			wx := lerpWeight(fx, dx)
			for dy := 0; dy <= 1; dy++ {
				wy := lerpWeight(fy, dy)
				for dz := 0; dz <= 1; dz++ {
					wz := lerpWeight(fz, dz)
					w := wx * wy * wz
					if w == 0 {
						continue
					}
					idx := g.index(x0+dx, y0+dy, z0+dz)
					g.density[idx] += complex(b.Mass*w, 0)
				}
			}
		}
	}
}

func splitFrac(v float64) (int, float64) {
	fl := math.Floor(v)
	return int(fl), v - fl
}

func lerpWeight(frac float64, bit int) float64 {
	if bit == 0 {
		return 1 - frac
	}
	return frac
}

// solve runs the forward FFT, multiplies by the spectral Poisson kernel and
// inverse-transforms to produce a real acceleration field on the mesh
// (§4.1.3 steps 3-5). side is the physical length of the cubic domain.
func (g *pmGrid) solve(side float64) {
	g.fft3(g.density, false)

	n := g.n
	kScale := 2 * math.Pi / side
	for iz := 0; iz < n; iz++ {
		kz := wavenumber(iz, n) * kScale
		for iy := 0; iy < n; iy++ {
			ky := wavenumber(iy, n) * kScale
			for ix := 0; ix < n; ix++ {
				kx := wavenumber(ix, n) * kScale
				k2 := kx*kx + ky*ky + kz*kz
				idx := g.index(ix, iy, iz)
				rho := g.density[idx]
				if k2 == 0 {
					g.ax[idx] = 0
					g.ay[idx] = 0
					g.az[idx] = 0
					continue
				}
				coeff := complex(0, 4*math.Pi*sim.G/k2)
				g.ax[idx] = coeff * complex(kx, 0) * rho
				g.ay[idx] = coeff * complex(ky, 0) * rho
				g.az[idx] = coeff * complex(kz, 0) * rho
			}
		}
	}

	g.fft3(g.ax, true)
	g.fft3(g.ay, true)
	g.fft3(g.az, true)
}

// wavenumber returns the unscaled integer wavenumber for grid index i of n
// (§4.1.3 step 4): i for i <= n/2, else i-n. The caller scales by 2*pi/L.
func wavenumber(i, n int) float64 {
	if i <= n/2 {
		return float64(i)
	}
	return float64(i - n)
}

// fft3 applies a separable 3D FFT (or its inverse) in place, one axis at a
// time (§4.1.3 step 3: "Forward 3D FFT of the real mass grid (separable 1D
// FFTs along X, Y, Z)").
func (g *pmGrid) fft3(data []complex128, inverse bool) {
	n := g.n
	line := make([]complex128, n)
	transform := func(dst, src []complex128) {
		if inverse {
			g.fft.Sequence(dst, src)
		} else {
			g.fft.Coefficients(dst, src)
		}
	}

	// X axis.
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			base := n * (y + n*z)
			copy(line, data[base:base+n])
			out := make([]complex128, n)
			transform(out, line)
			copy(data[base:base+n], out)
		}
	}
	// Y axis.
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			for y := 0; y < n; y++ {
				line[y] = data[g.index(x, y, z)]
			}
			out := make([]complex128, n)
			transform(out, line)
			for y := 0; y < n; y++ {
				data[g.index(x, y, z)] = out[y]
			}
		}
	}
	// Z axis.
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			for z := 0; z < n; z++ {
				line[z] = data[g.index(x, y, z)]
			}
			out := make([]complex128, n)
			transform(out, line)
			for z := 0; z < n; z++ {
				data[g.index(x, y, z)] = out[z]
			}
		}
	}
}

// interpolate reads the acceleration mesh back onto each body using the
// same trilinear kernel used for assignment (§4.1.3 step 6).
func (g *pmGrid) interpolate(bodies []*sim.Body, origin sim.Vector3, h float64) {
	for _, b := range bodies {
		gx := (b.Position[0] - origin[0]) / h
		gy := (b.Position[1] - origin[1]) / h
		gz := (b.Position[2] - origin[2]) / h
		x0, fx := splitFrac(gx)
		y0, fy := splitFrac(gy)
		z0, fz := splitFrac(gz)
		var acc sim.Vector3
		for dx := 0; dx <= 1; dx++ {
			wx := lerpWeight(fx, dx)
			for dy := 0; dy <= 1; dy++ {
				wy := lerpWeight(fy, dy)
				for dz := 0; dz <= 1; dz++ {
					wz := lerpWeight(fz, dz)
					w := wx * wy * wz
					if w == 0 {
						continue
					}
					idx := g.index(x0+dx, y0+dy, z0+dz)
					acc[0] += w * real(g.ax[idx])
					acc[1] += w * real(g.ay[idx])
					acc[2] += w * real(g.az[idx])
				}
			}
		}
		b.Acceleration = acc
	}
}
