package integrate

import (
	"github.com/gekko3d/gravity/sim"
	"github.com/gekko3d/gravity/sim/internal/parallel"
)

// RK4 is the classic fourth-order Runge-Kutta integrator (§4.2): snapshot
// (x0, v0), evaluate acceleration four times at progressively shifted
// positions, combine with weights (1,2,2,1)/6. Position is temporarily
// mutated during stage evaluation and restored before the final commit.
type RK4 struct{}

func NewRK4() *RK4 { return &RK4{} }

type rk4State struct {
	x0, v0 sim.Vector3
	kx     [4]sim.Vector3 // stage velocity (dx/dt)
	kv     [4]sim.Vector3 // stage acceleration (dv/dt)
}

func (r *RK4) Step(bodies []*sim.Body, dt float64, compute ComputeFunc) {
	n := len(bodies)
	states := make([]rk4State, n)
	active := make([]bool, n)

	for i, b := range bodies {
		active[i] = !b.Absorbed
		states[i].x0 = b.Position
		states[i].v0 = b.Velocity
	}

	// Stage 1: at (x0, v0).
	evalStage(bodies, states, active, 0, dt, 0, compute)
	// Stage 2: at (x0 + k1x*dt/2, v0 + k1v*dt/2).
	evalStage(bodies, states, active, 1, dt, 0.5, compute)
	// Stage 3: at (x0 + k2x*dt/2, v0 + k2v*dt/2).
	evalStage(bodies, states, active, 2, dt, 0.5, compute)
	// Stage 4: at (x0 + k3x*dt, v0 + k3v*dt).
	evalStage(bodies, states, active, 3, dt, 1.0, compute)

	parallel.For(n, func(i int) {
		if !active[i] {
			return
		}
		st := states[i]
		dx := st.kx[0].Add(st.kx[1].Mul(2)).Add(st.kx[2].Mul(2)).Add(st.kx[3]).Mul(dt / 6)
		dv := st.kv[0].Add(st.kv[1].Mul(2)).Add(st.kv[2].Mul(2)).Add(st.kv[3]).Mul(dt / 6)
		bodies[i].Position = st.x0.Add(dx)
		bodies[i].Velocity = st.v0.Add(dv)
	})
}

// evalStage mutates each active body's position/velocity to the stage
// sample point, invokes compute to get that stage's acceleration and
// records kx/kv. Every sample point is offset from the snapshot (x0, v0),
// never from the previous stage's point, so stages do not compound.
func evalStage(bodies []*sim.Body, states []rk4State, active []bool, stage int, dt, frac float64, compute ComputeFunc) {
	n := len(bodies)
	parallel.For(n, func(i int) {
		if !active[i] {
			return
		}
		st := &states[i]
		b := bodies[i]
		if stage == 0 {
			b.Position = st.x0
			b.Velocity = st.v0
			return
		}
		prevV := st.kv[stage-1]
		prevX := st.kx[stage-1]
		b.Position = st.x0.Add(prevX.Mul(frac * dt))
		b.Velocity = st.v0.Add(prevV.Mul(frac * dt))
	})

	compute(bodies)

	parallel.For(n, func(i int) {
		if !active[i] {
			return
		}
		st := &states[i]
		b := bodies[i]
		st.kx[stage] = b.Velocity
		st.kv[stage] = b.Acceleration
	})
}
