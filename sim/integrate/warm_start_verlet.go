package integrate

import (
	"sync"

	"github.com/gekko3d/gravity/sim"
)

// WarmStartVerlet has the same numerics as Leapfrog KDK but caches the
// previous acceleration per body id, skipping the first compute on every
// step after the initial priming call (§4.2). A new id falls back to the
// body's current acceleration instead of a cached value.
type WarmStartVerlet struct {
	mu      sync.Mutex
	cache   map[sim.BodyID]sim.Vector3
	primed  bool
}

func NewWarmStartVerlet() *WarmStartVerlet {
	return &WarmStartVerlet{cache: make(map[sim.BodyID]sim.Vector3)}
}

func (w *WarmStartVerlet) Step(bodies []*sim.Body, dt float64, compute ComputeFunc) {
	w.mu.Lock()
	primed := w.primed
	w.mu.Unlock()

	if !primed {
		compute(bodies)
		w.mu.Lock()
		w.primed = true
		w.mu.Unlock()
	} else {
		w.applyCached(bodies)
	}

	halfKick(bodies, dt)
	drift(bodies, dt)
	compute(bodies)
	halfKick(bodies, dt)

	w.store(bodies)
}

// applyCached restores each body's acceleration from the previous step's
// cache, falling back to whatever is already on the body (its last-computed
// acceleration) when the id was never seen before.
func (w *WarmStartVerlet) applyCached(bodies []*sim.Body) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, b := range bodies {
		if a, ok := w.cache[b.ID]; ok {
			b.Acceleration = a
		}
	}
}

func (w *WarmStartVerlet) store(bodies []*sim.Body) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, b := range bodies {
		w.cache[b.ID] = b.Acceleration
	}
}
