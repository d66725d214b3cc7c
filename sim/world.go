package sim

// G is the gravitational constant, a module-level scalar readable by every
// acceleration strategy and never written (§9 design note).
const G = 6.674e-11

// Viewport is the axis-aligned world box used only for boundary reflection.
type Viewport struct {
	TopLeft     Vector3
	BottomRight Vector3
}

// World is the contract the engine expects from its caller (§6). The
// caller owns body storage; the engine only reads active_bodies and the two
// flags during a step, and calls RemoveBodies once at the end of it.
type World interface {
	// ActiveBodies returns the bodies participating in this step. The
	// sequence is stable for the duration of the step that reads it.
	ActiveBodies() []*Body

	ClosedBoundaries() bool
	ElasticCollisions() bool
	Viewport() Viewport

	// RemoveBodies drops every body whose id is in the given set. Called by
	// the engine once at the end of a step, after substeps have run; a step
	// that is skipped or aborted does not call it.
	RemoveBodies(absorbed map[BodyID]bool)
}

// BasicWorld is a minimal, directly usable World implementation backed by a
// slice of bodies. It is what the engine's own tests and examples construct;
// applications with richer storage (e.g. an ECS) implement World themselves.
type BasicWorld struct {
	bodies    []*Body
	closed    bool
	elastic   bool
	viewport  Viewport
}

// NewBasicWorld creates a world over the given bodies.
func NewBasicWorld(bodies []*Body, closedBoundaries, elasticCollisions bool, viewport Viewport) *BasicWorld {
	return &BasicWorld{
		bodies:   bodies,
		closed:   closedBoundaries,
		elastic:  elasticCollisions,
		viewport: viewport,
	}
}

func (w *BasicWorld) ActiveBodies() []*Body {
	out := make([]*Body, 0, len(w.bodies))
	for _, b := range w.bodies {
		if b.Active() {
			out = append(out, b)
		}
	}
	return out
}

func (w *BasicWorld) ClosedBoundaries() bool  { return w.closed }
func (w *BasicWorld) ElasticCollisions() bool { return w.elastic }
func (w *BasicWorld) Viewport() Viewport       { return w.viewport }

func (w *BasicWorld) RemoveBodies(absorbed map[BodyID]bool) {
	if len(absorbed) == 0 {
		return
	}
	kept := w.bodies[:0]
	for _, b := range w.bodies {
		if absorbed[b.ID] {
			continue
		}
		kept = append(kept, b)
	}
	w.bodies = kept
}

// AllBodies returns every body this world holds, including absorbed ones
// (useful for callers that persist state after a step).
func (w *BasicWorld) AllBodies() []*Body {
	return w.bodies
}
