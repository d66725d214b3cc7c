package sim

// Body is the unit of simulation: a point mass with a finite collision
// radius. It is a value record (§9 design note: "body is a value record;
// world is a container") — nothing on the hot path holds a pointer back to
// its World.
type Body struct {
	ID BodyID

	Position     Vector3
	Velocity     Vector3
	Acceleration Vector3

	Mass   float64
	Radius float64

	// Absorbed is sticky: once true it never reverts to false. An absorbed
	// body is removed from the World at the end of the step that set it.
	Absorbed bool

	// Presentation carries color/atmosphere fields through the engine
	// untouched. The core never reads or writes it.
	Presentation Presentation
}

// Presentation bundles the cosmetic fields the renderer cares about. The
// simulation core (this module) never inspects them; they exist only so the
// caller's save/load round-trip doesn't lose data the engine passes through.
type Presentation struct {
	Color             [3]float64
	AtmosphereColor   [3]float64
	AtmosphereThick   float64
}

// NewBody validates and constructs a Body. Mass must be strictly positive,
// radius non-negative, and position/velocity must be finite — invalid input
// is a DomainError, rejected here rather than inside the engine (§7).
func NewBody(id BodyID, position, velocity Vector3, mass, radius float64) (Body, error) {
	if mass <= 0 {
		return Body{}, newDomainError("mass", mass, "must be strictly positive")
	}
	if radius < 0 {
		return Body{}, newDomainError("radius", radius, "must be non-negative")
	}
	if !IsFiniteVector(position) {
		return Body{}, newDomainError("position", position, "must be finite")
	}
	if !IsFiniteVector(velocity) {
		return Body{}, newDomainError("velocity", velocity, "must be finite")
	}
	return Body{
		ID:       id,
		Position: position,
		Velocity: velocity,
		Mass:     mass,
		Radius:   radius,
	}, nil
}

// Active reports whether the body still participates in the simulation.
func (b *Body) Active() bool {
	return !b.Absorbed
}
