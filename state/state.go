// Package state persists the engine-visible record described in §6: engine
// kind, integrator kind, oversampler kind, world flags, viewport bounds, and
// per-body id/position/velocity/mass/radius. Load/Save follow the teacher's
// os.ReadFile/os.WriteFile preset pattern (mod_presets.go's SavePreset/
// LoadPreset), swapped from JSON to YAML since the engine's State is a flat
// record rather than an entity graph needing id remapping.
package state

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gekko3d/gravity/engine"
	"github.com/gekko3d/gravity/sim"
)

// BodyRecord is one body's persisted fields (§6: "for each body: id,
// position, velocity, mass, radius"). Presentation fields round-trip too,
// since the engine passes them through untouched (§3).
type BodyRecord struct {
	ID       sim.BodyID  `yaml:"id"`
	Position sim.Vector3 `yaml:"position"`
	Velocity sim.Vector3 `yaml:"velocity"`
	Mass     float64     `yaml:"mass"`
	Radius   float64     `yaml:"radius"`

	Color           [3]float64 `yaml:"color,omitempty"`
	AtmosphereColor [3]float64 `yaml:"atmosphere_color,omitempty"`
	AtmosphereThick float64    `yaml:"atmosphere_thickness,omitempty"`
}

// State is the abstract record described in §6, independent of any running
// Engine or World instance.
type State struct {
	EngineKind      engine.Kind            `yaml:"engine_kind"`
	IntegratorKind  engine.IntegratorKind  `yaml:"integrator_kind"`
	OversamplerKind engine.OversamplerKind `yaml:"oversampler_kind"`
	StaticSubsteps  int                    `yaml:"static_substeps,omitempty"`

	ClosedBoundaries  bool `yaml:"closed_boundaries"`
	ElasticCollisions bool `yaml:"elastic_collisions"`

	ViewportTopLeft     sim.Vector3 `yaml:"viewport_top_left"`
	ViewportBottomRight sim.Vector3 `yaml:"viewport_bottom_right"`

	Bodies []BodyRecord `yaml:"bodies"`
}

// FromWorld captures a State snapshot of a running world plus the selectors
// used to build its engine.
func FromWorld(world sim.World, engineKind engine.Kind, integratorKind engine.IntegratorKind, oversamplerKind engine.OversamplerKind, staticSubsteps int) State {
	viewport := world.Viewport()
	all := world.ActiveBodies()
	records := make([]BodyRecord, 0, len(all))
	for _, b := range all {
		records = append(records, bodyToRecord(b))
	}
	return State{
		EngineKind:          engineKind,
		IntegratorKind:      integratorKind,
		OversamplerKind:     oversamplerKind,
		StaticSubsteps:      staticSubsteps,
		ClosedBoundaries:    world.ClosedBoundaries(),
		ElasticCollisions:   world.ElasticCollisions(),
		ViewportTopLeft:     viewport.TopLeft,
		ViewportBottomRight: viewport.BottomRight,
		Bodies:              records,
	}
}

func bodyToRecord(b *sim.Body) BodyRecord {
	return BodyRecord{
		ID:              b.ID,
		Position:        b.Position,
		Velocity:        b.Velocity,
		Mass:            b.Mass,
		Radius:          b.Radius,
		Color:           b.Presentation.Color,
		AtmosphereColor: b.Presentation.AtmosphereColor,
		AtmosphereThick: b.Presentation.AtmosphereThick,
	}
}

// ToBodies materializes the persisted records back into sim.Body values. It
// does not validate them through sim.NewBody: a saved state is assumed to
// have originated from validated bodies, and round-tripping must be
// idempotent (§6) rather than re-reject input the engine already accepted.
func (s State) ToBodies() []*sim.Body {
	out := make([]*sim.Body, 0, len(s.Bodies))
	for _, r := range s.Bodies {
		out = append(out, &sim.Body{
			ID:       r.ID,
			Position: r.Position,
			Velocity: r.Velocity,
			Mass:     r.Mass,
			Radius:   r.Radius,
			Presentation: sim.Presentation{
				Color:           r.Color,
				AtmosphereColor: r.AtmosphereColor,
				AtmosphereThick: r.AtmosphereThick,
			},
		})
	}
	return out
}

// World rebuilds a BasicWorld from the persisted record.
func (s State) World() *sim.BasicWorld {
	return sim.NewBasicWorld(s.ToBodies(), s.ClosedBoundaries, s.ElasticCollisions, sim.Viewport{
		TopLeft:     s.ViewportTopLeft,
		BottomRight: s.ViewportBottomRight,
	})
}

// Engine rebuilds the composed Engine selected by this state's kinds.
func (s State) Engine() *engine.Engine {
	return engine.Compose(s.EngineKind, s.IntegratorKind, s.OversamplerKind, s.StaticSubsteps)
}

// Save writes the state to filename as YAML.
func Save(filename string, s State) error {
	bytes, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, bytes, 0644)
}

// Load reads and parses a State from filename.
func Load(filename string) (State, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return State{}, err
	}
	var s State
	if err := yaml.Unmarshal(bytes, &s); err != nil {
		return State{}, err
	}
	return s, nil
}
